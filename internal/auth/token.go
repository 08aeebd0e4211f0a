package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateToken returns 32 random bytes as hex, used for session ids and reset tokens
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
