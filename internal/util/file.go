package util

import "strings"

// MaxProfileImageBytes caps decoded profile image size
const MaxProfileImageBytes = 5 * 1024 * 1024

// StripDataURL removes a "data:image/png;base64," style prefix if present
func StripDataURL(data string) string {
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		return data[idx+1:]
	}
	return data
}

// EstimatedBase64Size is the decoded size of a base64 payload, estimated without decoding
func EstimatedBase64Size(b64 string) int {
	return len(b64) * 3 / 4
}
