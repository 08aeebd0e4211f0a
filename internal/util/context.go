package util

import (
	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/models"
)

// Context keys set by the session middleware
const (
	ContextUserID = "user_id"
	ContextUser   = "user"
)

// GetUserIDFromContext extracts the user ID from the Gin context.
// If the user is not authenticated, it responds with 401.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		RespondUnauthorized(c)
		return "", false
	}
	return userID, true
}

// OptionalUser returns the session user if there is one, without writing a response
func OptionalUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}
