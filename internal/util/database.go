package util

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HandleDBError maps a repository error to a response.
// notFound lists the sentinel errors that mean 404 in addition to gorm.ErrRecordNotFound.
// Returns true if the error was handled (and a response was sent).
func HandleDBError(c *gin.Context, err error, resourceName string, notFound ...error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		RespondNotFound(c, resourceName)
		return true
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			RespondNotFound(c, resourceName)
			return true
		}
	}

	RespondInternalError(c, "Failed to process "+lowerFirst(resourceName), err)
	return true
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
