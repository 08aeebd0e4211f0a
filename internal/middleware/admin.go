package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/util"
)

// AdminSecretHeader carries the shared secret for bot administration routes
const AdminSecretHeader = "X-Admin-Secret"

// RequireAdminSecret rejects requests whose X-Admin-Secret header does not match secret.
// An empty configured secret rejects everything.
func RequireAdminSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(AdminSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			util.RespondUnauthorized(c, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}
