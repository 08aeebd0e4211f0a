package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/auth"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/util"
	"go.uber.org/zap"
)

// DefaultSessionCookie is the cookie holding the session id
const DefaultSessionCookie = "localfeat.sid"

// contextSessionID holds the raw session id for logout
const contextSessionID = "session_id"

// UserLoader resolves the user a session belongs to
type UserLoader interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// SessionCookie describes how the session cookie is written
type SessionCookie struct {
	Name   string
	Secure bool
}

func (sc SessionCookie) name() string {
	if sc.Name == "" {
		return DefaultSessionCookie
	}
	return sc.Name
}

// Set writes an HttpOnly, SameSite=Lax cookie that expires with the session
func (sc SessionCookie) Set(c *gin.Context, session *models.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.name(), session.ID, maxAge, "/", "", sc.Secure, true)
}

// Clear expires the cookie on the client
func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.name(), "", -1, "/", "", sc.Secure, true)
}

// SessionAuth loads the session user into the context when the cookie names a live session.
// It never rejects; use RequireAuth on protected routes.
func SessionAuth(store auth.SessionStore, users UserLoader, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookie.name())
		if err != nil || sessionID == "" {
			c.Next()
			return
		}
		c.Set(contextSessionID, sessionID)

		ctx := c.Request.Context()
		session, err := store.Get(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, auth.ErrSessionNotFound) {
				logger.Log.Warn("Session lookup failed", zap.Error(err))
			}
			c.Next()
			return
		}

		user, err := users.GetUser(ctx, session.UserID)
		if err != nil {
			logger.Log.Debug("Session user not found", logger.WithUserID(session.UserID), zap.Error(err))
			c.Next()
			return
		}

		c.Set(util.ContextUserID, user.ID)
		c.Set(util.ContextUser, user)
		c.Next()
	}
}

// RequireAuth aborts with 401 unless a session user is present
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := util.OptionalUser(c); !ok {
			util.RespondUnauthorized(c)
			return
		}
		c.Next()
	}
}

// SessionIDFromContext returns the raw session id seen by SessionAuth, if any
func SessionIDFromContext(c *gin.Context) string {
	return c.GetString(contextSessionID)
}
