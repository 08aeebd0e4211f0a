package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/auth"
	apierrors "github.com/localfeat/backend/internal/errors"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/middleware"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/util"
	"go.uber.org/zap"
)

const forgotPasswordMessage = "If an account with that email exists, we've sent you a password reset link."

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// startSession creates a server-side session and sets the cookie
func (h *Handlers) startSession(c *gin.Context, user *models.User) error {
	session, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		return err
	}
	h.cookie.Set(c, session)
	c.Set(util.ContextUserID, user.ID)
	c.Set(util.ContextUser, user)
	return nil
}

// Register creates an account and signs it in
// POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, "Invalid registration data", err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			metrics.Get().App.AuthAttempts.WithLabelValues("register", "conflict").Inc()
			util.RespondBadRequest(c, "User with this email or username already exists")
			return
		}
		util.RespondInternalError(c, "Registration failed", err)
		return
	}

	if err := h.startSession(c, user); err != nil {
		util.RespondInternalError(c, "Registration failed", err)
		return
	}

	metrics.Get().App.AuthAttempts.WithLabelValues("register", "success").Inc()
	logger.Log.Info("User registered", logger.WithUserID(user.ID), zap.String("username", user.Username))
	c.JSON(http.StatusCreated, user.Public())
}

// Login signs in with an email or username
// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, "Invalid login data", err)
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.Get().App.AuthAttempts.WithLabelValues("password", "failure").Inc()
			util.RespondUnauthorized(c, "Invalid email/username or password")
			return
		}
		util.RespondInternalError(c, "Login failed", err)
		return
	}

	if err := h.startSession(c, user); err != nil {
		util.RespondInternalError(c, "Login failed", err)
		return
	}

	metrics.Get().App.AuthAttempts.WithLabelValues("password", "success").Inc()
	c.JSON(http.StatusOK, user.Public())
}

// Logout destroys the session and clears the cookie
// POST /api/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	if sessionID := middleware.SessionIDFromContext(c); sessionID != "" {
		if err := h.sessions.Destroy(c.Request.Context(), sessionID); err != nil {
			util.RespondInternalError(c, "Logout failed", err)
			return
		}
	}
	h.cookie.Clear(c)
	util.RespondMessage(c, "Logged out successfully")
}

// CurrentUser returns the signed-in user, or null
// GET /api/auth/user
func (h *Handlers) CurrentUser(c *gin.Context) {
	user, ok := util.OptionalUser(c)
	if !ok {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// GetUser returns another user's public fields
// GET /api/users/:userId
func (h *Handlers) GetUser(c *gin.Context) {
	user, err := h.repos.Users.GetUser(c.Request.Context(), c.Param("userId"))
	if util.HandleDBError(c, err, "User", repository.ErrUserNotFound) {
		return
	}
	c.JSON(http.StatusOK, user.Summary())
}

// ForgotPassword issues a reset token. The answer is the same whether or not the email is known.
// POST /api/auth/forgot-password
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, "Email is required", err)
		return
	}

	reset, user, err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		util.RespondInternalError(c, "Failed to process password reset request", err)
		return
	}

	if reset != nil {
		metrics.Get().App.PasswordResets.Inc()
		if err := h.mailer.SendPasswordResetEmail(c.Request.Context(), user.Email, reset.Token); err != nil {
			logger.Log.Error("Failed to send password reset email", logger.WithUserID(user.ID), zap.Error(err))
		}
	}

	util.RespondMessage(c, forgotPasswordMessage)
}

// ResetPassword sets a new password using a reset token
// POST /api/auth/reset-password
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, "Invalid reset request", err)
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidResetToken) {
			util.RespondBadRequest(c, "Invalid or expired reset token")
			return
		}
		util.RespondInternalError(c, "Failed to reset password", err)
		return
	}

	util.RespondMessage(c, "Password has been reset successfully")
}

// ValidateResetToken lets the reset page check a link before showing the form
// GET /api/auth/validate-reset-token/:token
func (h *Handlers) ValidateResetToken(c *gin.Context) {
	err := h.auth.ValidateResetToken(c.Request.Context(), c.Param("token"))
	if errors.Is(err, auth.ErrInvalidResetToken) {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "Invalid or expired reset token"})
		return
	}
	if err != nil {
		util.RespondInternalError(c, "Failed to validate reset token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// GoogleLogin redirects to Google's consent screen
// GET /api/auth/google
func (h *Handlers) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		util.RespondWithAPIError(c, apierrors.ServiceUnavailable("Google sign-in"))
		return
	}
	url, err := h.google.AuthCodeURL()
	if err != nil {
		util.RespondInternalError(c, "Failed to start Google sign-in", err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback finishes the OAuth flow and signs the user in
// GET /api/auth/google/callback
func (h *Handlers) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		util.RespondWithAPIError(c, apierrors.ServiceUnavailable("Google sign-in"))
		return
	}

	if err := h.google.VerifyState(c.Query("state")); err != nil {
		metrics.Get().App.AuthAttempts.WithLabelValues("google", "invalid_state").Inc()
		util.RespondBadRequest(c, "Invalid OAuth state")
		return
	}
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		util.RespondBadRequest(c, "Authorization code is required")
		return
	}

	info, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		metrics.Get().App.AuthAttempts.WithLabelValues("google", "failure").Inc()
		util.RespondUnauthorized(c, "Google authentication failed")
		_ = c.Error(err)
		return
	}

	user, err := h.auth.FindOrCreateGoogleUser(c.Request.Context(), info)
	if err != nil {
		util.RespondInternalError(c, "Google authentication failed", err)
		return
	}
	if err := h.startSession(c, user); err != nil {
		util.RespondInternalError(c, "Google authentication failed", err)
		return
	}

	metrics.Get().App.AuthAttempts.WithLabelValues("google", "success").Inc()
	c.Redirect(http.StatusFound, "/")
}
