package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/errors"
	"github.com/localfeat/backend/internal/logger"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of every error. Message is always present.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is the body of simple confirmations, e.g. {"message": "Post deleted successfully"}
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondWithAPIError sends a structured API error response
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	fields := []zap.Field{
		zap.String("code", string(apiErr.Code)),
		zap.String("message", apiErr.Message),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", apiErr.Status),
	}
	if apiErr.Field != "" {
		fields = append(fields, zap.String("field", apiErr.Field))
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok {
			fields = append(fields, logger.WithRequestID(id))
		}
	}

	if apiErr.Status >= http.StatusInternalServerError {
		logger.Log.Error("API error", fields...)
	} else if apiErr.Status >= http.StatusBadRequest {
		logger.Log.Warn("API error", fields...)
	}

	c.AbortWithStatusJSON(apiErr.Status, ErrorResponse{
		Code:    string(apiErr.Code),
		Message: apiErr.Message,
		Field:   apiErr.Field,
		Details: apiErr.Details,
	})
}

// RespondMessage sends 200 with {"message": msg}
func RespondMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// RespondUnauthorized sends a 401 Unauthorized response
func RespondUnauthorized(c *gin.Context, message ...string) {
	msg := "Not authenticated"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.Unauthorized(msg))
}

// RespondNotFound sends a 404 with "<resource> not found"
func RespondNotFound(c *gin.Context, resource string) {
	RespondWithAPIError(c, errors.NotFound(resource))
}

func RespondBadRequest(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.BadRequest(message))
}

func RespondForbidden(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.Forbidden(message))
}

// RespondInternalError logs err server-side and sends a 500 carrying only the generic message
func RespondInternalError(c *gin.Context, message string, err error) {
	if err != nil {
		logger.Log.Error(message,
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(err)
	}
	RespondWithAPIError(c, errors.InternalError(message))
}

func RespondValidationError(c *gin.Context, field, message string) {
	RespondWithAPIError(c, errors.ValidationError(field, message))
}

func RespondContentBlocked(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.ContentBlocked(message))
}
