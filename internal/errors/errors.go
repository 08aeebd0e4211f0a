package errors

import (
	"fmt"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Details string    `json:"details,omitempty"`
	Status  int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newAPIError(code ErrorCode, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  code.StatusCode(),
	}
}

// NotFound creates a NOT_FOUND error, e.g. NotFound("Post") -> "Post not found"
func NotFound(resource string) *APIError {
	return newAPIError(ErrNotFound, fmt.Sprintf("%s not found", resource))
}

func Unauthorized(message string) *APIError {
	return newAPIError(ErrUnauthorized, message)
}

func Forbidden(message string) *APIError {
	return newAPIError(ErrForbidden, message)
}

func Conflict(message string) *APIError {
	return newAPIError(ErrConflict, message)
}

// ValidationError creates a VALIDATION_ERROR tied to a request field
func ValidationError(field, message string) *APIError {
	e := newAPIError(ErrValidation, message)
	e.Field = field
	return e
}

func BadRequest(message string) *APIError {
	return newAPIError(ErrBadRequest, message)
}

// ContentBlocked is returned when the content filter rejects user text
func ContentBlocked(message string) *APIError {
	return newAPIError(ErrContentBlocked, message)
}

func InternalError(message string) *APIError {
	return newAPIError(ErrInternalError, message)
}

// ServiceUnavailable creates a SERVICE_UNAVAILABLE error
func ServiceUnavailable(service string) *APIError {
	return newAPIError(ErrServiceUnavail, fmt.Sprintf("%s is temporarily unavailable", service))
}

// WithDetails adds additional details to an error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}
