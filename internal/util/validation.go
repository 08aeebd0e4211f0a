package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RespondBindError turns a ShouldBindJSON failure into a 400 naming the first offending field
func RespondBindError(c *gin.Context, fallback string, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		RespondValidationError(c, jsonFieldName(fe), describeFieldError(fe))
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		RespondValidationError(c, typeErr.Field, fmt.Sprintf("%s has the wrong type", typeErr.Field))
		return
	}

	RespondBadRequest(c, fallback)
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func describeFieldError(fe validator.FieldError) string {
	field := jsonFieldName(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return "Please enter a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "eqfield":
		return "Passwords don't match"
	case "latitude", "longitude":
		return fmt.Sprintf("%s is out of range", field)
	default:
		return field + " is invalid"
	}
}
