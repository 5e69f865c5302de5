package validators

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
)

// AppValidator adapts go-playground/validator to echo's Validator interface.
type AppValidator struct {
	validate *validator.Validate
}

// NewValidator creates a new AppValidator.
func NewValidator() *AppValidator {
	return &AppValidator{validate: validator.New()}
}

// Validate validates a struct and converts tag failures into the
// field-level validation error consumed by the error handler.
func (v *AppValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.ErrInvalidInput
	}

	out := &apperrors.ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, apperrors.FieldError{
			Path:    strings.ToLower(fe.Field()),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
