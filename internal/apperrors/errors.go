package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("resource conflict")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError carries field-level failures for the 400 envelope.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Fields[0].Path + ": " + e.Fields[0].Message
}
