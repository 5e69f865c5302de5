package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
)

// OK writes the standard success envelope with a data payload.
func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// Message writes the standard success envelope with a message only.
func Message(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": true, "message": message})
}

// HTTPErrorHandler is the global echo error handler. It translates the
// application error taxonomy (and persistence-layer errors) into JSON
// error envelopes; unexpected errors are logged and surfaced as a
// generic 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		_ = c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
		return
	}

	status, code, message := mapError(err)
	if status == http.StatusInternalServerError {
		slog.Error("unhandled error",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}
	if jsonErr := c.JSON(status, echo.Map{"error": code, "message": message}); jsonErr != nil {
		slog.Error("failed to send error response", "error", jsonErr)
	}
}

func mapError(err error) (status int, code, message string) {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, http.StatusText(echoErr.Code), msg
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not_found", "The requested resource was not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "Authentication is required"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "forbidden", "You do not have permission to perform this action"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", "The request is invalid"
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, "conflict", "The resource already exists or conflicts with current state"
	case errors.Is(err, apperrors.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large", "The upload exceeds the allowed size"
	default:
		return http.StatusInternalServerError, "internal_error", "An unexpected error occurred"
	}
}
