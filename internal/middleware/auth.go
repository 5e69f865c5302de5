package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
	"github.com/dkrasnov/markethub/backend/internal/token"
)

const (
	// AccessCookieName is the short-lived access token cookie.
	AccessCookieName = "access_token"
	// RefreshCookieName is the refresh token cookie, scoped to the refresh path.
	RefreshCookieName = "refresh_token"

	contextKeyUserID = "user_id"
)

// Auth requires a valid access token (cookie, or Bearer header as a
// fallback) and injects the user ID into the echo context.
func Auth(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractAccessToken(c)
			if raw == "" {
				return apperrors.ErrUnauthorized
			}
			userID, err := tokens.VerifyAccess(raw)
			if err != nil {
				return apperrors.ErrUnauthorized
			}
			c.Set(contextKeyUserID, userID)
			return next(c)
		}
	}
}

// OptionalAuth injects the user ID when a valid access token is present
// and continues anonymously otherwise. Used by list endpoints that
// annotate results per caller.
func OptionalAuth(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := extractAccessToken(c); raw != "" {
				if userID, err := tokens.VerifyAccess(raw); err == nil {
					c.Set(contextKeyUserID, userID)
				}
			}
			return next(c)
		}
	}
}

// UserID extracts the authenticated user ID from the echo context.
// Returns 0 for anonymous requests.
func UserID(c echo.Context) uint {
	id, _ := c.Get(contextKeyUserID).(uint)
	return id
}

func extractAccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
