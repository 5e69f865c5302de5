package middleware

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
)

const contextKeyResource = "resource"

// Owned is any resource with an immutable owner.
type Owned interface {
	OwnerID() uint
}

// Loader fetches a resource by ID for the ownership guard. Each resource
// type registers its own loader at route setup.
type Loader func(c echo.Context, id uint) (Owned, error)

// RequireOwner loads the resource named by the :id path param, fails with
// NotFound when absent and Forbidden when the authenticated principal is
// not its owner, and stashes the loaded resource in the context so the
// downstream handler does not fetch it again.
func RequireOwner(load Loader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			resource, err := loadFromParam(c, load)
			if err != nil {
				return err
			}
			if resource.OwnerID() != UserID(c) {
				return apperrors.ErrForbidden
			}
			c.Set(contextKeyResource, resource)
			return next(c)
		}
	}
}

// RequireExists is the lighter variant used where ownership is irrelevant,
// e.g. commenting on someone else's article. Only existence is checked.
func RequireExists(load Loader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			resource, err := loadFromParam(c, load)
			if err != nil {
				return err
			}
			c.Set(contextKeyResource, resource)
			return next(c)
		}
	}
}

// Resource returns the resource loaded by RequireOwner/RequireExists.
func Resource(c echo.Context) Owned {
	resource, _ := c.Get(contextKeyResource).(Owned)
	return resource
}

func loadFromParam(c echo.Context, load Loader) (Owned, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, apperrors.ErrInvalidInput
	}
	resource, err := load(c, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return resource, nil
}
