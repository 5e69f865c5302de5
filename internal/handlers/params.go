package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
)

// idParam parses the :id route parameter.
func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidInput
	}
	return uint(id), nil
}

// offsetParamsFromQuery reads offset, limit, order and search from the
// query string. Malformed numbers fall back to the defaults via Clamp.
func offsetParamsFromQuery(c echo.Context) repositories.OffsetParams {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	params := repositories.OffsetParams{
		Offset: offset,
		Limit:  limit,
		Order:  c.QueryParam("order"),
		Search: c.QueryParam("search"),
	}
	params.Clamp()
	return params
}

// cursorParamsFromQuery reads limit and cursor from the query string.
func cursorParamsFromQuery(c echo.Context) repositories.CursorParams {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	cursor, _ := strconv.ParseUint(c.QueryParam("cursor"), 10, 32)
	params := repositories.CursorParams{
		Limit:  limit,
		Cursor: uint(cursor),
	}
	params.Clamp()
	return params
}
