package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/itamhq/itam-api/internal/api/middleware"
	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

// actorFrom returns the actor injected by the Auth middleware, or nil for an
// anonymous request. Services decide what anonymous callers may do.
func actorFrom(c echo.Context) *domain.Actor {
	actor, _ := c.Get(middleware.ActorKey).(*domain.Actor)
	return actor
}

// idParam parses the :id path parameter.
func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "id must be a positive integer")
	}
	return id, nil
}

// pageFrom reads skip and limit from the query string. Limit is clamped to
// [1, ports.MaxPageLimit] and defaults to ports.DefaultPageLimit.
func pageFrom(c echo.Context) (ports.Page, error) {
	page := ports.Page{Limit: ports.DefaultPageLimit}

	if raw := c.QueryParam("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return ports.Page{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "skip must be a non-negative integer")
		}
		page.Offset = skip
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return ports.Page{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "limit must be an integer")
		}
		page.Limit = max(limit, 1)
	}

	return page.Normalize(), nil
}
