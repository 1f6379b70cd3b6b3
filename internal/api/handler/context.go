package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eventsphere/campus-events/internal/api/middleware"
	"github.com/eventsphere/campus-events/internal/core/domain"
)

// ctxSession returns the client session bound by the Session middleware.
// Its absence means the route was mounted without the middleware.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
	}
	return s, nil
}

// ctxActor returns the resolved identity of the request, anonymous when none.
func ctxActor(c echo.Context) domain.Identity {
	return middleware.IdentityFrom(c)
}

// queryLimit parses the optional ?limit= parameter; 0 means no limit.
func queryLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
	}
	return n, nil
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
