package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventsphere/campus-events/internal/core/service"
)

// RBAC fails fast on routes whose action the resolved identity may not perform.
// It consults the same guard the services enforce, so the route table cannot
// drift from the service checks.
func RBAC(guard service.Guard, action service.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			if identity.IsAnonymous() {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if err := guard.Authorize(identity, action); err != nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
