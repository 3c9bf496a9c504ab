package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/auth"
)

// RequireRole returns a middleware enforcing that the request principal
// satisfies the given role requirement.  The requirement is declared
// explicitly at route registration; an empty requirement lets everyone
// through (see auth.Authorize).  Denial is answered with 403 — it is a
// normal decision, not a server error.  JWTAuth must run earlier in the
// chain so a principal is present.
func RequireRole(roles ...auth.Role) echo.MiddlewareFunc {
	requirement := auth.Requires(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := CurrentPrincipal(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !auth.Authorize(principal, requirement) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
