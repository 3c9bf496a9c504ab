package middleware

// principal.go carries the request principal through the echo context.
// The principal is set exactly once by JWTAuth and read back through the
// typed accessor below; handlers never poke at raw context keys.

import (
	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/auth"
)

// principalKey is the context key under which the resolved principal is
// stored for the lifetime of a request.
const principalKey = "principal"

// setPrincipal attaches the resolved principal to the request context.
func setPrincipal(c echo.Context, p auth.Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal returns the principal resolved by JWTAuth for this
// request.  The boolean is false on unauthenticated routes or when the
// middleware chain was misconfigured.
func CurrentPrincipal(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}
