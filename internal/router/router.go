package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/handler"
)

// RegisterRoutes registers routes that require neither authentication
// nor a database: currently only the health check used by load
// balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login,
// refresh and logout live under /v1/auth and need no session; /v1/me and
// /v1/auth/logout-all run behind the supplied JWT middleware because they
// act on the authenticated principal.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authmw echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates: the presented refresh token is revoked and a new
	// pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body; it does not require an
	// access token so a client with an expired session can still end it.
	g.POST("/logout", a.Logout)
	g.POST("/logout-all", a.LogoutAll, authmw)

	e.GET("/v1/me", a.Me, authmw)
}
