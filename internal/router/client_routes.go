package router

import (
	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/auth"
	"github.com/zombieland/zombieland-api/internal/handler"
	"github.com/zombieland/zombieland-api/internal/middleware"
)

// RegisterClient registers the visitor endpoints under /v1.  Every route
// in this group requires a valid access token; both roles are accepted
// so admins can exercise the visitor flows with their own account.
// Ownership checks inside the handlers keep them out of other people's
// reservations regardless of role group membership here.
func RegisterClient(e *echo.Echo, reservations *handler.ReservationHandler, conversations *handler.ConversationHandler, authmw echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(authmw)
	g.Use(middleware.RequireRole(auth.RoleClient, auth.RoleAdmin))

	g.POST("/reservations", reservations.Create)
	g.GET("/reservations", reservations.ListMine)
	g.GET("/reservations/:id", reservations.Get)
	g.PUT("/reservations/:id", reservations.Update)
	// Cancellation is a status move, not a delete; the record survives.
	g.POST("/reservations/:id/cancel", reservations.Cancel)

	g.POST("/conversations", conversations.Create)
	g.GET("/conversations", conversations.ListMine)
	g.GET("/conversations/:id", conversations.Get)
	g.POST("/conversations/:id/messages", conversations.AddMessage)
}
