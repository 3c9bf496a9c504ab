package router

import (
	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/auth"
	"github.com/zombieland/zombieland-api/internal/handler"
	"github.com/zombieland/zombieland-api/internal/middleware"
)

// RegisterAdmin registers the back-office endpoints under /v1/admin.
// The whole group requires the ADMIN role; the requirement is stated
// here, at registration, so a reviewer can audit access from this one
// file.
func RegisterAdmin(
	e *echo.Echo,
	reservations *handler.AdminReservationHandler,
	users *handler.AdminUserHandler,
	prices *handler.PriceHandler,
	visitDates *handler.VisitDateHandler,
	activities *handler.ActivityHandler,
	conversations *handler.ConversationHandler,
	authmw echo.MiddlewareFunc,
) {
	g := e.Group("/v1/admin")
	g.Use(authmw)
	g.Use(middleware.RequireRole(auth.RoleAdmin))

	// Reservations across all users.
	g.GET("/reservations", reservations.List)
	g.GET("/reservations/:id", reservations.Get)
	g.PATCH("/reservations/:id/status", reservations.UpdateStatus)
	g.DELETE("/reservations/:id", reservations.Delete)

	// Account management.
	g.GET("/users", users.List)
	g.GET("/users/:id", users.Get)
	g.PATCH("/users/:id/role", users.UpdateRole)
	g.PATCH("/users/:id/active", users.SetActive)
	g.DELETE("/users/:id", users.Delete)

	// Catalogue writes; the public group serves the reads.
	g.POST("/prices", prices.Create)
	g.PUT("/prices/:id", prices.Update)
	g.DELETE("/prices/:id", prices.Delete)

	g.POST("/visit-dates", visitDates.Create)
	g.PUT("/visit-dates/:id", visitDates.Update)
	g.DELETE("/visit-dates/:id", visitDates.Delete)

	g.POST("/activities", activities.Create)
	g.PUT("/activities/:id", activities.Update)
	g.DELETE("/activities/:id", activities.Delete)

	// Support threads.
	g.GET("/conversations", conversations.ListAll)
	g.PATCH("/conversations/:id/status", conversations.SetStatus)
}
