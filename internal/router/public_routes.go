package router

import (
	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints: the
// price catalogue, the bookable calendar and the attraction list.  These
// are the hottest read paths of the site, so the optional cache
// middleware (Redis-backed, GET-only) is applied here and nowhere else.
func RegisterPublic(e *echo.Echo, prices *handler.PriceHandler, visitDates *handler.VisitDateHandler, activities *handler.ActivityHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}

	g.GET("/prices", prices.List)
	g.GET("/prices/:id", prices.Get)

	g.GET("/visit-dates", visitDates.List)
	g.GET("/visit-dates/:id", visitDates.Get)

	g.GET("/activities", activities.List)
	g.GET("/activities/:id", activities.Get)
}
