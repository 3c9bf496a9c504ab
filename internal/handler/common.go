package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/auth"
	"github.com/zombieland/zombieland-api/internal/middleware"
)

// errNoPrincipal signals a missing principal in the request context,
// which only happens when the middleware chain is misconfigured.
var errNoPrincipal = errors.New("no principal in context")

// currentPrincipal returns the principal resolved by the JWT middleware.
// Handlers receive identity through this explicit value, never by
// re-reading ambient claims.
func currentPrincipal(c echo.Context) (auth.Principal, error) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return auth.Principal{}, errNoPrincipal
	}
	return p, nil
}

// parseID parses a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}
