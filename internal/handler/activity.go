package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/model"
	"github.com/zombieland/zombieland-api/internal/repository"
)

// ActivityHandler serves the attraction catalogue shown on the public
// site.  Reads are public, writes admin-only.
type ActivityHandler struct {
	Activities *repository.ActivityRepo
}

func NewActivityHandler(a *repository.ActivityRepo) *ActivityHandler {
	return &ActivityHandler{Activities: a}
}

type activityReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	MinAge      uint8  `json:"min_age"`
}

func (r *activityReq) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(strings.ToLower(r.Category))
	if r.Name == "" {
		return errors.New("name required")
	}
	if r.Category == "" {
		return errors.New("category required")
	}
	return nil
}

// List handles GET /v1/activities with an optional ?category= filter.
func (h *ActivityHandler) List(c echo.Context) error {
	category := strings.TrimSpace(strings.ToLower(c.QueryParam("category")))
	items, err := h.Activities.List(c.Request().Context(), category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load activities"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Get handles GET /v1/activities/:id.
func (h *ActivityHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	a, err := h.Activities.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch activity"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": a})
}

// Create handles POST /v1/admin/activities.
func (h *ActivityHandler) Create(c echo.Context) error {
	var req activityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	id, err := h.Activities.Create(c.Request().Context(), model.Activity{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		MinAge:      req.MinAge,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create activity"})
	}
	a, err := h.Activities.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch activity"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": a})
}

// Update handles PUT /v1/admin/activities/:id.
func (h *ActivityHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	var req activityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	err = h.Activities.Update(c.Request().Context(), model.Activity{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		MinAge:      req.MinAge,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update activity"})
	}
	a, err := h.Activities.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch activity"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": a})
}

// Delete handles DELETE /v1/admin/activities/:id.
func (h *ActivityHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	if err := h.Activities.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete activity"})
	}
	return c.NoContent(http.StatusNoContent)
}
