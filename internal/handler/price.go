package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/repository"
)

// PriceHandler serves the ticket price catalogue.  Reads are public,
// writes are admin-only (enforced by the route group).
type PriceHandler struct {
	Prices *repository.PriceRepo
}

func NewPriceHandler(p *repository.PriceRepo) *PriceHandler {
	return &PriceHandler{Prices: p}
}

type priceReq struct {
	Label       string  `json:"label"`
	Description *string `json:"description"`
	AmountCents uint32  `json:"amount_cents"`
}

func (r *priceReq) normalize() error {
	r.Label = strings.TrimSpace(r.Label)
	if r.Label == "" {
		return errors.New("label required")
	}
	if r.AmountCents == 0 {
		return errors.New("amount_cents must be positive")
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		if d == "" {
			r.Description = nil
		} else {
			r.Description = &d
		}
	}
	return nil
}

// List handles GET /v1/prices.
func (h *PriceHandler) List(c echo.Context) error {
	items, err := h.Prices.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load prices"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Get handles GET /v1/prices/:id.
func (h *PriceHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price id"})
	}
	p, err := h.Prices.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "price not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch price"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": p})
}

// Create handles POST /v1/admin/prices.
func (h *PriceHandler) Create(c echo.Context) error {
	var req priceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	id, err := h.Prices.Create(c.Request().Context(), req.Label, req.Description, req.AmountCents)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create price"})
	}
	p, err := h.Prices.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch price"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": p})
}

// Update handles PUT /v1/admin/prices/:id.  Price changes never touch
// existing reservations: ticket lines keep the unit amount captured at
// booking time.
func (h *PriceHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price id"})
	}
	var req priceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Prices.Update(c.Request().Context(), id, req.Label, req.Description, req.AmountCents); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "price not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update price"})
	}
	p, err := h.Prices.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch price"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": p})
}

// Delete handles DELETE /v1/admin/prices/:id.  A price referenced by
// existing tickets cannot be removed.
func (h *PriceHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price id"})
	}
	if err := h.Prices.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "price not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "price is referenced by reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete price"})
	}
	return c.NoContent(http.StatusNoContent)
}
