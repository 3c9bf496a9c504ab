package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/repository"
)

// VisitDateHandler manages the park calendar: which days can be booked
// and how many admissions each day holds.
type VisitDateHandler struct {
	VisitDates   *repository.VisitDateRepo
	Reservations *repository.ReservationRepo
}

func NewVisitDateHandler(vd *repository.VisitDateRepo, res *repository.ReservationRepo) *VisitDateHandler {
	return &VisitDateHandler{VisitDates: vd, Reservations: res}
}

type createVisitDateReq struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Capacity uint32 `json:"capacity"`
	IsOpen   *bool  `json:"is_open"`
}

type updateVisitDateReq struct {
	Capacity uint32 `json:"capacity"`
	IsOpen   *bool  `json:"is_open"`
}

// List handles GET /v1/visit-dates.  Only upcoming days are returned;
// the past is of no use to someone picking a visit day.
func (h *VisitDateHandler) List(c echo.Context) error {
	items, err := h.VisitDates.ListUpcoming(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load visit dates"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Get handles GET /v1/visit-dates/:id.
func (h *VisitDateHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit date id"})
	}
	vd, err := h.VisitDates.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "visit date not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch visit date"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": vd})
}

// Create handles POST /v1/admin/visit-dates.
func (h *VisitDateHandler) Create(c echo.Context) error {
	var req createVisitDateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.Date), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	isOpen := true
	if req.IsOpen != nil {
		isOpen = *req.IsOpen
	}
	id, err := h.VisitDates.Create(c.Request().Context(), date, req.Capacity, isOpen)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "visit date already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create visit date"})
	}
	vd, err := h.VisitDates.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch visit date"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": vd})
}

// Update handles PUT /v1/admin/visit-dates/:id.  The day itself is
// immutable; capacity and open/closed can change.  Closing a day does
// not cancel its reservations, it only blocks new ones.
func (h *VisitDateHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit date id"})
	}
	var req updateVisitDateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	current, err := h.VisitDates.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "visit date not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch visit date"})
	}
	isOpen := current.IsOpen
	if req.IsOpen != nil {
		isOpen = *req.IsOpen
	}
	if err := h.VisitDates.Update(c.Request().Context(), id, req.Capacity, isOpen); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update visit date"})
	}
	vd, err := h.VisitDates.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch visit date"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": vd})
}

// Delete handles DELETE /v1/admin/visit-dates/:id.  A day that already
// has reservations cannot be removed; close it instead.
func (h *VisitDateHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit date id"})
	}
	n, err := h.Reservations.CountForVisitDate(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check reservations"})
	}
	if n > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "visit date has reservations"})
	}
	if err := h.VisitDates.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "visit date not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete visit date"})
	}
	return c.NoContent(http.StatusNoContent)
}
