package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/auth"
	"github.com/zombieland/zombieland-api/internal/booking"
	"github.com/zombieland/zombieland-api/internal/model"
	"github.com/zombieland/zombieland-api/internal/queue"
	"github.com/zombieland/zombieland-api/internal/repository"
	queue_publisher "github.com/zombieland/zombieland-api/internal/service"
)

// AdminReservationHandler exposes the back-office view of reservations:
// cross-user listing, status moves and hard deletion.
type AdminReservationHandler struct {
	Reservations *repository.ReservationRepo
}

func NewAdminReservationHandler(res *repository.ReservationRepo) *AdminReservationHandler {
	return &AdminReservationHandler{Reservations: res}
}

// List handles GET /v1/admin/reservations with optional ?status= and
// ?visit_date_id= filters.
func (h *AdminReservationHandler) List(c echo.Context) error {
	var status model.ReservationStatus
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		status = model.ReservationStatus(strings.ToUpper(s))
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
		}
	}
	var visitDateID uint64
	if s := strings.TrimSpace(c.QueryParam("visit_date_id")); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit_date_id filter"})
		}
		visitDateID = id
	}

	items, err := h.Reservations.List(c.Request().Context(), status, visitDateID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Get handles GET /v1/admin/reservations/:id regardless of owner.
func (h *AdminReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/admin/reservations/:id/status.  The
// target status must be a valid enum value and the move must be legal
// for the state machine.  Moving to CANCELLED is additionally subject
// to the admin lead-time rule: close to the visit date, even staff can
// no longer cancel on the visitor's behalf.
func (h *AdminReservationHandler) UpdateStatus(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target := model.ReservationStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !target.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx := c.Request().Context()
	now := time.Now().UTC()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if res.Status == target {
		// No-op moves succeed without touching the row or the broker.
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
		}
		committed = true
		return c.JSON(http.StatusOK, echo.Map{"item": res})
	}
	if !model.CanTransition(res.Status, target) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	}
	if target == model.StatusCancelled && !booking.CanCancel(res.VisitDate, p.Role, now) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cancellation window closed"})
	}
	if err := h.Reservations.UpdateStatusTx(ctx, tx, res.ID, target); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	switch target {
	case model.StatusConfirmed:
		_ = queue_publisher.PublishReservationEvent(ctx, reservationEvent(queue.EventReservationConfirmed, res, now))
	case model.StatusCancelled:
		_ = queue_publisher.PublishReservationEvent(ctx, reservationEvent(queue.EventReservationCancelled, res, now))
	}

	res.Status = target
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// Delete handles DELETE /v1/admin/reservations/:id.  Deletion is the
// destructive sibling of cancellation and reuses the same admin gate:
// a reservation whose visit date is inside the lead-time window stays
// on the books.
func (h *AdminReservationHandler) Delete(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if p.Role != auth.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	now := time.Now().UTC()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !booking.CanCancel(res.VisitDate, p.Role, now) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cancellation window closed"})
	}
	if err := h.Reservations.DeleteTx(ctx, tx, res.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if res.Status != model.StatusCancelled {
		_ = queue_publisher.PublishReservationEvent(ctx, reservationEvent(queue.EventReservationCancelled, res, now))
	}
	return c.NoContent(http.StatusNoContent)
}
