package handler

// This file implements the visitor-facing reservation endpoints.  Every
// mutation re-evaluates the lifecycle predicates against a row-locked
// read inside the transaction: the frontend disabling a button is a
// convenience, the checks here are the security boundary.

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/booking"
	"github.com/zombieland/zombieland-api/internal/model"
	"github.com/zombieland/zombieland-api/internal/queue"
	"github.com/zombieland/zombieland-api/internal/repository"
	queue_publisher "github.com/zombieland/zombieland-api/internal/service"
)

// ReservationHandler groups repositories needed for visitors to create
// and manage their own reservations.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	VisitDates   *repository.VisitDateRepo
	Prices       *repository.PriceRepo
}

func NewReservationHandler(res *repository.ReservationRepo, vd *repository.VisitDateRepo, prices *repository.PriceRepo) *ReservationHandler {
	return &ReservationHandler{Reservations: res, VisitDates: vd, Prices: prices}
}

type ticketReq struct {
	PriceID  uint64 `json:"price_id"`
	Quantity uint32 `json:"quantity"`
}

type createReservationReq struct {
	VisitDateID uint64      `json:"visit_date_id"`
	Tickets     []ticketReq `json:"tickets"`
}

// mergeTicketLines deduplicates requested lines by price, summing
// quantities, and drops empty lines.
func mergeTicketLines(in []ticketReq) []ticketReq {
	byPrice := map[uint64]uint32{}
	order := []uint64{}
	for _, t := range in {
		if t.PriceID == 0 || t.Quantity == 0 {
			continue
		}
		if _, seen := byPrice[t.PriceID]; !seen {
			order = append(order, t.PriceID)
		}
		byPrice[t.PriceID] += t.Quantity
	}
	out := make([]ticketReq, 0, len(order))
	for _, id := range order {
		out = append(out, ticketReq{PriceID: id, Quantity: byPrice[id]})
	}
	return out
}

// priceTickets resolves requested lines against the prices table inside
// the transaction and returns the priced ticket models plus the total.
func (h *ReservationHandler) priceTickets(c echo.Context, tx *sql.Tx, lines []ticketReq) ([]model.Ticket, uint32, error) {
	ids := make([]uint64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.PriceID)
	}
	prices, err := h.Prices.ListByIDsTx(c.Request().Context(), tx, ids)
	if err != nil {
		return nil, 0, err
	}
	tickets := make([]model.Ticket, 0, len(lines))
	var total uint32
	for _, l := range lines {
		p, ok := prices[l.PriceID]
		if !ok {
			return nil, 0, errUnknownPrice
		}
		tickets = append(tickets, model.Ticket{PriceID: l.PriceID, Quantity: l.Quantity, UnitCents: p.AmountCents})
		total += p.AmountCents * l.Quantity
	}
	return tickets, total, nil
}

var errUnknownPrice = errors.New("unknown price id")

// Create handles POST /v1/reservations.  It books a PENDING reservation
// for an open, future visit date, pricing the ticket lines from the
// current price list and enforcing the day's capacity under a row lock.
func (h *ReservationHandler) Create(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.VisitDateID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "visit_date_id required"})
	}
	lines := mergeTicketLines(req.Tickets)
	if len(lines) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one ticket required"})
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

	vd, err := h.VisitDates.GetForUpdateTx(ctx, tx, req.VisitDateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "visit date not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !vd.IsOpen {
		return c.JSON(http.StatusConflict, echo.Map{"error": "park closed on this date"})
	}
	if booking.VisitDatePassed(&vd.Date, now) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "visit date has passed"})
	}

	tickets, total, err := h.priceTickets(c, tx, lines)
	if err != nil {
		if errors.Is(err, errUnknownPrice) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown price id"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var count uint32
	for _, t := range tickets {
		count += t.Quantity
	}
	booked, err := h.Reservations.AdmissionsForVisitDateTx(ctx, tx, vd.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if booked+count > vd.Capacity {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough capacity left for this date"})
	}

	number, err := booking.NewReservationNumber(now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate reservation number"})
	}
	res := model.Reservation{
		Number:      number,
		UserID:      p.ID,
		VisitDateID: vd.ID,
		TotalCents:  total,
		Status:      model.StatusPending,
	}
	if err := h.Reservations.CreateTx(ctx, tx, &res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := h.Reservations.InsertTicketsTx(ctx, tx, res.ID, tickets); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create tickets"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	res.VisitDate = &vd.Date
	res.Tickets = tickets
	return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// ListMine handles GET /v1/reservations and returns the caller's
// reservations, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByUser(c.Request().Context(), p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Get handles GET /v1/reservations/:id for the owning visitor.
func (h *ReservationHandler) Get(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByIDForUser(c.Request().Context(), id, p.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

type updateReservationReq struct {
	Tickets []ticketReq `json:"tickets"`
}

// Update handles PUT /v1/reservations/:id.  The owner can rework the
// ticket lines while the visit date has not passed and the reservation
// is not cancelled.  The total is recomputed from the current price
// list and capacity is re-checked for the delta.
func (h *ReservationHandler) Update(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	lines := mergeTicketLines(req.Tickets)
	if len(lines) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one ticket required"})
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
	if res.UserID != p.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if res.Status == model.StatusCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is cancelled"})
	}
	if !booking.CanEdit(res.VisitDate, now) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "visit date has passed"})
	}

	tickets, total, err := h.priceTickets(c, tx, lines)
	if err != nil {
		if errors.Is(err, errUnknownPrice) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown price id"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Capacity delta check against the locked visit date.
	vd, err := h.VisitDates.GetForUpdateTx(ctx, tx, res.VisitDateID)
	if err == nil {
		var newCount uint32
		for _, t := range tickets {
			newCount += t.Quantity
		}
		booked, berr := h.Reservations.AdmissionsForVisitDateTx(ctx, tx, vd.ID)
		if berr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		// The locked read does not carry ticket lines; sum them here so
		// the delta check compares against what this reservation already
		// holds.
		old, berr := h.Reservations.TicketQuantityTx(ctx, tx, res.ID)
		if berr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if booked-old+newCount > vd.Capacity {
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough capacity left for this date"})
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := h.Reservations.ReplaceTicketsTx(ctx, tx, res.ID, tickets); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update tickets"})
	}
	if err := h.Reservations.UpdateTotalTx(ctx, tx, res.ID, total); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	res.Tickets = tickets
	res.TotalCents = total
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// Cancel handles POST /v1/reservations/:id/cancel.  Cancellation is the
// canonical visitor path: the record is kept and its status moves to
// CANCELLED.  Visitors are not lead-time restricted, but a passed visit
// date or a terminal status still rejects the request.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
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
	if res.UserID != p.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !model.CanTransition(res.Status, model.StatusCancelled) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	}
	if !booking.CanCancel(res.VisitDate, p.Role, now) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cancellation window closed"})
	}
	if err := h.Reservations.UpdateStatusTx(ctx, tx, res.ID, model.StatusCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Notify downstream consumers; a broker outage must not undo the
	// cancellation, so the error is logged inside the publisher and
	// otherwise ignored.
	_ = queue_publisher.PublishReservationEvent(ctx, reservationEvent(queue.EventReservationCancelled, res, now))

	return c.NoContent(http.StatusNoContent)
}

// reservationEvent builds the broker payload for a status change.
func reservationEvent(eventType string, res model.Reservation, now time.Time) queue.ReservationEvent {
	visit := ""
	if res.VisitDate != nil {
		visit = res.VisitDate.UTC().Format("2006-01-02")
	}
	return queue.ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		Number:        res.Number,
		UserID:        res.UserID,
		VisitDate:     visit,
		TotalCents:    res.TotalCents,
		OccurredAt:    now.Format(time.RFC3339),
	}
}
