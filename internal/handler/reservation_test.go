package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombieland/zombieland-api/internal/model"
	"github.com/zombieland/zombieland-api/internal/queue"
)

func TestMergeTicketLinesDeduplicates(t *testing.T) {
	got := mergeTicketLines([]ticketReq{
		{PriceID: 1, Quantity: 2},
		{PriceID: 2, Quantity: 1},
		{PriceID: 1, Quantity: 3},
	})
	require.Len(t, got, 2)
	assert.Equal(t, ticketReq{PriceID: 1, Quantity: 5}, got[0])
	assert.Equal(t, ticketReq{PriceID: 2, Quantity: 1}, got[1])
}

func TestMergeTicketLinesDropsEmptyLines(t *testing.T) {
	got := mergeTicketLines([]ticketReq{
		{PriceID: 1, Quantity: 0},
		{PriceID: 0, Quantity: 4},
	})
	assert.Empty(t, got)
}

func TestMergeTicketLinesKeepsFirstSeenOrder(t *testing.T) {
	got := mergeTicketLines([]ticketReq{
		{PriceID: 9, Quantity: 1},
		{PriceID: 3, Quantity: 1},
		{PriceID: 9, Quantity: 1},
	})
	require.Len(t, got, 2)
	assert.Equal(t, uint64(9), got[0].PriceID)
	assert.Equal(t, uint64(3), got[1].PriceID)
}

func TestReservationEventPayload(t *testing.T) {
	visit := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC)
	res := model.Reservation{
		ID:         42,
		Number:     "ZL-20260701-DEADBEEF",
		UserID:     7,
		TotalCents: 5800,
		Status:     model.StatusConfirmed,
		VisitDate:  &visit,
	}

	ev := reservationEvent(queue.EventReservationConfirmed, res, now)

	assert.Equal(t, queue.EventReservationConfirmed, ev.Type)
	assert.Equal(t, uint64(42), ev.ReservationID)
	assert.Equal(t, "ZL-20260701-DEADBEEF", ev.Number)
	assert.Equal(t, uint64(7), ev.UserID)
	assert.Equal(t, "2026-07-14", ev.VisitDate)
	assert.Equal(t, uint32(5800), ev.TotalCents)
	assert.Equal(t, "2026-07-01T09:30:00Z", ev.OccurredAt)
}

func TestReservationEventNilVisitDate(t *testing.T) {
	ev := reservationEvent(queue.EventReservationCancelled, model.Reservation{ID: 1}, time.Now().UTC())
	assert.Empty(t, ev.VisitDate)
}
