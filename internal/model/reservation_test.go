package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ReservationStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		// CANCELLED is terminal.
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
		// No backwards moves, no self-loops.
		{StatusConfirmed, StatusPending, false},
		{StatusPending, StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusConfirmed.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, ReservationStatus("REFUNDED").Valid())
	assert.False(t, ReservationStatus("").Valid())
}

func TestTicketCount(t *testing.T) {
	r := Reservation{Tickets: []Ticket{{Quantity: 2}, {Quantity: 3}}}
	assert.Equal(t, uint32(5), r.TicketCount())
	assert.Zero(t, Reservation{}.TicketCount())
}
