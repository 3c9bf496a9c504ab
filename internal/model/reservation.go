package model

import "time"

// ReservationStatus is the closed set of states a reservation can be in.
type ReservationStatus string

const (
	// StatusPending is the initial state of every new reservation.
	StatusPending ReservationStatus = "PENDING"
	// StatusConfirmed means the reservation has been paid/validated.
	StatusConfirmed ReservationStatus = "CONFIRMED"
	// StatusCancelled is terminal: a cancelled reservation accepts no
	// further mutation of any kind.
	StatusCancelled ReservationStatus = "CANCELLED"
)

// Valid reports whether s is one of the declared status constants.
func (s ReservationStatus) Valid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// CanTransition reports whether a reservation may move from one status
// to another.  Transitions are one-directional: PENDING may become
// CONFIRMED or CANCELLED, CONFIRMED may still be CANCELLED, and
// CANCELLED is a dead end.  A same-status "transition" is not a
// transition and is rejected.
func CanTransition(from, to ReservationStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	}
	return false
}

// Reservation records a visitor's booking for a park day.  It groups
// one or more ticket lines purchased in a single transaction and tracks
// the overall status and total amount.
//
// Fields:
//  ID          – primary key identifier.
//  Number      – human-readable reservation number (ZL-YYYYMMDD-XXXX…).
//  UserID      – user who made the reservation.
//  VisitDateID – park calendar day being booked.
//  VisitDate   – the calendar day itself, joined in for lifecycle
//                checks.  Nil when the visit date row no longer exists.
//  TotalCents  – total price in cents for all ticket lines.
//  Status      – PENDING, CONFIRMED or CANCELLED.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
//  Tickets     – ticket line items under this reservation.
type Reservation struct {
	ID          uint64            `json:"id"`
	Number      string            `json:"number"`
	UserID      uint64            `json:"user_id"`
	VisitDateID uint64            `json:"visit_date_id"`
	VisitDate   *time.Time        `json:"visit_date,omitempty"`
	TotalCents  uint32            `json:"total_cents"`
	Status      ReservationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Tickets     []Ticket          `json:"tickets"`
}

// Ticket is one line item of a reservation: a quantity of a given price
// category (adult, child, student...).
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – owning reservation.
//  PriceID       – price category applied to this line.
//  Quantity      – number of tickets at that price.
//  UnitCents     – unit price captured at booking time, so later price
//                  changes do not rewrite history.
type Ticket struct {
	ID            uint64 `json:"id"`
	ReservationID uint64 `json:"reservation_id"`
	PriceID       uint64 `json:"price_id"`
	Quantity      uint32 `json:"quantity"`
	UnitCents     uint32 `json:"unit_cents"`
}

// TicketCount returns the total number of admissions in the
// reservation, used for capacity accounting on the visit date.
func (r Reservation) TicketCount() uint32 {
	var n uint32
	for _, t := range r.Tickets {
		n += t.Quantity
	}
	return n
}
