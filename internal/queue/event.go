// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// Event types carried in ReservationEvent.Type.
const (
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published whenever a reservation changes to a
// terminal-facing status (confirmed or cancelled).  It carries enough
// information for downstream consumers to log or notify without
// querying the primary database.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	Number        string `json:"number"`
	UserID        uint64 `json:"user_id"`
	VisitDate     string `json:"visit_date,omitempty"` // YYYY-MM-DD, empty when unset
	TotalCents    uint32 `json:"total_cents"`
	OccurredAt    string `json:"occurred_at"` // RFC3339 UTC
}
