package model

import "time"

// VisitDate is one bookable park day in the calendar.  Reservations
// reference a visit date rather than carrying a raw date so capacity
// and opening information live in one place.
//
// Fields:
//  ID        – primary key identifier.
//  Date      – the calendar day (time-of-day is irrelevant and zeroed).
//  Capacity  – maximum number of admissions sellable for the day.
//  IsOpen    – whether the park is open; closed days cannot be booked.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type VisitDate struct {
	ID        uint64    `json:"id"`
	Date      time.Time `json:"date"`
	Capacity  uint32    `json:"capacity"`
	IsOpen    bool      `json:"is_open"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
