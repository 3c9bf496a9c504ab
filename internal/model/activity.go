package model

import "time"

// Activity is a park attraction shown on the public site (haunted maze,
// survival course, escape room...).
//
// Fields:
//  ID          – primary key identifier.
//  Name        – attraction name.
//  Description – marketing description.
//  Category    – free-form grouping label (e.g. "thrill", "family").
//  MinAge      – minimum visitor age, zero when unrestricted.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Activity struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	MinAge      uint8     `json:"min_age"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
