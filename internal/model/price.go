package model

import "time"

// Price is a ticket price category (adult, child, student...).  Amounts
// are stored in cents to avoid floating point money.
//
// Fields:
//  ID          – primary key identifier.
//  Label       – display label of the category.
//  Description – optional longer description shown on the price page.
//  AmountCents – price in cents.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Price struct {
	ID          uint64    `json:"id"`
	Label       string    `json:"label"`
	Description *string   `json:"description,omitempty"`
	AmountCents uint32    `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
