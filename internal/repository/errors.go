// Package repository implements the data-access layer on top of
// database/sql.  This file defines sentinel error values shared across
// repositories so handlers can distinguish failure scenarios with
// errors.Is: ErrForbidden maps to HTTP 403, ErrConflict to HTTP 409.
// Absence of a row is reported as sql.ErrNoRows throughout.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting a visit date that still has
// reservations.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by UserRepo.Create when the normalized
// email already has an account.
var ErrEmailExists = errors.New("email already exists")
