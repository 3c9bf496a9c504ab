// Package booking holds the pure reservation lifecycle rules: date-based
// eligibility for editing and cancelling a reservation.  The predicates
// perform no I/O and are evaluated server-side at the operation boundary
// before any status change or deletion is committed; the frontend may
// use the same answers to disable buttons, but that is a convenience,
// not the enforcement point.
package booking

import (
	"math"
	"time"

	"github.com/zombieland/zombieland-api/internal/auth"
)

// AdminCancelLeadDays is the minimum number of whole days between today
// and the visit date for an ADMIN-initiated cancellation (the "J-10"
// policy).  Only the ADMIN path is lead-time restricted; CLIENT
// cancellations carry no lead-time rule.
// TODO(product): confirm whether CLIENT cancellations should share the
// J-10 window; the current asymmetry is implemented as shipped.
const AdminCancelLeadDays = 10

// truncateToDay zeroes the time-of-day component in UTC so two dates can
// be compared at calendar-day granularity.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LeadDays returns the whole-day difference between the visit date and
// now.  Both instants are truncated to midnight before subtracting and
// the result is rounded up, so a partial-day remainder never makes the
// window more lenient.  Past visit dates yield a negative count.
func LeadDays(visit, now time.Time) int {
	delta := truncateToDay(visit).Sub(truncateToDay(now))
	return int(math.Ceil(delta.Hours() / 24))
}

// VisitDatePassed reports whether the reservation's visit date lies
// strictly before today.  A nil visit date never counts as passed.
func VisitDatePassed(visit *time.Time, now time.Time) bool {
	if visit == nil {
		return false
	}
	return truncateToDay(*visit).Before(truncateToDay(now))
}

// CanEdit reports whether a reservation may still be modified: true for
// today and any future day, false once the visit date has passed.
func CanEdit(visit *time.Time, now time.Time) bool {
	return !VisitDatePassed(visit, now)
}

// CanCancel reports whether a reservation may be cancelled by an actor
// with the given role.  A passed visit date forbids cancellation for
// everyone.  An unset visit date permits it for everyone.  Otherwise an
// ADMIN actor needs at least AdminCancelLeadDays whole days of lead
// time; other roles are not lead-time restricted.
func CanCancel(visit *time.Time, actingRole auth.Role, now time.Time) bool {
	if visit == nil {
		return true
	}
	if VisitDatePassed(visit, now) {
		return false
	}
	if actingRole == auth.RoleAdmin {
		return LeadDays(*visit, now) >= AdminCancelLeadDays
	}
	return true
}
