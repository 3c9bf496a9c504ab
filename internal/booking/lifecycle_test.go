package booking

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombieland/zombieland-api/internal/auth"
)

// now is a fixed reference instant with a non-midnight time component so
// the tests exercise the midnight truncation.
var now = time.Date(2026, time.March, 15, 14, 30, 12, 0, time.UTC)

func days(n int) *time.Time {
	t := now.AddDate(0, 0, n)
	return &t
}

func TestVisitDatePassed(t *testing.T) {
	assert.True(t, VisitDatePassed(days(-1), now))
	assert.False(t, VisitDatePassed(days(0), now), "today has not passed")
	assert.False(t, VisitDatePassed(days(1), now))
	assert.False(t, VisitDatePassed(nil, now), "unset visit date never counts as passed")

	// Earlier the same day is still today, not passed.
	morning := time.Date(2026, time.March, 15, 1, 0, 0, 0, time.UTC)
	assert.False(t, VisitDatePassed(&morning, now))
}

func TestCanEdit(t *testing.T) {
	assert.False(t, CanEdit(days(-1), now))
	assert.True(t, CanEdit(days(0), now))
	assert.True(t, CanEdit(days(30), now))
	assert.True(t, CanEdit(nil, now))
}

func TestLeadDays(t *testing.T) {
	assert.Equal(t, 0, LeadDays(now, now))
	assert.Equal(t, 1, LeadDays(*days(1), now))
	assert.Equal(t, 10, LeadDays(*days(10), now))
	assert.Equal(t, -3, LeadDays(*days(-3), now))

	// Time-of-day never shifts the whole-day count: a visit at 08:00 ten
	// days out is still exactly ten days of lead time relative to a
	// 14:30 "now".
	visit := time.Date(2026, time.March, 25, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, LeadDays(visit, now))
}

func TestCanCancelAdminLeadTime(t *testing.T) {
	cases := []struct {
		name  string
		visit *time.Time
		want  bool
	}{
		{"past date", days(-1), false},
		{"today", days(0), false},
		{"nine days out", days(9), false},
		{"ten days out", days(10), true},
		{"far future", days(60), true},
		{"unset visit date", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanCancel(tc.visit, auth.RoleAdmin, now))
		})
	}
}

func TestCanCancelClientHasNoLeadTimeRule(t *testing.T) {
	assert.True(t, CanCancel(days(1), auth.RoleClient, now))
	assert.True(t, CanCancel(days(0), auth.RoleClient, now), "visit day itself is still cancellable")
	assert.False(t, CanCancel(days(-1), auth.RoleClient, now), "passed dates forbid everyone")
	assert.True(t, CanCancel(nil, auth.RoleClient, now))
}

func TestNewReservationNumber(t *testing.T) {
	n, err := NewReservationNumber(now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ZL-20260315-[0-9A-F]{8}$`), n)

	m, err := NewReservationNumber(now)
	require.NoError(t, err)
	assert.NotEqual(t, n, m, "numbers should not repeat")
}
