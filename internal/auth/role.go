// Package auth implements the identity and authorization core of the
// ZombieLand API.  It resolves verified token claims into request
// principals backed by a fresh user-store lookup and decides whether a
// principal satisfies the role requirement declared by an operation.
// The package performs no HTTP handling and no token parsing; those
// concerns live in the middleware layer.
package auth

import "strings"

// Role is the closed set of account roles known to the application.
// Modelling roles as a dedicated type keeps arbitrary strings out of
// authorization decisions: anything that is not one of the constants
// below is not a role.
type Role string

const (
	// RoleClient is a regular park visitor account.  New registrations
	// always start as CLIENT.
	RoleClient Role = "CLIENT"
	// RoleAdmin is a back-office account with access to the admin
	// endpoints (user, price, calendar and reservation management).
	RoleAdmin Role = "ADMIN"
)

// ParseRole converts a stored role string into a Role.  The comparison
// is case-insensitive because legacy rows may carry lower-case values.
// The boolean result reports whether the input named a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Valid reports whether r is one of the declared role constants.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAdmin
}

func (r Role) String() string { return string(r) }
