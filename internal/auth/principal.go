package auth

// Principal is the authenticated identity attached to a request.  It is
// built once per request from a verified token claim plus a fresh user
// lookup, handed explicitly to downstream code, and discarded when the
// request ends.  A Principal never carries the stored password hash;
// the Resolver strips it before construction.
//
// Fields:
//  ID       – numeric identifier of the user record.
//  Email    – unique email address.
//  Pseudo   – public display handle shown in the UI.
//  Role     – account role (CLIENT or ADMIN).
//  IsActive – whether the account is active.  Records that never had
//             the flag set resolve with IsActive true (permissive
//             default for legacy rows).
type Principal struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Pseudo   string `json:"pseudo"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// IsAdmin is a convenience for the frequent back-office check.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
