package auth

// Requirement is the set of roles an operation declares as sufficient
// for access.  Requirements are plain values attached at route
// registration time; an empty (or nil) requirement means the operation
// is unrestricted.  Roles form a flat unordered set: ADMIN does not
// implicitly satisfy a CLIENT-only requirement or vice versa.
type Requirement []Role

// Requires builds a Requirement from the listed roles.  It is a small
// readability helper for route declarations.
func Requires(roles ...Role) Requirement { return Requirement(roles) }

// Authorize decides whether the principal may execute an operation with
// the given requirement.  It returns true iff the requirement is empty
// or the principal's role is a member of the set.  Denial is a normal
// false result, never an error, and the function has no side effects.
func Authorize(p Principal, req Requirement) bool {
	if len(req) == 0 {
		return true
	}
	for _, r := range req {
		if p.Role == r {
			return true
		}
	}
	return false
}
