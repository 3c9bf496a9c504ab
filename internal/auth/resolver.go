package auth

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when a token subject has no matching user
// record, e.g. the account was deleted between token issuance and use.
// The message is the user-visible one served by the API.
var ErrUserNotFound = errors.New("Utilisateur introuvable")

// ErrUserInactive is returned when the record exists but the account has
// been explicitly deactivated.  The message stays deliberately vague so
// the response does not leak account state details.
var ErrUserInactive = errors.New("there is a problem with your account")

// Claim is the decoded, signature-verified payload of a bearer token.
// Signature and expiry checks happen upstream in the JWT middleware; by
// the time a Claim reaches the Resolver it is assumed authentic and
// unexpired.
type Claim struct {
	Subject   uint64    // user ID the token was issued for ("sub")
	IssuedAt  time.Time // token issue time ("iat")
	ExpiresAt time.Time // token expiry ("exp")
}

// StoredUser is the raw user record as returned by the credential store,
// password hash included.  It exists so the Resolver is the single place
// that strips the secret before anything request-scoped is built.
type StoredUser struct {
	ID           uint64
	Email        string
	Pseudo       string
	Role         string
	PasswordHash string
	// IsActive mirrors a nullable column: nil means the row predates the
	// flag and is treated as active.
	IsActive *bool
}

// UserStore is the single external collaborator of the Resolver.  The
// implementation must return ErrUserNotFound when no record exists for
// the given ID.  The Resolver never writes to the store.
type UserStore interface {
	FindByID(ctx context.Context, id uint64) (StoredUser, error)
}

// Resolver turns verified claims into Principals.  It is stateless: each
// call performs exactly one store read and nothing is cached, so an
// account deactivated mid-session is rejected on its very next request.
type Resolver struct {
	store UserStore
}

// NewResolver builds a Resolver bound to the given store.
func NewResolver(store UserStore) *Resolver {
	if store == nil {
		panic("nil store passed to NewResolver")
	}
	return &Resolver{store: store}
}

// Resolve looks the claim subject up against the user store and returns
// the corresponding Principal.  It fails with ErrUserNotFound when no
// record exists and with ErrUserInactive when the record is explicitly
// deactivated.  Both failures are terminal for the current request; the
// caller surfaces them as-is and must not retry.
func (r *Resolver) Resolve(ctx context.Context, claim Claim) (Principal, error) {
	u, err := r.store.FindByID(ctx, claim.Subject)
	if err != nil {
		return Principal{}, err
	}
	if u.IsActive != nil && !*u.IsActive {
		return Principal{}, ErrUserInactive
	}
	role, ok := ParseRole(u.Role)
	if !ok {
		// Unknown role strings resolve to the least privileged role
		// rather than failing the whole request.
		role = RoleClient
	}
	// The password hash stays behind in StoredUser; only the public
	// fields cross into the request scope.
	return Principal{
		ID:       u.ID,
		Email:    u.Email,
		Pseudo:   u.Pseudo,
		Role:     role,
		IsActive: u.IsActive == nil || *u.IsActive,
	}, nil
}
