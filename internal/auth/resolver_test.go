package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory UserStore for resolver tests.
type fakeStore struct {
	users map[uint64]StoredUser
}

func (f *fakeStore) FindByID(_ context.Context, id uint64) (StoredUser, error) {
	u, ok := f.users[id]
	if !ok {
		return StoredUser{}, ErrUserNotFound
	}
	return u, nil
}

func boolPtr(b bool) *bool { return &b }

func TestResolveStripsPasswordHash(t *testing.T) {
	store := &fakeStore{users: map[uint64]StoredUser{
		5: {ID: 5, Email: "a@b.com", Pseudo: "rick", Role: "ADMIN", PasswordHash: "x", IsActive: boolPtr(true)},
	}}
	r := NewResolver(store)

	p, err := r.Resolve(context.Background(), Claim{Subject: 5})
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: 5, Email: "a@b.com", Pseudo: "rick", Role: RoleAdmin, IsActive: true}, p)

	// The serialized principal must never expose a password key.
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.NotContains(t, m, "password")
	assert.NotContains(t, m, "password_hash")
}

func TestResolveUnknownSubject(t *testing.T) {
	r := NewResolver(&fakeStore{users: map[uint64]StoredUser{}})

	_, err := r.Resolve(context.Background(), Claim{Subject: 42})
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.EqualError(t, err, "Utilisateur introuvable")
}

func TestResolveInactiveAccount(t *testing.T) {
	store := &fakeStore{users: map[uint64]StoredUser{
		7: {ID: 7, Email: "off@zombieland.fr", Role: "CLIENT", IsActive: boolPtr(false)},
	}}
	r := NewResolver(store)

	_, err := r.Resolve(context.Background(), Claim{Subject: 7})
	require.ErrorIs(t, err, ErrUserInactive)
}

func TestResolveMissingActiveFlagDefaultsToActive(t *testing.T) {
	// Legacy rows without the is_active column value still resolve.
	store := &fakeStore{users: map[uint64]StoredUser{
		3: {ID: 3, Email: "old@zombieland.fr", Role: "CLIENT", IsActive: nil},
	}}
	r := NewResolver(store)

	p, err := r.Resolve(context.Background(), Claim{Subject: 3})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, RoleClient, p.Role)
}

func TestResolveUnknownRoleFallsBackToClient(t *testing.T) {
	store := &fakeStore{users: map[uint64]StoredUser{
		9: {ID: 9, Email: "x@y.z", Role: "SUPERVISOR"},
	}}
	r := NewResolver(store)

	p, err := r.Resolve(context.Background(), Claim{Subject: 9})
	require.NoError(t, err)
	assert.Equal(t, RoleClient, p.Role)
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"admin", RoleAdmin, true},
		{" client ", RoleClient, true},
		{"OWNER", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}
