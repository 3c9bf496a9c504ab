package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeEmptyRequirement(t *testing.T) {
	client := Principal{ID: 1, Role: RoleClient}
	admin := Principal{ID: 2, Role: RoleAdmin}

	assert.True(t, Authorize(client, nil))
	assert.True(t, Authorize(admin, Requirement{}))
}

func TestAuthorizeMembership(t *testing.T) {
	client := Principal{ID: 1, Role: RoleClient}
	admin := Principal{ID: 2, Role: RoleAdmin}

	cases := []struct {
		name string
		p    Principal
		req  Requirement
		want bool
	}{
		{"admin against admin-only", admin, Requires(RoleAdmin), true},
		{"client against admin-only", client, Requires(RoleAdmin), false},
		{"client against mixed set", client, Requires(RoleAdmin, RoleClient), true},
		// Roles are a flat set: ADMIN does not satisfy a CLIENT-only
		// requirement through any implicit hierarchy.
		{"admin against client-only", admin, Requires(RoleClient), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Authorize(tc.p, tc.req))
		})
	}
}
