package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombieland/zombieland-api/internal/auth"
	"github.com/zombieland/zombieland-api/internal/utils"
)

const testSecret = "unit-test-secret"

type memStore struct {
	users map[uint64]auth.StoredUser
}

func (m *memStore) FindByID(_ context.Context, id uint64) (auth.StoredUser, error) {
	u, ok := m.users[id]
	if !ok {
		return auth.StoredUser{}, auth.ErrUserNotFound
	}
	return u, nil
}

func newTestServer(t *testing.T, store *memStore, roles ...auth.Role) *echo.Echo {
	t.Helper()
	e := echo.New()
	resolver := auth.NewResolver(store)
	g := e.Group("/v1", JWTAuth(testSecret, resolver))
	if len(roles) > 0 {
		g.Use(RequireRole(roles...))
	}
	g.GET("/whoami", func(c echo.Context) error {
		p, ok := CurrentPrincipal(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, p)
	})
	return e
}

func bearerFor(t *testing.T, userID uint64, role auth.Role) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, role, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func doGet(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func active(b bool) *bool { return &b }

func TestJWTAuthResolvesPrincipal(t *testing.T) {
	store := &memStore{users: map[uint64]auth.StoredUser{
		5: {ID: 5, Email: "a@b.com", Pseudo: "zed", Role: "ADMIN", PasswordHash: "x", IsActive: active(true)},
	}}
	e := newTestServer(t, store)

	rec := doGet(e, bearerFor(t, 5, auth.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@b.com"`)
	assert.NotContains(t, rec.Body.String(), "password", "principal must never expose the secret")
}

func TestJWTAuthMissingHeader(t *testing.T) {
	e := newTestServer(t, &memStore{users: map[uint64]auth.StoredUser{}})

	rec := doGet(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthGarbageToken(t *testing.T) {
	e := newTestServer(t, &memStore{users: map[uint64]auth.StoredUser{}})

	rec := doGet(e, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthDeletedUser(t *testing.T) {
	// Token is valid but the account is gone: the per-request lookup
	// rejects it.
	e := newTestServer(t, &memStore{users: map[uint64]auth.StoredUser{}})

	rec := doGet(e, bearerFor(t, 77, auth.RoleClient))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Utilisateur introuvable")
}

func TestJWTAuthDeactivatedUser(t *testing.T) {
	store := &memStore{users: map[uint64]auth.StoredUser{
		8: {ID: 8, Email: "off@x.y", Role: "CLIENT", IsActive: active(false)},
	}}
	e := newTestServer(t, store)

	rec := doGet(e, bearerFor(t, 8, auth.RoleClient))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	// The message stays vague on purpose.
	assert.NotContains(t, rec.Body.String(), "deactivated")
}

func TestRequireRoleDeniesWrongRole(t *testing.T) {
	store := &memStore{users: map[uint64]auth.StoredUser{
		1: {ID: 1, Email: "c@x.y", Role: "CLIENT", IsActive: active(true)},
		2: {ID: 2, Email: "a@x.y", Role: "ADMIN", IsActive: active(true)},
	}}
	e := newTestServer(t, store, auth.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, doGet(e, bearerFor(t, 1, auth.RoleClient)).Code)
	assert.Equal(t, http.StatusOK, doGet(e, bearerFor(t, 2, auth.RoleAdmin)).Code)
}

func TestRequireRoleRoleChangeTakesEffectNextRequest(t *testing.T) {
	// The role claim inside the token says ADMIN, but authorization uses
	// the freshly resolved store row, which says CLIENT.
	store := &memStore{users: map[uint64]auth.StoredUser{
		3: {ID: 3, Email: "demoted@x.y", Role: "CLIENT", IsActive: active(true)},
	}}
	e := newTestServer(t, store, auth.RoleAdmin)

	rec := doGet(e, bearerFor(t, 3, auth.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
