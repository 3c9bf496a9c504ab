package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/auth"
	"github.com/zombieland/zombieland-api/internal/model"
	"github.com/zombieland/zombieland-api/internal/repository"
)

// AdminUserHandler manages accounts from the back office: listing,
// role changes, deactivation and deletion.
type AdminUserHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAdminUserHandler(u *repository.UserRepo, t *repository.TokenRepo) *AdminUserHandler {
	return &AdminUserHandler{Users: u, Tokens: t}
}

// adminUserPart is the back-office projection of a user row.  The
// password hash stays out; is_active reflects the nullable column with
// NULL meaning active.
type adminUserPart struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Pseudo    string    `json:"pseudo"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toAdminUserPart(u model.User) adminUserPart {
	active := u.IsActive == nil || *u.IsActive
	return adminUserPart{
		ID:        u.ID,
		Email:     u.Email,
		Pseudo:    u.Pseudo,
		Role:      u.Role,
		IsActive:  active,
		CreatedAt: u.CreatedAt,
	}
}

// List handles GET /v1/admin/users.
func (h *AdminUserHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	items := make([]adminUserPart, 0, len(users))
	for _, u := range users {
		items = append(items, toAdminUserPart(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Get handles GET /v1/admin/users/:id.
func (h *AdminUserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toAdminUserPart(u)})
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateRole handles PATCH /v1/admin/users/:id/role.  The role must be
// a member of the closed set; promotion to ADMIN happens only here,
// never through registration.  An admin cannot change their own role,
// which keeps at least the acting account privileged.
func (h *AdminUserHandler) UpdateRole(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == p.ID {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot change own role"})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role, ok := auth.ParseRole(strings.TrimSpace(req.Role))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	if err := h.Users.UpdateRole(c.Request().Context(), id, role.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update role"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toAdminUserPart(u)})
}

type setActiveReq struct {
	IsActive *bool `json:"is_active"`
}

// SetActive handles PATCH /v1/admin/users/:id/active.  Deactivating an
// account also revokes its refresh tokens; outstanding access tokens
// die at the next request because the resolver re-reads the row.
func (h *AdminUserHandler) SetActive(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == p.ID {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot deactivate own account"})
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active required"})
	}
	ctx := c.Request().Context()
	if err := h.Users.SetActive(ctx, id, *req.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
	}
	if !*req.IsActive {
		_ = h.Tokens.RevokeAllForUser(ctx, id)
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toAdminUserPart(u)})
}

// Delete handles DELETE /v1/admin/users/:id.  Accounts with history
// (reservations, conversations) hit a foreign-key conflict; deactivate
// those instead.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == p.ID {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete own account"})
	}
	ctx := c.Request().Context()
	_ = h.Tokens.RevokeAllForUser(ctx, id)
	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user has related records"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete user"})
	}
	return c.NoContent(http.StatusNoContent)
}
