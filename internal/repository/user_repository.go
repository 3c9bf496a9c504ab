package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/zombieland/zombieland-api/internal/auth"
	"github.com/zombieland/zombieland-api/internal/model"
	"github.com/zombieland/zombieland-api/internal/utils"
)

// UserRepo persists user accounts.  It doubles as the credential store
// behind the identity resolver: FindByID satisfies auth.UserStore.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,pseudo,password_hash,role,is_active,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u      model.User
		active sql.NullBool
	)
	err := row.Scan(&u.ID, &u.Email, &u.Pseudo, &u.PasswordHash, &u.Role, &active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if active.Valid {
		u.IsActive = &active.Bool
	}
	return u, nil
}

// Create inserts a user and returns its ID.  The email is normalized to
// lower case; the password is hashed with bcrypt at the given cost.
func (r *UserRepo) Create(ctx context.Context, email, pseudo, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, pseudo, password_hash, role) VALUES (?,?,?,?)",
		email, pseudo, hash, role)
	if err != nil {
		// 1062 = MySQL duplicate key
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// FindByID implements auth.UserStore for the identity resolver.  It is
// called once per authenticated request; a missing row surfaces as
// auth.ErrUserNotFound so the resolver rejects tokens whose subject was
// deleted after issuance.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (auth.StoredUser, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.StoredUser{}, auth.ErrUserNotFound
		}
		return auth.StoredUser{}, err
	}
	return auth.StoredUser{
		ID:           u.ID,
		Email:        u.Email,
		Pseudo:       u.Pseudo,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}, nil
}

// List returns all users ordered by creation, newest first.  Admin only.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var (
			u      model.User
			active sql.NullBool
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.Pseudo, &u.PasswordHash, &u.Role, &active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if active.Valid {
			u.IsActive = &active.Bool
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateRole changes a user's role.  Returns sql.ErrNoRows when the user
// does not exist.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=NOW() WHERE id=?", role, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// SetActive flips the account's active flag.  Deactivation takes effect
// on the user's very next request because the resolver re-reads the row
// every time.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=?, updated_at=NOW() WHERE id=?", active, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// Delete removes a user row.  Rows referenced by reservations or
// conversations surface as ErrConflict; those accounts get deactivated
// instead.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		// 1451 = MySQL row is referenced by a foreign key
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	return requireRowAffected(res)
}

// requireRowAffected converts a zero-row update into sql.ErrNoRows so
// handlers can answer 404 uniformly.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
