package repository

import (
	"context"
	"database/sql"

	"github.com/zombieland/zombieland-api/internal/model"
)

// ActivityRepo persists park attractions.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

const activityColumns = "id,name,description,category,min_age,created_at,updated_at"

func scanActivity(row rowScanner) (model.Activity, error) {
	var a model.Activity
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.MinAge, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// List returns all attractions, optionally filtered by category.
func (r *ActivityRepo) List(ctx context.Context, category string) ([]model.Activity, error) {
	query := "SELECT " + activityColumns + " FROM activities"
	args := []any{}
	if category != "" {
		query += " WHERE category=?"
		args = append(args, category)
	}
	query += " ORDER BY name ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// GetByID fetches one attraction.
func (r *ActivityRepo) GetByID(ctx context.Context, id uint64) (model.Activity, error) {
	return scanActivity(r.DB.QueryRowContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE id=? LIMIT 1", id))
}

// Create inserts an attraction and returns its ID.
func (r *ActivityRepo) Create(ctx context.Context, a model.Activity) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO activities (name, description, category, min_age) VALUES (?,?,?,?)",
		a.Name, a.Description, a.Category, a.MinAge)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites an attraction.
func (r *ActivityRepo) Update(ctx context.Context, a model.Activity) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE activities SET name=?, description=?, category=?, min_age=?, updated_at=NOW() WHERE id=?",
		a.Name, a.Description, a.Category, a.MinAge, a.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// Delete removes an attraction.
func (r *ActivityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM activities WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
