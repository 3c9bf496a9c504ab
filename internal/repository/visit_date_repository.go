package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/zombieland/zombieland-api/internal/model"
)

// VisitDateRepo persists the park calendar.
type VisitDateRepo struct{ DB *sql.DB }

func NewVisitDateRepo(db *sql.DB) *VisitDateRepo { return &VisitDateRepo{DB: db} }

const visitDateColumns = "id,date,capacity,is_open,created_at,updated_at"

func scanVisitDate(row rowScanner) (model.VisitDate, error) {
	var d model.VisitDate
	err := row.Scan(&d.ID, &d.Date, &d.Capacity, &d.IsOpen, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// ListUpcoming returns open days from today onwards, soonest first.
func (r *VisitDateRepo) ListUpcoming(ctx context.Context, now time.Time) ([]model.VisitDate, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+visitDateColumns+" FROM visit_dates WHERE date >= ? ORDER BY date ASC",
		now.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []model.VisitDate{}
	for rows.Next() {
		d, err := scanVisitDate(rows)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// GetByID fetches one calendar day.
func (r *VisitDateRepo) GetByID(ctx context.Context, id uint64) (model.VisitDate, error) {
	return scanVisitDate(r.DB.QueryRowContext(ctx,
		"SELECT "+visitDateColumns+" FROM visit_dates WHERE id=? LIMIT 1", id))
}

// GetForUpdateTx locks a calendar day inside a booking transaction so
// two concurrent bookings cannot both pass the capacity check.
func (r *VisitDateRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.VisitDate, error) {
	return scanVisitDate(tx.QueryRowContext(ctx,
		"SELECT "+visitDateColumns+" FROM visit_dates WHERE id=? FOR UPDATE", id))
}

// Create inserts a calendar day and returns its ID.  The date column is
// unique; a second row for the same day surfaces as ErrConflict.
func (r *VisitDateRepo) Create(ctx context.Context, date time.Time, capacity uint32, isOpen bool) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO visit_dates (date, capacity, is_open) VALUES (?,?,?)",
		date.UTC().Format("2006-01-02"), capacity, isOpen)
	if err != nil {
		// 1062 = MySQL duplicate key
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites capacity and opening state of a day.
func (r *VisitDateRepo) Update(ctx context.Context, id uint64, capacity uint32, isOpen bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE visit_dates SET capacity=?, is_open=?, updated_at=NOW() WHERE id=?",
		capacity, isOpen, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// Delete removes a calendar day.  Callers must ensure no reservation
// references it first (see ReservationRepo.CountForVisitDate).
func (r *VisitDateRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM visit_dates WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
