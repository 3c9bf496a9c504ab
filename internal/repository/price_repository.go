package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/zombieland/zombieland-api/internal/model"
)

// PriceRepo persists ticket price categories.
type PriceRepo struct{ DB *sql.DB }

func NewPriceRepo(db *sql.DB) *PriceRepo { return &PriceRepo{DB: db} }

const priceColumns = "id,label,description,amount_cents,created_at,updated_at"

func scanPrice(row rowScanner) (model.Price, error) {
	var (
		p    model.Price
		desc sql.NullString
	)
	err := row.Scan(&p.ID, &p.Label, &desc, &p.AmountCents, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Price{}, err
	}
	if desc.Valid {
		d := desc.String
		p.Description = &d
	}
	return p, nil
}

// List returns all price categories ordered by amount.
func (r *PriceRepo) List(ctx context.Context) ([]model.Price, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+priceColumns+" FROM prices ORDER BY amount_cents ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := []model.Price{}
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// GetByID fetches one price category.
func (r *PriceRepo) GetByID(ctx context.Context, id uint64) (model.Price, error) {
	return scanPrice(r.DB.QueryRowContext(ctx,
		"SELECT "+priceColumns+" FROM prices WHERE id=? LIMIT 1", id))
}

// ListByIDsTx loads the given price categories inside a transaction,
// keyed by ID.  Used when computing a reservation total so the amounts
// read and the rows written belong to the same snapshot.
func (r *PriceRepo) ListByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) (map[uint64]model.Price, error) {
	out := map[uint64]model.Price{}
	if len(ids) == 0 {
		return out, nil
	}
	var sb strings.Builder
	sb.WriteString("SELECT " + priceColumns + " FROM prices WHERE id IN (")
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("?")
		args = append(args, id)
	}
	sb.WriteString(")")
	rows, err := tx.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// Create inserts a price category and returns its ID.
func (r *PriceRepo) Create(ctx context.Context, label string, description *string, amountCents uint32) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO prices (label, description, amount_cents) VALUES (?,?,?)",
		label, description, amountCents)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites a price category.
func (r *PriceRepo) Update(ctx context.Context, id uint64, label string, description *string, amountCents uint32) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE prices SET label=?, description=?, amount_cents=?, updated_at=NOW() WHERE id=?",
		label, description, amountCents, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// Delete removes a price category.  Categories referenced by tickets are
// protected by the foreign key; surface that as ErrConflict.
func (r *PriceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM prices WHERE id=?", id)
	if err != nil {
		// 1451 = MySQL row is referenced by a foreign key
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	return requireRowAffected(res)
}
