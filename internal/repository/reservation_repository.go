package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/zombieland/zombieland-api/internal/model"
)

// ReservationRepo provides persistence for reservations and their
// ticket lines.  Status changes and deletions always happen inside a
// transaction started by the handler, so the lifecycle check and the
// write see the same row state.  Timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given pool.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying pool for starting transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationSelect = `SELECT r.id, r.number, r.user_id, r.visit_date_id, r.total_cents, r.status,
       r.created_at, r.updated_at, d.date
  FROM reservations r
  LEFT JOIN visit_dates d ON d.id = r.visit_date_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (model.Reservation, error) {
	var (
		res    model.Reservation
		status string
		visit  sql.NullTime
	)
	err := row.Scan(&res.ID, &res.Number, &res.UserID, &res.VisitDateID, &res.TotalCents, &status,
		&res.CreatedAt, &res.UpdatedAt, &visit)
	if err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.ReservationStatus(status)
	if visit.Valid {
		d := visit.Time
		res.VisitDate = &d
	}
	return res, nil
}

// CreateTx inserts a reservation inside the given transaction and
// populates the generated ID and timestamps on the provided record.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (number, user_id, visit_date_id, total_cents, status) VALUES (?,?,?,?,?)`,
		res.Number, res.UserID, res.VisitDateID, res.TotalCents, string(res.Status))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM reservations WHERE id=?`, res.ID).
		Scan(&res.CreatedAt, &res.UpdatedAt)
}

// InsertTicketsTx bulk-inserts ticket lines for a reservation in one
// statement.  An empty slice is a no-op.
func (r *ReservationRepo) InsertTicketsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO tickets (reservation_id, price_id, quantity, unit_cents) VALUES `)
	args := make([]any, 0, len(tickets)*4)
	for i, t := range tickets {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?)")
		args = append(args, reservationID, t.PriceID, t.Quantity, t.UnitCents)
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

// ReplaceTicketsTx swaps the full ticket set of a reservation.
func (r *ReservationRepo) ReplaceTicketsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, tickets []model.Ticket) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE reservation_id=?`, reservationID); err != nil {
		return err
	}
	return r.InsertTicketsTx(ctx, tx, reservationID, tickets)
}

// loadTickets fetches ticket lines for a set of reservations and
// attaches them in place.
func (r *ReservationRepo) loadTickets(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}, byID map[uint64]*model.Reservation) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]any, 0, len(byID))
	var sb strings.Builder
	sb.WriteString(`SELECT id, reservation_id, price_id, quantity, unit_cents FROM tickets WHERE reservation_id IN (`)
	for id := range byID {
		if len(ids) > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("?")
		ids = append(ids, id)
	}
	sb.WriteString(`) ORDER BY id`)
	rows, err := q.QueryContext(ctx, sb.String(), ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.ReservationID, &t.PriceID, &t.Quantity, &t.UnitCents); err != nil {
			return err
		}
		if res, ok := byID[t.ReservationID]; ok {
			res.Tickets = append(res.Tickets, t)
		}
	}
	return rows.Err()
}

// GetByID returns a reservation with its visit date and tickets.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, reservationSelect+` WHERE r.id=?`, id))
	if err != nil {
		return model.Reservation{}, err
	}
	byID := map[uint64]*model.Reservation{res.ID: &res}
	if err := r.loadTickets(ctx, r.db, byID); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// GetByIDForUser returns a reservation owned by userID.  It reports
// sql.ErrNoRows when the reservation does not exist and ErrForbidden
// when it belongs to someone else, so handlers can answer 404 vs 403.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Reservation, error) {
	res, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if res.UserID != userID {
		return model.Reservation{}, ErrForbidden
	}
	return res, nil
}

// GetForUpdateTx re-reads a reservation with a row lock inside the
// transaction.  Handlers call this before any status change so the
// lifecycle predicates evaluate against current state, independent of
// whatever the client already decided.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	return scanReservation(tx.QueryRowContext(ctx, reservationSelect+` WHERE r.id=? FOR UPDATE`, id))
}

// ListByUser returns all reservations of a user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx, ` WHERE r.user_id=? ORDER BY r.created_at DESC`, userID)
}

// List returns reservations for the back office, optionally filtered by
// status and/or visit date.
func (r *ReservationRepo) List(ctx context.Context, status model.ReservationStatus, visitDateID uint64) ([]model.Reservation, error) {
	where := []string{}
	args := []any{}
	if status != "" {
		where = append(where, "r.status=?")
		args = append(args, string(status))
	}
	if visitDateID != 0 {
		where = append(where, "r.visit_date_id=?")
		args = append(args, visitDateID)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}
	return r.list(ctx, clause+` ORDER BY r.created_at DESC`, args...)
}

func (r *ReservationRepo) list(ctx context.Context, clause string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, reservationSelect+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Reservation, len(out))
	for i := range out {
		byID[out[i].ID] = &out[i]
	}
	if err := r.loadTickets(ctx, r.db, byID); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatusTx writes the new status.  The transition must already
// have been validated against the locked row.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, to model.ReservationStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status=?, updated_at=NOW() WHERE id=?`, string(to), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// UpdateTotalTx rewrites the stored total after a ticket change.
func (r *ReservationRepo) UpdateTotalTx(ctx context.Context, tx *sql.Tx, id uint64, totalCents uint32) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE reservations SET total_cents=?, updated_at=NOW() WHERE id=?`, totalCents, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// DeleteTx removes a reservation and its tickets.  The admin hard-delete
// path is the only caller.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE reservation_id=?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// TicketQuantityTx sums the ticket quantities of one reservation inside
// the transaction, for the capacity delta check when tickets change.
func (r *ReservationRepo) TicketQuantityTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (uint32, error) {
	var n sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT SUM(quantity) FROM tickets WHERE reservation_id=?`, reservationID).Scan(&n)
	if err != nil {
		return 0, err
	}
	if !n.Valid || n.Int64 < 0 {
		return 0, nil
	}
	return uint32(n.Int64), nil
}

// AdmissionsForVisitDateTx sums the booked ticket quantities for a visit
// date over non-cancelled reservations, within the transaction, for the
// capacity check at booking time.
func (r *ReservationRepo) AdmissionsForVisitDateTx(ctx context.Context, tx *sql.Tx, visitDateID uint64) (uint32, error) {
	var n sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT SUM(t.quantity)
		   FROM tickets t
		   JOIN reservations r ON r.id = t.reservation_id
		  WHERE r.visit_date_id=? AND r.status <> ?`,
		visitDateID, string(model.StatusCancelled)).Scan(&n)
	if err != nil {
		return 0, err
	}
	if !n.Valid || n.Int64 < 0 {
		return 0, nil
	}
	return uint32(n.Int64), nil
}

// CountForVisitDate reports whether any reservation still references the
// visit date; used to protect calendar deletions.
func (r *ReservationRepo) CountForVisitDate(ctx context.Context, visitDateID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE visit_date_id=?`, visitDateID).Scan(&n)
	return n, err
}
