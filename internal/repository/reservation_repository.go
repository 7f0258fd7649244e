package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/digitalbooking/campsite-booking/internal/model"
    "github.com/digitalbooking/campsite-booking/internal/utils"
)

// ReservationRepo provides CRUD operations for reservations.  A
// reservation tracks one customer's stay at a listing over an inclusive
// date range.  All timestamp fields are assumed to be stored in UTC.
//
// Reads apply the lazy close rule: a PAID reservation whose end date has
// passed is rewritten to CLOSED before being returned, so no caller ever
// observes a stale PAID status.  This mirrors the state machine's
// read-time transition and is applied consistently on every read path.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning reservations and the occupancy ledger.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, listing_id, user_id, start_date, end_date, start_time,
               headcount, status, total_cents, payment_ref, created_at, updated_at`

func scanReservation(row interface {
    Scan(dest ...interface{}) error
}) (*model.Reservation, error) {
    var res model.Reservation
    var paymentRef sql.NullString
    err := row.Scan(
        &res.ID, &res.ListingID, &res.UserID, &res.StartDate, &res.EndDate, &res.StartTime,
        &res.Headcount, &res.Status, &res.TotalCents, &paymentRef, &res.CreatedAt, &res.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if paymentRef.Valid {
        ref := paymentRef.String
        res.PaymentRef = &ref
    }
    return &res, nil
}

// CreateTx inserts a new PENDING reservation within the scope of an
// existing transaction.  It populates the generated ID and timestamps on
// the provided value.  The caller must commit or rollback the
// transaction.  No ledger mutation happens here: capacity is only
// committed by the confirm transition.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
    const q = `INSERT INTO reservations
               (listing_id, user_id, start_date, end_date, start_time, headcount, status, total_cents)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q,
        res.ListingID, res.UserID, utils.FormatDay(res.StartDate), utils.FormatDay(res.EndDate),
        res.StartTime, res.Headcount, res.Status, res.TotalCents,
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    // Query back the full row to populate timestamps and defaults
    sel := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
    stored, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
    if err != nil {
        return err
    }
    *res = *stored
    return nil
}

// GetByID loads a reservation by id and applies the lazy close rule.
// It returns ErrReservationNotFound when no row matches.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrReservationNotFound
    }
    if err != nil {
        return nil, err
    }
    if err := r.closeIfElapsed(ctx, res); err != nil {
        return nil, err
    }
    return res, nil
}

// GetForUpdateTx loads a reservation inside a transaction with FOR
// UPDATE, so the confirm transition can gate on its status without
// racing a concurrent confirm of the same reservation.  The lazy close
// rule is not applied here; confirm only proceeds on PENDING rows.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
    q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? FOR UPDATE`
    res, err := scanReservation(tx.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrReservationNotFound
    }
    if err != nil {
        return nil, err
    }
    return res, nil
}

// UpdateStatusTx rewrites a reservation's status (and optionally its
// payment reference) within the provided transaction.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string, paymentRef *string) error {
    if paymentRef != nil {
        const q = `UPDATE reservations SET status = ?, payment_ref = ? WHERE id = ?`
        _, err := tx.ExecContext(ctx, q, status, *paymentRef, id)
        return err
    }
    const q = `UPDATE reservations SET status = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, status, id)
    return err
}

// ListPage returns one page of all reservations ordered by creation time
// descending, along with the total row count for pagination metadata.
// The lazy close rule is applied to every returned row.  Page numbers
// start at 1.
func (r *ReservationRepo) ListPage(ctx context.Context, page, pageSize int) ([]model.Reservation, int64, error) {
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 20
    }
    var total int64
    if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&total); err != nil {
        return nil, 0, err
    }
    q := `SELECT ` + reservationColumns + ` FROM reservations
               ORDER BY created_at DESC, id DESC
               LIMIT ? OFFSET ?`
    rows, err := r.db.QueryContext(ctx, q, pageSize, (page-1)*pageSize)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0, pageSize)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, *res)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    for i := range out {
        if err := r.closeIfElapsed(ctx, &out[i]); err != nil {
            return nil, 0, err
        }
    }
    return out, total, nil
}

// ListByUserEmail returns all reservations belonging to the customer
// with the given email, newest first, with the lazy close rule applied.
// When no reservations exist, an empty slice is returned.
func (r *ReservationRepo) ListByUserEmail(ctx context.Context, email string) ([]model.Reservation, error) {
    q := `SELECT r.id, r.listing_id, r.user_id, r.start_date, r.end_date, r.start_time,
                 r.headcount, r.status, r.total_cents, r.payment_ref, r.created_at, r.updated_at
          FROM reservations r
          JOIN users u ON u.id = r.user_id
          WHERE u.email = ?
          ORDER BY r.created_at DESC, r.id DESC`
    rows, err := r.db.QueryContext(ctx, q, email)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    for i := range out {
        if err := r.closeIfElapsed(ctx, &out[i]); err != nil {
            return nil, err
        }
    }
    return out, nil
}

// Delete removes a reservation row.  Callers are responsible for the
// deletion gate (CLOSED or elapsed end date); no ledger rollback is
// performed because PENDING and CANCELLED reservations never committed
// capacity, and elapsed PAID days are bounded by the retention sweeper.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
    const q = `DELETE FROM reservations WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrReservationNotFound
    }
    return nil
}

// closeIfElapsed rewrites a PAID reservation whose end date has passed
// to CLOSED, both in the database and on the in-memory value.  The
// status guard in the WHERE clause keeps concurrent readers idempotent.
func (r *ReservationRepo) closeIfElapsed(ctx context.Context, res *model.Reservation) error {
    if !res.ShouldClose(time.Now().UTC()) {
        return nil
    }
    const q = `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`
    if _, err := r.db.ExecContext(ctx, q, model.StatusClosed, res.ID, model.StatusPaid); err != nil {
        return err
    }
    res.Status = model.StatusClosed
    return nil
}
