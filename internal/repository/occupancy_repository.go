package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/digitalbooking/campsite-booking/internal/utils"
)

// OccupancyRepo is the occupancy ledger: one row per (listing, day)
// holding the headcount already committed for that day.  Rows are
// created lazily by the first confirmed reservation touching a day and
// never for days that only ever saw pending reservations.  The only
// writers are the confirm transition (IncrementTx) and the retention
// sweeper (PurgeBefore); there is no side channel back to reservations.
type OccupancyRepo struct {
    db *sql.DB
}

// NewOccupancyRepo returns a new OccupancyRepo bound to the given database.
func NewOccupancyRepo(db *sql.DB) *OccupancyRepo { return &OccupancyRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span the ledger and the reservations table.
func (r *OccupancyRepo) DB() *sql.DB { return r.db }

// ReservedCount returns the committed headcount for a listing on a day,
// or 0 when no ledger row exists.  This read is not transactional and is
// used for the availability check at reservation creation, which is
// deliberately advisory: creation never commits capacity.
func (r *OccupancyRepo) ReservedCount(ctx context.Context, listingID uint64, day time.Time) (int, error) {
    const q = `SELECT reserved_count FROM occupancy_records WHERE listing_id = ? AND day = ?`
    var count int
    err := r.db.QueryRowContext(ctx, q, listingID, utils.FormatDay(day)).Scan(&count)
    if err == sql.ErrNoRows {
        return 0, nil
    }
    if err != nil {
        return 0, err
    }
    return count, nil
}

// TxCountReader reads counts inside a transaction.  With forUpdate set
// it appends FOR UPDATE so the rows it touches stay locked until the
// transaction ends, serializing concurrent confirms over the same days.
// Absent rows cannot be locked this way; callers must additionally hold
// the listing row lock (see ListingRepo.GetForUpdateTx) so two confirms
// for the same listing never interleave between check and commit.  It
// satisfies availability.CountReader.
type TxCountReader struct {
    tx        *sql.Tx
    forUpdate bool
}

func (t TxCountReader) ReservedCount(ctx context.Context, listingID uint64, day time.Time) (int, error) {
    q := `SELECT reserved_count FROM occupancy_records WHERE listing_id = ? AND day = ?`
    if t.forUpdate {
        q += ` FOR UPDATE`
    }
    var count int
    err := t.tx.QueryRowContext(ctx, q, listingID, utils.FormatDay(day)).Scan(&count)
    if err == sql.ErrNoRows {
        return 0, nil
    }
    if err != nil {
        return 0, err
    }
    return count, nil
}

// TxReader returns a count reader scoped to the given transaction.
func (r *OccupancyRepo) TxReader(tx *sql.Tx, forUpdate bool) TxCountReader {
    return TxCountReader{tx: tx, forUpdate: forUpdate}
}

// IncrementTx adds delta people to a listing's day inside the given
// transaction, creating the row when absent.  The UPDATE carries the
// capacity bound in its WHERE clause so the invariant is re-validated in
// SQL: if the guarded update matches nothing and a row exists, the
// increment would overshoot and ErrCapacityExceeded is returned.  The
// caller must have checked availability under the same transaction; this
// is a defensive last line, not the primary check.
func (r *OccupancyRepo) IncrementTx(ctx context.Context, tx *sql.Tx, listingID uint64, day time.Time, delta, capacity int) error {
    const upd = `UPDATE occupancy_records
                 SET reserved_count = reserved_count + ?
                 WHERE listing_id = ? AND day = ? AND reserved_count + ? <= ?`
    res, err := tx.ExecContext(ctx, upd, delta, listingID, utils.FormatDay(day), delta, capacity)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n > 0 {
        return nil
    }
    // Either the row does not exist yet or the guarded update refused it.
    const sel = `SELECT reserved_count FROM occupancy_records WHERE listing_id = ? AND day = ?`
    var existing int
    err = tx.QueryRowContext(ctx, sel, listingID, utils.FormatDay(day)).Scan(&existing)
    if err == sql.ErrNoRows {
        if delta > capacity {
            return ErrCapacityExceeded
        }
        const ins = `INSERT INTO occupancy_records (listing_id, day, reserved_count) VALUES (?, ?, ?)`
        _, err = tx.ExecContext(ctx, ins, listingID, utils.FormatDay(day), delta)
        return err
    }
    if err != nil {
        return err
    }
    return ErrCapacityExceeded
}

// PurgeBefore deletes every ledger row whose day is strictly before the
// cutoff and reports how many rows went away.  Only the retention
// sweeper calls this; it touches past days exclusively, which no
// in-flight range check can reference, so it is safe to run concurrently
// with confirms.  Running it twice in a row is a no-op the second time.
func (r *OccupancyRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
    const q = `DELETE FROM occupancy_records WHERE day < ?`
    res, err := r.db.ExecContext(ctx, q, utils.FormatDay(cutoff))
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
