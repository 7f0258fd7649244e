package repository

import (
    "context"
    "database/sql"

    "github.com/digitalbooking/campsite-booking/internal/model"
)

// ListingRepo reads listings from the catalog tables.  Listings are
// owned by the catalog collaborator and are read-only here; only the
// fields availability decisions need are loaded.
type ListingRepo struct {
    db *sql.DB
}

// NewListingRepo returns a new ListingRepo bound to the given database.
func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{db: db} }

// GetByID loads a listing by id.  It returns ErrListingNotFound when no
// such listing exists.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (*model.Listing, error) {
    const q = `SELECT id, name, daily_capacity, created_at FROM listings WHERE id = ?`
    var l model.Listing
    err := r.db.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.Name, &l.DailyCapacity, &l.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrListingNotFound
    }
    if err != nil {
        return nil, err
    }
    return &l, nil
}

// GetForUpdateTx loads a listing inside a transaction with FOR UPDATE.
// Confirm transitions lock the listing row first: occupancy rows that do
// not exist yet cannot be row-locked, so the listing lock is what
// serializes concurrent confirms for the same listing between their
// availability re-check and their ledger commit.  Contention stays
// scoped to a single listing.
func (r *ListingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Listing, error) {
    const q = `SELECT id, name, daily_capacity, created_at FROM listings WHERE id = ? FOR UPDATE`
    var l model.Listing
    err := tx.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.Name, &l.DailyCapacity, &l.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrListingNotFound
    }
    if err != nil {
        return nil, err
    }
    return &l, nil
}
