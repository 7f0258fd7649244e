package repository

import (
    "context"
    "database/sql"

    "github.com/digitalbooking/campsite-booking/internal/model"
)

// PaymentOrderRepo persists payment orders: the record of a successful
// gateway charge for a reservation.  Orders are written once, after the
// gateway accepted the charge, and later read by the confirm transition.
type PaymentOrderRepo struct {
    db *sql.DB
}

// NewPaymentOrderRepo returns a new PaymentOrderRepo bound to the given database.
func NewPaymentOrderRepo(db *sql.DB) *PaymentOrderRepo { return &PaymentOrderRepo{db: db} }

// Create inserts a payment order and populates its generated ID and
// creation timestamp.
func (r *PaymentOrderRepo) Create(ctx context.Context, order *model.PaymentOrder) error {
    const q = `INSERT INTO payment_orders
               (reservation_id, transaction_id, amount_cents, currency, token, description)
               VALUES (?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q,
        order.ReservationID, order.TransactionID, order.AmountCents,
        order.Currency, order.Token, order.Description,
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    order.ID = uint64(id)
    const sel = `SELECT created_at FROM payment_orders WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, order.ID).Scan(&order.CreatedAt)
}

// GetByIDTx loads a payment order inside a transaction, returning
// ErrPaymentOrderNotFound when absent.  The confirm transition reads the
// order under the same transaction that commits the ledger increments.
func (r *PaymentOrderRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.PaymentOrder, error) {
    const q = `SELECT id, reservation_id, transaction_id, amount_cents, currency, token, description, created_at
               FROM payment_orders WHERE id = ?`
    var o model.PaymentOrder
    err := tx.QueryRowContext(ctx, q, id).Scan(
        &o.ID, &o.ReservationID, &o.TransactionID, &o.AmountCents,
        &o.Currency, &o.Token, &o.Description, &o.CreatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, ErrPaymentOrderNotFound
    }
    if err != nil {
        return nil, err
    }
    return &o, nil
}
