package repository

import (
    "context"
    "database/sql"

    "github.com/digitalbooking/campsite-booking/internal/model"
)

// UserRepo reads customer accounts.  Accounts are managed by the
// identity collaborator; this core only needs existence checks when a
// reservation is created and email lookups for ownership validation.
type UserRepo struct {
    db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByID loads a user by id, returning ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
    const q = `SELECT id, email, role, created_at FROM users WHERE id = ?`
    var u model.User
    err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, err
    }
    return &u, nil
}

// GetByEmail loads a user by email, returning ErrUserNotFound when
// absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    const q = `SELECT id, email, role, created_at FROM users WHERE email = ?`
    var u model.User
    err := r.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, err
    }
    return &u, nil
}
