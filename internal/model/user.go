package model

import "time"

// User roles.  Customers create and confirm their own reservations;
// admins may enumerate and delete any reservation.
const (
    RoleCustomer = "CUSTOMER"
    RoleAdmin    = "ADMIN"
)

// User is a customer or operator account.  Accounts are managed by the
// identity service; this core only performs existence and ownership
// checks against them.
type User struct {
    ID        uint64    // users.id
    Email     string    // users.email
    Role      string    // users.role
    CreatedAt time.Time // users.created_at
}
