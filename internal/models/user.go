package models

import "time"

// User is an account holder. The email doubles as the tenant identifier
// that namespaces every ledger collection, so it is immutable once created.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
