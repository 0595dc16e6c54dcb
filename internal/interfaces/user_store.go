package interfaces

import (
	"context"

	"github.com/wigapos/ledger/internal/models"
)

// UserStore persists account records for the sign-in boundary.
type UserStore interface {
	// CreateUser stores a new user, returning models.ErrDuplicateUser when
	// the email is already taken.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// GetUser returns the user for an email or models.ErrNotFound.
	GetUser(ctx context.Context, email string) (models.User, error)
}
