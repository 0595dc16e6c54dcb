package interfaces

import (
	"context"

	"github.com/wigapos/ledger/internal/models"
)

// EntryStore is the persistence boundary for ledger entries. Every
// operation is namespaced by tenant and collection; implementations must
// never let one tenant's rows leak into another's.
type EntryStore interface {
	// List returns all entries of one collection in insertion (id) order.
	List(ctx context.Context, tenant string, col models.Collection) ([]models.LedgerEntry, error)
	// Get returns a single entry or models.ErrNotFound.
	Get(ctx context.Context, tenant string, col models.Collection, id int64) (models.LedgerEntry, error)
	// Put inserts the entry when ID is zero (assigning the next id) or
	// replaces the stored record wholesale. Replacing a missing id returns
	// models.ErrNotFound.
	Put(ctx context.Context, tenant string, col models.Collection, entry models.LedgerEntry) (models.LedgerEntry, error)
	// Delete removes an entry, returning models.ErrNotFound when the id no
	// longer exists.
	Delete(ctx context.Context, tenant string, col models.Collection, id int64) error
}
