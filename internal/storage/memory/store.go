// Package memory is the in-memory store used by tests and local
// development. It implements every persistence interface of the module.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wigapos/ledger/internal/interfaces"
	"github.com/wigapos/ledger/internal/models"
)

type bucket map[int64]models.LedgerEntry

// Store keeps all records in maps guarded by a single mutex. Values are
// copied on the way out so callers can never mutate stored state.
type Store struct {
	mu       sync.Mutex
	entries  map[string]map[models.Collection]bucket // tenant -> collection -> id -> entry
	invoices map[string]map[int64]models.Invoice
	users    map[string]models.User // keyed by email
	nextID   int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		entries:  make(map[string]map[models.Collection]bucket),
		invoices: make(map[string]map[int64]models.Invoice),
		users:    make(map[string]models.User),
	}
}

func (s *Store) bucketFor(tenant string, col models.Collection) bucket {
	cols, ok := s.entries[tenant]
	if !ok {
		cols = make(map[models.Collection]bucket)
		s.entries[tenant] = cols
	}
	b, ok := cols[col]
	if !ok {
		b = make(bucket)
		cols[col] = b
	}
	return b
}

// List returns every entry of a collection in id (insertion) order.
func (s *Store) List(ctx context.Context, tenant string, col models.Collection) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bucketFor(tenant, col)
	out := make([]models.LedgerEntry, 0, len(b))
	for _, e := range b {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns one entry or models.ErrNotFound.
func (s *Store) Get(ctx context.Context, tenant string, col models.Collection, id int64) (models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.bucketFor(tenant, col)[id]
	if !ok {
		return models.LedgerEntry{}, models.ErrNotFound
	}
	return e, nil
}

// Put inserts (id 0) or replaces an entry.
func (s *Store) Put(ctx context.Context, tenant string, col models.Collection, entry models.LedgerEntry) (models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bucketFor(tenant, col)
	if entry.ID == 0 {
		s.nextID++
		entry.ID = s.nextID
	} else if _, ok := b[entry.ID]; !ok {
		return models.LedgerEntry{}, models.ErrNotFound
	}
	b[entry.ID] = entry
	return entry, nil
}

// Delete removes an entry, failing with models.ErrNotFound on a missing id.
func (s *Store) Delete(ctx context.Context, tenant string, col models.Collection, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bucketFor(tenant, col)
	if _, ok := b[id]; !ok {
		return models.ErrNotFound
	}
	delete(b, id)
	return nil
}

// SaveInvoice stores a new invoice with the next id.
func (s *Store) SaveInvoice(ctx context.Context, tenant string, inv models.Invoice) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.invoices[tenant]
	if !ok {
		m = make(map[int64]models.Invoice)
		s.invoices[tenant] = m
	}
	s.nextID++
	inv.ID = s.nextID
	items := make([]models.LineItem, len(inv.Items))
	copy(items, inv.Items)
	inv.Items = items
	m[inv.ID] = inv
	return inv, nil
}

// GetInvoice returns one invoice or models.ErrNotFound.
func (s *Store) GetInvoice(ctx context.Context, tenant string, id int64) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[tenant][id]
	if !ok {
		return models.Invoice{}, models.ErrNotFound
	}
	items := make([]models.LineItem, len(inv.Items))
	copy(items, inv.Items)
	inv.Items = items
	return inv, nil
}

// ListInvoices returns the tenant's invoices in id order.
func (s *Store) ListInvoices(ctx context.Context, tenant string) ([]models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.invoices[tenant]
	out := make([]models.Invoice, 0, len(m))
	for _, inv := range m {
		items := make([]models.LineItem, len(inv.Items))
		copy(items, inv.Items)
		inv.Items = items
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateUser stores a user keyed by email.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return models.User{}, models.ErrDuplicateUser
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.Email] = user
	return user, nil
}

// GetUser returns the user for an email or models.ErrNotFound.
func (s *Store) GetUser(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

var (
	_ interfaces.EntryStore   = (*Store)(nil)
	_ interfaces.InvoiceStore = (*Store)(nil)
	_ interfaces.UserStore    = (*Store)(nil)
)
