package ledger

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/wigapos/ledger/internal/interfaces"
	"github.com/wigapos/ledger/internal/models"
	"github.com/wigapos/ledger/internal/models/events"
)

// ChangeTopic is the topic EntryChanged events are published on.
const ChangeTopic = "ledger_entry_changed"

// Service is the application face of the ledger: it validates entries,
// enforces the balance invariant at save time, delegates persistence to the
// store and emits change events. One Service handles every collection of a
// deployment; the tenant is explicit on every call.
type Service struct {
	store     interfaces.EntryStore
	publisher interfaces.EventPublisher
	rates     *RateTable
	policy    GroupPolicy
	now       func() time.Time
}

// NewService builds a Service over a store and publisher. The publisher may
// be nil when change notification is not configured.
func NewService(store interfaces.EntryStore, publisher interfaces.EventPublisher, rates *RateTable, policy GroupPolicy) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		rates:     rates,
		policy:    policy,
		now:       time.Now,
	}
}

// Rates exposes the mutable exchange-rate table.
func (s *Service) Rates() *RateTable { return s.rates }

// validate applies the synchronous pre-save checks. Failures abort the
// operation before any persistence call.
func validate(e models.LedgerEntry) error {
	if e.PartyName == "" {
		return models.Invalid("party_name", "required")
	}
	if e.Debit.IsNegative() {
		return models.Invalid("debit", "must not be negative")
	}
	if e.Credit.IsNegative() {
		return models.Invalid("credit", "must not be negative")
	}
	if e.Quantity.IsNegative() {
		return models.Invalid("qty", "must not be negative")
	}
	if e.Currency != "" {
		if _, err := models.ParseCurrency(string(e.Currency)); err != nil {
			return err
		}
	}
	return nil
}

// normalize fills defaults and recomputes the stored per-entry balance.
// The balance is always derived from debit and credit, never taken from the
// caller.
func (s *Service) normalize(e models.LedgerEntry) models.LedgerEntry {
	if e.Currency == "" {
		e.Currency = models.USD
	}
	if e.Date == "" {
		e.Date = s.now().Format(models.DateLayout)
	}
	e.Balance = e.Debit.Sub(e.Credit)
	return e
}

// Create validates and stores a new entry, returning it with its assigned id.
func (s *Service) Create(ctx context.Context, tenant string, col models.Collection, e models.LedgerEntry) (models.LedgerEntry, error) {
	if err := validate(e); err != nil {
		return models.LedgerEntry{}, err
	}
	e = s.normalize(e)
	e.ID = 0
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt
	saved, err := s.store.Put(ctx, tenant, col, e)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	s.notify(tenant, col, saved.ID, events.ActionCreated)
	return saved, nil
}

// Update replaces every field of an existing entry. Editing an id that no
// longer exists surfaces models.ErrNotFound instead of silently creating.
func (s *Service) Update(ctx context.Context, tenant string, col models.Collection, e models.LedgerEntry) (models.LedgerEntry, error) {
	if err := validate(e); err != nil {
		return models.LedgerEntry{}, err
	}
	prev, err := s.store.Get(ctx, tenant, col, e.ID)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	e = s.normalize(e)
	e.CreatedAt = prev.CreatedAt
	e.UpdatedAt = s.now()
	saved, err := s.store.Put(ctx, tenant, col, e)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	s.notify(tenant, col, saved.ID, events.ActionUpdated)
	return saved, nil
}

// Delete removes an entry by id.
func (s *Service) Delete(ctx context.Context, tenant string, col models.Collection, id int64) error {
	if err := s.store.Delete(ctx, tenant, col, id); err != nil {
		return err
	}
	s.notify(tenant, col, id, events.ActionDeleted)
	return nil
}

// Get fetches a single entry.
func (s *Service) Get(ctx context.Context, tenant string, col models.Collection, id int64) (models.LedgerEntry, error) {
	return s.store.Get(ctx, tenant, col, id)
}

// List returns the collection annotated with running balances in
// chronological order, under the collection's sign convention.
func (s *Service) List(ctx context.Context, tenant string, col models.Collection) ([]BalancedEntry, error) {
	entries, err := s.store.List(ctx, tenant, col)
	if err != nil {
		return nil, err
	}
	return WithRunningBalance(entries, ConventionFor(col)), nil
}

// Summary returns the collection-wide totals plus one latest-entry row per
// group key.
func (s *Service) Summary(ctx context.Context, tenant string, col models.Collection) (Totals, []PartySummary, error) {
	entries, err := s.store.List(ctx, tenant, col)
	if err != nil {
		return Totals{}, nil, err
	}
	conv := ConventionFor(col)
	return Sum(entries, conv), Summarize(entries, conv, s.policy), nil
}

// Group returns the sub-ledger for one reference number or party name.
func (s *Service) Group(ctx context.Context, tenant string, col models.Collection, key string) (Group, error) {
	entries, err := s.store.List(ctx, tenant, col)
	if err != nil {
		return Group{}, err
	}
	return Lookup(entries, key, ConventionFor(col), s.policy), nil
}

// Rescale converts an in-progress draft between currencies using the
// current rate table.
func (s *Service) Rescale(d Draft, from, to models.Currency) (Draft, error) {
	return s.rates.Rescale(d, from, to)
}

func (s *Service) notify(tenant string, col models.Collection, id int64, action string) {
	if s.publisher == nil {
		return
	}
	ev := events.EntryChanged{
		EventID:    uuid.New().String(),
		Tenant:     tenant,
		Collection: string(col),
		EntryID:    id,
		Action:     action,
		OccurredAt: s.now(),
	}
	if err := s.publisher.Publish(ChangeTopic, ev); err != nil {
		// Notification is advisory; the write has already succeeded.
		log.Printf("publish %s: %v", ChangeTopic, err)
	}
}
