package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wigapos/ledger/internal/interfaces"
	"github.com/wigapos/ledger/internal/ledger"
	"github.com/wigapos/ledger/internal/models"
	"github.com/wigapos/ledger/internal/models/events"
	"github.com/wigapos/ledger/internal/storage/memory"
)

type capturePublisher struct {
	topics []string
	events []events.EntryChanged
}

func (p *capturePublisher) Publish(topic string, event any) error {
	p.topics = append(p.topics, topic)
	if ev, ok := event.(events.EntryChanged); ok {
		p.events = append(p.events, ev)
	}
	return nil
}

func newService(pub *capturePublisher) *ledger.Service {
	// A typed nil pointer would defeat the service's nil-publisher check.
	var publisher interfaces.EventPublisher
	if pub != nil {
		publisher = pub
	}
	return ledger.NewService(memory.NewStore(), publisher, ledger.DefaultRates(), ledger.ReferenceFirst)
}

func TestCreate_ComputesBalance(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	saved, err := svc.Create(ctx, "alice@example.com", models.Customers, models.LedgerEntry{
		PartyName: "Acme",
		Debit:     decimal.NewFromInt(100),
		Credit:    decimal.NewFromInt(40),
		// A stale caller-supplied balance must be ignored.
		Balance: decimal.NewFromInt(999),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.ID == 0 {
		t.Error("saved entry has no id")
	}
	if want := decimal.NewFromInt(60); !saved.Balance.Equal(want) {
		t.Errorf("Balance = %s, want %s", saved.Balance, want)
	}
	if saved.Currency != models.USD {
		t.Errorf("Currency = %s, want USD default", saved.Currency)
	}
	if saved.Date == "" {
		t.Error("Date should default to today")
	}
}

func TestCreate_ZeroAmountsBalance(t *testing.T) {
	// Empty form inputs arrive as zero; the stored balance is 0 - credit.
	svc := newService(nil)

	saved, err := svc.Create(context.Background(), "t", models.Customers, models.LedgerEntry{
		PartyName: "Acme",
		Credit:    decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if want := decimal.NewFromInt(-25); !saved.Balance.Equal(want) {
		t.Errorf("Balance = %s, want %s", saved.Balance, want)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		entry models.LedgerEntry
	}{
		{"missing party name", models.LedgerEntry{Debit: decimal.NewFromInt(1)}},
		{"negative debit", models.LedgerEntry{PartyName: "A", Debit: decimal.NewFromInt(-1)}},
		{"negative credit", models.LedgerEntry{PartyName: "A", Credit: decimal.NewFromInt(-1)}},
		{"negative qty", models.LedgerEntry{PartyName: "A", Quantity: decimal.NewFromInt(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "t", models.Customers, tt.entry); !models.IsValidation(err) {
				t.Errorf("Create = %v, want validation error", err)
			}
		})
	}

	t.Run("unknown currency", func(t *testing.T) {
		entry := models.LedgerEntry{PartyName: "A", Currency: "EUR"}
		if _, err := svc.Create(ctx, "t", models.Customers, entry); !errors.Is(err, models.ErrUnknownCurrency) {
			t.Errorf("Create = %v, want ErrUnknownCurrency", err)
		}
	})
}

func TestGet_Idempotent(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	saved, err := svc.Create(ctx, "t", models.Vendors, models.LedgerEntry{
		PartyName: "Supplies Co",
		Date:      "2024-06-01",
		Debit:     decimal.RequireFromString("12.34"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := svc.Get(ctx, "t", models.Vendors, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := svc.Get(ctx, "t", models.Vendors, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first.Date != second.Date || !first.Debit.Equal(second.Debit) ||
		!first.Balance.Equal(second.Balance) || first.UpdatedAt != second.UpdatedAt {
		t.Errorf("repeated fetch differs: %+v vs %+v", first, second)
	}
}

func TestUpdate_ReplacesAllFields(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	saved, _ := svc.Create(ctx, "t", models.Customers, models.LedgerEntry{
		PartyName: "Acme",
		Debit:     decimal.NewFromInt(100),
	})

	saved.PartyName = "Acme Ltd"
	saved.Debit = decimal.NewFromInt(50)
	saved.Credit = decimal.NewFromInt(20)
	updated, err := svc.Update(ctx, "t", models.Customers, saved)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PartyName != "Acme Ltd" {
		t.Errorf("PartyName = %q", updated.PartyName)
	}
	if want := decimal.NewFromInt(30); !updated.Balance.Equal(want) {
		t.Errorf("Balance = %s, want %s", updated.Balance, want)
	}
	if !updated.CreatedAt.Equal(saved.CreatedAt) {
		t.Error("CreatedAt changed on update")
	}
}

func TestUpdate_MissingIDIsNotFound(t *testing.T) {
	svc := newService(nil)
	entry := models.LedgerEntry{ID: 42, PartyName: "Ghost"}
	if _, err := svc.Update(context.Background(), "t", models.Customers, entry); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Update = %v, want ErrNotFound", err)
	}
}

func TestDelete_MissingIDIsNotFound(t *testing.T) {
	svc := newService(nil)
	if err := svc.Delete(context.Background(), "t", models.Customers, 42); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Delete = %v, want ErrNotFound", err)
	}
}

func TestChangeEventsPublished(t *testing.T) {
	pub := &capturePublisher{}
	svc := newService(pub)
	ctx := context.Background()

	saved, err := svc.Create(ctx, "alice@example.com", models.QuickNotes, models.LedgerEntry{
		PartyName: "Cash",
		Credit:    decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	saved.Credit = decimal.NewFromInt(20)
	if _, err := svc.Update(ctx, "alice@example.com", models.QuickNotes, saved); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := svc.Delete(ctx, "alice@example.com", models.QuickNotes, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(pub.events) != 3 {
		t.Fatalf("published %d events, want 3", len(pub.events))
	}
	wantActions := []string{events.ActionCreated, events.ActionUpdated, events.ActionDeleted}
	for i, want := range wantActions {
		ev := pub.events[i]
		if ev.Action != want {
			t.Errorf("event %d action = %q, want %q", i, ev.Action, want)
		}
		if ev.Tenant != "alice@example.com" || ev.Collection != string(models.QuickNotes) {
			t.Errorf("event %d scope = %s/%s", i, ev.Tenant, ev.Collection)
		}
		if ev.EntryID != saved.ID {
			t.Errorf("event %d entry id = %d, want %d", i, ev.EntryID, saved.ID)
		}
	}
	for _, topic := range pub.topics {
		if topic != ledger.ChangeTopic {
			t.Errorf("topic = %q, want %q", topic, ledger.ChangeTopic)
		}
	}
}

func TestList_TenantIsolation(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "alice@example.com", models.Customers, models.LedgerEntry{PartyName: "A", Debit: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "bob@example.com", models.Customers, models.LedgerEntry{PartyName: "B", Debit: decimal.NewFromInt(2)}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	entries, err := svc.List(ctx, "alice@example.com", models.Customers)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].PartyName != "A" {
		t.Errorf("alice sees %d entries, want her single one", len(entries))
	}
}
