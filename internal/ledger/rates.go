package ledger

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/wigapos/ledger/internal/models"
)

// RateTable holds user-maintained exchange rates relative to USD. The USD
// rate is pinned at 1 and cannot be changed. Rates only ever affect the
// in-progress draft being composed; saved rows are untouched by rate edits.
type RateTable struct {
	mu    sync.RWMutex
	rates map[models.Currency]decimal.Decimal
}

// DefaultRates seeds the table with the rates the dashboard started with.
func DefaultRates() *RateTable {
	return &RateTable{rates: map[models.Currency]decimal.Decimal{
		models.USD: decimal.NewFromInt(1),
		models.PKR: decimal.NewFromInt(280),
		models.AED: decimal.RequireFromString("3.67"),
	}}
}

// Get returns the rate for a currency.
func (t *RateTable) Get(c models.Currency) (decimal.Decimal, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rate, ok := t.rates[c]
	if !ok {
		return decimal.Zero, models.ErrUnknownCurrency
	}
	return rate, nil
}

// Set updates a currency's rate. Non-positive rates are rejected so that a
// later rescale can never divide by zero, and USD stays pinned at 1.
func (t *RateTable) Set(c models.Currency, rate decimal.Decimal) error {
	if _, err := models.ParseCurrency(string(c)); err != nil {
		return err
	}
	if c == models.USD {
		return models.Invalid("currency", "the USD base rate is fixed at 1")
	}
	if rate.Cmp(decimal.Zero) <= 0 {
		return models.ErrInvalidRate
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rates[c] = rate
	return nil
}

// Snapshot returns a copy of the current table for display.
func (t *RateTable) Snapshot() map[models.Currency]decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[models.Currency]decimal.Decimal, len(t.rates))
	for c, r := range t.rates {
		out[c] = r
	}
	return out
}

// Draft is the monetary part of an in-progress form entry.
type Draft struct {
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// Rescale converts a draft from one currency to another by the ratio of the
// two table rates, rounding each field to 2 decimal places independently.
// This keeps the numeric value consistent with what was typed in the old
// currency; it is a form convenience, not a historical FX conversion.
func (t *RateTable) Rescale(d Draft, from, to models.Currency) (Draft, error) {
	oldRate, err := t.Get(from)
	if err != nil {
		return Draft{}, err
	}
	newRate, err := t.Get(to)
	if err != nil {
		return Draft{}, err
	}
	factor := newRate.Div(oldRate)
	return Draft{
		Debit:   d.Debit.Mul(factor).Round(2),
		Credit:  d.Credit.Mul(factor).Round(2),
		Balance: d.Balance.Mul(factor).Round(2),
	}, nil
}
