package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection identifies one ledger domain. Each collection is persisted
// independently per tenant.
type Collection string

const (
	Customers  Collection = "customers"
	Vendors    Collection = "vendors"
	QuickNotes Collection = "quicknotes"
)

// Collections lists every known ledger collection, in a fixed order.
func Collections() []Collection {
	return []Collection{Customers, Vendors, QuickNotes}
}

// ParseCollection validates a collection name from an external source
// (URL segment, config key).
func ParseCollection(s string) (Collection, error) {
	switch Collection(s) {
	case Customers, Vendors, QuickNotes:
		return Collection(s), nil
	}
	return "", ErrUnknownCollection
}

// Currency is a supported currency code. Rates are expressed relative to
// USD, which is pinned at 1.
type Currency string

const (
	USD Currency = "USD"
	PKR Currency = "PKR"
	AED Currency = "AED"
)

// ParseCurrency validates a currency code from an external source.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case USD, PKR, AED:
		return Currency(s), nil
	}
	return "", ErrUnknownCurrency
}

// LedgerEntry represents a single debit/credit transaction line.
// Balance is the per-entry net (Debit - Credit), stored at save time; it is
// never the running balance, which is computed on read.
type LedgerEntry struct {
	ID          int64           `json:"id"`
	Date        string          `json:"date"` // ISO 8601 calendar date, may be empty
	PartyName   string          `json:"party_name"`
	AccountName string          `json:"account_name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"qty"`
	ReferenceNo string          `json:"reference_no"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    Currency        `json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DateLayout is the calendar-date layout used by LedgerEntry.Date.
const DateLayout = "2006-01-02"

// ParsedDate returns the entry date and whether it is a valid calendar date.
func (e LedgerEntry) ParsedDate() (time.Time, bool) {
	if e.Date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Net returns Debit - Credit for this single entry.
func (e LedgerEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}
