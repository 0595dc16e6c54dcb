// Package ledger implements the bookkeeping core: chronological running
// balances, sub-ledger grouping and draft currency rescaling, independent of
// any storage or transport.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wigapos/ledger/internal/models"
)

// Convention selects the sign of a ledger's running balance. Receivables
// ledgers (customers) track money owed to the business and accumulate
// debit - credit; payables and cash-style ledgers (vendors, quick notes)
// accumulate credit - debit.
type Convention int

const (
	Receivables Convention = iota
	Payables
)

// ConventionFor maps each ledger collection to its accounting convention.
func ConventionFor(col models.Collection) Convention {
	if col == models.Customers {
		return Receivables
	}
	return Payables
}

// signed returns the entry's contribution to a running balance under the
// convention.
func (c Convention) signed(e models.LedgerEntry) decimal.Decimal {
	if c == Receivables {
		return e.Debit.Sub(e.Credit)
	}
	return e.Credit.Sub(e.Debit)
}

// BalancedEntry is a ledger entry annotated with its running balance.
type BalancedEntry struct {
	models.LedgerEntry
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// sortChronological orders entries ascending by date. Entries without a
// parseable date sort as the zero date, ahead of dated ones; ties and
// undated entries keep their original (insertion) order.
func sortChronological(entries []models.LedgerEntry) []models.LedgerEntry {
	sorted := make([]models.LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, _ := sorted[i].ParsedDate()
		dj, _ := sorted[j].ParsedDate()
		return di.Before(dj)
	})
	return sorted
}

// WithRunningBalance sorts entries chronologically and annotates each with
// the cumulative balance under the given convention, starting from zero.
// The input slice is not modified. Callers wanting latest-first display must
// reverse the returned slice rather than recompute.
func WithRunningBalance(entries []models.LedgerEntry, conv Convention) []BalancedEntry {
	sorted := sortChronological(entries)
	out := make([]BalancedEntry, 0, len(sorted))
	running := decimal.Zero
	for _, e := range sorted {
		running = running.Add(conv.signed(e))
		out = append(out, BalancedEntry{LedgerEntry: e, RunningBalance: running})
	}
	return out
}

// Reversed returns the annotated entries in latest-first order without
// touching the already-computed balances.
func Reversed(entries []BalancedEntry) []BalancedEntry {
	out := make([]BalancedEntry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

// Totals aggregates a set of entries irrespective of order.
type Totals struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	NetBalance  decimal.Decimal `json:"net_balance"`
}

// Sum computes the debit/credit totals and net balance under the convention.
func Sum(entries []models.LedgerEntry, conv Convention) Totals {
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	net := debit.Sub(credit)
	if conv == Payables {
		net = credit.Sub(debit)
	}
	return Totals{TotalDebit: debit, TotalCredit: credit, NetBalance: net}
}
