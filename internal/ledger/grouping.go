package ledger

import "github.com/wigapos/ledger/internal/models"

// GroupPolicy decides which field keys a sub-ledger. The original pages
// disagreed on this, so the precedence is explicit rather than assumed.
type GroupPolicy int

const (
	// ReferenceFirst groups by reference number when one is present and
	// non-empty, falling back to party name otherwise. Default.
	ReferenceFirst GroupPolicy = iota
	// ReferenceOnly matches on exact reference equality with no fallback.
	ReferenceOnly
	// PartyOnly ignores reference numbers entirely.
	PartyOnly
)

// keyOf returns the grouping key of an entry under the policy. Entries that
// have no key under the policy return "".
func (p GroupPolicy) keyOf(e models.LedgerEntry) string {
	switch p {
	case ReferenceOnly:
		return e.ReferenceNo
	case PartyOnly:
		return e.PartyName
	default:
		if e.ReferenceNo != "" {
			return e.ReferenceNo
		}
		return e.PartyName
	}
}

// Group is one sub-ledger: the entries sharing a key, chronologically
// ordered and annotated with running balances, plus group aggregates.
type Group struct {
	Key     string          `json:"key"`
	Entries []BalancedEntry `json:"entries"`
	Totals
}

// Lookup extracts the sub-ledger for a key. The precedence is mutually
// exclusive: under ReferenceFirst an entry carrying a reference number
// belongs to that reference's group only, never to its party's. A key with
// no matches yields an empty group, not an error.
func Lookup(entries []models.LedgerEntry, key string, conv Convention, policy GroupPolicy) Group {
	var matched []models.LedgerEntry
	for _, e := range entries {
		if policy.keyOf(e) == key && key != "" {
			matched = append(matched, e)
		}
	}
	return Group{
		Key:     key,
		Entries: WithRunningBalance(matched, conv),
		Totals:  Sum(matched, conv),
	}
}

// PartySummary is one row of the summary table: the latest entry's display
// fields for a group key, carrying the group's aggregate balance rather than
// that single entry's.
type PartySummary struct {
	Key    string             `json:"key"`
	Latest models.LedgerEntry `json:"latest"`
	Totals
}

// Summarize produces one PartySummary per distinct group key. "Latest" is
// the last entry encountered after the ascending id/date sort, i.e. the most
// recently created one wins for display. Rows come back ordered by first
// appearance of the key so the output is deterministic.
func Summarize(entries []models.LedgerEntry, conv Convention, policy GroupPolicy) []PartySummary {
	sorted := sortChronological(entries)

	var order []string
	groups := make(map[string][]models.LedgerEntry)
	for _, e := range sorted {
		key := policy.keyOf(e)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	out := make([]PartySummary, 0, len(order))
	for _, key := range order {
		members := groups[key]
		out = append(out, PartySummary{
			Key:    key,
			Latest: members[len(members)-1],
			Totals: Sum(members, conv),
		})
	}
	return out
}
