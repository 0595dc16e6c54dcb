package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wigapos/ledger/internal/models"
)

func refEntry(id int64, date, party, ref string, debit, credit int64) models.LedgerEntry {
	e := entry(id, date, debit, credit)
	e.PartyName = party
	e.ReferenceNo = ref
	return e
}

func TestLookup_ByReferenceAcrossParties(t *testing.T) {
	// Two entries share INV-1 but carry different party names; the
	// reference groups them regardless.
	entries := []models.LedgerEntry{
		refEntry(1, "2024-01-01", "Alice", "INV-1", 100, 0),
		refEntry(2, "2024-01-03", "Bob", "INV-1", 0, 40),
	}

	group := Lookup(entries, "INV-1", Receivables, ReferenceFirst)
	if len(group.Entries) != 2 {
		t.Fatalf("matched %d entries, want 2", len(group.Entries))
	}
	if !group.NetBalance.Equal(decimal.NewFromInt(60)) {
		t.Errorf("NetBalance = %s, want 60", group.NetBalance)
	}
}

func TestLookup_PrecedenceIsMutuallyExclusive(t *testing.T) {
	// An entry with a reference number never falls back to its party's
	// group under ReferenceFirst.
	entries := []models.LedgerEntry{
		refEntry(1, "2024-01-01", "Alice", "INV-1", 100, 0),
		refEntry(2, "2024-01-02", "Alice", "", 0, 30),
	}

	byParty := Lookup(entries, "Alice", Receivables, ReferenceFirst)
	if len(byParty.Entries) != 1 || byParty.Entries[0].ID != 2 {
		t.Fatalf("party group = %d entries, want only the reference-less one", len(byParty.Entries))
	}
	byRef := Lookup(entries, "INV-1", Receivables, ReferenceFirst)
	if len(byRef.Entries) != 1 || byRef.Entries[0].ID != 1 {
		t.Fatalf("reference group = %d entries, want only the referenced one", len(byRef.Entries))
	}
}

func TestLookup_Policies(t *testing.T) {
	entries := []models.LedgerEntry{
		refEntry(1, "2024-01-01", "Alice", "INV-1", 10, 0),
		refEntry(2, "2024-01-02", "Alice", "", 20, 0),
	}

	tests := []struct {
		name    string
		policy  GroupPolicy
		key     string
		wantIDs []int64
	}{
		{"reference_first by ref", ReferenceFirst, "INV-1", []int64{1}},
		{"reference_first by party", ReferenceFirst, "Alice", []int64{2}},
		{"reference_only by ref", ReferenceOnly, "INV-1", []int64{1}},
		{"reference_only ignores party", ReferenceOnly, "Alice", nil},
		{"party_only by party", PartyOnly, "Alice", []int64{1, 2}},
		{"party_only ignores ref", PartyOnly, "INV-1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := Lookup(entries, tt.key, Receivables, tt.policy)
			if len(group.Entries) != len(tt.wantIDs) {
				t.Fatalf("matched %d entries, want %d", len(group.Entries), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if group.Entries[i].ID != want {
					t.Errorf("entry %d: id = %d, want %d", i, group.Entries[i].ID, want)
				}
			}
		})
	}
}

func TestLookup_EmptyKeyMatchesNothing(t *testing.T) {
	entries := []models.LedgerEntry{
		refEntry(1, "2024-01-01", "", "", 10, 0),
	}
	group := Lookup(entries, "", Receivables, ReferenceFirst)
	if len(group.Entries) != 0 {
		t.Errorf("empty key matched %d entries, want 0", len(group.Entries))
	}
}

func TestLookup_RunningBalanceWithinGroup(t *testing.T) {
	entries := []models.LedgerEntry{
		refEntry(1, "2024-01-05", "Alice", "", 0, 50),
		refEntry(2, "2024-01-01", "Alice", "", 100, 0),
		refEntry(3, "2024-01-03", "Bob", "", 999, 0), // other group
	}

	group := Lookup(entries, "Alice", Receivables, PartyOnly)
	if len(group.Entries) != 2 {
		t.Fatalf("matched %d entries, want 2", len(group.Entries))
	}
	// Chronological inside the group, running from zero.
	if group.Entries[0].ID != 2 {
		t.Errorf("first entry id = %d, want 2", group.Entries[0].ID)
	}
	if !group.Entries[1].RunningBalance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("group running = %s, want 50", group.Entries[1].RunningBalance)
	}
}

func TestSummarize_LatestEntryCarriesGroupBalance(t *testing.T) {
	entries := []models.LedgerEntry{
		refEntry(1, "2024-01-01", "Alice", "", 100, 0),
		refEntry(2, "2024-01-02", "Alice", "", 0, 30),
		refEntry(3, "2024-01-01", "Bob", "", 50, 0),
	}

	rows := Summarize(entries, Receivables, PartyOnly)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	alice := rows[0]
	if alice.Key != "Alice" {
		t.Fatalf("first row key = %q, want Alice", alice.Key)
	}
	// Most recently created entry wins for display fields.
	if alice.Latest.ID != 2 {
		t.Errorf("latest id = %d, want 2", alice.Latest.ID)
	}
	// But the balance is the group aggregate, not the single entry's.
	if !alice.NetBalance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("NetBalance = %s, want 70", alice.NetBalance)
	}
}

func TestSummarize_TieBreakLastCreatedWins(t *testing.T) {
	// Same date: the higher id was created later and wins the display row.
	entries := []models.LedgerEntry{
		refEntry(1, "2024-01-01", "Alice", "", 10, 0),
		refEntry(2, "2024-01-01", "Alice", "", 20, 0),
	}

	rows := Summarize(entries, Receivables, PartyOnly)
	if rows[0].Latest.ID != 2 {
		t.Errorf("latest id = %d, want 2", rows[0].Latest.ID)
	}
}

func TestSummarize_SkipsKeylessEntries(t *testing.T) {
	entries := []models.LedgerEntry{
		refEntry(1, "2024-01-01", "", "", 10, 0),
		refEntry(2, "2024-01-01", "Alice", "", 20, 0),
	}

	rows := Summarize(entries, Receivables, ReferenceFirst)
	if len(rows) != 1 || rows[0].Key != "Alice" {
		t.Fatalf("rows = %v, want single Alice row", rows)
	}
}
