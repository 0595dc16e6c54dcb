package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wigapos/ledger/internal/models"
)

func TestRescale_USDToPKR(t *testing.T) {
	// Scenario: debit 10 USD at the default PKR rate of 280.
	rates := DefaultRates()
	draft := Draft{Debit: decimal.NewFromInt(10)}

	got, err := rates.Rescale(draft, models.USD, models.PKR)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	if want := decimal.RequireFromString("2800.00"); !got.Debit.Equal(want) {
		t.Errorf("Debit = %s, want %s", got.Debit, want)
	}
}

func TestRescale_RoundsToTwoDecimals(t *testing.T) {
	rates := DefaultRates()
	draft := Draft{Debit: decimal.NewFromInt(10)}

	got, err := rates.Rescale(draft, models.USD, models.AED)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	if want := decimal.RequireFromString("36.70"); !got.Debit.Equal(want) {
		t.Errorf("Debit = %s, want %s", got.Debit, want)
	}
}

func TestRescale_FieldsIndependent(t *testing.T) {
	// Each field rounds on its own, so the order the form fields were
	// filled in can never change the stored result.
	rates := DefaultRates()
	if err := rates.Set(models.PKR, decimal.RequireFromString("277.77")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	draft := Draft{
		Debit:   decimal.RequireFromString("12.34"),
		Credit:  decimal.RequireFromString("5.67"),
		Balance: decimal.RequireFromString("6.67"),
	}

	once, err := rates.Rescale(draft, models.USD, models.PKR)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	// Same conversion with the fields swapped into a fresh draft.
	swapped := Draft{Debit: draft.Credit, Credit: draft.Debit}
	again, err := rates.Rescale(swapped, models.USD, models.PKR)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	if !once.Debit.Equal(again.Credit) || !once.Credit.Equal(again.Debit) {
		t.Errorf("field order changed the result: %+v vs %+v", once, again)
	}
}

func TestRescale_RoundTripAtWholeRates(t *testing.T) {
	rates := DefaultRates()
	draft := Draft{Debit: decimal.NewFromInt(10)}

	toPKR, err := rates.Rescale(draft, models.USD, models.PKR)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	back, err := rates.Rescale(toPKR, models.PKR, models.USD)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	if !back.Debit.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("round trip Debit = %s, want 10.00", back.Debit)
	}
}

func TestSet_RejectsNonPositiveRates(t *testing.T) {
	rates := DefaultRates()

	for _, bad := range []string{"0", "-1", "-0.01"} {
		if err := rates.Set(models.PKR, decimal.RequireFromString(bad)); !errors.Is(err, models.ErrInvalidRate) {
			t.Errorf("Set(%s) = %v, want ErrInvalidRate", bad, err)
		}
	}
	// The table is untouched by rejected writes.
	rate, err := rates.Get(models.PKR)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(280)) {
		t.Errorf("PKR rate = %s, want 280", rate)
	}
}

func TestSet_USDPinned(t *testing.T) {
	rates := DefaultRates()
	if err := rates.Set(models.USD, decimal.NewFromInt(2)); err == nil {
		t.Error("Set(USD) should be rejected")
	}
}

func TestSet_UnknownCurrency(t *testing.T) {
	rates := DefaultRates()
	if err := rates.Set("EUR", decimal.NewFromInt(1)); !errors.Is(err, models.ErrUnknownCurrency) {
		t.Errorf("Set(EUR) = %v, want ErrUnknownCurrency", err)
	}
}

func TestGet_UnknownCurrency(t *testing.T) {
	rates := DefaultRates()
	if _, err := rates.Get("EUR"); !errors.Is(err, models.ErrUnknownCurrency) {
		t.Errorf("Get(EUR) = %v, want ErrUnknownCurrency", err)
	}
}

func TestManualRateEdit_AffectsOnlyLaterRescales(t *testing.T) {
	rates := DefaultRates()
	draft := Draft{Debit: decimal.NewFromInt(10)}

	before, err := rates.Rescale(draft, models.USD, models.PKR)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	if err := rates.Set(models.PKR, decimal.NewFromInt(300)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	after, err := rates.Rescale(draft, models.USD, models.PKR)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	if !before.Debit.Equal(decimal.RequireFromString("2800.00")) {
		t.Errorf("before = %s, want 2800.00", before.Debit)
	}
	if !after.Debit.Equal(decimal.RequireFromString("3000.00")) {
		t.Errorf("after = %s, want 3000.00", after.Debit)
	}
}
