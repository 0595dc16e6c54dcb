package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wigapos/ledger/internal/models"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   string
		currency models.Currency
		want     string
	}{
		{"1234", models.USD, "$1,234.00"},
		{"0.5", models.USD, "$0.50"},
		{"12.345", models.USD, "$12.35"},
	}
	for _, tt := range tests {
		got := FormatAmount(decimal.RequireFromString(tt.amount), tt.currency)
		if got != tt.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	inv := models.Invoice{InvoiceNo: "INV-12345"}
	if got := Filename(inv); got != "INV-12345_Report.pdf" {
		t.Errorf("Filename = %q", got)
	}
}

func TestInvoicePDF(t *testing.T) {
	inv := models.Invoice{
		InvoiceNo:    "INV-12345",
		CustomerName: "Acme",
		Date:         "2024-02-01",
		Items: []models.LineItem{
			{ItemCode: "W1", Description: "widget", Qty: decimal.NewFromInt(2), Amount: decimal.NewFromInt(50)},
		},
	}
	out, err := InvoicePDF(inv)
	if err != nil {
		t.Fatalf("InvoicePDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
	if len(out) < 500 {
		t.Errorf("output suspiciously small: %d bytes", len(out))
	}
}

func TestInvoicePDF_NoItems(t *testing.T) {
	out, err := InvoicePDF(models.Invoice{InvoiceNo: "INV-00000", CustomerName: "Acme"})
	if err != nil {
		t.Fatalf("InvoicePDF: %v", err)
	}
	if len(out) == 0 {
		t.Error("empty output")
	}
}
