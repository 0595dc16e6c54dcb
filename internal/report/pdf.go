// Package report renders saved invoices to PDF statements, replacing the
// browser-side HTML-to-PDF export.
package report

import (
	"bytes"

	"github.com/Rhymond/go-money"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/wigapos/ledger/internal/models"
)

// FormatAmount renders a monetary amount with its currency symbol and two
// decimal places, e.g. "$1,234.00".
func FormatAmount(d decimal.Decimal, c models.Currency) string {
	minor := d.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
	return money.New(minor, string(c)).Display()
}

// Filename derives the export file name from the invoice number.
func Filename(inv models.Invoice) string {
	return inv.InvoiceNo + "_Report.pdf"
}

// InvoicePDF renders the fixed statement layout: header, billed-to block,
// line-item table and net total.
func InvoicePDF(inv models.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(120, 10, "INVOICE REPORT", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 10, inv.InvoiceNo, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(120, 6, "WIGA POS - Statement", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Date: "+inv.Date, "", 1, "R", false, 0, "")
	pdf.Ln(8)

	// Billed-to block
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "BILLED TO:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, inv.CustomerName, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Line-item table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(248, 250, 252)
	pdf.CellFormat(100, 9, "ITEM", "B", 0, "L", true, 0, "")
	pdf.CellFormat(30, 9, "QTY", "B", 0, "C", true, 0, "")
	pdf.CellFormat(50, 9, "TOTAL", "B", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, li := range inv.Items {
		label := li.ItemCode
		if li.Description != "" {
			label += " - " + li.Description
		}
		pdf.CellFormat(100, 8, label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, li.Qty.String(), "B", 0, "C", false, 0, "")
		pdf.CellFormat(50, 8, FormatAmount(li.Amount, models.USD), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// Net total
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(130, 10, "NET TOTAL:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(50, 10, FormatAmount(inv.NetTotal(), models.USD), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
