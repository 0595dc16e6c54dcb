package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one row of an invoice. Price is the derived unit price
// (Amount / Qty, rounded to 2 decimal places) and is zero when Qty is zero.
type LineItem struct {
	ItemCode    string          `json:"item_code"`
	Description string          `json:"description"`
	Qty         decimal.Decimal `json:"qty"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
}

// UnitPrice recomputes the derived unit price from Amount and Qty.
func (li LineItem) UnitPrice() decimal.Decimal {
	if li.Qty.IsZero() {
		return decimal.Zero
	}
	return li.Amount.Div(li.Qty).Round(2)
}

// Invoice is a saved bill: a customer (or vendor) name, a date and a set of
// line items. NetTotal is derived, never stored.
type Invoice struct {
	ID           int64      `json:"id"`
	InvoiceNo    string     `json:"invoice_no"`
	CustomerName string     `json:"customer_name"`
	Date         string     `json:"date"` // ISO 8601 calendar date
	Items        []LineItem `json:"items"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NetTotal sums the line-item amounts.
func (inv Invoice) NetTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range inv.Items {
		total = total.Add(li.Amount)
	}
	return total
}
