package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wigapos/ledger/internal/interfaces"
	"github.com/wigapos/ledger/internal/models"
)

// Billing handles invoice entry: saving bills, generating invoice numbers
// and looking line items up from the customer and vendor ledgers.
type Billing struct {
	invoices interfaces.InvoiceStore
	entries  interfaces.EntryStore
	now      func() time.Time
}

// NewBilling builds a Billing service. The entry store is consulted for
// item-code lookups and the combined party-name list.
func NewBilling(invoices interfaces.InvoiceStore, entries interfaces.EntryStore) *Billing {
	return &Billing{invoices: invoices, entries: entries, now: time.Now}
}

// nextInvoiceNo derives a short invoice number from the clock, matching the
// INV-xxxxx format the dashboard produced.
func (b *Billing) nextInvoiceNo() string {
	ms := fmt.Sprintf("%d", b.now().UnixMilli())
	return "INV-" + ms[len(ms)-5:]
}

// Save validates and stores an invoice. The customer name is required; line
// items get their unit price derived from amount and quantity.
func (b *Billing) Save(ctx context.Context, tenant string, inv models.Invoice) (models.Invoice, error) {
	if inv.CustomerName == "" {
		return models.Invoice{}, models.Invalid("customer_name", "required")
	}
	if inv.InvoiceNo == "" {
		inv.InvoiceNo = b.nextInvoiceNo()
	}
	if inv.Date == "" {
		inv.Date = b.now().Format(models.DateLayout)
	}
	for i := range inv.Items {
		inv.Items[i].Price = inv.Items[i].UnitPrice()
	}
	inv.CreatedAt = b.now()
	return b.invoices.SaveInvoice(ctx, tenant, inv)
}

// Get fetches one invoice.
func (b *Billing) Get(ctx context.Context, tenant string, id int64) (models.Invoice, error) {
	return b.invoices.GetInvoice(ctx, tenant, id)
}

// List returns the tenant's invoices, most recent first.
func (b *Billing) List(ctx context.Context, tenant string) ([]models.Invoice, error) {
	invs, err := b.invoices.ListInvoices(ctx, tenant)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(invs, func(i, j int) bool { return invs[i].ID > invs[j].ID })
	return invs, nil
}

// LookupItem finds the first entry whose account name matches an item code,
// vendors first then customers, and returns it as a line-item template.
// A miss returns models.ErrNotFound.
func (b *Billing) LookupItem(ctx context.Context, tenant, code string) (models.LineItem, error) {
	for _, col := range []models.Collection{models.Vendors, models.Customers} {
		entries, err := b.entries.List(ctx, tenant, col)
		if err != nil {
			return models.LineItem{}, err
		}
		for _, e := range entries {
			if e.AccountName == code {
				li := models.LineItem{
					ItemCode:    code,
					Description: e.Description,
					Qty:         e.Quantity,
				}
				if li.Qty.IsZero() {
					li.Qty = decimal.NewFromInt(1)
				}
				return li, nil
			}
		}
	}
	return models.LineItem{}, models.ErrNotFound
}

// PartyNames returns the deduplicated, sorted union of customer and vendor
// names for the invoice form's picker.
func (b *Billing) PartyNames(ctx context.Context, tenant string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, col := range []models.Collection{models.Customers, models.Vendors} {
		entries, err := b.entries.List(ctx, tenant, col)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			name := strings.TrimSpace(e.PartyName)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
