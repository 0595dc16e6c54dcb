package interfaces

import (
	"context"

	"github.com/wigapos/ledger/internal/models"
)

// InvoiceStore persists saved bills per tenant.
type InvoiceStore interface {
	SaveInvoice(ctx context.Context, tenant string, inv models.Invoice) (models.Invoice, error)
	GetInvoice(ctx context.Context, tenant string, id int64) (models.Invoice, error)
	ListInvoices(ctx context.Context, tenant string) ([]models.Invoice, error)
}
