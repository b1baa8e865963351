package invoice

import (
	"context"

	"github.com/invobill/invobill/internal/types"
)

// Repository is the persistence contract for invoices. Each mutation is a
// single document write; there is no cross-document transaction and
// concurrent updates to the same invoice are last write wins.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id string) error

	// NextInvoiceNumber atomically advances the owner's invoice number
	// sequence and returns the formatted number. Two concurrent creates can
	// never observe the same value.
	NextInvoiceNumber(ctx context.Context, ownerID string) (string, error)
}
