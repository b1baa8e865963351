package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invobill/invobill/internal/types"
	"github.com/invobill/invobill/pkg/billing"
)

// BillFrom identifies the issuing business on an invoice
type BillFrom struct {
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
}

// BillTo identifies the invoiced client
type BillTo struct {
	ClientName string `json:"clientName"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
}

// Invoice represents the invoice domain model. Subtotal, TaxTotal and Total
// are derived from the line items and discount via RecomputeTotals and are
// stored at full precision.
type Invoice struct {
	ID            string              `json:"id"`
	OwnerID       string              `json:"ownerId"`
	InvoiceNumber string              `json:"invoiceNumber"`
	InvoiceDate   time.Time           `json:"invoiceDate"`
	DueDate       time.Time           `json:"dueDate"`
	BillFrom      BillFrom            `json:"billFrom"`
	BillTo        BillTo              `json:"billTo"`
	LineItems     []*LineItem         `json:"items"`
	Notes         string              `json:"notes,omitempty"`
	PaymentTerms  types.PaymentTerms  `json:"paymentTerms"`
	Discount      decimal.Decimal     `json:"discount"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	TaxTotal      decimal.Decimal     `json:"taxTotal"`
	Total         decimal.Decimal     `json:"total"`
	Status        types.InvoiceStatus `json:"status"`
	types.BaseModel
}

// RecomputeTotals rederives subtotal, tax total, grand total and the stored
// per-item totals from the current line items and discount
func (i *Invoice) RecomputeTotals() {
	items := make([]billing.LineItem, len(i.LineItems))
	for idx, item := range i.LineItems {
		items[idx] = item.toBilling()
		item.Total = items[idx].Total()
	}

	totals := billing.Compute(items, i.Discount)
	i.Subtotal = totals.Subtotal
	i.TaxTotal = totals.TaxTotal
	i.Total = totals.Total
}

// Validate checks the invariants of a fully assembled invoice
func (i *Invoice) Validate() error {
	if i.OwnerID == "" {
		return NewValidationError("owner_id", "must be set")
	}

	if i.InvoiceNumber == "" {
		return NewValidationError("invoice_number", "must not be empty")
	}

	if i.Discount.IsNegative() {
		return NewValidationError("discount", "must be non negative")
	}

	if i.Total.IsNegative() {
		return NewValidationError("total", "must be non negative")
	}

	if err := i.PaymentTerms.Validate(); err != nil {
		return err
	}

	for _, item := range i.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}
