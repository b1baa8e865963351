package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/invobill/invobill/pkg/billing"
)

// LineItem represents a single line item in an invoice. Total is derived
// (quantity x unit price x (1 + tax/100)) and kept in sync by the invoice's
// RecomputeTotals.
type LineItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TaxPercent decimal.Decimal `json:"taxPercent"`
	Total      decimal.Decimal `json:"total"`
}

func (i *LineItem) toBilling() billing.LineItem {
	return billing.LineItem{
		Name:       i.Name,
		Quantity:   i.Quantity,
		UnitPrice:  i.UnitPrice,
		TaxPercent: i.TaxPercent,
	}
}

// Validate validates the invoice line item
func (i *LineItem) Validate() error {
	if i.Quantity.IsNegative() {
		return NewValidationError("quantity", "must be non negative")
	}

	if i.UnitPrice.IsNegative() {
		return NewValidationError("unit_price", "must be non negative")
	}

	if i.TaxPercent.IsNegative() {
		return NewValidationError("tax_percent", "must be non negative")
	}

	return nil
}
