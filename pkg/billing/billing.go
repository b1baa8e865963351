// Package billing holds the invoice total arithmetic shared by the server
// and the client SDK. Both sides import this package, so a live preview and
// the persisted record can never disagree on a single cent.
//
// All amounts are decimals; results keep full precision and Round trims to
// two places for display only.
package billing

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// DisplayPlaces is the number of decimal places shown to users
const DisplayPlaces = 2

// LineItem is one product or service entry on an invoice
type LineItem struct {
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TaxPercent decimal.Decimal `json:"taxPercent"`
}

// Net returns quantity x unit price before tax
func (i LineItem) Net() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Tax returns the tax amount on the item's net value
func (i LineItem) Tax() decimal.Decimal {
	return i.Net().Mul(i.TaxPercent).Div(oneHundred)
}

// Total returns the item's net value plus tax
func (i LineItem) Total() decimal.Decimal {
	return i.Net().Add(i.Tax())
}

// Totals aggregates an invoice's derived amounts
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxTotal decimal.Decimal `json:"taxTotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Compute derives subtotal, tax total and grand total from the given items
// and flat discount. The grand total is floored at zero: a discount larger
// than subtotal+tax never produces a negative invoice.
func Compute(items []LineItem, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero

	for _, item := range items {
		subtotal = subtotal.Add(item.Net())
		taxTotal = taxTotal.Add(item.Tax())
	}

	total := subtotal.Add(taxTotal).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		TaxTotal: taxTotal,
		Discount: discount,
		Total:    total,
	}
}

// Round returns the totals trimmed to two decimal places for display.
// Stored amounts keep full precision.
func (t Totals) Round() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(DisplayPlaces),
		TaxTotal: t.TaxTotal.Round(DisplayPlaces),
		Discount: t.Discount.Round(DisplayPlaces),
		Total:    t.Total.Round(DisplayPlaces),
	}
}
