package billing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func item(name string, qty, price, tax string) LineItem {
	return LineItem{
		Name:       name,
		Quantity:   decimal.RequireFromString(qty),
		UnitPrice:  decimal.RequireFromString(price),
		TaxPercent: decimal.RequireFromString(tax),
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		items        []LineItem
		discount     string
		wantSubtotal string
		wantTaxTotal string
		wantTotal    string
	}{
		{
			name:         "empty invoice",
			items:        nil,
			discount:     "0",
			wantSubtotal: "0",
			wantTaxTotal: "0",
			wantTotal:    "0",
		},
		{
			name:         "single item with tax",
			items:        []LineItem{item("Consulting", "2", "100", "10")},
			discount:     "0",
			wantSubtotal: "200",
			wantTaxTotal: "20",
			wantTotal:    "220",
		},
		{
			name: "mixed tax rates",
			items: []LineItem{
				item("Standard", "1", "100", "19"),
				item("Reduced", "1", "100", "7"),
			},
			discount:     "0",
			wantSubtotal: "200",
			wantTaxTotal: "26",
			wantTotal:    "226",
		},
		{
			name:         "discount applied after tax",
			items:        []LineItem{item("Design", "3", "80", "20")},
			discount:     "38",
			wantSubtotal: "240",
			wantTaxTotal: "48",
			wantTotal:    "250",
		},
		{
			name:         "discount exceeding total floors at zero",
			items:        []LineItem{item("Hosting", "1", "50", "0")},
			discount:     "100",
			wantSubtotal: "50",
			wantTaxTotal: "0",
			wantTotal:    "0",
		},
		{
			name:         "fractional quantities stay exact",
			items:        []LineItem{item("Hours", "2.5", "99.99", "8.25")},
			discount:     "0",
			wantSubtotal: "249.975",
			wantTaxTotal: "20.62293750",
			wantTotal:    "270.59793750",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.items, decimal.RequireFromString(tt.discount))

			if !got.Subtotal.Equal(decimal.RequireFromString(tt.wantSubtotal)) {
				t.Errorf("Subtotal = %s, want %s", got.Subtotal, tt.wantSubtotal)
			}
			if !got.TaxTotal.Equal(decimal.RequireFromString(tt.wantTaxTotal)) {
				t.Errorf("TaxTotal = %s, want %s", got.TaxTotal, tt.wantTaxTotal)
			}
			if !got.Total.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("Total = %s, want %s", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestComputeTotalNeverNegative(t *testing.T) {
	items := []LineItem{item("Audit", "1", "10", "5")}

	for _, discount := range []string{"0", "10.5", "1000", "99999999"} {
		got := Compute(items, decimal.RequireFromString(discount))
		if got.Total.IsNegative() {
			t.Errorf("discount %s produced negative total %s", discount, got.Total)
		}
	}
}

func TestLineItemTotal(t *testing.T) {
	it := item("Widget", "4", "25", "10")

	if !it.Net().Equal(decimal.RequireFromString("100")) {
		t.Errorf("Net = %s, want 100", it.Net())
	}
	if !it.Tax().Equal(decimal.RequireFromString("10")) {
		t.Errorf("Tax = %s, want 10", it.Tax())
	}
	if !it.Total().Equal(decimal.RequireFromString("110")) {
		t.Errorf("Total = %s, want 110", it.Total())
	}
}

func TestTotalsRound(t *testing.T) {
	got := Compute([]LineItem{item("Hours", "2.5", "99.99", "8.25")}, decimal.Zero).Round()

	if !got.Subtotal.Equal(decimal.RequireFromString("249.98")) {
		t.Errorf("rounded Subtotal = %s, want 249.98", got.Subtotal)
	}
	if !got.TaxTotal.Equal(decimal.RequireFromString("20.62")) {
		t.Errorf("rounded TaxTotal = %s, want 20.62", got.TaxTotal)
	}
	if !got.Total.Equal(decimal.RequireFromString("270.60")) {
		t.Errorf("rounded Total = %s, want 270.60", got.Total)
	}
}
