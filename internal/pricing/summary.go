package pricing

import "github.com/shopspring/decimal"

const (
	FreeShippingAbove = 1000.0
	ShippingFee       = 120.0
	TaxRate           = 0.18
)

// LineItem is anything that can be rolled into order totals: cart lines,
// wishlist entries, a buy-now selection.
type LineItem struct {
	Quantity   int
	UnitPrice  float64
	FinalPrice float64
}

type Summary struct {
	Subtotal         float64 `json:"subtotal"`
	OriginalSubtotal float64 `json:"originalSubtotal"`
	TotalSavings     float64 `json:"totalSavings"`
	Shipping         float64 `json:"shipping"`
	Tax              float64 `json:"tax"`
	Total            float64 `json:"total"`
	TotalItems       int     `json:"totalItems"`
}

// FreeShipping reports whether the subtotal cleared the threshold.
func (s Summary) FreeShipping() bool { return s.Shipping == 0 }

// LineTotal is finalPrice × quantity rounded to paise.
func LineTotal(finalPrice float64, qty int) float64 {
	if qty <= 0 {
		return 0
	}
	return nonNeg(finalPrice).Mul(decimal.NewFromInt(int64(qty))).Round(2).InexactFloat64()
}

// ComputeSummary rolls line items into order totals. Lines with a
// non-positive quantity are ignored. An empty list still pays shipping because
// its subtotal does not exceed the free-shipping threshold.
func ComputeSummary(items []LineItem) Summary {
	subtotal := decimal.Zero
	original := decimal.Zero
	savings := decimal.Zero
	count := 0
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		q := decimal.NewFromInt(int64(it.Quantity))
		unit := nonNeg(it.UnitPrice)
		final := nonNeg(it.FinalPrice)
		subtotal = subtotal.Add(final.Mul(q))
		original = original.Add(unit.Mul(q))
		if unit.GreaterThan(final) {
			savings = savings.Add(unit.Sub(final).Mul(q))
		}
		count += it.Quantity
	}
	subtotal = subtotal.Round(2)

	shipping := decimal.NewFromFloat(ShippingFee)
	if subtotal.GreaterThan(decimal.NewFromFloat(FreeShippingAbove)) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(decimal.NewFromFloat(TaxRate)).Round(2)

	return Summary{
		Subtotal:         subtotal.InexactFloat64(),
		OriginalSubtotal: original.Round(2).InexactFloat64(),
		TotalSavings:     savings.Round(2).InexactFloat64(),
		Shipping:         shipping.InexactFloat64(),
		Tax:              tax.InexactFloat64(),
		Total:            subtotal.Add(shipping).Add(tax).Round(2).InexactFloat64(),
		TotalItems:       count,
	}
}

func nonNeg(x float64) decimal.Decimal {
	d := decimal.NewFromFloat(x)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
