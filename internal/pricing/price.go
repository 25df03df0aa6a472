package pricing

import (
	"github.com/shopspring/decimal"

	"wickandwax/internal/domain"
)

// ColorPrice is the pair of list prices a color carries.
type ColorPrice struct {
	OriginalPrice float64
	CurrentPrice  float64
}

func PriceOf(c domain.Color) ColorPrice {
	return ColorPrice{OriginalPrice: c.OriginalPrice, CurrentPrice: c.CurrentPrice}
}

type Price struct {
	FinalPrice      float64 `json:"finalPrice"`
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountPercent int     `json:"discountPercent"`
	HasOffer        bool    `json:"hasOffer"`
	OfferLabel      string  `json:"offerLabel,omitempty"`
}

// Saving is the per-unit reduction against the original price.
func (p Price) Saving() float64 {
	if p.OriginalPrice <= p.FinalPrice {
		return 0
	}
	return Round2(p.OriginalPrice - p.FinalPrice)
}

// ComputePrice applies offer (may be nil) to the color's current price.
// The result is never negative and never above the current price.
func ComputePrice(c ColorPrice, offer *domain.Offer) Price {
	out := Price{OriginalPrice: c.OriginalPrice, HasOffer: offer != nil}
	current := decimal.NewFromFloat(c.CurrentPrice)
	if current.IsNegative() {
		current = decimal.Zero
	}

	final := current
	if offer != nil {
		out.OfferLabel = offer.OfferLabel
		pct := decimal.NewFromFloat(offer.OfferPercentage)
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		final = current.Sub(current.Mul(pct).Div(hundred))
	}
	final = final.Round(2)
	if final.GreaterThan(current) {
		final = current
	}
	if final.IsNegative() {
		final = decimal.Zero
	}
	out.FinalPrice = final.InexactFloat64()

	if c.OriginalPrice > 0 && c.OriginalPrice > out.FinalPrice {
		out.DiscountPercent = Percent(c.OriginalPrice-out.FinalPrice, c.OriginalPrice)
	}
	return out
}
