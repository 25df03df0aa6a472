package pricing

import "wickandwax/internal/domain"

// MaxQuantity caps any single cart line.
const MaxQuantity = 99

// StockStatus derives the display status for a stock level. A negative
// threshold means "unset" and falls back to the default of 10.
func StockStatus(stock, threshold int) domain.StockStatus {
	if threshold < 0 {
		threshold = domain.DefaultThreshold
	}
	switch {
	case stock <= 0:
		return domain.StatusOutOfStock
	case stock < threshold:
		return domain.StatusLowStock
	default:
		return domain.StatusInStock
	}
}

// lenient covers the states where stock is unknown; a purchase is allowed
// provisionally.
func lenient(s domain.StockStatus) bool {
	return s == domain.StatusChecking || s == domain.StatusError
}

func stocked(s domain.StockStatus) bool {
	return s == domain.StatusLowStock || s == domain.StatusInStock
}

// CanPurchase reports whether qty units may be bought.
func CanPurchase(status domain.StockStatus, stock, qty int) bool {
	switch {
	case lenient(status):
		return qty >= 1 && qty <= MaxQuantity
	case stocked(status):
		return qty >= 1 && qty <= stock && qty <= MaxQuantity
	default:
		return false
	}
}

// ClampQuantity bounds qty to what may be selected.
func ClampQuantity(status domain.StockStatus, stock, qty int) int {
	switch {
	case lenient(status):
		return clamp(qty, 1, MaxQuantity)
	case stocked(status):
		if stock <= 0 {
			return 0
		}
		return clamp(qty, 1, min(stock, MaxQuantity))
	default:
		return 0
	}
}

// MaxSelectable is the upper bound of the quantity picker.
func MaxSelectable(status domain.StockStatus, stock int) int {
	switch {
	case lenient(status):
		return MaxQuantity
	case stocked(status):
		return max(0, min(stock, MaxQuantity))
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type Reason string

const (
	ReasonOK               Reason = ""
	ReasonSelectFragrance  Reason = "select-fragrance"
	ReasonOutOfStock       Reason = "out-of-stock"
	ReasonExceedsStock     Reason = "exceeds-stock"
	ReasonInvalidQuantity  Reason = "invalid-quantity"
	ReasonUnknownInventory Reason = "unknown-status"
)

// Selection describes the variant choice a purchase action depends on.
type Selection struct {
	Fragrances []string // fragrances the color offers; empty when none apply
	Fragrance  string
}

// Complete reports whether a required fragrance has been chosen from the
// offered list.
func (s Selection) Complete() bool {
	if len(s.Fragrances) == 0 {
		return true
	}
	for _, f := range s.Fragrances {
		if f == s.Fragrance {
			return true
		}
	}
	return false
}

type Decision struct {
	Allowed  bool   `json:"allowed"`
	Reason   Reason `json:"reason,omitempty"`
	Quantity int    `json:"quantity"`
	MaxQty   int    `json:"maxQty"`
}

// Gate decides whether add-to-cart / buy-now is enabled. The variant
// selection gate comes before any stock check.
func Gate(sel Selection, status domain.StockStatus, stock, qty int) Decision {
	d := Decision{
		Quantity: ClampQuantity(status, stock, qty),
		MaxQty:   MaxSelectable(status, stock),
	}
	switch {
	case !sel.Complete():
		d.Reason = ReasonSelectFragrance
	case status == domain.StatusOutOfStock:
		d.Reason = ReasonOutOfStock
	case !lenient(status) && !stocked(status):
		d.Reason = ReasonUnknownInventory
	case qty < 1 || qty > MaxQuantity:
		d.Reason = ReasonInvalidQuantity
	case !CanPurchase(status, stock, qty):
		d.Reason = ReasonExceedsStock
	default:
		d.Allowed = true
	}
	return d
}
