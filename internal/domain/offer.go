package domain

import "time"

// Offer is a time-bounded percentage discount scoped to one
// product+color(+model) combination. VariableModelID is empty for simple products.
type Offer struct {
	ID              string     `json:"_id"`
	ProductID       string     `json:"productId"`
	ColorID         string     `json:"colorId"`
	VariableModelID string     `json:"variableModelId,omitempty"`
	OfferPercentage float64    `json:"offerPercentage"`
	OfferLabel      string     `json:"offerLabel"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	IsActive        bool       `json:"isActive"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// IsCurrentlyValid reports whether the offer applies at now. Both bounds are inclusive.
func (o Offer) IsCurrentlyValid(now time.Time) bool {
	if !o.IsActive || now.Before(o.StartDate) {
		return false
	}
	return o.EndDate == nil || !now.After(*o.EndDate)
}

// SameScope reports whether two offers target the same variant tuple.
func (o Offer) SameScope(other Offer) bool {
	return o.ProductID == other.ProductID &&
		o.ColorID == other.ColorID &&
		o.VariableModelID == other.VariableModelID
}
