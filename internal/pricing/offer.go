package pricing

import (
	"sort"
	"time"

	"wickandwax/internal/domain"
)

// ResolveOffer picks the offer that applies to a variant at now, or nil.
//
// Scope matching is exact on (product, color, model): an offer without a model
// never applies to a model of a variable product and vice versa. Only one
// active offer per scope should exist; if several are valid anyway, the one
// with the latest start date wins, then the latest creation time, then the
// greatest id.
func ResolveOffer(offers []domain.Offer, productID, colorID, modelID string, now time.Time) *domain.Offer {
	var best *domain.Offer
	for i := range offers {
		o := &offers[i]
		if o.ProductID != productID || o.ColorID != colorID || o.VariableModelID != modelID {
			continue
		}
		if !o.IsCurrentlyValid(now) {
			continue
		}
		if best == nil || newer(o, best) {
			best = o
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

func newer(a, b *domain.Offer) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// ConflictingActive lists the active offers sharing candidate's scope, oldest
// first. They must be deactivated before candidate is activated.
func ConflictingActive(offers []domain.Offer, candidate domain.Offer) []domain.Offer {
	var out []domain.Offer
	for _, o := range offers {
		if o.IsActive && o.ID != candidate.ID && o.SameScope(candidate) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(&out[j], &out[i]) })
	return out
}

// ColorOffers gathers the offers embedded in a product's colors, filling in
// the scope fields the embedding leaves implicit.
func ColorOffers(p domain.Product) []domain.Offer {
	var out []domain.Offer
	add := func(modelID string, c domain.Color) {
		if c.Offer == nil {
			return
		}
		o := *c.Offer
		if o.ProductID == "" {
			o.ProductID = p.ID
		}
		if o.ColorID == "" {
			o.ColorID = c.ID
		}
		if o.VariableModelID == "" {
			o.VariableModelID = modelID
		}
		out = append(out, o)
	}
	if p.Type == domain.ProductVariable {
		for _, m := range p.Models {
			for _, c := range m.Colors {
				add(m.ID, c)
			}
		}
		return out
	}
	for _, c := range p.Colors {
		add("", c)
	}
	return out
}
