package services

import (
	"context"
	"strings"
	"time"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/domain"
	"wickandwax/internal/events"
	applog "wickandwax/internal/log"
	"wickandwax/internal/pricing"
	"wickandwax/internal/session"
	"wickandwax/internal/validate"
)

type OfferService struct {
	API   *apiclient.Client
	Bus   *events.Bus
	Guard Guard
	Now   func() time.Time
}

func NewOfferService(api *apiclient.Client, bus *events.Bus, guard Guard) *OfferService {
	return &OfferService{API: api, Bus: bus, Guard: guard, Now: time.Now}
}

// OfferRow is one color of one product on the admin offers page.
type OfferRow struct {
	Product domain.Product
	Model   *domain.Model
	Color   domain.Color
	Active  *domain.Offer
	Price   pricing.Price
	History []domain.Offer
}

func (s *OfferService) List(ctx context.Context, a session.Auth) ([]OfferRow, error) {
	if !a.IsAdmin() {
		return nil, apiclient.ErrUnauthorized
	}
	products, err := s.API.ProductsWithColorOffers(ctx, a.AdminToken)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	var rows []OfferRow
	add := func(p domain.ProductWithOffers, m *domain.Model, c domain.Color) {
		modelID := ""
		if m != nil {
			modelID = m.ID
		}
		row := OfferRow{Product: p.Product, Model: m, Color: c}
		row.Active = pricing.ResolveOffer(p.Offers, p.ID, c.ID, modelID, now)
		row.Price = pricing.ComputePrice(pricing.PriceOf(c), row.Active)
		for _, o := range p.Offers {
			if o.ColorID == c.ID && o.VariableModelID == modelID {
				row.History = append(row.History, o)
			}
		}
		rows = append(rows, row)
	}
	for _, p := range products {
		for _, c := range p.Colors {
			add(p, nil, c)
		}
		for i := range p.Models {
			for _, c := range p.Models[i].Colors {
				add(p, &p.Models[i], c)
			}
		}
	}
	return rows, nil
}

type OfferForm struct {
	ProductID  string
	ColorID    string
	ModelID    string
	Percentage string
	Label      string
	Start      string // yyyy-mm-dd, empty for today
	End        string // yyyy-mm-dd, empty for open-ended
	Submission string
}

const dateLayout = "2006-01-02"

func (f OfferForm) input(now time.Time) (apiclient.OfferInput, error) {
	pct, ok := validate.Percentage(f.Percentage)
	if !ok {
		return apiclient.OfferInput{}, invalid("offerPercentage", "Offer must be between 1 and 100 percent")
	}
	label := strings.TrimSpace(f.Label)
	if label == "" || len(label) > 40 {
		return apiclient.OfferInput{}, invalid("offerLabel", "Please enter a short offer label")
	}
	in := apiclient.OfferInput{
		ProductID: f.ProductID, ColorID: f.ColorID, VariableModelID: f.ModelID,
		OfferPercentage: pct, OfferLabel: label, StartDate: now,
	}
	if f.Start != "" {
		t, err := time.ParseInLocation(dateLayout, f.Start, now.Location())
		if err != nil {
			return in, invalid("startDate", "Start date is not valid")
		}
		in.StartDate = t
	}
	if f.End != "" {
		t, err := time.ParseInLocation(dateLayout, f.End, now.Location())
		if err != nil {
			return in, invalid("endDate", "End date is not valid")
		}
		// the end date is inclusive of the whole day
		t = t.Add(24*time.Hour - time.Second)
		if !t.After(in.StartDate) {
			return in, invalid("endDate", "End date must be after the start date")
		}
		in.EndDate = &t
	}
	return in, nil
}

// Add activates a new offer for one color scope. Active offers already on
// that scope are deactivated first so at most one is ever active.
func (s *OfferService) Add(ctx context.Context, a session.Auth, f OfferForm) (domain.Offer, error) {
	if !a.IsAdmin() {
		return domain.Offer{}, apiclient.ErrUnauthorized
	}
	in, err := f.input(s.Now())
	if err != nil {
		return domain.Offer{}, err
	}
	p, err := s.API.Product(ctx, in.ProductID)
	if err != nil {
		return domain.Offer{}, err
	}
	if _, _, ok := p.FindColor(in.VariableModelID, in.ColorID); !ok {
		return domain.Offer{}, invalid("colorId", "That color does not belong to the product")
	}

	out, err := once(ctx, s.Guard, f.Submission, "offer.add", func() (domain.Offer, error) {
		return s.replace(ctx, a, in)
	})
	if err != nil {
		return domain.Offer{}, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.OffersUpdated, ProductID: in.ProductID})
	return out, nil
}

// replace deactivates the active offers on the new offer's scope, then adds it.
func (s *OfferService) replace(ctx context.Context, a session.Auth, in apiclient.OfferInput) (domain.Offer, error) {
	existing, err := s.API.ProductColorOffers(ctx, in.ProductID)
	if err != nil {
		return domain.Offer{}, err
	}
	candidate := domain.Offer{ProductID: in.ProductID, ColorID: in.ColorID, VariableModelID: in.VariableModelID}
	for _, o := range pricing.ConflictingActive(existing, candidate) {
		if err := s.API.DeactivateColorOffer(ctx, a.AdminToken, o.ID); err != nil {
			return domain.Offer{}, err
		}
		applog.Event("admin.offer.superseded", map[string]any{"offer": o.ID, "product": o.ProductID})
	}
	return s.API.AddColorOffer(ctx, a.AdminToken, in)
}

func (s *OfferService) Deactivate(ctx context.Context, a session.Auth, offerID, productID string) error {
	if !a.IsAdmin() {
		return apiclient.ErrUnauthorized
	}
	if err := s.API.DeactivateColorOffer(ctx, a.AdminToken, offerID); err != nil {
		return err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.OffersUpdated, ProductID: productID})
	return nil
}
