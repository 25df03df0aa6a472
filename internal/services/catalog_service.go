package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/domain"
	applog "wickandwax/internal/log"
	"wickandwax/internal/pricing"
	"wickandwax/internal/sequence"
)

type CatalogService struct {
	API *apiclient.Client
	Now func() time.Time

	search *sequence.Debouncer
	views  *sequence.Sequencer
}

func NewCatalogService(api *apiclient.Client, searchDebounce time.Duration) *CatalogService {
	return &CatalogService{
		API:    api,
		Now:    time.Now,
		search: sequence.NewDebouncer(searchDebounce),
		views:  sequence.NewSequencer(),
	}
}

// ProductQuery is the variant selection carried on the product page URL.
type ProductQuery struct {
	ModelID   string
	ColorID   string
	Fragrance string
	Size      string
	Qty       int
}

type ProductView struct {
	Product  domain.Product
	Model    *domain.Model
	Color    *domain.Color
	Selected domain.VariantSelection

	Offer    *domain.Offer
	Price    pricing.Price
	Status   domain.StockStatus
	Stock    int
	Decision pricing.Decision

	Related       []ProductCard
	Reviews       []domain.Review
	AverageRating float64
}

// ProductCard is a listing tile with its resolved price.
type ProductCard struct {
	Product domain.Product
	Color   *domain.Color
	Price   pricing.Price
}

// Product loads the product page for the requested variant. An unknown or
// missing variant falls back to the product's first purchasable one.
func (s *CatalogService) Product(ctx context.Context, id string, q ProductQuery) (ProductView, error) {
	p, err := s.API.Product(ctx, id)
	if err != nil {
		return ProductView{}, err
	}
	v, err := s.variant(ctx, p, q)
	if err != nil {
		return ProductView{}, err
	}

	related, err := s.API.RelatedByFragrances(ctx, p.ID, fragrancesOf(p))
	if err != nil {
		applog.Event("catalog.related.fail", map[string]any{"product": p.ID, "err": err.Error()})
	}
	if len(related) > 0 {
		offers := s.offerIndex(ctx)
		for _, r := range related {
			if r.ID != p.ID {
				v.Related = append(v.Related, s.card(r, offers[r.ID]))
			}
		}
	}

	reviews, err := s.API.ProductReviews(ctx, p.ID)
	if err != nil {
		applog.Event("catalog.reviews.fail", map[string]any{"product": p.ID, "err": err.Error()})
	}
	v.Reviews = approved(reviews)
	v.AverageRating = AverageRating(v.Reviews)
	return v, nil
}

// approved drops reviews still waiting for moderation.
func approved(reviews []domain.Review) []domain.Review {
	var out []domain.Review
	for _, r := range reviews {
		if r.IsApproved {
			out = append(out, r)
		}
	}
	return out
}

// Variant resolves only the purchasable state of one selection: price,
// offer, stock and the eligibility decision.
func (s *CatalogService) Variant(ctx context.Context, id string, q ProductQuery) (ProductView, error) {
	p, err := s.API.Product(ctx, id)
	if err != nil {
		return ProductView{}, err
	}
	return s.variant(ctx, p, q)
}

// LatestVariant is Variant for rapid switching on one page: a response
// overtaken by a newer request for the same key reports
// sequence.ErrSuperseded instead of being applied.
func (s *CatalogService) LatestVariant(ctx context.Context, key, id string, q ProductQuery) (ProductView, error) {
	tok := s.views.Begin(key)
	v, err := s.Variant(ctx, id, q)
	if !s.views.Commit(tok) {
		return ProductView{}, sequence.ErrSuperseded
	}
	return v, err
}

func (s *CatalogService) variant(ctx context.Context, p domain.Product, q ProductQuery) (ProductView, error) {
	v := ProductView{Product: p}
	m, c, ok := p.FindColor(q.ModelID, q.ColorID)
	if !ok {
		mID, cID, found := p.DefaultVariant()
		if !found {
			return v, invalid("color", "This product has no purchasable variants")
		}
		m, c, _ = p.FindColor(mID, cID)
	}
	v.Model, v.Color = m, c

	v.Selected = domain.VariantSelection{ColorID: c.ID, ColorName: c.Name}
	if m != nil {
		v.Selected.ModelID, v.Selected.ModelName = m.ID, m.Name
	}
	if slices.Contains(c.Fragrances, q.Fragrance) {
		v.Selected.Fragrance = q.Fragrance
	}
	switch {
	case slices.Contains(c.Sizes, q.Size):
		v.Selected.Size = q.Size
	case len(c.Sizes) > 0:
		v.Selected.Size = c.Sizes[0]
	}

	offers, err := s.API.ProductColorOffers(ctx, p.ID)
	if err != nil {
		applog.Event("catalog.offers.fail", map[string]any{"product": p.ID, "err": err.Error()})
	}
	v.Offer = pricing.ResolveOffer(offers, p.ID, c.ID, v.Selected.ModelID, s.now())
	v.Price = pricing.ComputePrice(pricing.PriceOf(*c), v.Offer)

	v.Status, v.Stock = s.stock(ctx, p.ID, v.Selected)

	qty := q.Qty
	if qty == 0 {
		qty = 1
	}
	v.Decision = pricing.Gate(pricing.Selection{Fragrances: c.Fragrances, Fragrance: v.Selected.Fragrance}, v.Status, v.Stock, qty)
	return v, nil
}

// stock reads the inventory status for a selection. Before a fragrance is
// chosen the best-stocked fragrance of the color stands in. A failed lookup
// reports StatusError; a variant with no inventory record is out of stock.
func (s *CatalogService) stock(ctx context.Context, productID string, sel domain.VariantSelection) (domain.StockStatus, int) {
	st, err := s.API.ProductStockStatus(ctx, productID)
	if err != nil {
		applog.Event("catalog.stock.fail", map[string]any{"product": productID, "err": err.Error()})
		return domain.StatusError, 0
	}
	if sel.Fragrance != "" {
		if vs, ok := st.Lookup(sel.ModelID, sel.ColorID, sel.Fragrance); ok {
			// Threshold 0 here may be a missing field rather than a real zero.
			return pricing.StockStatus(vs.Stock, vs.Threshold), vs.Stock
		}
		return domain.StatusOutOfStock, 0
	}
	best, found := domain.VariantStock{}, false
	for _, vs := range st.Variants {
		if vs.ColorID != sel.ColorID || vs.VariableModelID != sel.ModelID {
			continue
		}
		if !found || vs.Stock > best.Stock {
			best, found = vs, true
		}
	}
	if !found {
		return domain.StatusOutOfStock, 0
	}
	return pricing.StockStatus(best.Stock, best.Threshold), best.Stock
}

func (s *CatalogService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// card prices the default variant of p. Offers embedded in the product's
// colors count alongside the listed ones.
func (s *CatalogService) card(p domain.Product, offers []domain.Offer) ProductCard {
	card := ProductCard{Product: p}
	mID, cID, ok := p.DefaultVariant()
	if !ok {
		return card
	}
	_, c, _ := p.FindColor(mID, cID)
	card.Color = c
	offers = append(slices.Clip(offers), pricing.ColorOffers(p)...)
	card.Price = pricing.ComputePrice(pricing.PriceOf(*c), pricing.ResolveOffer(offers, p.ID, c.ID, mID, s.now()))
	return card
}

// Home lists every product with offers applied to its default variant.
func (s *CatalogService) Home(ctx context.Context) ([]ProductCard, error) {
	withOffers, err := s.API.PublicProductsWithOffers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductCard, 0, len(withOffers))
	for _, p := range withOffers {
		out = append(out, s.card(p.Product, p.Offers))
	}
	return out, nil
}

func (s *CatalogService) Category(ctx context.Context, categoryID string) ([]ProductCard, error) {
	products, err := s.API.ProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	offers := s.offerIndex(ctx)
	out := make([]ProductCard, 0, len(products))
	for _, p := range products {
		out = append(out, s.card(p, offers[p.ID]))
	}
	return out, nil
}

func (s *CatalogService) offerIndex(ctx context.Context) map[string][]domain.Offer {
	idx := map[string][]domain.Offer{}
	withOffers, err := s.API.PublicProductsWithOffers(ctx)
	if err != nil {
		applog.Event("catalog.offers.fail", map[string]any{"err": err.Error()})
		return idx
	}
	for _, p := range withOffers {
		idx[p.ID] = p.Offers
	}
	return idx
}

// Search matches q against names, descriptions and fragrances. Calls sharing
// key inside the debounce window are coalesced; only the last one runs and
// the others get sequence.ErrSuperseded.
func (s *CatalogService) Search(ctx context.Context, key, q string) ([]ProductCard, error) {
	return sequence.Debounce(ctx, s.search, "search:"+key, func(ctx context.Context) ([]ProductCard, error) {
		products, err := s.API.Products(ctx)
		if err != nil {
			return nil, err
		}
		offers := s.offerIndex(ctx)
		needle := strings.ToLower(q)
		var out []ProductCard
		for _, p := range products {
			if matches(p, needle) {
				out = append(out, s.card(p, offers[p.ID]))
			}
		}
		return out, nil
	})
}

func matches(p domain.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, f := range fragrancesOf(p) {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func fragrancesOf(p domain.Product) []string {
	seen := map[string]bool{}
	var out []string
	add := func(cs []domain.Color) {
		for _, c := range cs {
			for _, f := range c.Fragrances {
				if !seen[f] {
					seen[f] = true
					out = append(out, f)
				}
			}
		}
	}
	add(p.Colors)
	for _, m := range p.Models {
		add(m.Colors)
	}
	return out
}

// AverageRating is the mean rating rounded to one decimal, zero when empty.
func AverageRating(reviews []domain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := int64(0)
	for _, r := range reviews {
		sum += int64(r.Rating)
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(reviews))))
	return avg.Round(1).InexactFloat64()
}
