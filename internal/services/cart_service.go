package services

import (
	"context"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/cache"
	"wickandwax/internal/domain"
	"wickandwax/internal/events"
	"wickandwax/internal/pricing"
	"wickandwax/internal/session"
)

type CartService struct {
	API     *apiclient.Client
	Catalog *CatalogService
	Cache   *cache.Redis
	Bus     *events.Bus
	Guard   Guard
}

func NewCartService(api *apiclient.Client, catalog *CatalogService, c *cache.Redis, bus *events.Bus, guard Guard) *CartService {
	return &CartService{API: api, Catalog: catalog, Cache: c, Bus: bus, Guard: guard}
}

// AddInput is a purchase request for one variant: add-to-cart or buy-now.
type AddInput struct {
	ProductID string
	ModelID   string
	ColorID   string
	Fragrance string
	Size      string
	Qty       int

	// Submission is the one-time token of the add-to-cart form.
	Submission string
}

func (in AddInput) query() ProductQuery {
	return ProductQuery{ModelID: in.ModelID, ColorID: in.ColorID, Fragrance: in.Fragrance, Size: in.Size, Qty: in.Qty}
}

type CartView struct {
	Cart    domain.Cart
	Summary pricing.Summary
}

func lineItems(items []domain.CartItem) []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, pricing.LineItem{Quantity: it.Quantity, UnitPrice: it.UnitPrice, FinalPrice: it.FinalPrice})
	}
	return out
}

func newCartView(c domain.Cart) CartView {
	return CartView{Cart: c, Summary: pricing.ComputeSummary(lineItems(c.Items))}
}

func (s *CartService) View(ctx context.Context, a session.Auth) (CartView, error) {
	if !a.SignedIn() {
		return CartView{}, ErrNotSignedIn
	}
	c, err := s.API.Cart(ctx, a.Token, a.UserID)
	if err != nil {
		return CartView{}, err
	}
	s.Cache.SetCount(ctx, cache.CartCount, a.UserID, itemCount(c))
	return newCartView(c), nil
}

// purchasable resolves in against live price and stock, requiring the
// requested variant to exist and extra units on top of held to be allowed.
func (s *CartService) purchasable(ctx context.Context, in AddInput, held int) (ProductView, error) {
	if in.ProductID == "" {
		return ProductView{}, invalid("productId", "Missing product")
	}
	v, err := s.Catalog.Variant(ctx, in.ProductID, in.query())
	if err != nil {
		return v, err
	}
	if v.Color.ID != in.ColorID || v.Selected.ModelID != in.ModelID {
		return v, invalid("colorId", "Please choose an available option")
	}
	sel := pricing.Selection{Fragrances: v.Color.Fragrances, Fragrance: v.Selected.Fragrance}
	d := pricing.Gate(sel, v.Status, v.Stock, held+in.Qty)
	if !d.Allowed {
		return v, &EligibilityError{Reason: d.Reason, MaxQty: d.MaxQty}
	}
	return v, nil
}

func imageOf(v ProductView) string {
	if len(v.Color.Images) > 0 {
		return v.Color.Images[0]
	}
	return v.Product.Thumbnail
}

func (s *CartService) Add(ctx context.Context, a session.Auth, in AddInput) (CartView, error) {
	if !a.SignedIn() {
		return CartView{}, ErrNotSignedIn
	}
	if in.Qty < 1 || in.Qty > pricing.MaxQuantity {
		return CartView{}, &EligibilityError{Reason: pricing.ReasonInvalidQuantity}
	}
	current, err := s.API.Cart(ctx, a.Token, a.UserID)
	if err != nil {
		return CartView{}, err
	}
	v, err := s.purchasable(ctx, in, heldQuantity(current, in))
	if err != nil {
		return CartView{}, err
	}
	c, err := once(ctx, s.Guard, in.Submission, "cart.add", func() (domain.Cart, error) {
		return s.API.AddToCart(ctx, a.Token, apiclient.AddToCartInput{
			UserID:      a.UserID,
			ProductID:   v.Product.ID,
			ProductName: v.Product.Name,
			Image:       imageOf(v),
			Quantity:    in.Qty,
			UnitPrice:   v.Price.OriginalPrice,
			FinalPrice:  v.Price.FinalPrice,
			TotalPrice:  pricing.LineTotal(v.Price.FinalPrice, in.Qty),
			Selected:    v.Selected,
			HasOffer:    v.Price.HasOffer,
			Offer:       v.Offer,
		})
	})
	if err != nil {
		return CartView{}, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.CartUpdated, UserID: a.UserID, ProductID: v.Product.ID})
	return newCartView(c), nil
}

func heldQuantity(c domain.Cart, in AddInput) int {
	for _, it := range c.Items {
		sel := it.Selected
		if it.ProductID == in.ProductID && sel.ColorID == in.ColorID && sel.ModelID == in.ModelID &&
			sel.Fragrance == in.Fragrance && (in.Size == "" || sel.Size == in.Size) {
			return it.Quantity
		}
	}
	return 0
}

// Update sets a line's quantity. The quantity is clamped into what the line's
// variant can currently supply; a sold-out line is refused.
func (s *CartService) Update(ctx context.Context, a session.Auth, itemID string, qty int) (CartView, error) {
	if !a.SignedIn() {
		return CartView{}, ErrNotSignedIn
	}
	current, err := s.API.Cart(ctx, a.Token, a.UserID)
	if err != nil {
		return CartView{}, err
	}
	var line *domain.CartItem
	for i := range current.Items {
		if current.Items[i].ID == itemID {
			line = &current.Items[i]
		}
	}
	if line == nil {
		return CartView{}, apiclient.ErrNotFound
	}

	v, err := s.Catalog.Variant(ctx, line.ProductID, ProductQuery{
		ModelID: line.Selected.ModelID, ColorID: line.Selected.ColorID, Fragrance: line.Selected.Fragrance,
	})
	if err != nil {
		return CartView{}, err
	}
	qty = pricing.ClampQuantity(v.Status, v.Stock, qty)
	if qty == 0 {
		return CartView{}, &EligibilityError{Reason: pricing.ReasonOutOfStock}
	}

	c, err := s.API.UpdateCartItem(ctx, a.Token, itemID, qty)
	if err != nil {
		return CartView{}, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.CartUpdated, UserID: a.UserID, ProductID: line.ProductID})
	return newCartView(c), nil
}

func (s *CartService) Remove(ctx context.Context, a session.Auth, itemID string) (CartView, error) {
	if !a.SignedIn() {
		return CartView{}, ErrNotSignedIn
	}
	c, err := s.API.RemoveCartItem(ctx, a.Token, itemID)
	if err != nil {
		return CartView{}, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.CartUpdated, UserID: a.UserID})
	return newCartView(c), nil
}

// Count is the header badge: total units in the cart. Failures read as zero.
func (s *CartService) Count(ctx context.Context, a session.Auth) int {
	if !a.SignedIn() {
		return 0
	}
	if n, ok := s.Cache.Count(ctx, cache.CartCount, a.UserID); ok {
		return n
	}
	c, err := s.API.Cart(ctx, a.Token, a.UserID)
	if err != nil {
		return 0
	}
	n := itemCount(c)
	s.Cache.SetCount(ctx, cache.CartCount, a.UserID, n)
	return n
}

func itemCount(c domain.Cart) int {
	n := 0
	for _, it := range c.Items {
		if it.Quantity > 0 {
			n += it.Quantity
		}
	}
	return n
}
