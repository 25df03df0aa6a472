package services

import (
	"context"
	"errors"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/cache"
	"wickandwax/internal/domain"
	"wickandwax/internal/events"
	"wickandwax/internal/pricing"
	"wickandwax/internal/session"
)

type WishlistService struct {
	API     *apiclient.Client
	Catalog *CatalogService
	Cache   *cache.Redis
	Bus     *events.Bus
}

func NewWishlistService(api *apiclient.Client, catalog *CatalogService, c *cache.Redis, bus *events.Bus) *WishlistService {
	return &WishlistService{API: api, Catalog: catalog, Cache: c, Bus: bus}
}

// FragranceKey is the fragrance part of the wishlist dedup key. Colors
// without fragrances are saved under domain.DefaultFragrance.
func FragranceKey(c *domain.Color, fragrance string) string {
	if c == nil || len(c.Fragrances) == 0 || fragrance == "" {
		return domain.DefaultFragrance
	}
	return fragrance
}

type WishlistView struct {
	Items   []domain.WishlistItem
	Summary pricing.Summary
}

func (s *WishlistService) List(ctx context.Context, a session.Auth) (WishlistView, error) {
	if !a.SignedIn() {
		return WishlistView{}, ErrNotSignedIn
	}
	items, err := s.API.Wishlist(ctx, a.Token)
	if err != nil {
		return WishlistView{}, err
	}
	lines := make([]pricing.LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.LineItem{Quantity: 1, UnitPrice: it.OriginalPrice, FinalPrice: it.CurrentPrice})
	}
	s.Cache.SetCount(ctx, cache.WishlistCount, a.UserID, len(items))
	return WishlistView{Items: items, Summary: pricing.ComputeSummary(lines)}, nil
}

// Saved reports whether the product is wishlisted under fragrance.
func (s *WishlistService) Saved(ctx context.Context, a session.Auth, productID, fragrance string) bool {
	if !a.SignedIn() {
		return false
	}
	chk, err := s.API.WishlistCheck(ctx, a.Token, productID)
	if err != nil {
		return false
	}
	return chk.Has(fragrance)
}

// Toggle flips the saved state of one (product, fragrance). On failure the
// state from before the call is returned alongside the error.
func (s *WishlistService) Toggle(ctx context.Context, a session.Auth, in AddInput) (bool, error) {
	if !a.SignedIn() {
		return false, ErrNotSignedIn
	}
	v, err := s.Catalog.Variant(ctx, in.ProductID, in.query())
	if err != nil {
		return false, err
	}
	key := FragranceKey(v.Color, v.Selected.Fragrance)
	if len(v.Color.Fragrances) > 0 && v.Selected.Fragrance == "" {
		return false, &EligibilityError{Reason: pricing.ReasonSelectFragrance}
	}

	chk, err := s.API.WishlistCheck(ctx, a.Token, v.Product.ID)
	if err != nil {
		return false, err
	}
	was := chk.Has(key)

	if was {
		err = s.API.RemoveFromWishlist(ctx, a.Token, v.Product.ID, key)
		if errors.Is(err, apiclient.ErrNotFound) {
			err = nil
		}
	} else {
		sel := v.Selected
		sel.Fragrance = key
		err = s.API.AddToWishlist(ctx, a.Token, apiclient.WishlistInput{
			ProductID:     v.Product.ID,
			ProductName:   v.Product.Name,
			Image:         imageOf(v),
			Selected:      sel,
			CurrentPrice:  v.Price.FinalPrice,
			OriginalPrice: v.Price.OriginalPrice,
		})
		if errors.Is(err, apiclient.ErrConflict) {
			err = nil
		}
	}
	if err != nil {
		return was, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.WishlistUpdated, UserID: a.UserID, ProductID: v.Product.ID})
	return !was, nil
}

func (s *WishlistService) Remove(ctx context.Context, a session.Auth, productID, fragrance string) error {
	if !a.SignedIn() {
		return ErrNotSignedIn
	}
	if fragrance == "" {
		fragrance = domain.DefaultFragrance
	}
	if err := s.API.RemoveFromWishlist(ctx, a.Token, productID, fragrance); err != nil && !errors.Is(err, apiclient.ErrNotFound) {
		return err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.WishlistUpdated, UserID: a.UserID, ProductID: productID})
	return nil
}

// Count is the header badge. Failures read as zero.
func (s *WishlistService) Count(ctx context.Context, a session.Auth) int {
	if !a.SignedIn() {
		return 0
	}
	if n, ok := s.Cache.Count(ctx, cache.WishlistCount, a.UserID); ok {
		return n
	}
	n, err := s.API.WishlistCount(ctx, a.Token)
	if err != nil {
		return 0
	}
	s.Cache.SetCount(ctx, cache.WishlistCount, a.UserID, n)
	return n
}
