package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"wickandwax/internal/domain"
)

type WishlistInput struct {
	ProductID     string                  `json:"productId"`
	ProductName   string                  `json:"productName"`
	Image         string                  `json:"image,omitempty"`
	Selected      domain.VariantSelection `json:"selected"`
	CurrentPrice  float64                 `json:"currentPrice"`
	OriginalPrice float64                 `json:"originalPrice"`
}

type WishlistCheck struct {
	InWishlist bool     `json:"inWishlist"`
	Fragrances []string `json:"fragrances"`
}

// Has reports whether the product is saved under fragrance.
func (w WishlistCheck) Has(fragrance string) bool {
	for _, f := range w.Fragrances {
		if f == fragrance {
			return true
		}
	}
	return false
}

func (c *Client) Wishlist(ctx context.Context, token string) ([]domain.WishlistItem, error) {
	var out []domain.WishlistItem
	err := c.get(ctx, "/wishlist/my-wishlist", token, false, &out)
	return out, err
}

func (c *Client) WishlistCount(ctx context.Context, token string) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.get(ctx, "/wishlist/count", token, false, &out)
	return out.Count, err
}

func (c *Client) WishlistCheck(ctx context.Context, token, productID string) (WishlistCheck, error) {
	var out WishlistCheck
	err := c.get(ctx, "/wishlist/check/"+esc(productID), token, false, &out)
	return out, err
}

func (c *Client) AddToWishlist(ctx context.Context, token string, in WishlistInput) error {
	return c.do(ctx, http.MethodPost, "/wishlist/add", token, in, nil)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID, fragrance string) error {
	path := "/wishlist/remove/" + esc(productID) + "?fragrance=" + url.QueryEscape(fragrance)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}
