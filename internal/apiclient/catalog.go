package apiclient

import (
	"context"
	"net/http"

	"wickandwax/internal/domain"
)

func (c *Client) Product(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	err := c.get(ctx, "/products/"+esc(id), "", true, &out)
	return out, err
}

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.get(ctx, "/products/all", "", true, &out)
	return out, err
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	var out []domain.Product
	err := c.get(ctx, "/products/category/"+esc(categoryID), "", true, &out)
	return out, err
}

// RelatedByFragrances returns products sharing any of the fragrances,
// excluding productID.
func (c *Client) RelatedByFragrances(ctx context.Context, productID string, fragrances []string) ([]domain.Product, error) {
	var out []domain.Product
	body := map[string]any{"productId": productID, "fragrances": fragrances}
	err := c.do(ctx, http.MethodPost, "/products/related-by-fragrances", "", body, &out)
	return out, err
}
