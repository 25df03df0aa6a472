package apiclient

import (
	"context"
	"net/http"

	"wickandwax/internal/domain"
)

// AddToCartInput carries the shopper's selection together with the price
// snapshot the storefront computed for it.
type AddToCartInput struct {
	UserID      string                  `json:"userId"`
	ProductID   string                  `json:"productId"`
	ProductName string                  `json:"productName"`
	Image       string                  `json:"image,omitempty"`
	Quantity    int                     `json:"quantity"`
	UnitPrice   float64                 `json:"unitPrice"`
	FinalPrice  float64                 `json:"finalPrice"`
	TotalPrice  float64                 `json:"totalPrice"`
	Selected    domain.VariantSelection `json:"selected"`
	HasOffer    bool                    `json:"hasOffer"`
	Offer       *domain.Offer           `json:"offer,omitempty"`
}

func (c *Client) Cart(ctx context.Context, token, userID string) (domain.Cart, error) {
	var out domain.Cart
	err := c.get(ctx, "/cart/"+esc(userID), token, false, &out)
	return out, err
}

func (c *Client) AddToCart(ctx context.Context, token string, in AddToCartInput) (domain.Cart, error) {
	var out domain.Cart
	err := c.do(ctx, http.MethodPost, "/cart/add", token, in, &out)
	return out, err
}

func (c *Client) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) (domain.Cart, error) {
	var out domain.Cart
	err := c.do(ctx, http.MethodPut, "/cart/update/"+esc(itemID), token, map[string]int{"quantity": quantity}, &out)
	return out, err
}

func (c *Client) RemoveCartItem(ctx context.Context, token, itemID string) (domain.Cart, error) {
	var out domain.Cart
	err := c.do(ctx, http.MethodDelete, "/cart/remove/"+esc(itemID), token, nil, &out)
	return out, err
}
