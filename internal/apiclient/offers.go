package apiclient

import (
	"context"
	"net/http"
	"time"

	"wickandwax/internal/domain"
)

// OfferInput is the admin form for a new color offer.
type OfferInput struct {
	ProductID       string     `json:"productId"`
	ColorID         string     `json:"colorId"`
	VariableModelID string     `json:"variableModelId,omitempty"`
	OfferPercentage float64    `json:"offerPercentage"`
	OfferLabel      string     `json:"offerLabel"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         *time.Time `json:"endDate,omitempty"`
}

func (c *Client) PublicProductsWithOffers(ctx context.Context) ([]domain.ProductWithOffers, error) {
	var out []domain.ProductWithOffers
	err := c.get(ctx, "/productoffers/public-products-with-offers", "", true, &out)
	return out, err
}

func (c *Client) ProductColorOffers(ctx context.Context, productID string) ([]domain.Offer, error) {
	var out []domain.Offer
	err := c.get(ctx, "/productoffers/product-color-offers/"+esc(productID), "", true, &out)
	return out, err
}

func (c *Client) ProductsWithColorOffers(ctx context.Context, adminToken string) ([]domain.ProductWithOffers, error) {
	var out []domain.ProductWithOffers
	err := c.get(ctx, "/productoffers/products-with-color-offers", adminToken, false, &out)
	return out, err
}

func (c *Client) AddColorOffer(ctx context.Context, adminToken string, in OfferInput) (domain.Offer, error) {
	var out domain.Offer
	err := c.do(ctx, http.MethodPost, "/productoffers/add-color-offer", adminToken, in, &out)
	return out, err
}

func (c *Client) DeactivateColorOffer(ctx context.Context, adminToken, offerID string) error {
	return c.do(ctx, http.MethodPut, "/productoffers/deactivate-color-offer/"+esc(offerID), adminToken, struct{}{}, nil)
}
