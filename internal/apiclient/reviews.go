package apiclient

import (
	"context"
	"net/http"

	"wickandwax/internal/domain"
)

type ReviewInput struct {
	OrderID    string `json:"orderId"`
	ProductID  string `json:"productId"`
	ColorID    string `json:"colorId"`
	ModelID    string `json:"modelId,omitempty"`
	ModelName  string `json:"modelName,omitempty"`
	Fragrance  string `json:"fragrance,omitempty"`
	Size       string `json:"size,omitempty"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"reviewText"`
}

type ReviewCheck struct {
	domain.ReviewKey
	Reviewed bool   `json:"reviewed"`
	ReviewID string `json:"reviewId,omitempty"`
}

func (c *Client) ProductReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	var out []domain.Review
	err := c.get(ctx, "/reviews/product/"+esc(productID), "", true, &out)
	return out, err
}

func (c *Client) UserReviews(ctx context.Context, token, userID string) ([]domain.Review, error) {
	var out []domain.Review
	err := c.get(ctx, "/reviews/user/"+esc(userID), token, false, &out)
	return out, err
}

func (c *Client) SubmitReview(ctx context.Context, token string, in ReviewInput) (domain.Review, error) {
	var out domain.Review
	err := c.do(ctx, http.MethodPost, "/reviews/submit", token, in, &out)
	return out, err
}

func (c *Client) CheckReviews(ctx context.Context, token string, keys []domain.ReviewKey) ([]ReviewCheck, error) {
	var out []ReviewCheck
	err := c.do(ctx, http.MethodPost, "/reviews/check-multiple", token, map[string]any{"items": keys}, &out)
	return out, err
}

func (c *Client) UpdateReview(ctx context.Context, token, reviewID string, rating int, text string) (domain.Review, error) {
	var out domain.Review
	body := map[string]any{"rating": rating, "reviewText": text}
	err := c.do(ctx, http.MethodPut, "/reviews/update/"+esc(reviewID), token, body, &out)
	return out, err
}

func (c *Client) DeleteReview(ctx context.Context, token, reviewID string) error {
	return c.do(ctx, http.MethodDelete, "/reviews/"+esc(reviewID), token, nil, nil)
}
