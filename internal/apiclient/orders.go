package apiclient

import (
	"context"
	"net/http"

	"wickandwax/internal/domain"
)

type CheckoutRequest struct {
	UserID          string               `json:"userId"`
	Items           []domain.OrderItem   `json:"items"`
	DeliveryAddress domain.Address       `json:"deliveryAddress"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	Pricing         domain.Pricing       `json:"pricing"`
	CheckoutMode    domain.CheckoutMode  `json:"checkoutMode"`
}

func (c *Client) UserOrders(ctx context.Context, token, userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := c.get(ctx, "/orders/user/"+esc(userID), token, false, &out)
	return out, err
}

func (c *Client) UserOrderStats(ctx context.Context, token, userID string) (domain.OrderStats, error) {
	var out domain.OrderStats
	err := c.get(ctx, "/orders/stats/"+esc(userID), token, false, &out)
	return out, err
}

func (c *Client) AllOrders(ctx context.Context, adminToken string) ([]domain.Order, error) {
	var out []domain.Order
	err := c.get(ctx, "/orders/all/orders", adminToken, false, &out)
	return out, err
}

func (c *Client) AdminOrderStats(ctx context.Context, adminToken string) (domain.OrderStats, error) {
	var out domain.OrderStats
	err := c.get(ctx, "/orders/admin/stats", adminToken, false, &out)
	return out, err
}

func (c *Client) Checkout(ctx context.Context, token string, req CheckoutRequest) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, http.MethodPost, "/orders/checkout", token, req, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, adminToken, orderID string, status domain.OrderStatus) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, http.MethodPut, "/orders/"+esc(orderID)+"/status", adminToken, map[string]string{"status": string(status)}, &out)
	return out, err
}

func (c *Client) CancelOrder(ctx context.Context, token, orderID, reason string) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, http.MethodPut, "/orders/"+esc(orderID)+"/cancel", token, map[string]string{"reason": reason}, &out)
	return out, err
}
