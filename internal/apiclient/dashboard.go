package apiclient

import (
	"context"
	"strconv"

	"wickandwax/internal/domain"
)

func (c *Client) DashboardKPIs(ctx context.Context, adminToken string) (domain.KPIs, error) {
	var out domain.KPIs
	err := c.get(ctx, "/admin/dashboard/kpis", adminToken, false, &out)
	return out, err
}

func (c *Client) OrdersByStatus(ctx context.Context, adminToken string) ([]domain.StatusCount, error) {
	var out []domain.StatusCount
	err := c.get(ctx, "/admin/dashboard/orders-by-status", adminToken, false, &out)
	return out, err
}

func (c *Client) RevenueOverTime(ctx context.Context, adminToken string, days int) ([]domain.RevenuePoint, error) {
	var out []domain.RevenuePoint
	err := c.get(ctx, "/admin/dashboard/revenue-over-time?days="+strconv.Itoa(days), adminToken, false, &out)
	return out, err
}

func (c *Client) TopProducts(ctx context.Context, adminToken string, limit int) ([]domain.TopProduct, error) {
	var out []domain.TopProduct
	err := c.get(ctx, "/admin/dashboard/top-products?limit="+strconv.Itoa(limit), adminToken, false, &out)
	return out, err
}

func (c *Client) LowStock(ctx context.Context, adminToken string) ([]domain.InventoryRecord, error) {
	var out []domain.InventoryRecord
	err := c.get(ctx, "/admin/dashboard/low-stock", adminToken, false, &out)
	return out, err
}

func (c *Client) ReviewStats(ctx context.Context, adminToken string) (domain.ReviewStats, error) {
	var out domain.ReviewStats
	err := c.get(ctx, "/admin/dashboard/reviews", adminToken, false, &out)
	return out, err
}
