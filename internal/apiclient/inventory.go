package apiclient

import (
	"context"
	"net/http"

	"wickandwax/internal/domain"
)

func (c *Client) AllInventory(ctx context.Context, adminToken string) ([]domain.InventoryRecord, error) {
	var out []domain.InventoryRecord
	err := c.get(ctx, "/inventory/all", adminToken, false, &out)
	return out, err
}

// ProductStockStatus is never cached: purchase gating needs fresh numbers.
func (c *Client) ProductStockStatus(ctx context.Context, productID string) (domain.ProductStockStatus, error) {
	var out domain.ProductStockStatus
	err := c.get(ctx, "/inventory/product/"+esc(productID)+"/status", "", false, &out)
	return out, err
}

func (c *Client) StockHistory(ctx context.Context, adminToken, inventoryID string) ([]domain.StockHistory, error) {
	var out []domain.StockHistory
	err := c.get(ctx, "/inventory/stock-history/"+esc(inventoryID), adminToken, false, &out)
	return out, err
}

func (c *Client) AddStock(ctx context.Context, adminToken, inventoryID string, quantity int, reason string) (domain.InventoryRecord, error) {
	var out domain.InventoryRecord
	body := map[string]any{"quantity": quantity, "reason": reason}
	err := c.do(ctx, http.MethodPut, "/inventory/add-stock/"+esc(inventoryID), adminToken, body, &out)
	return out, err
}

func (c *Client) SetStock(ctx context.Context, adminToken, inventoryID string, stock int, reason string) (domain.InventoryRecord, error) {
	var out domain.InventoryRecord
	body := map[string]any{"stock": stock, "reason": reason}
	err := c.do(ctx, http.MethodPut, "/inventory/set-stock/"+esc(inventoryID), adminToken, body, &out)
	return out, err
}

func (c *Client) UpdateThreshold(ctx context.Context, adminToken, inventoryID string, threshold int) (domain.InventoryRecord, error) {
	var out domain.InventoryRecord
	body := map[string]any{"threshold": threshold}
	err := c.do(ctx, http.MethodPut, "/inventory/update-threshold/"+esc(inventoryID), adminToken, body, &out)
	return out, err
}
