package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/domain"
	"wickandwax/internal/events"
	"wickandwax/internal/repos"
	"wickandwax/internal/services"
)

func TestInventoryList(t *testing.T) {
	e := newEnv(t)

	page, err := e.inventory.List(ctx, admin, "", "")
	require.NoError(t, err)
	require.Equal(t, services.InventoryCounts{InStock: 2, LowStock: 1, OutOfStock: 1}, page.Counts)
	require.Len(t, page.Rows, 4)
	require.Equal(t, "inv-amber-van", page.Rows[0].ID, "lowest stock first")

	page, err = e.inventory.List(ctx, admin, domain.StatusLowStock, "")
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	require.Equal(t, "inv-amber-lav", page.Rows[0].ID)
	require.Equal(t, 1, page.Counts.OutOfStock, "counts ignore the filter")

	page, err = e.inventory.List(ctx, admin, "", "no such candle")
	require.NoError(t, err)
	require.Empty(t, page.Rows)

	_, err = e.inventory.List(ctx, shopper, "", "")
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
}

func TestInventoryAdjustments(t *testing.T) {
	e := newEnv(t)

	_, err := e.inventory.AddStock(ctx, admin, "inv-amber-lav", "0", "", "")
	require.ErrorIs(t, err, services.ErrInvalid)
	rec, err := e.inventory.AddStock(ctx, admin, "inv-amber-lav", "5", "", "")
	require.NoError(t, err)
	require.Equal(t, 10, rec.Stock)

	_, err = e.inventory.SetStock(ctx, admin, "inv-amber-lav", "-1", "", "")
	require.ErrorIs(t, err, services.ErrInvalid)
	rec, err = e.inventory.SetStock(ctx, admin, "inv-amber-lav", "3", "damaged", "")
	require.NoError(t, err)
	require.Equal(t, 3, rec.Stock)

	_, err = e.inventory.UpdateThreshold(ctx, admin, "inv-amber-lav", "ten", "")
	require.ErrorIs(t, err, services.ErrInvalid)
	rec, err = e.inventory.UpdateThreshold(ctx, admin, "inv-amber-lav", "2", "")
	require.NoError(t, err)
	require.Equal(t, 2, rec.Threshold)

	_, err = e.inventory.AddStock(ctx, admin, "inv-missing", "1", "", "")
	require.ErrorIs(t, err, apiclient.ErrNotFound)
	require.Equal(t, 3, e.published(events.InventoryUpdated))

	v, err := e.catalog.Variant(ctx, "p-jar", services.ProductQuery{ColorID: "c-amber", Fragrance: "Lavender"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusInStock, v.Status)
	require.Equal(t, 3, v.Stock)

	h, err := e.inventory.History(ctx, admin, "inv-amber-lav")
	require.NoError(t, err)
	require.Len(t, h, 2)
	require.Equal(t, domain.StockAdjusted, h[0].Type)
	require.Equal(t, "damaged", h[0].Reason)
	require.Equal(t, "restock", h[1].Reason)
}

func TestAddStockSubmittedOnce(t *testing.T) {
	e := newEnv(t)

	rec, err := e.inventory.AddStock(ctx, admin, "inv-amber-lav", "10", "restock", "sub-add")
	require.NoError(t, err)
	require.Equal(t, 15, rec.Stock)

	_, err = e.inventory.AddStock(ctx, admin, "inv-amber-lav", "10", "restock", "sub-add")
	require.ErrorIs(t, err, repos.ErrDuplicateSubmission)
	require.Equal(t, "This form was already submitted", services.Message(err, ""))

	e.srv.Lock()
	stock, hits := e.srv.Inventory[0].Stock, e.srv.Hits["PUT /inventory/add-stock/inv-amber-lav"]
	e.srv.Unlock()
	require.Equal(t, 15, stock)
	require.Equal(t, 1, hits, "the repeat must not reach the backend")
}

func TestFailedStockChangeReleasesToken(t *testing.T) {
	e := newEnv(t)
	e.srv.Lock()
	e.srv.FailNext["/inventory/"] = 503
	e.srv.Unlock()

	_, err := e.inventory.SetStock(ctx, admin, "inv-white", "40", "", "sub-set")
	require.ErrorIs(t, err, apiclient.ErrUnavailable)

	rec, err := e.inventory.SetStock(ctx, admin, "inv-white", "40", "", "sub-set")
	require.NoError(t, err)
	require.Equal(t, 40, rec.Stock)
}
