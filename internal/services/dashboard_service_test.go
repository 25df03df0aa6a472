package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wickandwax/internal/apiclient"
)

func TestDashboardLoad(t *testing.T) {
	e := newEnv(t)
	d, err := e.dashboard.Load(ctx, admin, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 2, d.KPIs.TotalProducts)
	require.Len(t, d.Revenue, 1)
	require.Len(t, d.TopProducts, 1)
	require.Len(t, d.LowStock, 2)

	e.srv.Lock()
	require.Equal(t, 1, e.srv.Hits["GET /admin/dashboard/top-products"])
	e.srv.Unlock()
}

func TestDashboardPanelFailure(t *testing.T) {
	e := newEnv(t)
	e.srv.Lock()
	e.srv.FailNext["/admin/dashboard/low-stock"] = 500
	e.srv.Unlock()

	_, err := e.dashboard.Load(ctx, admin, 7, 3)
	require.ErrorIs(t, err, apiclient.ErrUnavailable)

	_, err = e.dashboard.Load(ctx, shopper, 7, 3)
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
}
