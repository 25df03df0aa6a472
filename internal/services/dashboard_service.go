package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/domain"
	"wickandwax/internal/session"
)

type DashboardService struct {
	API *apiclient.Client
}

func NewDashboardService(api *apiclient.Client) *DashboardService {
	return &DashboardService{API: api}
}

// Load fetches every dashboard panel concurrently. Any failing panel fails
// the page.
func (s *DashboardService) Load(ctx context.Context, a session.Auth, days, top int) (domain.Dashboard, error) {
	if !a.IsAdmin() {
		return domain.Dashboard{}, apiclient.ErrUnauthorized
	}
	if days <= 0 {
		days = 30
	}
	if top <= 0 {
		top = 5
	}
	var d domain.Dashboard
	g, ctx := errgroup.WithContext(ctx)
	tok := a.AdminToken
	g.Go(func() (err error) { d.KPIs, err = s.API.DashboardKPIs(ctx, tok); return })
	g.Go(func() (err error) { d.OrdersByStatus, err = s.API.OrdersByStatus(ctx, tok); return })
	g.Go(func() (err error) { d.Revenue, err = s.API.RevenueOverTime(ctx, tok, days); return })
	g.Go(func() (err error) { d.TopProducts, err = s.API.TopProducts(ctx, tok, top); return })
	g.Go(func() (err error) { d.LowStock, err = s.API.LowStock(ctx, tok); return })
	g.Go(func() (err error) { d.Reviews, err = s.API.ReviewStats(ctx, tok); return })
	if err := g.Wait(); err != nil {
		return domain.Dashboard{}, err
	}
	return d, nil
}
