package services

import (
	"context"
	"slices"
	"strings"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/domain"
	"wickandwax/internal/events"
	"wickandwax/internal/pricing"
	"wickandwax/internal/session"
	"wickandwax/internal/validate"
)

type InventoryService struct {
	API   *apiclient.Client
	Bus   *events.Bus
	Guard Guard
}

func NewInventoryService(api *apiclient.Client, bus *events.Bus, guard Guard) *InventoryService {
	return &InventoryService{API: api, Bus: bus, Guard: guard}
}

type InventoryRow struct {
	domain.InventoryRecord
	Status domain.StockStatus
}

type InventoryCounts struct {
	InStock, LowStock, OutOfStock int
}

type InventoryPage struct {
	Rows   []InventoryRow
	Counts InventoryCounts
}

// List returns every inventory record with its derived status, filtered by
// status ("" for all) and product name substring.
func (s *InventoryService) List(ctx context.Context, a session.Auth, status domain.StockStatus, q string) (InventoryPage, error) {
	if !a.IsAdmin() {
		return InventoryPage{}, apiclient.ErrUnauthorized
	}
	recs, err := s.API.AllInventory(ctx, a.AdminToken)
	if err != nil {
		return InventoryPage{}, err
	}
	var page InventoryPage
	needle := strings.ToLower(strings.TrimSpace(q))
	for _, r := range recs {
		// An omitted threshold decodes as 0, so such a record is never low-stock.
		st := pricing.StockStatus(r.Stock, r.Threshold)
		switch st {
		case domain.StatusInStock:
			page.Counts.InStock++
		case domain.StatusLowStock:
			page.Counts.LowStock++
		case domain.StatusOutOfStock:
			page.Counts.OutOfStock++
		}
		if status != "" && st != status {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.ProductName), needle) {
			continue
		}
		page.Rows = append(page.Rows, InventoryRow{InventoryRecord: r, Status: st})
	}
	slices.SortStableFunc(page.Rows, func(x, y InventoryRow) int { return x.Stock - y.Stock })
	return page, nil
}

// AddStock adds a positive delta. It is not idempotent, so a non-empty
// submission token makes a repeated form post fail instead of adding twice.
func (s *InventoryService) AddStock(ctx context.Context, a session.Auth, id, qtyRaw, reason, submission string) (domain.InventoryRecord, error) {
	if !a.IsAdmin() {
		return domain.InventoryRecord{}, apiclient.ErrUnauthorized
	}
	qty, ok := validate.Positive(qtyRaw)
	if !ok {
		return domain.InventoryRecord{}, invalid("quantity", "Quantity to add must be greater than zero")
	}
	rec, err := once(ctx, s.Guard, submission, "inventory.add", func() (domain.InventoryRecord, error) {
		return s.API.AddStock(ctx, a.AdminToken, id, qty, reasonOr(reason, "restock"))
	})
	if err != nil {
		return rec, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.InventoryUpdated, ProductID: rec.ProductID})
	return rec, nil
}

func (s *InventoryService) SetStock(ctx context.Context, a session.Auth, id, stockRaw, reason, submission string) (domain.InventoryRecord, error) {
	if !a.IsAdmin() {
		return domain.InventoryRecord{}, apiclient.ErrUnauthorized
	}
	stock, ok := validate.NonNegative(stockRaw)
	if !ok {
		return domain.InventoryRecord{}, invalid("stock", "Stock cannot be negative")
	}
	rec, err := once(ctx, s.Guard, submission, "inventory.set", func() (domain.InventoryRecord, error) {
		return s.API.SetStock(ctx, a.AdminToken, id, stock, reasonOr(reason, "manual adjustment"))
	})
	if err != nil {
		return rec, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.InventoryUpdated, ProductID: rec.ProductID})
	return rec, nil
}

func (s *InventoryService) UpdateThreshold(ctx context.Context, a session.Auth, id, thresholdRaw, submission string) (domain.InventoryRecord, error) {
	if !a.IsAdmin() {
		return domain.InventoryRecord{}, apiclient.ErrUnauthorized
	}
	th, ok := validate.NonNegative(thresholdRaw)
	if !ok {
		return domain.InventoryRecord{}, invalid("threshold", "Threshold cannot be negative")
	}
	rec, err := once(ctx, s.Guard, submission, "inventory.threshold", func() (domain.InventoryRecord, error) {
		return s.API.UpdateThreshold(ctx, a.AdminToken, id, th)
	})
	if err != nil {
		return rec, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.InventoryUpdated, ProductID: rec.ProductID})
	return rec, nil
}

func (s *InventoryService) History(ctx context.Context, a session.Auth, id string) ([]domain.StockHistory, error) {
	if !a.IsAdmin() {
		return nil, apiclient.ErrUnauthorized
	}
	h, err := s.API.StockHistory(ctx, a.AdminToken, id)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(h, func(x, y domain.StockHistory) int { return y.Date.Compare(x.Date) })
	return h, nil
}

func reasonOr(reason, fallback string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return r
	}
	return fallback
}
