package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/apiclient/fakeapi"
	"wickandwax/internal/domain"
	"wickandwax/internal/events"
	"wickandwax/internal/repos"
	"wickandwax/internal/services"
	"wickandwax/internal/session"
)

type env struct {
	srv      *fakeapi.Server
	bus      *events.Bus
	sessions *session.Manager

	catalog   *services.CatalogService
	carts     *services.CartService
	orders    *services.OrderService
	wishlist  *services.WishlistService
	reviews   *services.ReviewService
	auth      *services.AuthService
	offers    *services.OfferService
	inventory *services.InventoryService
	dashboard *services.DashboardService

	mu     sync.Mutex
	events []events.Event
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := fakeapi.New()
	srv.Seed()
	t.Cleanup(srv.Close)

	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	api := apiclient.New(srv.URL, 2*time.Second, nil)
	bus := events.NewBus()
	guard := repos.NewSubmissionRepo(db)
	sessions := session.NewManager(repos.NewSessionRepo(db), time.Minute)

	e := &env{srv: srv, bus: bus, sessions: sessions}
	e.catalog = services.NewCatalogService(api, 0)
	e.carts = services.NewCartService(api, e.catalog, nil, bus, guard)
	e.orders = services.NewOrderService(api, e.carts, bus, guard)
	e.wishlist = services.NewWishlistService(api, e.catalog, nil, bus)
	e.reviews = services.NewReviewService(api, bus, guard)
	e.auth = services.NewAuthService(api, sessions)
	e.offers = services.NewOfferService(api, bus, guard)
	e.inventory = services.NewInventoryService(api, bus, guard)
	e.dashboard = services.NewDashboardService(api)

	for _, topic := range []events.Topic{events.CartUpdated, events.WishlistUpdated, events.OffersUpdated,
		events.InventoryUpdated, events.OrdersUpdated, events.ReviewsUpdated} {
		bus.Subscribe(topic, func(_ context.Context, ev events.Event) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.events = append(e.events, ev)
		})
	}
	return e
}

func (e *env) published(topic events.Topic) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.events {
		if ev.Topic == topic {
			n++
		}
	}
	return n
}

var (
	ctx     = context.Background()
	shopper = session.Auth{SID: "sid-1", Token: fakeapi.UserToken, UserID: fakeapi.UserID}
	admin   = session.Auth{SID: "sid-1", AdminToken: fakeapi.AdminToken, AdminID: fakeapi.AdminID, Role: domain.RoleAdmin}
)

var address = domain.Address{
	FullName: "Asha Rao", Phone: "9876543210", Line1: "12 Lake Road",
	City: "Pune", State: "MH", Pincode: "411001",
}

func amber(fragrance string, qty int) services.AddInput {
	return services.AddInput{ProductID: "p-jar", ColorID: "c-amber", Fragrance: fragrance, Qty: qty}
}

func white(qty int) services.AddInput {
	return services.AddInput{ProductID: "p-jar", ColorID: "c-white", Qty: qty}
}
