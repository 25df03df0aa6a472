package handlers

import (
	"github.com/gofiber/fiber/v2"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/cache"
	"wickandwax/internal/config"
	"wickandwax/internal/events"
	"wickandwax/internal/services"
	"wickandwax/internal/session"
)

type Deps struct {
	Sessions *Sessions

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	SearchHandler    *SearchHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	WishlistHandler  *WishlistHandler
	ReviewHandler    *ReviewHandler
	AdminHandler     *AdminHandler

	carts    *services.CartService
	wishlist *services.WishlistService
}

func NewDeps(api *apiclient.Client, cfg config.Config, sessions *session.Manager, guard services.Guard, rc *cache.Redis, bus *events.Bus) *Deps {
	s := &Sessions{Manager: sessions, Secure: cfg.CookieSecure}

	catalogSvc := services.NewCatalogService(api, cfg.SearchDebounce)
	cartSvc := services.NewCartService(api, catalogSvc, rc, bus, guard)
	orderSvc := services.NewOrderService(api, cartSvc, bus, guard)
	wishSvc := services.NewWishlistService(api, catalogSvc, rc, bus)
	reviewSvc := services.NewReviewService(api, bus, guard)
	authSvc := services.NewAuthService(api, sessions)
	offerSvc := services.NewOfferService(api, bus, guard)
	invSvc := services.NewInventoryService(api, bus, guard)
	dashSvc := services.NewDashboardService(api)

	return &Deps{
		Sessions:         s,
		AuthHandler:      &AuthHandler{Sessions: s, Auth: authSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc, Wishlist: wishSvc},
		SearchHandler:    &SearchHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Sessions: s, Catalog: catalogSvc, Inv: invSvc},
		CartHandler:      &CartHandler{Sessions: s, Cart: cartSvc},
		OrderHandler:     &OrderHandler{Sessions: s, Order: orderSvc},
		WishlistHandler:  &WishlistHandler{Sessions: s, Wish: wishSvc},
		ReviewHandler:    &ReviewHandler{Sessions: s, Reviews: reviewSvc},
		AdminHandler:     &AdminHandler{Sessions: s, Dashboard: dashSvc, Orders: orderSvc, Offers: offerSvc},
		carts:            cartSvc,
		wishlist:         wishSvc,
	}
}

// Badges puts the header cart and wishlist counts in Locals for page renders.
func (d *Deps) Badges() fiber.Handler {
	return func(c *fiber.Ctx) error {
		a := authOf(c)
		if c.Method() == fiber.MethodGet && a.SignedIn() {
			c.Locals("CartCount", d.carts.Count(c.UserContext(), a))
			c.Locals("WishlistCount", d.wishlist.Count(c.UserContext(), a))
		}
		return c.Next()
	}
}

// Counts is the JSON badge endpoint polled after cart and wishlist changes.
func (d *Deps) Counts(c *fiber.Ctx) error {
	a := authOf(c)
	return c.JSON(fiber.Map{
		"cart":     d.carts.Count(c.UserContext(), a),
		"wishlist": d.wishlist.Count(c.UserContext(), a),
	})
}
