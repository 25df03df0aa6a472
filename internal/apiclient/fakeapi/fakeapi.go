// Package fakeapi is an in-memory stand-in for the remote shop API, used by
// tests across the storefront.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"wickandwax/internal/domain"
)

const (
	UserToken  = "user-token"
	AdminToken = "admin-token"
	UserID     = "u-1"
	AdminID    = "a-1"
	Password   = "secret123"
	ValidOTP   = "1234"
)

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	Products  map[string]domain.Product
	Offers    []domain.Offer
	Inventory []domain.InventoryRecord
	History   map[string][]domain.StockHistory
	Carts     map[string]*domain.Cart
	Wishlist  []domain.WishlistItem
	Orders    []domain.Order
	Reviews   []domain.Review
	Hits      map[string]int
	FailNext  map[string]int // path prefix -> status to fail the next call with
	seq       int
}

func New() *Server {
	s := &Server{
		Products: map[string]domain.Product{},
		History:  map[string][]domain.StockHistory{},
		Carts:    map[string]*domain.Cart{},
		Hits:     map[string]int{},
		FailNext: map[string]int{},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// Seed installs the standard catalog: one simple product with fragrances and
// one variable product with two models.
func (s *Server) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Products["p-jar"] = domain.Product{
		ID: "p-jar", Name: "Mason Jar Candle", Type: domain.ProductSimple, CategoryID: "cat-jar",
		Colors: []domain.Color{{
			ID: "c-amber", Name: "Amber", OriginalPrice: 1000, CurrentPrice: 500,
			Fragrances: []string{"Lavender", "Vanilla"}, Sizes: []string{"200g"},
			Images: []string{"/media/jar-amber.jpg"},
		}, {
			ID: "c-white", Name: "White", OriginalPrice: 600, CurrentPrice: 600,
		}},
	}
	s.Products["p-pillar"] = domain.Product{
		ID: "p-pillar", Name: "Pillar Candle", Type: domain.ProductVariable, CategoryID: "cat-pillar",
		Models: []domain.Model{
			{ID: "m-small", Name: "Small", SKU: "PIL-S", Colors: []domain.Color{
				{ID: "c-red", Name: "Red", OriginalPrice: 400, CurrentPrice: 350, Fragrances: []string{"Rose"}},
			}},
			{ID: "m-large", Name: "Large", SKU: "PIL-L", Colors: []domain.Color{
				{ID: "c-red", Name: "Red", OriginalPrice: 900, CurrentPrice: 800, Fragrances: []string{"Rose"}},
			}},
		},
	}
	start := time.Now().Add(-24 * time.Hour)
	s.Offers = append(s.Offers, domain.Offer{
		ID: "o-jar", ProductID: "p-jar", ColorID: "c-amber", OfferPercentage: 20,
		OfferLabel: "Festive", StartDate: start, IsActive: true, CreatedAt: start,
	})
	s.Inventory = append(s.Inventory,
		domain.InventoryRecord{ID: "inv-amber-lav", ProductID: "p-jar", ColorID: "c-amber", Fragrance: "Lavender", Stock: 5, Threshold: 10},
		domain.InventoryRecord{ID: "inv-amber-van", ProductID: "p-jar", ColorID: "c-amber", Fragrance: "Vanilla", Stock: 0, Threshold: 10},
		domain.InventoryRecord{ID: "inv-white", ProductID: "p-jar", ColorID: "c-white", Stock: 50, Threshold: 10},
		domain.InventoryRecord{ID: "inv-red-l", ProductID: "p-pillar", ColorID: "c-red", VariableModelID: "m-large", Fragrance: "Rose", Stock: 12, Threshold: 10},
	)
}

func (s *Server) Lock()   { s.mu.Lock() }
func (s *Server) Unlock() { s.mu.Unlock() }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func data(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": v})
}

type handler func(w http.ResponseWriter, r *http.Request)

func (s *Server) wrap(need string, h handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.Hits[r.Method+" "+r.URL.Path]++
		for prefix, status := range s.FailNext {
			if strings.HasPrefix(r.URL.Path, prefix) {
				delete(s.FailNext, prefix)
				fail(w, status, "injected failure")
				return
			}
		}
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		switch need {
		case "user":
			if tok != UserToken {
				fail(w, http.StatusUnauthorized, "Session expired")
				return
			}
		case "admin":
			if tok != AdminToken {
				fail(w, http.StatusForbidden, "Admins only")
				return
			}
		}
		h(w, r)
	}
}

func bind(r *http.Request, v any) error { return json.NewDecoder(r.Body).Decode(v) }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /user/login", s.wrap("", s.userLogin))
	mux.HandleFunc("POST /user/register", s.wrap("", s.userRegister))
	mux.HandleFunc("POST /user/forgot-password", s.wrap("", func(w http.ResponseWriter, r *http.Request) { data(w, map[string]string{}) }))
	mux.HandleFunc("POST /user/verify-otp", s.wrap("", s.verifyOTP))
	mux.HandleFunc("POST /user/reset-password", s.wrap("", s.resetPassword))
	mux.HandleFunc("POST /admin/login", s.wrap("", s.adminLogin))
	mux.HandleFunc("POST /admin/register", s.wrap("", s.adminLogin))

	mux.HandleFunc("GET /products/all", s.wrap("", s.allProducts))
	mux.HandleFunc("GET /products/category/{id}", s.wrap("", s.productsByCategory))
	mux.HandleFunc("GET /products/{id}", s.wrap("", s.product))
	mux.HandleFunc("POST /products/related-by-fragrances", s.wrap("", s.related))

	mux.HandleFunc("GET /productoffers/public-products-with-offers", s.wrap("", s.productsWithOffers))
	mux.HandleFunc("GET /productoffers/products-with-color-offers", s.wrap("admin", s.productsWithOffers))
	mux.HandleFunc("GET /productoffers/product-color-offers/{id}", s.wrap("", s.productOffers))
	mux.HandleFunc("POST /productoffers/add-color-offer", s.wrap("admin", s.addOffer))
	mux.HandleFunc("PUT /productoffers/deactivate-color-offer/{id}", s.wrap("admin", s.deactivateOffer))

	mux.HandleFunc("GET /inventory/all", s.wrap("admin", func(w http.ResponseWriter, r *http.Request) { data(w, s.Inventory) }))
	mux.HandleFunc("GET /inventory/product/{id}/status", s.wrap("", s.stockStatus))
	mux.HandleFunc("GET /inventory/stock-history/{id}", s.wrap("admin", func(w http.ResponseWriter, r *http.Request) { data(w, s.History[r.PathValue("id")]) }))
	mux.HandleFunc("PUT /inventory/add-stock/{id}", s.wrap("admin", s.addStock))
	mux.HandleFunc("PUT /inventory/set-stock/{id}", s.wrap("admin", s.setStock))
	mux.HandleFunc("PUT /inventory/update-threshold/{id}", s.wrap("admin", s.updateThreshold))

	mux.HandleFunc("GET /cart/{userId}", s.wrap("user", s.cart))
	mux.HandleFunc("POST /cart/add", s.wrap("user", s.cartAdd))
	mux.HandleFunc("PUT /cart/update/{id}", s.wrap("user", s.cartUpdate))
	mux.HandleFunc("DELETE /cart/remove/{id}", s.wrap("user", s.cartRemove))

	mux.HandleFunc("GET /wishlist/my-wishlist", s.wrap("user", func(w http.ResponseWriter, r *http.Request) { data(w, s.Wishlist) }))
	mux.HandleFunc("GET /wishlist/count", s.wrap("user", func(w http.ResponseWriter, r *http.Request) { data(w, map[string]int{"count": len(s.Wishlist)}) }))
	mux.HandleFunc("GET /wishlist/check/{id}", s.wrap("user", s.wishlistCheck))
	mux.HandleFunc("POST /wishlist/add", s.wrap("user", s.wishlistAdd))
	mux.HandleFunc("DELETE /wishlist/remove/{id}", s.wrap("user", s.wishlistRemove))

	mux.HandleFunc("GET /orders/user/{userId}", s.wrap("user", func(w http.ResponseWriter, r *http.Request) { data(w, s.Orders) }))
	mux.HandleFunc("GET /orders/stats/{userId}", s.wrap("user", s.orderStats))
	mux.HandleFunc("GET /orders/all/orders", s.wrap("admin", func(w http.ResponseWriter, r *http.Request) { data(w, s.Orders) }))
	mux.HandleFunc("GET /orders/admin/stats", s.wrap("admin", s.orderStats))
	mux.HandleFunc("POST /orders/checkout", s.wrap("user", s.checkout))
	mux.HandleFunc("PUT /orders/{id}/status", s.wrap("admin", s.orderStatus))
	mux.HandleFunc("PUT /orders/{id}/cancel", s.wrap("user", s.orderCancel))

	mux.HandleFunc("GET /reviews/product/{id}", s.wrap("", s.productReviews))
	mux.HandleFunc("GET /reviews/user/{userId}", s.wrap("user", func(w http.ResponseWriter, r *http.Request) { data(w, s.Reviews) }))
	mux.HandleFunc("POST /reviews/submit", s.wrap("user", s.submitReview))
	mux.HandleFunc("POST /reviews/check-multiple", s.wrap("user", s.checkReviews))
	mux.HandleFunc("PUT /reviews/update/{id}", s.wrap("user", s.updateReview))
	mux.HandleFunc("DELETE /reviews/{id}", s.wrap("user", s.deleteReview))

	mux.HandleFunc("GET /admin/dashboard/kpis", s.wrap("admin", s.kpis))
	mux.HandleFunc("GET /admin/dashboard/orders-by-status", s.wrap("admin", s.ordersByStatus))
	mux.HandleFunc("GET /admin/dashboard/revenue-over-time", s.wrap("admin", func(w http.ResponseWriter, r *http.Request) {
		data(w, []domain.RevenuePoint{{Date: "2026-10-01", Revenue: 1888, Orders: 1}})
	}))
	mux.HandleFunc("GET /admin/dashboard/top-products", s.wrap("admin", func(w http.ResponseWriter, r *http.Request) {
		data(w, []domain.TopProduct{{ProductID: "p-jar", ProductName: "Mason Jar Candle", UnitsSold: 2, Revenue: 800}})
	}))
	mux.HandleFunc("GET /admin/dashboard/low-stock", s.wrap("admin", s.lowStock))
	mux.HandleFunc("GET /admin/dashboard/reviews", s.wrap("admin", func(w http.ResponseWriter, r *http.Request) {
		data(w, domain.ReviewStats{Total: len(s.Reviews)})
	}))
	return mux
}
