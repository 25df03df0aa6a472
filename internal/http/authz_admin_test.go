package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"wickandwax/internal/http/handlers"
)

func mountAdmin(app *testApp) {
	h := app.deps.AdminHandler
	app.Get("/admin/login", app.deps.AuthHandler.AdminLoginForm)
	admin := app.Group("/admin", handlers.RequireAdmin())
	admin.Get("/", h.Home)
	admin.Get("/orders", h.OrdersPage)
	admin.Post("/orders/:id/status", h.UpdateOrderStatus)
	admin.Get("/offers", h.OffersPage)
	admin.Post("/offers", h.AddOffer)
	admin.Post("/offers/:id/deactivate", h.DeactivateOffer)
	admin.Get("/inventory", app.deps.InventoryHandler.Page)
	admin.Get("/inventory/:id/history", app.deps.InventoryHandler.History)
	admin.Post("/inventory/:id/:op", app.deps.InventoryHandler.Update)
}

// admin routes: shoppers get 403, visitors are sent to the admin login
func TestAdminRoutesRequireAdmin(t *testing.T) {
	app := newApp(t)
	mountAdmin(app)

	for _, path := range []string{"/admin", "/admin/orders", "/admin/offers", "/admin/inventory"} {
		if resp := get(t, app, path, userSID); resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s as shopper: expected 403, got %d", path, resp.StatusCode)
		}
		resp := get(t, app, path, "")
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/admin/login" {
			t.Fatalf("%s anonymous: expected redirect to /admin/login, got %d %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}

	resp := get(t, app, "/admin", adminSID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin dashboard: expected 200, got %d", resp.StatusCode)
	}
	if b := body(t, resp); !strings.Contains(b, "Mason Jar Candle") {
		t.Fatalf("dashboard should list top products; body=%s", b)
	}
}

func TestAdminOrderProgression(t *testing.T) {
	app := newApp(t)
	mountAdmin(app)
	placeCartOrder(t, app)
	tok := csrfToken(t, app, "/admin/login")
	id := app.srv.Orders[0].ID

	resp := postForm(t, app, "/admin/orders/"+id+"/status", adminSID, tok, url.Values{"status": {"shipped"}})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("pending -> shipped should be refused with 409, got %d", resp.StatusCode)
	}
	for _, next := range []string{"processing", "shipped", "delivered"} {
		resp = postForm(t, app, "/admin/orders/"+id+"/status", adminSID, tok, url.Values{"status": {next}})
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("move to %s: expected redirect, got %d", next, resp.StatusCode)
		}
	}
	if got := app.srv.Orders[0].OrderStatus; got != "delivered" {
		t.Fatalf("order status = %s, want delivered", got)
	}

	page := body(t, get(t, app, "/admin/orders", adminSID))
	if !strings.Contains(page, `value="returned"`) {
		t.Fatalf("delivered order should offer the return transition; body=%s", page)
	}
}

func TestAdminOffersDeactivateBeforeActivate(t *testing.T) {
	app := newApp(t)
	mountAdmin(app)
	tok := csrfToken(t, app, "/admin/login")

	form := url.Values{
		"productId": {"p-jar"}, "colorId": {"c-amber"},
		"offerPercentage": {"30"}, "offerLabel": {"Diwali"},
	}
	resp := postForm(t, app, "/admin/offers", adminSID, tok, form)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/admin/offers" {
		t.Fatalf("add offer: expected redirect, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	active := 0
	for _, o := range app.srv.Offers {
		if o.ColorID == "c-amber" && o.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active amber offer, got %d", active)
	}

	form["offerPercentage"] = []string{"150"}
	resp = postForm(t, app, "/admin/offers", adminSID, tok, form)
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/admin/offers?err=") {
		t.Fatalf("invalid percentage should come back with an error, got %d %q", resp.StatusCode, loc)
	}

	page := body(t, get(t, app, "/admin/offers", adminSID))
	if !strings.Contains(page, "Diwali") || !strings.Contains(page, "₹350.00") {
		t.Fatalf("offers page should show the new offer price; body=%s", page)
	}
}
