package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// admin inventory changes are audited
func TestAdminInventorySaveLogged(t *testing.T) {
	app := newApp(t)
	mountAdmin(app)
	tok := csrfToken(t, app, "/admin/login")

	var ok, bad, unknown *http.Response
	entries := captureLogs(t, func() {
		ok = postForm(t, app, "/admin/inventory/inv-white/add", adminSID, tok, url.Values{"quantity": {"5"}, "reason": {"restock"}})
		bad = postForm(t, app, "/admin/inventory/inv-white/set", adminSID, tok, url.Values{"stock": {"-3"}})
		unknown = postForm(t, app, "/admin/inventory/inv-white/drop", adminSID, tok, nil)
	})

	if ok.StatusCode != http.StatusFound || ok.Header.Get("Location") != "/admin/inventory" {
		t.Fatalf("add stock: expected redirect, got %d", ok.StatusCode)
	}
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("negative stock: expected 400, got %d", bad.StatusCode)
	}
	if unknown.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown op: expected 404, got %d", unknown.StatusCode)
	}

	e, found := findLog(entries, "admin.inventory.save")
	if !found {
		t.Fatalf("admin.inventory.save not logged; entries=%+v", entries)
	}
	if e.Level != "audit" || e.UserID != "admin:a-1" {
		t.Fatalf("unexpected audit entry %+v", e)
	}
	if e.Fields["record"] != "inv-white" || e.Fields["op"] != "add" || e.Fields["stock"] != float64(55) {
		t.Fatalf("unexpected audit fields %+v", e.Fields)
	}
	if _, found := findLog(entries, "admin.inventory.save.fail"); !found {
		t.Fatalf("rejected change not logged; entries=%+v", entries)
	}
}

func TestAdminInventoryPageAndHistory(t *testing.T) {
	app := newApp(t)
	mountAdmin(app)
	tok := csrfToken(t, app, "/admin/login")

	page := body(t, get(t, app, "/admin/inventory?status=out-of-stock", adminSID))
	if !strings.Contains(page, "Vanilla") || strings.Contains(page, "Rose") {
		t.Fatalf("out-of-stock filter should list only the vanilla jar; body=%s", page)
	}

	postForm(t, app, "/admin/inventory/inv-amber-van/add", adminSID, tok, url.Values{"quantity": {"4"}, "reason": {"restock"}})
	hist := body(t, get(t, app, "/admin/inventory/inv-amber-van/history", adminSID))
	if !strings.Contains(hist, "restock") {
		t.Fatalf("history should show the restock; body=%s", hist)
	}
}

// a repeated add-stock post is refused instead of adding twice
func TestAdminAddStockRepeatRejected(t *testing.T) {
	app := newApp(t)
	mountAdmin(app)
	tok := csrfToken(t, app, "/admin/login")

	form := func() url.Values {
		return url.Values{"quantity": {"10"}, "reason": {"restock"}, "submission": {"sub-restock"}}
	}
	first := postForm(t, app, "/admin/inventory/inv-amber-lav/add", adminSID, tok, form())
	if first.StatusCode != http.StatusFound {
		t.Fatalf("first add: expected redirect, got %d", first.StatusCode)
	}
	second := postForm(t, app, "/admin/inventory/inv-amber-lav/add", adminSID, tok, form())
	if second.StatusCode != http.StatusConflict {
		t.Fatalf("repeat add: expected 409, got %d", second.StatusCode)
	}
	if !strings.Contains(body(t, second), "already submitted") {
		t.Fatal("repeat add should explain the refusal")
	}

	app.srv.Lock()
	stock := app.srv.Inventory[0].Stock
	app.srv.Unlock()
	if stock != 15 {
		t.Fatalf("stock %d, want 15", stock)
	}

	page := body(t, get(t, app, "/admin/inventory", adminSID))
	if strings.Count(page, `name="submission"`) != 12 {
		t.Fatalf("every adjust form should carry its own submission token")
	}
}

func TestCartAddRepeatRejected(t *testing.T) {
	app := newApp(t)
	mountStore(app)
	tok := csrfToken(t, app, "/")

	form := func() url.Values {
		return url.Values{"productId": {"p-jar"}, "colorId": {"c-white"}, "qty": {"1"}, "submission": {"sub-cart"}}
	}
	if resp := postForm(t, app, "/cart/add", userSID, tok, form()); resp.StatusCode != http.StatusFound {
		t.Fatalf("first add: expected redirect, got %d", resp.StatusCode)
	}
	if resp := postForm(t, app, "/cart/add", userSID, tok, form()); resp.StatusCode != http.StatusConflict {
		t.Fatalf("repeat add: expected 409, got %d", resp.StatusCode)
	}
	app.srv.Lock()
	defer app.srv.Unlock()
	if n := app.srv.Carts["u-1"].Items[0].Quantity; n != 1 {
		t.Fatalf("cart quantity %d, want 1", n)
	}
}
