package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// reject malformed inputs before any backend call
func TestValidationBadInputs(t *testing.T) {
	app := newApp(t)
	mountStore(app)

	resp := get(t, app, "/search?q="+url.QueryEscape("<script>alert(1)</script>"), "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("search with markup: expected 400, got %d", resp.StatusCode)
	}
	if b := body(t, resp); strings.Contains(b, "<script>alert") {
		t.Fatalf("search echoed raw markup; body=%s", b)
	}

	if resp := get(t, app, "/api/v1/availability?productId=", ""); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("availability without product: expected 400, got %d", resp.StatusCode)
	}
	if resp := get(t, app, "/product/"+url.PathEscape("p-jar'--"), ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("malformed product id: expected 404, got %d", resp.StatusCode)
	}

	app.srv.Lock()
	before := app.srv.Hits["POST /orders/checkout"]
	app.srv.Unlock()

	tok := csrfToken(t, app, "/")
	postForm(t, app, "/cart/add", userSID, tok, url.Values{"productId": {"p-jar"}, "colorId": {"c-white"}, "qty": {"1"}})
	form := addressValues()
	form.Set("pincode", "41100A")
	form.Set("submission", "sub-bad-pin")
	entries := captureLogs(t, func() { resp = postForm(t, app, "/orders", userSID, tok, form) })
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad pincode: expected 400, got %d", resp.StatusCode)
	}
	b := body(t, resp)
	if !strings.Contains(b, "Please check your delivery address") || !strings.Contains(b, `value="41100A"`) {
		t.Fatalf("checkout should re-render with the error and the entered address; body=%s", b)
	}
	if e, ok := findLog(entries, "validation.fail"); !ok || e.Fields["field"] != "Pincode" {
		t.Fatalf("validation.fail for Pincode not logged; entries=%+v", entries)
	}

	app.srv.Lock()
	after := app.srv.Hits["POST /orders/checkout"]
	app.srv.Unlock()
	if after != before {
		t.Fatal("invalid checkout reached the backend")
	}

	form.Set("pincode", "411001")
	form.Set("payment", "card")
	if resp := postForm(t, app, "/orders", userSID, tok, form); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown payment method: expected 400, got %d", resp.StatusCode)
	}
}

// user input is escaped when echoed back into a page
func TestTemplatesEscapeUserInput(t *testing.T) {
	app := newApp(t)
	app.Get("/register", app.deps.AuthHandler.RegisterForm)
	app.Post("/register", app.deps.AuthHandler.Register)
	tok := csrfToken(t, app, "/register")

	resp := postForm(t, app, "/register", "", tok, url.Values{
		"name": {`<script>alert("x")</script>`}, "email": {"asha@example.com"},
		"password": {"secret123"}, "confirm": {"different"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("mismatched confirm: expected 400, got %d", resp.StatusCode)
	}
	b := body(t, resp)
	if strings.Contains(b, `<script>alert("x")</script>`) {
		t.Fatalf("name echoed unescaped; body=%s", b)
	}
	if !strings.Contains(b, "&lt;script&gt;") {
		t.Fatalf("escaped name missing; body=%s", b)
	}
	if !strings.Contains(b, "Passwords do not match") {
		t.Fatalf("validation message missing; body=%s", b)
	}
}

// quantities are clamped into range rather than rejected
func TestCartQuantityClamped(t *testing.T) {
	app := newApp(t)
	mountStore(app)
	tok := csrfToken(t, app, "/")

	postForm(t, app, "/cart/add", userSID, tok, url.Values{"productId": {"p-jar"}, "colorId": {"c-white"}, "qty": {"1"}})
	id := app.srv.Carts["u-1"].Items[0].ID

	resp := postForm(t, app, "/cart/"+id+"/qty", userSID, tok, url.Values{"qty": {"500"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("update qty: expected redirect, got %d", resp.StatusCode)
	}
	if q := app.srv.Carts["u-1"].Items[0].Quantity; q != 50 {
		t.Fatalf("quantity = %d, want clamp to the 50 in stock", q)
	}
}
