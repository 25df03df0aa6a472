package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/apiclient/fakeapi"
	"wickandwax/internal/config"
	"wickandwax/internal/domain"
	"wickandwax/internal/events"
	"wickandwax/internal/http/handlers"
	"wickandwax/internal/repos"
	"wickandwax/internal/session"
)

const (
	userSID  = "sid-shopper"
	adminSID = "sid-admin"
)

type testApp struct {
	*fiber.App
	srv      *fakeapi.Server
	deps     *handlers.Deps
	sessions *session.Manager
	store    bool
}

// newApp builds the middleware chain main uses in front of a seeded fake API.
// Routes are registered by each test.
func newApp(t *testing.T) *testApp {
	t.Helper()
	srv := fakeapi.New()
	srv.Seed()
	t.Cleanup(srv.Close)

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{MediaDir: "../../web/media"}
	sessions := session.NewManager(repos.NewSessionRepo(db), time.Minute)
	api := apiclient.New(srv.URL, 2*time.Second, nil)
	deps := handlers.NewDeps(api, cfg, sessions, repos.NewSubmissionRepo(db), nil, events.NewBus())

	app := fiber.New(fiber.Config{Views: handlers.NewEngine("../../web/templates")})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(deps.Sessions.Load())
	app.Use(deps.Badges())
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	ctx := context.Background()
	if err := sessions.SignIn(ctx, userSID, fakeapi.UserToken, domain.User{ID: fakeapi.UserID, Name: "Asha", Email: "asha@example.com"}); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := sessions.SignInAdmin(ctx, adminSID, fakeapi.AdminToken, domain.Admin{ID: fakeapi.AdminID, Name: "Ravi", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("admin sign in: %v", err)
	}
	return &testApp{App: app, srv: srv, deps: deps, sessions: sessions}
}

// mountStore registers the shopper routes the way main does.
func mountStore(app *testApp) {
	if app.store {
		return
	}
	app.store = true
	d := app.deps
	user := handlers.RequireUser()
	app.Get("/", d.CategoryHandler.Home)
	app.Get("/search", d.SearchHandler.Search)
	app.Get("/category/:id", d.CategoryHandler.List)
	app.Get("/product/:id", d.ProductHandler.Detail)
	app.Get("/api/v1/availability", d.InventoryHandler.Check)
	app.Get("/api/v1/suggest", d.SearchHandler.Suggest)
	app.Get("/api/v1/counts", d.Counts)
	app.Get("/cart", user, d.CartHandler.View)
	app.Post("/cart/add", d.CartHandler.Add)
	app.Post("/cart/:id/qty", user, d.CartHandler.Update)
	app.Post("/cart/:id/remove", user, d.CartHandler.Remove)
	app.Post("/buy-now", d.OrderHandler.BuyNow)
	app.Get("/checkout", user, d.OrderHandler.Checkout)
	app.Post("/orders", user, d.OrderHandler.Place)
	app.Get("/orders", user, d.OrderHandler.History)
	app.Get("/order/:id", user, d.OrderHandler.View)
	app.Post("/order/:id/cancel", user, d.OrderHandler.Cancel)
	app.Get("/wishlist", user, d.WishlistHandler.List)
	app.Post("/wishlist/toggle", d.WishlistHandler.Toggle)
	app.Post("/wishlist/delete", user, d.WishlistHandler.Unsave)
	app.Get("/reviews", user, d.ReviewHandler.Page)
	app.Post("/reviews", user, d.ReviewHandler.Submit)
	app.Post("/reviews/:id", user, d.ReviewHandler.Update)
	app.Post("/reviews/:id/delete", user, d.ReviewHandler.Delete)
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrfToken fetches any GET page and returns the csrf cookie it sets.
func csrfToken(t *testing.T, app *testApp, path string) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatalf("csrf token missing on %s (status %d)", path, resp.StatusCode)
	}
	return tok
}

func get(t *testing.T, app *testApp, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func postForm(t *testing.T, app *testApp, path, sid, tok string, form url.Values) *http.Response {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", tok)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Status int            `json:"status"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
