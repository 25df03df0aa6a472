package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/limiter"

	"wickandwax/internal/apiclient/fakeapi"
)

func loginForm(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

// login throttling + success/fail paths
func TestLoginSuccessFailAndThrottle(t *testing.T) {
	app := newApp(t)
	authH := app.deps.AuthHandler
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)

	tok := csrfToken(t, app, "/login")

	respBad := postForm(t, app, "/login", "", tok, loginForm("asha@example.com", "wrongpass!"))
	if respBad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", respBad.StatusCode)
	}
	if b := body(t, respBad); !strings.Contains(b, "Invalid email or password") {
		t.Fatalf("generic failure message missing; body=%s", b)
	}

	respGood := postForm(t, app, "/login", "", tok, loginForm("Asha@Example.com", fakeapi.Password))
	if respGood.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", respGood.StatusCode)
	}
	sid := extractCookie(respGood, "sid")
	if sid == "" {
		t.Fatal("login did not set a session cookie")
	}
	a, err := app.sessions.Load(t.Context(), sid)
	if err != nil || !a.SignedIn() || a.User.Email != "asha@example.com" {
		t.Fatalf("session not bound after login: %+v err=%v", a, err)
	}

	respThird := postForm(t, app, "/login", "", tok, loginForm("asha@example.com", "wrongpass!"))
	if respThird.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", respThird.StatusCode)
	}
}

func TestLoginRedirectStaysOnSite(t *testing.T) {
	app := newApp(t)
	app.Get("/login", app.deps.AuthHandler.LoginForm)
	app.Post("/login", app.deps.AuthHandler.Login)
	tok := csrfToken(t, app, "/login")

	for next, want := range map[string]string{
		"/cart":                "/cart",
		"//evil.example/x":     "/",
		"https://evil.example": "/",
		"":                     "/",
	} {
		form := loginForm("asha@example.com", fakeapi.Password)
		form.Set("next", next)
		resp := postForm(t, app, "/login", "", tok, form)
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("next=%q: expected 302, got %d", next, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != want {
			t.Fatalf("next=%q: redirected to %q, want %q", next, loc, want)
		}
	}
}

func TestLoginRejectsForgedCSRF(t *testing.T) {
	app := newApp(t)
	app.Get("/login", app.deps.AuthHandler.LoginForm)
	app.Post("/login", app.deps.AuthHandler.Login)
	tok := csrfToken(t, app, "/login")

	form := loginForm("asha@example.com", fakeapi.Password)
	form.Set("csrf", "forged")
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for forged token, got %d", resp.StatusCode)
	}
	if extractCookie(resp, "sid") != "" {
		t.Fatal("forged post reached the login handler")
	}
}

func TestLogoutClearsShopperSession(t *testing.T) {
	app := newApp(t)
	app.Get("/login", app.deps.AuthHandler.LoginForm)
	app.Post("/logout", app.deps.AuthHandler.Logout)
	tok := csrfToken(t, app, "/login")

	resp := postForm(t, app, "/logout", userSID, tok, nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	a, _ := app.sessions.Load(t.Context(), userSID)
	if a.SignedIn() {
		t.Fatal("shopper still signed in after logout")
	}
}

func TestPasswordRecoveryFlow(t *testing.T) {
	app := newApp(t)
	h := app.deps.AuthHandler
	app.Get("/forgot-password", h.ForgotForm)
	app.Post("/forgot-password", h.Forgot)
	app.Post("/resend-otp", h.Resend)
	app.Get("/verify-otp", h.VerifyForm)
	app.Post("/verify-otp", h.Verify)
	app.Get("/reset-password", h.ResetForm)
	app.Post("/reset-password", h.Reset)
	tok := csrfToken(t, app, "/forgot-password")
	const sid = "sid-recover"

	if loc := get(t, app, "/reset-password", sid).Header.Get("Location"); loc != "/forgot-password" {
		t.Fatalf("reset before verify should bounce to /forgot-password, got %q", loc)
	}

	resp := postForm(t, app, "/forgot-password", sid, tok, url.Values{"email": {"asha@example.com"}})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/verify-otp" {
		t.Fatalf("expected redirect to /verify-otp, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	page := body(t, get(t, app, "/verify-otp", sid))
	if !strings.Contains(page, "asha@example.com") || !strings.Contains(page, "Resend in") {
		t.Fatalf("verify page should show the address and the countdown; body=%s", page)
	}

	resp = postForm(t, app, "/resend-otp", sid, tok, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("resend inside the cooldown should be 429, got %d", resp.StatusCode)
	}

	resp = postForm(t, app, "/verify-otp", sid, tok, url.Values{"otp": {"9999"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("wrong code should be 400, got %d", resp.StatusCode)
	}
	if b := body(t, resp); !strings.Contains(b, "Invalid or expired code") {
		t.Fatalf("wrong code message missing; body=%s", b)
	}

	resp = postForm(t, app, "/verify-otp", sid, tok, url.Values{"otp": {fakeapi.ValidOTP}})
	if resp.Header.Get("Location") != "/reset-password" {
		t.Fatalf("valid code should lead to /reset-password, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp = postForm(t, app, "/reset-password", sid, tok, url.Values{"password": {"newpass1"}, "confirm": {"newpass2"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("mismatched passwords should be 400, got %d", resp.StatusCode)
	}

	resp = postForm(t, app, "/reset-password", sid, tok, url.Values{"password": {"newpass1"}, "confirm": {"newpass1"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset should render the login page, got %d", resp.StatusCode)
	}
	if b := body(t, resp); !strings.Contains(b, "Password updated") {
		t.Fatalf("reset notice missing; body=%s", b)
	}
	a, _ := app.sessions.Load(t.Context(), sid)
	if a.OTPEmail != "" || a.ResetToken != "" {
		t.Fatalf("recovery state not cleared: %+v", a)
	}
}

func TestRegisterShowsBackendConflict(t *testing.T) {
	app := newApp(t)
	app.Get("/register", app.deps.AuthHandler.RegisterForm)
	app.Post("/register", app.deps.AuthHandler.Register)
	tok := csrfToken(t, app, "/register")

	form := url.Values{
		"name": {"Asha"}, "email": {"taken@example.com"}, "phone": {"9876543210"},
		"password": {"secret123"}, "confirm": {"secret123"},
	}
	resp := postForm(t, app, "/register", "", tok, form)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if b := body(t, resp); !strings.Contains(b, "Email already registered") {
		t.Fatalf("backend message missing; body=%s", b)
	}

	form.Set("email", "new@example.com")
	resp = postForm(t, app, "/register", "", tok, form)
	if resp.StatusCode != http.StatusFound || extractCookie(resp, "sid") == "" {
		t.Fatalf("registration should sign in and redirect, got %d", resp.StatusCode)
	}
}
