package handlers

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"wickandwax/internal/apiclient"
	applog "wickandwax/internal/log"
	"wickandwax/internal/session"
)

const authKey = "auth"

// Sessions binds the sid cookie to the server-side auth context.
type Sessions struct {
	Manager *session.Manager
	Secure  bool // set true behind TLS
}

func (s *Sessions) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   s.Secure,
		})
	}
	return sid
}

func (s *Sessions) expireSID(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.Secure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

// Load attaches the auth context of the sid cookie to every request.
func (s *Sessions) Load() fiber.Handler {
	return func(c *fiber.Ctx) error {
		a := session.Auth{SID: c.Cookies("sid")}
		if a.SID != "" {
			loaded, err := s.Manager.Load(c.UserContext(), a.SID)
			if err != nil {
				applog.Error(c, "session.load.fail", err, nil)
			} else {
				a = loaded
			}
		}
		c.Locals(authKey, a)
		switch {
		case a.UserID != "":
			c.Locals(applog.UserIDKey, a.UserID)
		case a.AdminID != "":
			c.Locals(applog.UserIDKey, "admin:"+a.AdminID)
		}
		return c.Next()
	}
}

func authOf(c *fiber.Ctx) session.Auth {
	a, _ := c.Locals(authKey).(session.Auth)
	return a
}

// RequireUser enforces that a shopper is logged in; otherwise redirect to login.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authOf(c).SignedIn() {
			return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
		}
		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		a := authOf(c)
		if a.IsAdmin() {
			return c.Next()
		}
		if a.SignedIn() {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": a.SID})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		return c.Redirect("/admin/login")
	}
}

// expired reports whether err is the backend rejecting the session's token.
// When it is, that half of the session is cleared and the browser is sent to
// the matching login page.
func (s *Sessions) expired(c *fiber.Ctx, err error, admin bool) bool {
	if !apiclient.IsAuthFailure(err) {
		return false
	}
	sid := c.Cookies("sid")
	login := "/login"
	var cerr error
	if admin {
		cerr = s.Manager.ClearAdmin(c.UserContext(), sid)
		login = "/admin/login"
	} else {
		cerr = s.Manager.Clear(c.UserContext(), sid)
	}
	if cerr != nil {
		applog.Error(c, "session.clear.fail", cerr, nil)
	}
	applog.Security(c, "session.expired", map[string]any{"admin": admin})
	_ = c.Redirect(login)
	return true
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}
