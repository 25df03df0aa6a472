package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/cache"
	"wickandwax/internal/config"
	"wickandwax/internal/events"
	"wickandwax/internal/http/handlers"
	applog "wickandwax/internal/log"
	"wickandwax/internal/repos"
	"wickandwax/internal/session"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	// Outbound API calls are traced through otelhttp; spans only leave the
	// process when the stdout exporter is enabled.
	otel.SetTextMapPropagator(propagation.TraceContext{})
	if cfg.TraceStdout {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			log.Fatalf("[trace] %v", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		otel.SetTracerProvider(tp)
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	sessions := session.NewManager(repos.NewSessionRepo(db), cfg.OTPCooldown)
	guard := repos.NewSubmissionRepo(db)
	bus := events.NewBus()

	var rc *cache.Redis
	if cfg.RedisAddr != "" {
		if rc, err = cache.New(ctx, cfg.RedisAddr, cfg.CacheTTL); err != nil {
			log.Printf("[warn] read cache disabled: %v", err)
			rc = nil
		}
	}
	rc.Subscribe(bus)

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, rc)
	deps := handlers.NewDeps(api, cfg, sessions, guard, rc, bus)

	// Submission tokens only matter while a retry is plausible.
	go func() {
		t := time.NewTicker(time.Hour)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := guard.Cleanup(ctx, 24*time.Hour); err != nil {
					applog.Event("submission.cleanup.fail", map[string]any{"err": err.Error()})
				}
			}
		}
	}()

	engine := handlers.NewEngine("./web/templates")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(deps.Sessions.Load())
	app.Use(deps.Badges())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"path": c.Path()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	app.Static("/static", "./web/static")
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	// ---------- Storefront ----------
	app.Get("/", deps.CategoryHandler.Home)
	app.Get("/search", limiter.New(limiter.Config{Max: 30, Expiration: time.Minute}), deps.SearchHandler.Search)
	app.Get("/category/:id", deps.CategoryHandler.List)
	app.Get("/product", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	})
	app.Get("/product/:id", deps.ProductHandler.Detail)

	api1 := app.Group("/api/v1")
	availLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api1.Get("/availability", availLimiter, deps.InventoryHandler.Check)
	api1.Get("/suggest", deps.SearchHandler.Suggest)
	api1.Get("/counts", deps.Counts)

	// Cart, checkout & orders
	user := handlers.RequireUser()
	app.Get("/cart", user, deps.CartHandler.View)
	app.Post("/cart/add", deps.CartHandler.Add)
	app.Post("/cart/:id/qty", user, deps.CartHandler.Update)
	app.Post("/cart/:id/remove", user, deps.CartHandler.Remove)
	app.Post("/buy-now", deps.OrderHandler.BuyNow)
	app.Get("/checkout", user, deps.OrderHandler.Checkout)
	app.Post("/orders", user, deps.OrderHandler.Place)
	app.Get("/orders", user, deps.OrderHandler.History)
	app.Get("/order/:id", user, deps.OrderHandler.View)
	app.Post("/order/:id/cancel", user, deps.OrderHandler.Cancel)

	// Wishlist
	app.Get("/wishlist", user, deps.WishlistHandler.List)
	app.Post("/wishlist/toggle", deps.WishlistHandler.Toggle)
	app.Post("/wishlist/delete", user, deps.WishlistHandler.Unsave)

	// Reviews
	app.Get("/reviews", user, deps.ReviewHandler.Page)
	app.Post("/reviews", user, deps.ReviewHandler.Submit)
	app.Post("/reviews/:id", user, deps.ReviewHandler.Update)
	app.Post("/reviews/:id/delete", user, deps.ReviewHandler.Delete)

	// Auth routes (login and recovery throttled)
	authH := deps.AuthHandler
	loginLimiter := func(tmpl string) fiber.Handler {
		return limiter.New(limiter.Config{
			Max:        5,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + "|" + tmpl
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.login.hit", map[string]any{"form": tmpl})
				return c.Status(fiber.StatusTooManyRequests).Render(tmpl, fiber.Map{"Err": "Too many attempts. Please try again later."})
			},
		})
	}
	app.Get("/login", authH.LoginForm)
	app.Post("/login", loginLimiter("login"), authH.Login)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Post("/logout", authH.Logout)
	app.Get("/forgot-password", authH.ForgotForm)
	app.Post("/forgot-password", loginLimiter("forgot"), authH.Forgot)
	app.Post("/resend-otp", authH.Resend)
	app.Get("/verify-otp", authH.VerifyForm)
	app.Post("/verify-otp", loginLimiter("verify"), authH.Verify)
	app.Get("/reset-password", authH.ResetForm)
	app.Post("/reset-password", authH.Reset)

	// ---------- Admin ----------
	app.Get("/admin/login", authH.AdminLoginForm)
	app.Post("/admin/login", loginLimiter("admin_login"), authH.AdminLogin)
	app.Get("/admin/register", authH.AdminRegisterForm)
	app.Post("/admin/register", authH.AdminRegister)
	app.Post("/admin/logout", authH.AdminLogout)

	adminH, invH := deps.AdminHandler, deps.InventoryHandler
	admin := app.Group("/admin", handlers.RequireAdmin())
	admin.Get("/", adminH.Home)
	admin.Get("/orders", adminH.OrdersPage)
	admin.Post("/orders/:id/status", adminH.UpdateOrderStatus)
	admin.Get("/offers", adminH.OffersPage)
	admin.Post("/offers", adminH.AddOffer)
	admin.Post("/offers/:id/deactivate", adminH.DeactivateOffer)
	admin.Get("/inventory", invH.Page)
	admin.Get("/inventory/:id/history", invH.History)
	admin.Post("/inventory/:id/:op", invH.Update)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()
	log.Printf("[http] listening on :%s (api %s)", cfg.Port, cfg.APIBaseURL)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("[http] %v", err)
	}
}
