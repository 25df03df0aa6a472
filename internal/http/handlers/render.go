package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/pricing"
	"wickandwax/internal/repos"
	"wickandwax/internal/services"
	"wickandwax/internal/session"
)

// NewEngine loads the page templates with the formatting helpers they use.
func NewEngine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("inr", pricing.FormatINR)
	engine.AddFunc("paise", pricing.FormatINRPaise)
	// a fresh one-time token for pages with several mutating forms
	engine.AddFunc("submission", uuid.NewString)
	return engine
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	a := authOf(c)
	if a.SignedIn() && a.User != nil {
		data["User"] = a.User
	}
	if a.IsAdmin() && a.Admin != nil {
		data["Admin"] = a.Admin
	}
	for _, k := range []string{"CartCount", "WishlistCount"} {
		if v := c.Locals(k); v != nil {
			data[k] = v
		}
	}
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	// one-time token for the mutating forms on the page
	if _, ok := data["Submission"]; !ok {
		data["Submission"] = uuid.NewString()
	}
	return c.Render(tmpl, data)
}

// statusOf maps the error taxonomy onto HTTP statuses.
func statusOf(err error) int {
	var ie *services.InputError
	switch {
	case errors.As(err, &ie), errors.Is(err, apiclient.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotSignedIn), errors.Is(err, apiclient.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, apiclient.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrNotAllowed), errors.Is(err, apiclient.ErrConflict),
		errors.Is(err, repos.ErrDuplicateSubmission):
		return fiber.StatusConflict
	case errors.Is(err, session.ErrCooldown):
		return fiber.StatusTooManyRequests
	case errors.Is(err, apiclient.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// pageError shows the friendly error page. Backend details stay in the log.
func pageError(c *fiber.Ctx, err error, fallback string) error {
	return c.Status(statusOf(err)).Render("notfound", fiber.Map{"Message": services.Message(err, fallback)})
}

func jsonError(c *fiber.Ctx, err error, fallback string) error {
	return c.Status(statusOf(err)).JSON(fiber.Map{"error": services.Message(err, fallback)})
}
