package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "wickandwax/internal/log"
	"wickandwax/internal/sequence"
	"wickandwax/internal/services"
	"wickandwax/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// searchKey scopes debouncing to one browser.
func searchKey(c *fiber.Ctx) string {
	if sid := c.Cookies("sid"); sid != "" {
		return sid
	}
	return c.IP()
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		// Initial page load: show empty search without errors
		return render(c, "search", fiber.Map{"Q": "", "Products": []any{}, "Count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
			"Q": "", "Products": []any{}, "Count": 0, "Err": "Enter a valid keyword (letters/numbers only)",
		})
	}

	products, err := h.Catalog.Search(c.UserContext(), searchKey(c), q)
	if errors.Is(err, sequence.ErrSuperseded) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		applog.Error(c, "search.error", err, nil)
		return pageError(c, err, "Could not load results. Please retry.")
	}
	return render(c, "search", fiber.Map{"Q": q, "Products": products, "Count": len(products)})
}

// Suggest is the type-ahead variant of Search. Keystrokes inside the
// debounce window collapse into one backend search; the overtaken requests
// get 409 so the client drops them.
func (h *SearchHandler) Suggest(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enter a valid keyword"})
	}
	products, err := h.Catalog.Search(c.UserContext(), searchKey(c), q)
	if errors.Is(err, sequence.ErrSuperseded) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "superseded"})
	}
	if err != nil {
		applog.Error(c, "search.suggest.error", err, nil)
		return jsonError(c, err, "Could not load results")
	}
	out := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		out = append(out, fiber.Map{"id": p.Product.ID, "name": p.Product.Name, "price": p.Price.FinalPrice})
	}
	return c.JSON(fiber.Map{"q": q, "results": out})
}
