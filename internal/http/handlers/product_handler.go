package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"wickandwax/internal/apiclient"
	applog "wickandwax/internal/log"
	"wickandwax/internal/pricing"
	"wickandwax/internal/services"
	"wickandwax/internal/validate"
)

type ProductHandler struct {
	Catalog  *services.CatalogService
	Wishlist *services.WishlistService
}

// productQuery reads the variant selection from the query string.
func productQuery(c *fiber.Ctx) services.ProductQuery {
	return services.ProductQuery{
		ModelID:   c.Query("model"),
		ColorID:   c.Query("color"),
		Fragrance: c.Query("fragrance"),
		Size:      c.Query("size"),
		Qty:       validate.Qty(c.Query("qty")),
	}
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	v, err := h.Catalog.Product(c.UserContext(), id, productQuery(c))
	if errors.Is(err, apiclient.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	if err != nil {
		applog.Error(c, "product.load.fail", err, map[string]any{"product": id})
		return pageError(c, err, "Could not load this product")
	}

	data := fiber.Map{
		"P":     v,
		"Saved": h.Wishlist.Saved(c.UserContext(), authOf(c), v.Product.ID, services.FragranceKey(v.Color, v.Selected.Fragrance)),
	}
	// a refused cart or buy-now action comes back here with its reason
	if r := c.Query("reason"); r != "" {
		data["Err"] = (&services.EligibilityError{Reason: pricing.Reason(r), MaxQty: v.Decision.MaxQty}).Error()
	}
	return render(c, "product", data)
}
