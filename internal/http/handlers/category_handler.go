package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "wickandwax/internal/log"
	"wickandwax/internal/services"
	"wickandwax/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	cards, err := h.Catalog.Home(c.UserContext())
	if err != nil {
		applog.Error(c, "home.load.fail", err, nil)
		return pageError(c, err, "Could not load products. Please retry.")
	}
	return render(c, "home", fiber.Map{"Products": cards})
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "category"})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	cards, err := h.Catalog.Category(c.UserContext(), catID)
	if err != nil {
		applog.Error(c, "category.load.fail", err, map[string]any{"category": catID})
		return pageError(c, err, "Could not load this category")
	}
	return render(c, "category", fiber.Map{"CategoryID": catID, "Products": cards})
}
