package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"wickandwax/internal/domain"
	applog "wickandwax/internal/log"
	"wickandwax/internal/sequence"
	"wickandwax/internal/services"
	"wickandwax/internal/validate"
)

type InventoryHandler struct {
	*Sessions
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

// Check answers the product page when the shopper switches model, color or
// fragrance: price, stock status and whether the buttons are enabled. A
// response overtaken by a newer switch on the same page returns 409.
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	v, err := h.Catalog.LatestVariant(c.UserContext(), searchKey(c)+"|"+productID, productID, productQuery(c))
	if errors.Is(err, sequence.ErrSuperseded) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "superseded"})
	}
	if err != nil {
		return jsonError(c, err, "Could not check availability")
	}
	offer := ""
	if v.Offer != nil {
		offer = v.Offer.OfferLabel
	}
	return c.JSON(fiber.Map{
		"productId":       v.Product.ID,
		"selected":        v.Selected,
		"status":          v.Status,
		"stock":           v.Stock,
		"finalPrice":      v.Price.FinalPrice,
		"originalPrice":   v.Price.OriginalPrice,
		"discountPercent": v.Price.DiscountPercent,
		"hasOffer":        v.Price.HasOffer,
		"offerLabel":      offer,
		"decision":        v.Decision,
	})
}

// GET /admin/inventory
func (h *InventoryHandler) Page(c *fiber.Ctx) error {
	status := domain.StockStatus(strings.TrimSpace(c.Query("status")))
	switch status {
	case "", domain.StatusInStock, domain.StatusLowStock, domain.StatusOutOfStock:
	default:
		status = ""
	}
	q := strings.TrimSpace(c.Query("q"))
	page, err := h.Inv.List(c.UserContext(), authOf(c), status, q)
	if err != nil {
		if h.expired(c, err, true) {
			return nil
		}
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return pageError(c, err, "Could not load inventory")
	}
	return render(c, "admin_inventory", fiber.Map{"Page": page, "Status": status, "Q": q, "Err": c.Query("err")})
}

// POST /admin/inventory/:id/:op with op add, set or threshold
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	a := authOf(c)
	op := c.Params("op")
	sub := c.FormValue("submission")
	var (
		rec domain.InventoryRecord
		err error
	)
	switch op {
	case "add":
		rec, err = h.Inv.AddStock(c.UserContext(), a, id, c.FormValue("quantity"), c.FormValue("reason"), sub)
	case "set":
		rec, err = h.Inv.SetStock(c.UserContext(), a, id, c.FormValue("stock"), c.FormValue("reason"), sub)
	case "threshold":
		rec, err = h.Inv.UpdateThreshold(c.UserContext(), a, id, c.FormValue("threshold"), sub)
	default:
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	}
	if err != nil {
		if h.expired(c, err, true) {
			return nil
		}
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"record": id, "op": op})
		if errors.Is(err, services.ErrInvalid) {
			return c.Status(fiber.StatusBadRequest).SendString(services.Message(err, "invalid input"))
		}
		return pageError(c, err, "Could not save inventory")
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{
		"record": id, "op": op, "stock": rec.Stock, "threshold": rec.Threshold,
	})
	return c.Redirect("/admin/inventory")
}

// GET /admin/inventory/:id/history
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Record not found"})
	}
	rows, err := h.Inv.History(c.UserContext(), authOf(c), id)
	if err != nil {
		if h.expired(c, err, true) {
			return nil
		}
		applog.Error(c, "admin.inventory.history.fail", err, map[string]any{"record": id})
		return pageError(c, err, "Could not load stock history")
	}
	return render(c, "admin_history", fiber.Map{"RecordID": id, "History": rows})
}
