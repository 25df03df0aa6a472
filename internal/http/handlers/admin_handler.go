package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"wickandwax/internal/domain"
	applog "wickandwax/internal/log"
	"wickandwax/internal/services"
	"wickandwax/internal/validate"
)

type AdminHandler struct {
	*Sessions
	Dashboard *services.DashboardService
	Orders    *services.OrderService
	Offers    *services.OfferService
}

// GET /admin?days=30&top=5
func (h *AdminHandler) Home(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days"))
	top, _ := strconv.Atoi(c.Query("top"))
	d, err := h.Dashboard.Load(c.UserContext(), authOf(c), days, top)
	if err != nil {
		if h.expired(c, err, true) {
			return nil
		}
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return pageError(c, err, "Could not load the dashboard")
	}
	return render(c, "admin_dashboard", fiber.Map{"D": d})
}

// orderRow pairs an order with the statuses it may move to.
type orderRow struct {
	Order domain.Order
	Next  []domain.OrderStatus
}

func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	list, err := h.Orders.AdminList(c.UserContext(), authOf(c))
	if err != nil {
		if h.expired(c, err, true) {
			return nil
		}
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return pageError(c, err, "Could not load orders")
	}
	rows := make([]orderRow, 0, len(list.Orders))
	for _, o := range list.Orders {
		rows = append(rows, orderRow{Order: o, Next: services.NextStatuses(o.OrderStatus)})
	}
	return render(c, "admin_orders", fiber.Map{"Rows": rows, "Stats": list.Stats, "Err": c.Query("err")})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	to := domain.OrderStatus(strings.TrimSpace(c.FormValue("status")))
	o, err := h.Orders.UpdateStatus(c.UserContext(), authOf(c), id, to)
	if err != nil {
		if h.expired(c, err, true) {
			return nil
		}
		applog.Security(c, "admin.orders.update.fail", map[string]any{"order": id, "to": to, "error": err.Error()})
		return pageError(c, err, "Could not update the order")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order": id, "status": o.OrderStatus})
	return c.Redirect("/admin/orders")
}

func (h *AdminHandler) OffersPage(c *fiber.Ctx) error {
	rows, err := h.Offers.List(c.UserContext(), authOf(c))
	if err != nil {
		if h.expired(c, err, true) {
			return nil
		}
		applog.Error(c, "admin.offer.list.fail", err, nil)
		return pageError(c, err, "Could not load offers")
	}
	return render(c, "admin_offers", fiber.Map{"Rows": rows, "Err": c.Query("err")})
}

// POST /admin/offers
func (h *AdminHandler) AddOffer(c *fiber.Ctx) error {
	f := services.OfferForm{
		ProductID:  c.FormValue("productId"),
		ColorID:    c.FormValue("colorId"),
		ModelID:    c.FormValue("variableModelId"),
		Percentage: c.FormValue("offerPercentage"),
		Label:      c.FormValue("offerLabel"),
		Start:      c.FormValue("startDate"),
		End:        c.FormValue("endDate"),
		Submission: c.FormValue("submission"),
	}
	o, err := h.Offers.Add(c.UserContext(), authOf(c), f)
	if err != nil {
		if h.expired(c, err, true) {
			return nil
		}
		applog.Error(c, "admin.offer.add.fail", err, map[string]any{"product": f.ProductID, "color": f.ColorID})
		if statusOf(err) == fiber.StatusBadRequest {
			return c.Redirect("/admin/offers?err=" + url.QueryEscape(services.Message(err, "Invalid offer")))
		}
		return pageError(c, err, "Could not save the offer")
	}
	applog.Audit(c, "admin.offer.add", map[string]any{
		"offer": o.ID, "product": o.ProductID, "color": o.ColorID, "percentage": o.OfferPercentage,
	})
	return c.Redirect("/admin/offers")
}

// POST /admin/offers/:id/deactivate
func (h *AdminHandler) DeactivateOffer(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Offer not found"})
	}
	productID := c.FormValue("productId")
	if err := h.Offers.Deactivate(c.UserContext(), authOf(c), id, productID); err != nil {
		if h.expired(c, err, true) {
			return nil
		}
		applog.Error(c, "admin.offer.deactivate.fail", err, map[string]any{"offer": id})
		return pageError(c, err, "Could not deactivate the offer")
	}
	applog.Audit(c, "admin.offer.deactivate", map[string]any{"offer": id, "product": productID})
	return c.Redirect("/admin/offers")
}
