package handlers

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/domain"
	applog "wickandwax/internal/log"
	"wickandwax/internal/services"
	"wickandwax/internal/validate"
)

type OrderHandler struct {
	*Sessions
	Order *services.OrderService
}

// checkoutMode reads the mode and, for buy-now, the single selection. The
// selection travels in the query on GET and in hidden fields on POST.
func checkoutMode(get func(key string, def ...string) string) (domain.CheckoutMode, *services.AddInput) {
	if domain.CheckoutMode(get("mode")) != domain.CheckoutBuyNow {
		return domain.CheckoutCart, nil
	}
	return domain.CheckoutBuyNow, &services.AddInput{
		ProductID: get("productId"),
		ModelID:   get("modelId"),
		ColorID:   get("colorId"),
		Fragrance: get("fragrance"),
		Size:      get("size"),
		Qty:       validate.Qty(get("qty")),
	}
}

// POST /buy-now
func (h *OrderHandler) BuyNow(c *fiber.Ctx) error {
	h.ensureSID(c)
	in := addInput(c)
	if _, ok := validate.ID(in.ProductID); !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	q := url.Values{}
	q.Set("mode", string(domain.CheckoutBuyNow))
	q.Set("productId", in.ProductID)
	q.Set("modelId", in.ModelID)
	q.Set("colorId", in.ColorID)
	q.Set("fragrance", in.Fragrance)
	q.Set("size", in.Size)
	q.Set("qty", strconv.Itoa(in.Qty))
	return c.Redirect("/checkout?" + q.Encode())
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	mode, buyNow := checkoutMode(c.Query)
	return h.checkoutPage(c, mode, buyNow, domain.Address{}, "")
}

func (h *OrderHandler) checkoutPage(c *fiber.Ctx, mode domain.CheckoutMode, buyNow *services.AddInput, addr domain.Address, errMsg string) error {
	p, err := h.Order.Preview(c.UserContext(), authOf(c), mode, buyNow)
	if err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		var ee *services.EligibilityError
		if errors.As(err, &ee) && buyNow != nil {
			return backToProduct(c, *buyNow, string(ee.Reason))
		}
		applog.Error(c, "checkout.load", err, map[string]any{"mode": mode})
		return pageError(c, err, "Could not load your cart")
	}
	status := fiber.StatusOK
	if errMsg != "" {
		status = fiber.StatusBadRequest
	}
	c.Status(status)
	return render(c, "checkout", fiber.Map{
		"Preview":  p,
		"Address":  addr,
		"Err":      errMsg,
		"Payments": []domain.PaymentMethod{domain.PaymentCOD, domain.PaymentPrepaid},
	})
}

func addressForm(c *fiber.Ctx) domain.Address {
	f := func(k string) string { return strings.TrimSpace(c.FormValue(k)) }
	return domain.Address{
		FullName: f("fullName"),
		Phone:    f("phone"),
		Line1:    f("line1"),
		Line2:    f("line2"),
		City:     f("city"),
		State:    f("state"),
		Pincode:  f("pincode"),
	}
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	mode, buyNow := checkoutMode(func(k string, _ ...string) string { return c.FormValue(k) })
	in := services.PlaceInput{
		Mode:       mode,
		BuyNow:     buyNow,
		Address:    addressForm(c),
		Payment:    domain.PaymentMethod(c.FormValue("payment")),
		Submission: c.FormValue("submission"),
	}

	order, err := h.Order.Place(c.UserContext(), authOf(c), in)
	if err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		var ie *services.InputError
		if errors.As(err, &ie) {
			applog.Security(c, "validation.fail", map[string]any{"field": ie.Field})
			return h.checkoutPage(c, mode, buyNow, in.Address, ie.Msg)
		}
		applog.Security(c, "order.place.fail", map[string]any{"mode": mode, "error": err.Error()})
		return pageError(c, err, "Could not place order. Please review quantities and try again.")
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": order.ID,
		"mode":     mode,
		"total":    order.Pricing.Total,
		"items":    len(order.Items),
	})
	return c.Redirect("/order/" + url.PathEscape(order.ID))
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, err := h.Order.Order(c.UserContext(), authOf(c), oid)
	if errors.Is(err, apiclient.ErrNotFound) {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	if err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		applog.Error(c, "order.view.fail", err, map[string]any{"order_id": oid})
		return pageError(c, err, "Could not load this order")
	}
	return render(c, "order", fiber.Map{
		"Order":      o,
		"Cancelable": services.CanTransition(o.OrderStatus, domain.OrderCancelled),
	})
}

// History lists orders for the current logged-in user.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	hist, err := h.Order.History(c.UserContext(), authOf(c))
	if err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		applog.Error(c, "orders.history.fail", err, nil)
		return pageError(c, err, "Could not load orders")
	}
	return render(c, "orders", fiber.Map{"Orders": hist.Orders, "Stats": hist.Stats})
}

// POST /order/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	reason := strings.TrimSpace(c.FormValue("reason"))
	if len(reason) > 200 {
		reason = reason[:200]
	}
	if _, err := h.Order.Cancel(c.UserContext(), authOf(c), oid, reason); err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		applog.Security(c, "order.cancel.fail", map[string]any{"order_id": oid, "error": err.Error()})
		return pageError(c, err, "Could not cancel this order")
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": oid})
	return c.Redirect("/order/" + url.PathEscape(oid))
}
