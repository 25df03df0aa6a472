package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	applog "wickandwax/internal/log"
	"wickandwax/internal/services"
	"wickandwax/internal/validate"
)

type CartHandler struct {
	*Sessions
	Cart *services.CartService
}

// addInput reads a variant purchase form shared by cart, buy-now and wishlist.
func addInput(c *fiber.Ctx) services.AddInput {
	return services.AddInput{
		ProductID: c.FormValue("productId"),
		ModelID:   c.FormValue("modelId"),
		ColorID:   c.FormValue("colorId"),
		Fragrance: c.FormValue("fragrance"),
		Size:      c.FormValue("size"),
		Qty:       validate.Qty(c.FormValue("qty")),

		Submission: c.FormValue("submission"),
	}
}

// backToProduct returns to the product page with the refusal reason shown.
func backToProduct(c *fiber.Ctx, in services.AddInput, reason string) error {
	q := url.Values{}
	q.Set("model", in.ModelID)
	q.Set("color", in.ColorID)
	q.Set("fragrance", in.Fragrance)
	q.Set("size", in.Size)
	q.Set("reason", reason)
	return c.Redirect("/product/" + url.PathEscape(in.ProductID) + "?" + q.Encode())
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), authOf(c))
	if err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		applog.Error(c, "cart.load.fail", err, nil)
		return pageError(c, err, "Could not load your cart")
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	h.ensureSID(c)
	in := addInput(c)
	if _, ok := validate.ID(in.ProductID); !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	_, err := h.Cart.Add(c.UserContext(), authOf(c), in)
	if err != nil {
		if errors.Is(err, services.ErrNotSignedIn) {
			return c.Redirect("/login?next=" + url.QueryEscape("/product/"+in.ProductID))
		}
		if h.expired(c, err, false) {
			return nil
		}
		var ee *services.EligibilityError
		if errors.As(err, &ee) {
			applog.Info(c, "cart.add.refused", map[string]any{"product": in.ProductID, "reason": ee.Reason})
			return backToProduct(c, in, string(ee.Reason))
		}
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": in.ProductID})
		return pageError(c, err, "Could not add this item")
	}
	applog.Audit(c, "cart.add", map[string]any{"product": in.ProductID, "color": in.ColorID, "qty": in.Qty})
	return c.Redirect("/cart")
}

// POST /cart/:id/qty
func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid item")
	}
	qty := validate.Qty(c.FormValue("qty"))
	if _, err := h.Cart.Update(c.UserContext(), authOf(c), id, qty); err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		applog.Error(c, "cart.update.fail", err, map[string]any{"item": id})
		return pageError(c, err, "Could not update your cart")
	}
	applog.Audit(c, "cart.update", map[string]any{"item": id, "qty": qty})
	return c.Redirect("/cart")
}

// POST /cart/:id/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid item")
	}
	if _, err := h.Cart.Remove(c.UserContext(), authOf(c), id); err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		applog.Error(c, "cart.remove.fail", err, map[string]any{"item": id})
		return pageError(c, err, "Could not update your cart")
	}
	applog.Audit(c, "cart.remove", map[string]any{"item": id})
	return c.Redirect("/cart")
}
