package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	applog "wickandwax/internal/log"
	"wickandwax/internal/services"
	"wickandwax/internal/validate"
)

type WishlistHandler struct {
	*Sessions
	Wish *services.WishlistService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	view, err := h.Wish.List(c.UserContext(), authOf(c))
	if err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		applog.Error(c, "wishlist.list.fail", err, nil)
		return pageError(c, err, "Could not load wishlist")
	}
	return render(c, "wishlist", fiber.Map{"Wishlist": view})
}

// Toggle saves or unsaves the posted variant. Form posts go back to the
// referring page; JSON callers get the resulting state, which on failure is
// the state from before the call.
func (h *WishlistHandler) Toggle(c *fiber.Ctx) error {
	in := addInput(c)
	if _, ok := validate.ID(in.ProductID); !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	wantJSON := c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
	saved, err := h.Wish.Toggle(c.UserContext(), authOf(c), in)
	if err != nil {
		if errors.Is(err, services.ErrNotSignedIn) && !wantJSON {
			return c.Redirect("/login?next=" + url.QueryEscape("/product/"+in.ProductID))
		}
		if !wantJSON && h.expired(c, err, false) {
			return nil
		}
		applog.Error(c, "wishlist.toggle.fail", err, map[string]any{"product": in.ProductID})
		if wantJSON {
			return c.Status(statusOf(err)).JSON(fiber.Map{"saved": saved, "error": services.Message(err, "Could not update wishlist")})
		}
		var ee *services.EligibilityError
		if errors.As(err, &ee) {
			return backToProduct(c, in, string(ee.Reason))
		}
		return pageError(c, err, "Could not update wishlist")
	}
	action := "wishlist.save"
	if !saved {
		action = "wishlist.unsave"
	}
	applog.Audit(c, action, map[string]any{"product": in.ProductID, "fragrance": in.Fragrance})
	if wantJSON {
		return c.JSON(fiber.Map{"saved": saved})
	}
	back := c.Get("Referer")
	if back == "" {
		back = "/wishlist"
	}
	return c.Redirect(safeNext(refererPath(back)))
}

func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	fragrance := c.FormValue("fragrance")
	if err := h.Wish.Remove(c.UserContext(), authOf(c), pid, fragrance); err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		applog.Error(c, "wishlist.unsave.fail", err, map[string]any{"product": pid})
		return pageError(c, err, "Could not unsave item")
	}
	applog.Audit(c, "wishlist.unsave", map[string]any{"product": pid, "fragrance": fragrance})
	return c.Redirect("/wishlist")
}

// refererPath strips scheme and host so only same-site paths are followed.
func refererPath(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
