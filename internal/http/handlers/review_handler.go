package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "wickandwax/internal/log"
	"wickandwax/internal/services"
	"wickandwax/internal/validate"
)

type ReviewHandler struct {
	*Sessions
	Reviews *services.ReviewService
}

// GET /reviews: delivered lines waiting for a review plus the shopper's own reviews.
func (h *ReviewHandler) Page(c *fiber.Ctx) error {
	return h.page(c, fiber.StatusOK, "")
}

func (h *ReviewHandler) page(c *fiber.Ctx, status int, errMsg string) error {
	a := authOf(c)
	items, err := h.Reviews.Reviewable(c.UserContext(), a)
	if err != nil {
		return h.loadFail(c, err)
	}
	mine, err := h.Reviews.Mine(c.UserContext(), a)
	if err != nil {
		return h.loadFail(c, err)
	}
	c.Status(status)
	return render(c, "reviews", fiber.Map{"Reviewable": items, "Mine": mine, "Err": errMsg})
}

func (h *ReviewHandler) loadFail(c *fiber.Ctx, err error) error {
	if h.expired(c, err, false) {
		return nil
	}
	applog.Error(c, "reviews.load.fail", err, nil)
	return pageError(c, err, "Could not load your reviews")
}

func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	f := services.ReviewForm{
		OrderID:    c.FormValue("orderId"),
		ProductID:  c.FormValue("productId"),
		ColorID:    c.FormValue("colorId"),
		Rating:     c.FormValue("rating"),
		Text:       c.FormValue("reviewText"),
		Submission: c.FormValue("submission"),
	}
	rv, err := h.Reviews.Submit(c.UserContext(), authOf(c), f)
	if err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		var ie *services.InputError
		if errors.As(err, &ie) {
			applog.Security(c, "validation.fail", map[string]any{"field": ie.Field})
			return h.page(c, fiber.StatusBadRequest, ie.Msg)
		}
		applog.Error(c, "review.submit.fail", err, map[string]any{"order_id": f.OrderID, "product": f.ProductID})
		return pageError(c, err, "Could not save your review")
	}
	applog.Audit(c, "review.submit", map[string]any{"review": rv.ID, "product": rv.ProductID, "rating": rv.Rating})
	return c.Redirect("/reviews")
}

// POST /reviews/:id
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Review not found"})
	}
	if _, err := h.Reviews.Update(c.UserContext(), authOf(c), id, c.FormValue("rating"), c.FormValue("reviewText")); err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		if errors.Is(err, services.ErrNotAllowed) {
			applog.Security(c, "access.denied.review", map[string]any{"review": id})
		}
		var ie *services.InputError
		if errors.As(err, &ie) {
			return h.page(c, fiber.StatusBadRequest, ie.Msg)
		}
		return pageError(c, err, "Could not update your review")
	}
	applog.Audit(c, "review.update", map[string]any{"review": id})
	return c.Redirect("/reviews")
}

// POST /reviews/:id/delete
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Review not found"})
	}
	if err := h.Reviews.Delete(c.UserContext(), authOf(c), id); err != nil {
		if h.expired(c, err, false) {
			return nil
		}
		if errors.Is(err, services.ErrNotAllowed) {
			applog.Security(c, "access.denied.review", map[string]any{"review": id})
		}
		return pageError(c, err, "Could not delete your review")
	}
	applog.Audit(c, "review.delete", map[string]any{"review": id})
	return c.Redirect("/reviews")
}
