package services

import (
	"context"
	"fmt"
	"slices"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/domain"
	"wickandwax/internal/events"
	"wickandwax/internal/pricing"
	"wickandwax/internal/session"
	"wickandwax/internal/validate"
)

type OrderService struct {
	API   *apiclient.Client
	Carts *CartService
	Bus   *events.Bus
	Guard Guard
}

func NewOrderService(api *apiclient.Client, carts *CartService, bus *events.Bus, guard Guard) *OrderService {
	return &OrderService{API: api, Carts: carts, Bus: bus, Guard: guard}
}

// CheckoutPreview is what the shopper confirms: frozen lines and totals.
type CheckoutPreview struct {
	Mode    domain.CheckoutMode
	BuyNow  *AddInput
	Items   []domain.OrderItem
	Summary pricing.Summary
}

func (p CheckoutPreview) lineItems() []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, pricing.LineItem{Quantity: it.Quantity, UnitPrice: it.UnitPrice, FinalPrice: it.OfferPrice})
	}
	return out
}

func orderItem(v ProductView, qty int) domain.OrderItem {
	return domain.OrderItem{
		ProductID:   v.Product.ID,
		ProductName: v.Product.Name,
		Quantity:    qty,
		UnitPrice:   v.Price.OriginalPrice,
		OfferPrice:  v.Price.FinalPrice,
		SavedAmount: pricing.Round2(v.Price.Saving() * float64(qty)),
		TotalPrice:  pricing.LineTotal(v.Price.FinalPrice, qty),
		Selected:    v.Selected,
		OfferLabel:  offerLabel(v.Offer),
	}
}

func offerLabel(o *domain.Offer) string {
	if o == nil {
		return ""
	}
	return o.OfferLabel
}

// Preview reprices the order from live data. Cart mode revalidates every
// line; buy-now mode prices the single selection without touching the cart.
func (s *OrderService) Preview(ctx context.Context, a session.Auth, mode domain.CheckoutMode, buyNow *AddInput) (CheckoutPreview, error) {
	if !a.SignedIn() {
		return CheckoutPreview{}, ErrNotSignedIn
	}
	p := CheckoutPreview{Mode: mode}
	switch mode {
	case domain.CheckoutBuyNow:
		if buyNow == nil {
			return p, invalid("mode", "Nothing selected to buy")
		}
		if buyNow.Qty < 1 || buyNow.Qty > pricing.MaxQuantity {
			return p, &EligibilityError{Reason: pricing.ReasonInvalidQuantity}
		}
		v, err := s.Carts.purchasable(ctx, *buyNow, 0)
		if err != nil {
			return p, err
		}
		p.BuyNow = buyNow
		p.Items = []domain.OrderItem{orderItem(v, buyNow.Qty)}
	case domain.CheckoutCart:
		c, err := s.API.Cart(ctx, a.Token, a.UserID)
		if err != nil {
			return p, err
		}
		for _, it := range c.Items {
			if it.Quantity <= 0 {
				continue
			}
			in := AddInput{
				ProductID: it.ProductID, ModelID: it.Selected.ModelID, ColorID: it.Selected.ColorID,
				Fragrance: it.Selected.Fragrance, Size: it.Selected.Size, Qty: it.Quantity,
			}
			v, err := s.Carts.purchasable(ctx, in, 0)
			if err != nil {
				return p, fmt.Errorf("%s: %w", it.ProductName, err)
			}
			p.Items = append(p.Items, orderItem(v, it.Quantity))
		}
		if len(p.Items) == 0 {
			return p, invalid("cart", "Your cart is empty")
		}
	default:
		return p, invalid("mode", "Unknown checkout mode")
	}
	p.Summary = pricing.ComputeSummary(p.lineItems())
	return p, nil
}

type PlaceInput struct {
	Mode       domain.CheckoutMode
	BuyNow     *AddInput
	Address    domain.Address
	Payment    domain.PaymentMethod
	Submission string
}

// Place validates the delivery details, reprices, and submits the order.
func (s *OrderService) Place(ctx context.Context, a session.Auth, in PlaceInput) (domain.Order, error) {
	if !a.SignedIn() {
		return domain.Order{}, ErrNotSignedIn
	}
	if err := validate.Struct(in.Address); err != nil {
		fields := validate.Fields(err)
		field := ""
		if len(fields) > 0 {
			field = fields[0]
		}
		return domain.Order{}, invalid(field, "Please check your delivery address")
	}
	if in.Payment != domain.PaymentCOD && in.Payment != domain.PaymentPrepaid {
		return domain.Order{}, invalid("payment", "Please choose a payment method")
	}

	return once(ctx, s.Guard, in.Submission, "checkout", func() (domain.Order, error) {
		return s.place(ctx, a, in)
	})
}

func (s *OrderService) place(ctx context.Context, a session.Auth, in PlaceInput) (domain.Order, error) {
	p, err := s.Preview(ctx, a, in.Mode, in.BuyNow)
	if err != nil {
		return domain.Order{}, err
	}
	order, err := s.API.Checkout(ctx, a.Token, apiclient.CheckoutRequest{
		UserID:          a.UserID,
		Items:           p.Items,
		DeliveryAddress: in.Address,
		PaymentMethod:   in.Payment,
		Pricing: domain.Pricing{
			Subtotal:     p.Summary.Subtotal,
			TotalSavings: p.Summary.TotalSavings,
			Shipping:     p.Summary.Shipping,
			Tax:          p.Summary.Tax,
			Total:        p.Summary.Total,
		},
		CheckoutMode: in.Mode,
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.OrdersUpdated, UserID: a.UserID})
	if in.Mode == domain.CheckoutCart {
		s.Bus.Publish(ctx, events.Event{Topic: events.CartUpdated, UserID: a.UserID})
	}
	return order, nil
}

type OrderHistory struct {
	Orders []domain.Order
	Stats  domain.OrderStats
}

func (s *OrderService) History(ctx context.Context, a session.Auth) (OrderHistory, error) {
	if !a.SignedIn() {
		return OrderHistory{}, ErrNotSignedIn
	}
	orders, err := s.API.UserOrders(ctx, a.Token, a.UserID)
	if err != nil {
		return OrderHistory{}, err
	}
	stats, err := s.API.UserOrderStats(ctx, a.Token, a.UserID)
	if err != nil {
		return OrderHistory{}, err
	}
	slices.SortStableFunc(orders, func(x, y domain.Order) int { return y.CreatedAt.Compare(x.CreatedAt) })
	return OrderHistory{Orders: orders, Stats: stats}, nil
}

// Order finds one of the shopper's own orders.
func (s *OrderService) Order(ctx context.Context, a session.Auth, id string) (domain.Order, error) {
	if !a.SignedIn() {
		return domain.Order{}, ErrNotSignedIn
	}
	orders, err := s.API.UserOrders(ctx, a.Token, a.UserID)
	if err != nil {
		return domain.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id && (o.UserID == "" || o.UserID == a.UserID) {
			return o, nil
		}
	}
	return domain.Order{}, apiclient.ErrNotFound
}

// Cancel is allowed to the owner while the order is pending or processing.
func (s *OrderService) Cancel(ctx context.Context, a session.Auth, id, reason string) (domain.Order, error) {
	o, err := s.Order(ctx, a, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !CanTransition(o.OrderStatus, domain.OrderCancelled) {
		return domain.Order{}, &TransitionError{From: o.OrderStatus, To: domain.OrderCancelled}
	}
	out, err := s.API.CancelOrder(ctx, a.Token, id, reason)
	if err != nil {
		return domain.Order{}, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.OrdersUpdated, UserID: a.UserID})
	return out, nil
}

// TransitionError is an order status change outside the allowed progression.
type TransitionError struct {
	From, To domain.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("An order that is %s cannot be marked %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrNotAllowed }

var transitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderPending:    {domain.OrderProcessing, domain.OrderCancelled},
	domain.OrderProcessing: {domain.OrderShipped, domain.OrderCancelled},
	domain.OrderShipped:    {domain.OrderDelivered},
	domain.OrderDelivered:  {domain.OrderReturned},
}

// CanTransition encodes pending→processing→shipped→delivered with
// cancellation before shipping and return after delivery.
func CanTransition(from, to domain.OrderStatus) bool {
	return slices.Contains(transitions[from], to)
}

// NextStatuses lists the statuses an admin may move an order to.
func NextStatuses(from domain.OrderStatus) []domain.OrderStatus {
	return slices.Clone(transitions[from])
}

type AdminOrders struct {
	Orders []domain.Order
	Stats  domain.OrderStats
}

func (s *OrderService) AdminList(ctx context.Context, a session.Auth) (AdminOrders, error) {
	if !a.IsAdmin() {
		return AdminOrders{}, apiclient.ErrUnauthorized
	}
	orders, err := s.API.AllOrders(ctx, a.AdminToken)
	if err != nil {
		return AdminOrders{}, err
	}
	stats, err := s.API.AdminOrderStats(ctx, a.AdminToken)
	if err != nil {
		return AdminOrders{}, err
	}
	slices.SortStableFunc(orders, func(x, y domain.Order) int { return y.CreatedAt.Compare(x.CreatedAt) })
	return AdminOrders{Orders: orders, Stats: stats}, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, a session.Auth, id string, to domain.OrderStatus) (domain.Order, error) {
	if !a.IsAdmin() {
		return domain.Order{}, apiclient.ErrUnauthorized
	}
	orders, err := s.API.AllOrders(ctx, a.AdminToken)
	if err != nil {
		return domain.Order{}, err
	}
	idx := slices.IndexFunc(orders, func(o domain.Order) bool { return o.ID == id })
	if idx < 0 {
		return domain.Order{}, apiclient.ErrNotFound
	}
	from := orders[idx].OrderStatus
	if !CanTransition(from, to) {
		return domain.Order{}, &TransitionError{From: from, To: to}
	}
	out, err := s.API.UpdateOrderStatus(ctx, a.AdminToken, id, to)
	if err != nil {
		return domain.Order{}, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.OrdersUpdated, UserID: out.UserID})
	return out, nil
}
