package fakeapi

import (
	"net/http"
	"sort"
	"time"

	"wickandwax/internal/domain"
)

func (s *Server) userLogin(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	if err := bind(r, &in); err != nil || in.Password != Password {
		fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	data(w, map[string]any{"token": UserToken, "user": domain.User{ID: UserID, Name: "Asha", Email: in.Email}})
}

func (s *Server) userRegister(w http.ResponseWriter, r *http.Request) {
	var in struct{ Name, Email, Password string }
	if err := bind(r, &in); err != nil {
		fail(w, http.StatusBadRequest, "bad body")
		return
	}
	if in.Email == "taken@example.com" {
		fail(w, http.StatusConflict, "Email already registered")
		return
	}
	data(w, map[string]any{"token": UserToken, "user": domain.User{ID: UserID, Name: in.Name, Email: in.Email}})
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, OTP string }
	if err := bind(r, &in); err != nil || in.OTP != ValidOTP {
		fail(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}
	data(w, map[string]string{"resetToken": "reset-" + in.Email})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, ResetToken, NewPassword string }
	if err := bind(r, &in); err != nil || in.ResetToken != "reset-"+in.Email {
		fail(w, http.StatusBadRequest, "Reset link expired")
		return
	}
	data(w, map[string]string{})
}

func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	if err := bind(r, &in); err != nil || in.Password != Password {
		fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	data(w, map[string]any{"token": AdminToken, "admin": domain.Admin{ID: AdminID, Name: "Ravi", Email: in.Email, Role: domain.RoleAdmin}})
}

func (s *Server) allProducts(w http.ResponseWriter, r *http.Request) {
	out := make([]domain.Product, 0, len(s.Products))
	for _, p := range s.Products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	data(w, out)
}

func (s *Server) productsByCategory(w http.ResponseWriter, r *http.Request) {
	var out []domain.Product
	for _, p := range s.Products {
		if p.CategoryID == r.PathValue("id") {
			out = append(out, p)
		}
	}
	data(w, out)
}

func (s *Server) product(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Products[r.PathValue("id")]
	if !ok {
		fail(w, http.StatusNotFound, "Product not found")
		return
	}
	// bare JSON on purpose: the client must accept unwrapped bodies too
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) related(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID  string   `json:"productId"`
		Fragrances []string `json:"fragrances"`
	}
	_ = bind(r, &in)
	want := map[string]bool{}
	for _, f := range in.Fragrances {
		want[f] = true
	}
	var out []domain.Product
	for _, p := range s.Products {
		if p.ID == in.ProductID {
			continue
		}
		if hasFragrance(p, want) {
			out = append(out, p)
		}
	}
	data(w, out)
}

func hasFragrance(p domain.Product, want map[string]bool) bool {
	colors := p.Colors
	for _, m := range p.Models {
		colors = append(colors, m.Colors...)
	}
	for _, c := range colors {
		for _, f := range c.Fragrances {
			if want[f] {
				return true
			}
		}
	}
	return false
}

func (s *Server) productsWithOffers(w http.ResponseWriter, r *http.Request) {
	var out []domain.ProductWithOffers
	for _, p := range s.Products {
		pw := domain.ProductWithOffers{Product: p}
		for _, o := range s.Offers {
			if o.ProductID == p.ID {
				pw.Offers = append(pw.Offers, o)
			}
		}
		out = append(out, pw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	data(w, out)
}

func (s *Server) productOffers(w http.ResponseWriter, r *http.Request) {
	out := []domain.Offer{}
	for _, o := range s.Offers {
		if o.ProductID == r.PathValue("id") {
			out = append(out, o)
		}
	}
	data(w, out)
}

func (s *Server) addOffer(w http.ResponseWriter, r *http.Request) {
	var o domain.Offer
	if err := bind(r, &o); err != nil {
		fail(w, http.StatusBadRequest, "bad body")
		return
	}
	o.ID = s.nextID("o")
	o.IsActive = true
	o.CreatedAt = time.Now()
	s.Offers = append(s.Offers, o)
	data(w, o)
}

func (s *Server) deactivateOffer(w http.ResponseWriter, r *http.Request) {
	for i := range s.Offers {
		if s.Offers[i].ID == r.PathValue("id") {
			s.Offers[i].IsActive = false
			data(w, s.Offers[i])
			return
		}
	}
	fail(w, http.StatusNotFound, "Offer not found")
}

func (s *Server) stockStatus(w http.ResponseWriter, r *http.Request) {
	out := domain.ProductStockStatus{ProductID: r.PathValue("id")}
	for _, rec := range s.Inventory {
		if rec.ProductID != out.ProductID {
			continue
		}
		status := domain.StatusInStock
		switch {
		case rec.Stock == 0:
			status = domain.StatusOutOfStock
		case rec.Stock < rec.Threshold:
			status = domain.StatusLowStock
		}
		out.Variants = append(out.Variants, domain.VariantStock{
			ColorID: rec.ColorID, VariableModelID: rec.VariableModelID, Fragrance: rec.Fragrance,
			Stock: rec.Stock, Threshold: rec.Threshold, Status: status,
		})
	}
	data(w, out)
}

func (s *Server) record(id string) *domain.InventoryRecord {
	for i := range s.Inventory {
		if s.Inventory[i].ID == id {
			return &s.Inventory[i]
		}
	}
	return nil
}

func (s *Server) mutateStock(w http.ResponseWriter, r *http.Request, apply func(rec *domain.InventoryRecord, qty int) (domain.StockChange, int, bool)) {
	rec := s.record(r.PathValue("id"))
	if rec == nil {
		fail(w, http.StatusNotFound, "Inventory record not found")
		return
	}
	var in struct {
		Quantity int    `json:"quantity"`
		Stock    int    `json:"stock"`
		Reason   string `json:"reason"`
	}
	if err := bind(r, &in); err != nil {
		fail(w, http.StatusBadRequest, "bad body")
		return
	}
	prev := rec.Stock
	kind, qty, ok := apply(rec, in.Quantity+in.Stock)
	if !ok {
		fail(w, http.StatusBadRequest, "Invalid quantity")
		return
	}
	s.History[rec.ID] = append(s.History[rec.ID], domain.StockHistory{
		PreviousStock: prev, NewStock: rec.Stock, Quantity: qty, Type: kind, Reason: in.Reason, Date: time.Now(),
	})
	data(w, *rec)
}

func (s *Server) addStock(w http.ResponseWriter, r *http.Request) {
	s.mutateStock(w, r, func(rec *domain.InventoryRecord, qty int) (domain.StockChange, int, bool) {
		if qty <= 0 {
			return "", 0, false
		}
		rec.Stock += qty
		return domain.StockAdded, qty, true
	})
}

func (s *Server) setStock(w http.ResponseWriter, r *http.Request) {
	s.mutateStock(w, r, func(rec *domain.InventoryRecord, v int) (domain.StockChange, int, bool) {
		if v < 0 {
			return "", 0, false
		}
		delta := v - rec.Stock
		rec.Stock = v
		return domain.StockAdjusted, delta, true
	})
}

func (s *Server) updateThreshold(w http.ResponseWriter, r *http.Request) {
	rec := s.record(r.PathValue("id"))
	if rec == nil {
		fail(w, http.StatusNotFound, "Inventory record not found")
		return
	}
	var in struct {
		Threshold int `json:"threshold"`
	}
	if err := bind(r, &in); err != nil || in.Threshold < 0 {
		fail(w, http.StatusBadRequest, "Invalid threshold")
		return
	}
	rec.Threshold = in.Threshold
	data(w, *rec)
}

func (s *Server) userCart() *domain.Cart {
	c, ok := s.Carts[UserID]
	if !ok {
		c = &domain.Cart{UserID: UserID, Items: []domain.CartItem{}}
		s.Carts[UserID] = c
	}
	return c
}

func (s *Server) cart(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("userId") != UserID {
		fail(w, http.StatusForbidden, "Not your cart")
		return
	}
	data(w, s.userCart())
}

func (s *Server) cartAdd(w http.ResponseWriter, r *http.Request) {
	var it domain.CartItem
	if err := bind(r, &it); err != nil {
		fail(w, http.StatusBadRequest, "bad body")
		return
	}
	c := s.userCart()
	for i := range c.Items {
		ex := &c.Items[i]
		if ex.ProductID == it.ProductID && ex.Selected == it.Selected {
			ex.Quantity += it.Quantity
			ex.TotalPrice = ex.FinalPrice * float64(ex.Quantity)
			data(w, c)
			return
		}
	}
	it.ID = s.nextID("ci")
	c.Items = append(c.Items, it)
	data(w, c)
}

func (s *Server) cartUpdate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := bind(r, &in); err != nil || in.Quantity < 1 || in.Quantity > 99 {
		fail(w, http.StatusBadRequest, "Quantity must be between 1 and 99")
		return
	}
	c := s.userCart()
	for i := range c.Items {
		if c.Items[i].ID == r.PathValue("id") {
			c.Items[i].Quantity = in.Quantity
			c.Items[i].TotalPrice = c.Items[i].FinalPrice * float64(in.Quantity)
			data(w, c)
			return
		}
	}
	fail(w, http.StatusNotFound, "Cart item not found")
}

func (s *Server) cartRemove(w http.ResponseWriter, r *http.Request) {
	c := s.userCart()
	for i := range c.Items {
		if c.Items[i].ID == r.PathValue("id") {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			data(w, c)
			return
		}
	}
	fail(w, http.StatusNotFound, "Cart item not found")
}

func (s *Server) wishlistCheck(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"inWishlist": false, "fragrances": []string{}}
	var frs []string
	for _, it := range s.Wishlist {
		if it.ProductID == r.PathValue("id") {
			frs = append(frs, it.Selected.Fragrance)
		}
	}
	if len(frs) > 0 {
		out["inWishlist"] = true
		out["fragrances"] = frs
	}
	data(w, out)
}

func (s *Server) wishlistAdd(w http.ResponseWriter, r *http.Request) {
	var it domain.WishlistItem
	if err := bind(r, &it); err != nil {
		fail(w, http.StatusBadRequest, "bad body")
		return
	}
	for _, ex := range s.Wishlist {
		if ex.ProductID == it.ProductID && ex.Selected.Fragrance == it.Selected.Fragrance {
			fail(w, http.StatusConflict, "Already in wishlist")
			return
		}
	}
	it.ID = s.nextID("w")
	s.Wishlist = append(s.Wishlist, it)
	data(w, it)
}

func (s *Server) wishlistRemove(w http.ResponseWriter, r *http.Request) {
	fr := r.URL.Query().Get("fragrance")
	for i, it := range s.Wishlist {
		if it.ProductID == r.PathValue("id") && it.Selected.Fragrance == fr {
			s.Wishlist = append(s.Wishlist[:i], s.Wishlist[i+1:]...)
			data(w, map[string]string{})
			return
		}
	}
	fail(w, http.StatusNotFound, "Not in wishlist")
}

func (s *Server) orderStats(w http.ResponseWriter, r *http.Request) {
	var st domain.OrderStats
	for _, o := range s.Orders {
		st.TotalOrders++
		switch o.OrderStatus {
		case domain.OrderPending:
			st.Pending++
		case domain.OrderDelivered:
			st.Delivered++
		case domain.OrderCancelled:
			st.Cancelled++
		}
		st.TotalSpent += o.Pricing.Total
	}
	data(w, st)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID          string               `json:"userId"`
		Items           []domain.OrderItem   `json:"items"`
		DeliveryAddress domain.Address       `json:"deliveryAddress"`
		PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
		Pricing         domain.Pricing       `json:"pricing"`
		CheckoutMode    domain.CheckoutMode  `json:"checkoutMode"`
	}
	if err := bind(r, &in); err != nil || len(in.Items) == 0 {
		fail(w, http.StatusBadRequest, "Order has no items")
		return
	}
	now := time.Now()
	o := domain.Order{
		ID: s.nextID("ord"), UserID: in.UserID, Items: in.Items, DeliveryAddress: in.DeliveryAddress,
		Payment: domain.Payment{Method: in.PaymentMethod, Status: "pending"}, Pricing: in.Pricing,
		OrderStatus: domain.OrderPending, CheckoutMode: in.CheckoutMode, CreatedAt: now,
		Timeline: []domain.TimelineEntry{{Status: domain.OrderPending, At: now}},
	}
	s.Orders = append(s.Orders, o)
	if in.CheckoutMode == domain.CheckoutCart {
		s.userCart().Items = []domain.CartItem{}
	}
	data(w, o)
}

func (s *Server) order(id string) *domain.Order {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return &s.Orders[i]
		}
	}
	return nil
}

func (s *Server) orderStatus(w http.ResponseWriter, r *http.Request) {
	o := s.order(r.PathValue("id"))
	if o == nil {
		fail(w, http.StatusNotFound, "Order not found")
		return
	}
	var in struct {
		Status domain.OrderStatus `json:"status"`
	}
	_ = bind(r, &in)
	o.OrderStatus = in.Status
	o.Timeline = append(o.Timeline, domain.TimelineEntry{Status: in.Status, At: time.Now()})
	data(w, *o)
}

func (s *Server) orderCancel(w http.ResponseWriter, r *http.Request) {
	o := s.order(r.PathValue("id"))
	if o == nil {
		fail(w, http.StatusNotFound, "Order not found")
		return
	}
	if o.OrderStatus != domain.OrderPending && o.OrderStatus != domain.OrderProcessing {
		fail(w, http.StatusBadRequest, "Order can no longer be cancelled")
		return
	}
	o.OrderStatus = domain.OrderCancelled
	o.Timeline = append(o.Timeline, domain.TimelineEntry{Status: domain.OrderCancelled, At: time.Now()})
	data(w, *o)
}

func (s *Server) productReviews(w http.ResponseWriter, r *http.Request) {
	out := []domain.Review{}
	for _, rv := range s.Reviews {
		if rv.ProductID == r.PathValue("id") {
			out = append(out, rv)
		}
	}
	data(w, out)
}

func (s *Server) submitReview(w http.ResponseWriter, r *http.Request) {
	var rv domain.Review
	if err := bind(r, &rv); err != nil {
		fail(w, http.StatusBadRequest, "bad body")
		return
	}
	for _, ex := range s.Reviews {
		if ex.Key() == rv.Key() {
			fail(w, http.StatusConflict, "You have already reviewed this item")
			return
		}
	}
	now := time.Now()
	rv.ID = s.nextID("rv")
	rv.UserID = UserID
	rv.UserName = "Asha"
	rv.IsVerifiedPurchase = true
	rv.CreatedAt, rv.UpdatedAt = now, now
	s.Reviews = append(s.Reviews, rv)
	data(w, rv)
}

func (s *Server) checkReviews(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Items []domain.ReviewKey `json:"items"`
	}
	_ = bind(r, &in)
	out := []map[string]any{}
	for _, k := range in.Items {
		entry := map[string]any{"orderId": k.OrderID, "productId": k.ProductID, "colorId": k.ColorID, "reviewed": false}
		for _, rv := range s.Reviews {
			if rv.Key() == k {
				entry["reviewed"] = true
				entry["reviewId"] = rv.ID
			}
		}
		out = append(out, entry)
	}
	data(w, out)
}

func (s *Server) review(id string) (int, bool) {
	for i := range s.Reviews {
		if s.Reviews[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *Server) updateReview(w http.ResponseWriter, r *http.Request) {
	i, ok := s.review(r.PathValue("id"))
	if !ok {
		fail(w, http.StatusNotFound, "Review not found")
		return
	}
	var in struct {
		Rating     int    `json:"rating"`
		ReviewText string `json:"reviewText"`
	}
	_ = bind(r, &in)
	s.Reviews[i].Rating = in.Rating
	s.Reviews[i].ReviewText = in.ReviewText
	s.Reviews[i].UpdatedAt = time.Now()
	data(w, s.Reviews[i])
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request) {
	i, ok := s.review(r.PathValue("id"))
	if !ok {
		fail(w, http.StatusNotFound, "Review not found")
		return
	}
	s.Reviews = append(s.Reviews[:i], s.Reviews[i+1:]...)
	data(w, map[string]string{})
}

func (s *Server) kpis(w http.ResponseWriter, r *http.Request) {
	k := domain.KPIs{TotalOrders: len(s.Orders), TotalProducts: len(s.Products), TotalCustomers: 1}
	for _, o := range s.Orders {
		k.TotalRevenue += o.Pricing.Total
	}
	if k.TotalOrders > 0 {
		k.AvgOrderValue = k.TotalRevenue / float64(k.TotalOrders)
	}
	data(w, k)
}

func (s *Server) ordersByStatus(w http.ResponseWriter, r *http.Request) {
	counts := map[domain.OrderStatus]int{}
	for _, o := range s.Orders {
		counts[o.OrderStatus]++
	}
	out := []domain.StatusCount{}
	for st, n := range counts {
		out = append(out, domain.StatusCount{Status: st, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	data(w, out)
}

func (s *Server) lowStock(w http.ResponseWriter, r *http.Request) {
	out := []domain.InventoryRecord{}
	for _, rec := range s.Inventory {
		if rec.Stock < rec.Threshold {
			out = append(out, rec)
		}
	}
	data(w, out)
}
