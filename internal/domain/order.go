package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

type CheckoutMode string

const (
	CheckoutCart   CheckoutMode = "cart"
	CheckoutBuyNow CheckoutMode = "buy-now"
)

type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "cod"
	PaymentPrepaid PaymentMethod = "prepaid"
)

type OrderItem struct {
	ProductID   string           `json:"productId"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"`
	UnitPrice   float64          `json:"unitPrice"`
	OfferPrice  float64          `json:"offerPrice"`
	SavedAmount float64          `json:"savedAmount"`
	TotalPrice  float64          `json:"totalPrice"`
	Selected    VariantSelection `json:"selected"`
	OfferLabel  string           `json:"offerLabel,omitempty"`
}

type Address struct {
	FullName string `json:"fullName" validate:"required,max=80"`
	Phone    string `json:"phone" validate:"required,numeric,len=10"`
	Line1    string `json:"line1" validate:"required,max=120"`
	Line2    string `json:"line2,omitempty" validate:"max=120"`
	City     string `json:"city" validate:"required,max=60"`
	State    string `json:"state" validate:"required,max=60"`
	Pincode  string `json:"pincode" validate:"required,numeric,len=6"`
}

type Payment struct {
	Method PaymentMethod `json:"method"`
	Status string        `json:"status"`
}

type Pricing struct {
	Subtotal     float64 `json:"subtotal"`
	TotalSavings float64 `json:"totalSavings"`
	Shipping     float64 `json:"shipping"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`
}

type TimelineEntry struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"at"`
}

type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	DeliveryAddress Address         `json:"deliveryAddress"`
	Payment         Payment         `json:"payment"`
	Pricing         Pricing         `json:"pricing"`
	OrderStatus     OrderStatus     `json:"orderStatus"`
	Timeline        []TimelineEntry `json:"timeline"`
	CheckoutMode    CheckoutMode    `json:"checkoutMode"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type OrderStats struct {
	TotalOrders int     `json:"totalOrders"`
	Pending     int     `json:"pending"`
	Delivered   int     `json:"delivered"`
	Cancelled   int     `json:"cancelled"`
	TotalSpent  float64 `json:"totalSpent"`
}
