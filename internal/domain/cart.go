package domain

// VariantSelection is the snapshot of what the shopper picked.
type VariantSelection struct {
	ModelID   string `json:"modelId,omitempty"`
	ModelName string `json:"modelName,omitempty"`
	ColorID   string `json:"colorId"`
	ColorName string `json:"colorName,omitempty"`
	Fragrance string `json:"fragrance,omitempty"`
	Size      string `json:"size,omitempty"`
}

type CartItem struct {
	ID          string           `json:"_id"`
	ProductID   string           `json:"productId"`
	ProductName string           `json:"productName"`
	Image       string           `json:"image,omitempty"`
	Quantity    int              `json:"quantity"`
	UnitPrice   float64          `json:"unitPrice"`
	FinalPrice  float64          `json:"finalPrice"`
	TotalPrice  float64          `json:"totalPrice"`
	Selected    VariantSelection `json:"selected"`
	HasOffer    bool             `json:"hasOffer"`
	Offer       *Offer           `json:"offer,omitempty"`
}

type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

// DefaultFragrance stands in for products without real fragrance variants so
// that wishlist dedup on (user, product, fragrance) still works.
const DefaultFragrance = "default"

type WishlistItem struct {
	ID            string           `json:"_id"`
	ProductID     string           `json:"productId"`
	ProductName   string           `json:"productName"`
	Image         string           `json:"image,omitempty"`
	Selected      VariantSelection `json:"selected"`
	CurrentPrice  float64          `json:"currentPrice"`
	OriginalPrice float64          `json:"originalPrice"`
}
