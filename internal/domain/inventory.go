package domain

import "time"

type StockStatus string

const (
	StatusChecking   StockStatus = "checking"
	StatusError      StockStatus = "error"
	StatusOutOfStock StockStatus = "out-of-stock"
	StatusLowStock   StockStatus = "low-stock"
	StatusInStock    StockStatus = "in-stock"
)

const DefaultThreshold = 10

type InventoryRecord struct {
	ID              string    `json:"_id"`
	ProductID       string    `json:"productId"`
	ProductName     string    `json:"productName,omitempty"`
	ColorID         string    `json:"colorId"`
	VariableModelID string    `json:"variableModelId,omitempty"`
	Fragrance       string    `json:"fragrance,omitempty"`
	Stock           int       `json:"stock"`
	Threshold       int       `json:"threshold"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type StockChange string

const (
	StockAdded    StockChange = "added"
	StockDeducted StockChange = "deducted"
	StockAdjusted StockChange = "adjusted"
	StockInitial  StockChange = "initial"
	StockSold     StockChange = "sold"
	StockReturned StockChange = "returned"
)

// StockHistory entries are immutable; one is appended per stock mutation.
type StockHistory struct {
	PreviousStock int         `json:"previousStock"`
	NewStock      int         `json:"newStock"`
	Quantity      int         `json:"quantity"`
	Type          StockChange `json:"type"`
	Reason        string      `json:"reason"`
	Date          time.Time   `json:"date"`
}

// VariantStock is the per-variant status snapshot returned by
// GET /inventory/product/:id/status.
type VariantStock struct {
	ColorID         string      `json:"colorId"`
	VariableModelID string      `json:"variableModelId,omitempty"`
	Fragrance       string      `json:"fragrance,omitempty"`
	Stock           int         `json:"stock"`
	Threshold       int         `json:"threshold"`
	Status          StockStatus `json:"status"`
}

type ProductStockStatus struct {
	ProductID string         `json:"productId"`
	Variants  []VariantStock `json:"variants"`
}

// Lookup finds the snapshot for a variant. An empty fragrance on the record
// applies to every fragrance of that color.
func (s ProductStockStatus) Lookup(modelID, colorID, fragrance string) (VariantStock, bool) {
	var fallback *VariantStock
	for i := range s.Variants {
		v := &s.Variants[i]
		if v.ColorID != colorID || v.VariableModelID != modelID {
			continue
		}
		if v.Fragrance == fragrance {
			return *v, true
		}
		if v.Fragrance == "" && fallback == nil {
			fallback = v
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return VariantStock{}, false
}
