package domain

import "time"

type ProductType string

const (
	ProductSimple   ProductType = "simple"
	ProductVariable ProductType = "variable"
)

type Category struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product is read-only to shoppers. Simple products carry Colors directly;
// variable products carry Models which in turn carry Colors.
type Product struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CategoryID  string      `json:"categoryId"`
	Type        ProductType `json:"type"`
	Thumbnail   string      `json:"thumbnail"`
	Colors      []Color     `json:"colors,omitempty"`
	Models      []Model     `json:"models,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type Model struct {
	ID             string            `json:"_id"`
	Name           string            `json:"name"`
	SKU            string            `json:"SKU"`
	Colors         []Color           `json:"colors"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

type Color struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Images        []string `json:"images"`
	OriginalPrice float64  `json:"originalPrice"`
	CurrentPrice  float64  `json:"currentPrice"`
	Fragrances    []string `json:"fragrances"`
	Sizes         []string `json:"sizes"`
	Offer         *Offer   `json:"offer,omitempty"`
}

// FindColor locates a color, searching inside the named model for variable products.
func (p Product) FindColor(modelID, colorID string) (*Model, *Color, bool) {
	if p.Type == ProductVariable {
		for i := range p.Models {
			m := &p.Models[i]
			if m.ID != modelID {
				continue
			}
			for j := range m.Colors {
				if m.Colors[j].ID == colorID {
					return m, &m.Colors[j], true
				}
			}
		}
		return nil, nil, false
	}
	for i := range p.Colors {
		if p.Colors[i].ID == colorID {
			return nil, &p.Colors[i], true
		}
	}
	return nil, nil, false
}

// DefaultVariant returns the first selectable model/color pair.
func (p Product) DefaultVariant() (modelID, colorID string, ok bool) {
	if p.Type == ProductVariable {
		for _, m := range p.Models {
			if len(m.Colors) > 0 {
				return m.ID, m.Colors[0].ID, true
			}
		}
		return "", "", false
	}
	if len(p.Colors) > 0 {
		return "", p.Colors[0].ID, true
	}
	return "", "", false
}

// ProductWithOffers is what the public offers endpoints return: a product
// plus the offers attached to its colors.
type ProductWithOffers struct {
	Product
	Offers []Offer `json:"offers"`
}
