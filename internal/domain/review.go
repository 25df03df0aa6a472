package domain

import "time"

type Review struct {
	ID                 string    `json:"_id"`
	OrderID            string    `json:"orderId"`
	ProductID          string    `json:"productId"`
	ColorID            string    `json:"colorId"`
	ModelID            string    `json:"modelId,omitempty"`
	ModelName          string    `json:"modelName,omitempty"`
	Fragrance          string    `json:"fragrance,omitempty"`
	Size               string    `json:"size,omitempty"`
	UserID             string    `json:"userId"`
	UserName           string    `json:"userName"`
	Rating             int       `json:"rating"`
	ReviewText         string    `json:"reviewText"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase"`
	IsApproved         bool      `json:"isApproved"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ReviewKey is the uniqueness tuple: one review per user, order, product and color.
type ReviewKey struct {
	OrderID   string `json:"orderId"`
	ProductID string `json:"productId"`
	ColorID   string `json:"colorId"`
}

func (r Review) Key() ReviewKey {
	return ReviewKey{OrderID: r.OrderID, ProductID: r.ProductID, ColorID: r.ColorID}
}
