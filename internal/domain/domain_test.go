package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindColorSimpleAndVariable(t *testing.T) {
	simple := Product{ID: "p1", Type: ProductSimple, Colors: []Color{{ID: "c1"}, {ID: "c2"}}}
	m, c, ok := simple.FindColor("", "c2")
	require.True(t, ok)
	require.Nil(t, m)
	require.Equal(t, "c2", c.ID)

	variable := Product{ID: "p2", Type: ProductVariable, Models: []Model{
		{ID: "m1", Colors: []Color{{ID: "c1"}}},
		{ID: "m2", Colors: []Color{{ID: "c9"}}},
	}}
	m, c, ok = variable.FindColor("m2", "c9")
	require.True(t, ok)
	require.Equal(t, "m2", m.ID)
	require.Equal(t, "c9", c.ID)

	_, _, ok = variable.FindColor("m1", "c9")
	require.False(t, ok)
}

func TestDefaultVariant(t *testing.T) {
	variable := Product{Type: ProductVariable, Models: []Model{{ID: "empty"}, {ID: "m2", Colors: []Color{{ID: "c3"}}}}}
	mID, cID, ok := variable.DefaultVariant()
	require.True(t, ok)
	require.Equal(t, "m2", mID)
	require.Equal(t, "c3", cID)

	_, _, ok = Product{Type: ProductSimple}.DefaultVariant()
	require.False(t, ok)
}

func TestStockLookupFallsBackToColorRecord(t *testing.T) {
	s := ProductStockStatus{Variants: []VariantStock{
		{ColorID: "c1", Stock: 4, Status: StatusLowStock},
		{ColorID: "c1", Fragrance: "Vanilla", Stock: 0, Status: StatusOutOfStock},
	}}
	v, ok := s.Lookup("", "c1", "Vanilla")
	require.True(t, ok)
	require.Equal(t, StatusOutOfStock, v.Status)

	v, ok = s.Lookup("", "c1", "Lavender")
	require.True(t, ok)
	require.Equal(t, 4, v.Stock)

	_, ok = s.Lookup("m1", "c1", "Vanilla")
	require.False(t, ok)
}

func TestOfferJSONShape(t *testing.T) {
	raw := `{"_id":"o1","productId":"p1","colorId":"c1","offerPercentage":20,
		"offerLabel":"Festive","startDate":"2026-01-01T00:00:00Z","isActive":true}`
	var o Offer
	require.NoError(t, json.Unmarshal([]byte(raw), &o))
	require.Nil(t, o.EndDate)
	require.Empty(t, o.VariableModelID)
	require.True(t, o.SameScope(Offer{ProductID: "p1", ColorID: "c1"}))
}
