package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"wickandwax/internal/domain"
)

func TestComputePriceWithOffer(t *testing.T) {
	p := ComputePrice(ColorPrice{OriginalPrice: 1000, CurrentPrice: 500},
		&domain.Offer{OfferPercentage: 20, OfferLabel: "Diwali"})
	require.Equal(t, 400.0, p.FinalPrice)
	require.Equal(t, 60, p.DiscountPercent)
	require.True(t, p.HasOffer)
	require.Equal(t, "Diwali", p.OfferLabel)
	require.Equal(t, 600.0, p.Saving())
}

func TestComputePriceWithoutOffer(t *testing.T) {
	p := ComputePrice(ColorPrice{OriginalPrice: 800, CurrentPrice: 600}, nil)
	require.Equal(t, 600.0, p.FinalPrice)
	require.Equal(t, 25, p.DiscountPercent)
	require.False(t, p.HasOffer)
}

func TestComputePriceNoDiscountWhenOriginalNotHigher(t *testing.T) {
	require.Equal(t, 0, ComputePrice(ColorPrice{OriginalPrice: 0, CurrentPrice: 300}, nil).DiscountPercent)
	require.Equal(t, 0, ComputePrice(ColorPrice{OriginalPrice: 300, CurrentPrice: 300}, nil).DiscountPercent)
}

func TestComputePriceClamps(t *testing.T) {
	full := ComputePrice(ColorPrice{OriginalPrice: 100, CurrentPrice: 100}, &domain.Offer{OfferPercentage: 150})
	require.Equal(t, 0.0, full.FinalPrice)
	require.Equal(t, 100, full.DiscountPercent)

	neg := ComputePrice(ColorPrice{OriginalPrice: 100, CurrentPrice: 100}, &domain.Offer{OfferPercentage: -10})
	require.Equal(t, 100.0, neg.FinalPrice)
}

func TestComputePriceRoundsToPaise(t *testing.T) {
	p := ComputePrice(ColorPrice{OriginalPrice: 999, CurrentPrice: 333.33}, &domain.Offer{OfferPercentage: 15})
	require.Equal(t, 283.33, p.FinalPrice)
}

func TestComputePriceBounds(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		current := float64(r.Intn(500000)) / 100
		original := current + float64(r.Intn(100000))/100
		pct := float64(r.Intn(10001)) / 100
		p := ComputePrice(ColorPrice{OriginalPrice: original, CurrentPrice: current}, &domain.Offer{OfferPercentage: pct})
		require.GreaterOrEqual(t, p.FinalPrice, 0.0)
		require.LessOrEqual(t, p.FinalPrice, current, "current=%v pct=%v", current, pct)
		require.GreaterOrEqual(t, p.DiscountPercent, 0)
		require.LessOrEqual(t, p.DiscountPercent, 100)
	}
}
