package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/events"
)

func newTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client, time.Minute), mr
}

func TestGetSetExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "k")
	require.False(t, ok)

	c.Set(ctx, "k", []byte("v"))
	b, ok := c.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, "v", string(b))

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	require.False(t, ok)
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Redis
	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"))
	_, ok := c.Get(ctx, "k")
	require.False(t, ok)
	require.NoError(t, c.DeletePrefix(ctx, "api:"))
	_, ok = c.Count(ctx, CartCount, "u")
	require.False(t, ok)
}

func TestDeletePrefix(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	c.Set(ctx, apiclient.CacheKey("/productoffers/a"), []byte("1"))
	c.Set(ctx, apiclient.CacheKey("/productoffers/b"), []byte("2"))
	c.Set(ctx, apiclient.CacheKey("/products/all"), []byte("3"))

	require.NoError(t, c.DeletePrefix(ctx, apiclient.CacheKey("/productoffers/")))
	_, ok := c.Get(ctx, apiclient.CacheKey("/productoffers/a"))
	require.False(t, ok)
	_, ok = c.Get(ctx, apiclient.CacheKey("/products/all"))
	require.True(t, ok)
}

func TestSubscribeInvalidatesOnEvents(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	bus := events.NewBus()
	c.Subscribe(bus)

	c.SetCount(ctx, CartCount, "u-1", 3)
	c.SetCount(ctx, WishlistCount, "u-1", 2)
	c.Set(ctx, apiclient.CacheKey("/productoffers/product-color-offers/p1"), []byte("[]"))
	c.Set(ctx, apiclient.CacheKey("/products/p1"), []byte("{}"))
	c.Set(ctx, apiclient.CacheKey("/reviews/product/p1"), []byte("[]"))

	bus.Publish(ctx, events.Event{Topic: events.CartUpdated, UserID: "u-1"})
	_, ok := c.Count(ctx, CartCount, "u-1")
	require.False(t, ok)
	n, ok := c.Count(ctx, WishlistCount, "u-1")
	require.True(t, ok)
	require.Equal(t, 2, n)

	bus.Publish(ctx, events.Event{Topic: events.OffersUpdated, ProductID: "p1"})
	_, ok = c.Get(ctx, apiclient.CacheKey("/productoffers/product-color-offers/p1"))
	require.False(t, ok)
	_, ok = c.Get(ctx, apiclient.CacheKey("/products/p1"))
	require.False(t, ok)

	bus.Publish(ctx, events.Event{Topic: events.ReviewsUpdated, ProductID: "p1"})
	_, ok = c.Get(ctx, apiclient.CacheKey("/reviews/product/p1"))
	require.False(t, ok)
}
