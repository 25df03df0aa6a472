package cache

import (
	"context"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/events"
	applog "wickandwax/internal/log"
)

// Subscribe wires cache invalidation to the change notifications services publish.
func (r *Redis) Subscribe(bus *events.Bus) {
	if r == nil || bus == nil {
		return
	}
	bus.Subscribe(events.CartUpdated, func(ctx context.Context, ev events.Event) {
		r.drop(ctx, ev, r.DropCount(ctx, CartCount, ev.UserID))
	})
	bus.Subscribe(events.WishlistUpdated, func(ctx context.Context, ev events.Event) {
		r.drop(ctx, ev, r.DropCount(ctx, WishlistCount, ev.UserID))
	})
	bus.Subscribe(events.OffersUpdated, func(ctx context.Context, ev events.Event) {
		r.drop(ctx, ev, r.DeletePrefix(ctx, apiclient.CacheKey("/productoffers/")))
		if ev.ProductID != "" {
			r.drop(ctx, ev, r.Delete(ctx, apiclient.CacheKey("/products/"+ev.ProductID)))
		}
	})
	bus.Subscribe(events.ReviewsUpdated, func(ctx context.Context, ev events.Event) {
		if ev.ProductID != "" {
			r.drop(ctx, ev, r.Delete(ctx, apiclient.CacheKey("/reviews/product/"+ev.ProductID)))
		}
	})
}

func (r *Redis) drop(_ context.Context, ev events.Event, err error) {
	fields := map[string]any{"topic": string(ev.Topic), "user": ev.UserID, "product": ev.ProductID}
	if err != nil {
		fields["err"] = err.Error()
		applog.Event("cache.invalidate.fail", fields)
		return
	}
	applog.Event("cache.invalidate", fields)
}
