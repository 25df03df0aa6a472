// Package events is the change-notification bus. Services publish after a
// successful mutation; caches and badge counters subscribe and invalidate.
package events

import (
	"context"
	"sync"
)

type Topic string

const (
	CartUpdated      Topic = "cart.updated"
	WishlistUpdated  Topic = "wishlist.updated"
	OffersUpdated    Topic = "offers.updated"
	InventoryUpdated Topic = "inventory.updated"
	OrdersUpdated    Topic = "orders.updated"
	ReviewsUpdated   Topic = "reviews.updated"
)

type Event struct {
	Topic     Topic
	UserID    string
	ProductID string
}

type Handler func(ctx context.Context, ev Event)

type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]Handler
}

func NewBus() *Bus { return &Bus{subs: make(map[Topic][]Handler)} }

func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// Publish runs subscribers synchronously, in subscription order, so a
// response rendered after Publish returns already sees invalidated state.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := append([]Handler(nil), b.subs[ev.Topic]...)
	b.mu.RUnlock()
	for _, h := range hs {
		h(ctx, ev)
	}
}
