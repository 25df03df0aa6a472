// Package cache keeps short-lived copies of public API reads and per-user
// badge counts in Redis. A nil *Redis is a valid, always-missing cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	applog "wickandwax/internal/log"
)

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to addr and verifies the connection.
func New(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return NewWithClient(client, ttl), nil
}

func NewWithClient(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	if r == nil {
		return nil, false
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			applog.Event("cache.get.fail", map[string]any{"key": key, "err": err.Error()})
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, body []byte) {
	if r == nil {
		return
	}
	if err := r.client.Set(ctx, key, body, r.ttl).Err(); err != nil {
		applog.Event("cache.set.fail", map[string]any{"key": key, "err": err.Error()})
	}
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if r == nil || len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// DeletePrefix removes every key starting with prefix.
func (r *Redis) DeletePrefix(ctx context.Context, prefix string) error {
	if r == nil {
		return nil
	}
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return r.Delete(ctx, keys...)
}

type CountKind string

const (
	CartCount     CountKind = "cart"
	WishlistCount CountKind = "wishlist"
)

func countKey(kind CountKind, userID string) string {
	return "count:" + string(kind) + ":" + userID
}

// Count returns a cached badge count.
func (r *Redis) Count(ctx context.Context, kind CountKind, userID string) (int, bool) {
	b, ok := r.Get(ctx, countKey(kind, userID))
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (r *Redis) SetCount(ctx context.Context, kind CountKind, userID string, n int) {
	r.Set(ctx, countKey(kind, userID), []byte(strconv.Itoa(n)))
}

func (r *Redis) DropCount(ctx context.Context, kind CountKind, userID string) error {
	return r.Delete(ctx, countKey(kind, userID))
}
