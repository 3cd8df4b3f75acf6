// Package cache holds the redis-backed cart cache. It is an explicit
// dependency passed to the cart service; there is no package-level state.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no cart is cached for the user.
var ErrCacheMiss = errors.New("cart cache miss")

// CartCache stores a user's cart lines with a TTL. TTLs get a small random
// jitter so a burst of carts written together does not expire together.
type CartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewCartCache(client *redis.Client, baseTTL time.Duration) *CartCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &CartCache{client: client, baseTTL: baseTTL}
}

func (c *CartCache) Get(ctx context.Context, userID string) ([]domain.CartLine, error) {
	data, err := c.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cached cart: %w", err)
	}
	return lines, nil
}

func (c *CartCache) Set(ctx context.Context, userID string, lines []domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := c.client.Set(ctx, cartKey(userID), data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *CartCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
