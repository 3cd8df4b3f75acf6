package cache

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CartCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCartCache(client, 15*time.Minute), mr
}

func TestCartCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	lines := []domain.CartLine{
		{ID: "l1", ProductID: "p1", Quantity: 2},
		{ID: "l2", ProductID: "p2", Quantity: 1},
	}
	require.NoError(t, cache.Set(ctx, "u1", lines))

	got, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ProductID)
	assert.Equal(t, 2, got[0].Quantity)
}

func TestCartCache_MissOnUnknownUser(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCartCache_TTLWithinJitterWindow(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, cache.Set(context.Background(), "u1", nil))

	ttl := mr.TTL("cart:u1")
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 16*time.Minute)
}

func TestCartCache_Expiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "u1", []domain.CartLine{{ID: "l1"}}))

	mr.FastForward(17 * time.Minute)

	_, err := cache.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCartCache_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "u1", []domain.CartLine{{ID: "l1"}}))
	require.NoError(t, cache.Delete(ctx, "u1"))

	_, err := cache.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCartCache_CorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, mr.Set("cart:u1", "{not json"))

	_, err := cache.Get(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
