package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requires Redis on localhost:6379; skipped otherwise
const testRedisAddr = "localhost:6379"

func setupTestCache(t *testing.T, prefix string) *Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	c := New(client, prefix, time.Minute)
	require.NoError(t, c.DeletePattern(ctx, "*"))
	t.Cleanup(func() {
		_ = c.DeletePattern(context.Background(), "*")
		_ = c.Close()
	})
	return c
}

type cachedProduct struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestCache_SetGetDelete(t *testing.T) {
	c := setupTestCache(t, "test:ecommerce:")
	ctx := context.Background()

	var out cachedProduct
	hit, err := c.Get(ctx, "product:1", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "product:1", cachedProduct{ID: 1, Name: "Laptop"}))

	hit, err = c.Get(ctx, "product:1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Laptop", out.Name)

	require.NoError(t, c.Delete(ctx, "product:1"))
	hit, err = c.Get(ctx, "product:1", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	s := c.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(2), s.Misses)
	assert.InDelta(t, 33.3, s.HitRate, 0.1)
}

func TestCache_DeletePattern(t *testing.T) {
	c := setupTestCache(t, "test:ecommerce:pattern:")
	ctx := context.Background()

	for _, k := range []string{"product:1", "product:2", "category:1"} {
		require.NoError(t, c.Set(ctx, k, k))
	}
	require.NoError(t, c.DeletePattern(ctx, "product:*"))

	var s string
	hit, err := c.Get(ctx, "category:1", &s)
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = c.Get(ctx, "product:2", &s)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestConnect_Unavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, Config{Addr: "127.0.0.1:1", Prefix: "x:", TTL: time.Second})
	assert.Error(t, err)
}

func TestStats_Empty(t *testing.T) {
	c := New(redis.NewClient(&redis.Options{Addr: testRedisAddr}), "x:", time.Second)
	defer c.Close()

	assert.Equal(t, Stats{}, c.Stats())
}
