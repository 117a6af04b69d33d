package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestRedisCache_Get_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	studentID := "user_123"

	cart := &domain.Cart{
		StudentID: studentID,
		Lines: []domain.CartLine{
			{ItemID: "item_a", Name: "Masala Dosa", Price: 60, CanteenID: "c1", Quantity: 2},
			{ItemID: "item_b", Name: "Filter Coffee", Price: 20, CanteenID: "c1", Quantity: 1},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	cartJSON, _ := json.Marshal(cart)
	mr.Set(cacheKey(studentID), string(cartJSON))

	result, err := cache.Get(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, studentID, result.StudentID)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, "item_a", result.Lines[0].ItemID)
	assert.Equal(t, 2, result.Lines[0].Quantity)
}

func TestRedisCache_Get_Miss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := cache.Get(context.Background(), "user_missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Get_CorruptValueDegradesToMiss(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey("user_123"), "{not json")

	_, err := cache.Get(context.Background(), "user_123")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_SetThenGet(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		StudentID: "user_123",
		Lines:     []domain.CartLine{{ItemID: "item_a", Price: 50, CanteenID: "c1", Quantity: 3}},
	}

	require.NoError(t, cache.Set(ctx, "user_123", cart))
	assert.True(t, mr.Exists(cacheKey("user_123")))

	got, err := cache.Get(ctx, "user_123")
	require.NoError(t, err)
	assert.Equal(t, cart.Lines, got.Lines)

	// TTL is base + jitter, never unbounded.
	ttl := mr.TTL(cacheKey("user_123"))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 20*time.Minute)
}

func TestRedisCache_Delete(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	mr.Set(cacheKey("user_123"), "{}")

	require.NoError(t, cache.Delete(ctx, "user_123"))
	assert.False(t, mr.Exists(cacheKey("user_123")))

	// Deleting an absent key is not an error.
	require.NoError(t, cache.Delete(ctx, "user_123"))
}
