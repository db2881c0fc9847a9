package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/config"
)

func setupTestRedis(t *testing.T) *goredis.Client {
	t.Helper()
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379"})
	if err := Ping(context.Background(), client); err != nil {
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSeatCache_GetAvailableCount(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewSeatCache(client)
	ctx := context.Background()

	t.Run("キャッシュミス時はErrCacheMissを返す", func(t *testing.T) {
		_, err := cache.GetAvailableCount(ctx, "stadium-miss", "section-miss")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("キャッシュにセットした値を取得できる", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, "stadium-1", "north", 150, 30*time.Second)
		require.NoError(t, err)

		count, err := cache.GetAvailableCount(ctx, "stadium-1", "north")
		require.NoError(t, err)
		assert.Equal(t, 150, count)
	})

	t.Run("区画ごとにキーが分かれている", func(t *testing.T) {
		require.NoError(t, cache.SetAvailableCount(ctx, "stadium-1", "north", 10, 30*time.Second))
		require.NoError(t, cache.SetAvailableCount(ctx, "stadium-1", "south", 20, 30*time.Second))

		north, err := cache.GetAvailableCount(ctx, "stadium-1", "north")
		require.NoError(t, err)
		south, err := cache.GetAvailableCount(ctx, "stadium-1", "south")
		require.NoError(t, err)

		assert.Equal(t, 10, north)
		assert.Equal(t, 20, south)
	})
}

func TestSeatCache_Invalidate(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewSeatCache(client)
	ctx := context.Background()

	require.NoError(t, cache.SetAvailableCount(ctx, "stadium-2", "east", 42, 30*time.Second))

	err := cache.Invalidate(ctx, "stadium-2", "east")
	require.NoError(t, err)

	_, err = cache.GetAvailableCount(ctx, "stadium-2", "east")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSeatCache_TTL(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewSeatCache(client)
	ctx := context.Background()

	require.NoError(t, cache.SetAvailableCount(ctx, "stadium-3", "west", 5, 100*time.Millisecond))

	time.Sleep(150 * time.Millisecond)

	_, err := cache.GetAvailableCount(ctx, "stadium-3", "west")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
