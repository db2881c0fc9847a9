package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// SeatCache は区画ごとの空席数キャッシュを管理する
type SeatCache struct {
	client *redis.Client
}

// NewSeatCache は新しいSeatCacheインスタンスを作成する
func NewSeatCache(client *redis.Client) *SeatCache {
	return &SeatCache{client: client}
}

// GetAvailableCount は区画の空席数をキャッシュから取得する
func (c *SeatCache) GetAvailableCount(ctx context.Context, stadiumID, sectionID string) (int, error) {
	key := c.availableCountKey(stadiumID, sectionID)
	val, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount は区画の空席数をキャッシュに保存する
func (c *SeatCache) SetAvailableCount(ctx context.Context, stadiumID, sectionID string, count int, ttl time.Duration) error {
	key := c.availableCountKey(stadiumID, sectionID)
	if err := c.client.Set(ctx, key, count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は区画のキャッシュを無効化する
// 座席の状態遷移（仮押さえ・解放・確定）のたびに呼ばれる
func (c *SeatCache) Invalidate(ctx context.Context, stadiumID, sectionID string) error {
	key := c.availableCountKey(stadiumID, sectionID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *SeatCache) availableCountKey(stadiumID, sectionID string) string {
	return fmt.Sprintf("seats:available:%s:%s", stadiumID, sectionID)
}
