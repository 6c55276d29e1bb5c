package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

func NewRedisHistory(client *redis.Client) *RedisHistory {
	return &RedisHistory{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisHistory struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisHistory) Get(ctx context.Context, userID string) ([]domain.Order, error) {
	data, err := r.client.Get(ctx, historyKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("unmarshal orders failed: %w", err)
	}
	return orders, nil
}

func (r *RedisHistory) Set(ctx context.Context, userID string, orders []domain.Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal orders failed: %w", err)
	}

	// Jitter spreads expiry so a burst of sessions does not refill at once.
	ttl := r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := r.client.Set(ctx, historyKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisHistory) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, historyKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func historyKey(userID string) string {
	return "orders:" + userID
}
