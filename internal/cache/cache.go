package cache

import (
	"context"
	"errors"

	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

// HistoryCache fronts the order-history read path. Consumers define this
// interface, not the redis implementation.
type HistoryCache interface {
	Get(ctx context.Context, userID string) ([]domain.Order, error)
	Set(ctx context.Context, userID string, orders []domain.Order) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
