package orders

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/danielnero-bot/potential-goggles/internal/cache"
	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

// HistoryService is the cached read path for order history: redis first, the
// store on a miss, with singleflight so concurrent misses for one user fan in
// to a single fetch.
type HistoryService struct {
	repo  OrderReader
	cache cache.HistoryCache
	sfg   singleflight.Group
}

func NewHistoryService(repo OrderReader, c cache.HistoryCache) *HistoryService {
	return &HistoryService{repo: repo, cache: c}
}

func (s *HistoryService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("order history cache get error: %v", err)
		}

		fetched, err := s.repo.ListOrders(ctx, userID)
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(ctx, userID, fetched); err != nil {
				log.Printf("order history cache set error: %v", err)
			}
		}()

		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Order), nil
}
