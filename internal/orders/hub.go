package orders

import (
	"context"
	"log"
	"sync"
	"time"
)

type watch struct {
	tracker   *Tracker
	lastTouch time.Time
}

// Hub owns the active trackers, one per watching user. A tracker is created
// and loaded on first use and torn down once the user stops reading it; a
// user with no tracker simply has no subscription, and updates for them are
// dropped.
type Hub struct {
	mu      sync.Mutex
	reader  OrderReader
	watches map[string]*watch
	idleTTL time.Duration
}

func NewHub(reader OrderReader, idleTTL time.Duration) *Hub {
	return &Hub{
		reader:  reader,
		watches: make(map[string]*watch),
		idleTTL: idleTTL,
	}
}

// Tracker returns the user's tracker, loading their order list on first use.
func (h *Hub) Tracker(ctx context.Context, userID string) (*Tracker, error) {
	h.mu.Lock()
	w, ok := h.watches[userID]
	if ok {
		w.lastTouch = time.Now()
		h.mu.Unlock()
		return w.tracker, nil
	}
	h.mu.Unlock()

	// Load outside the lock; the fetch may hit the network.
	t := NewTracker(userID)
	if err := t.Load(ctx, h.reader); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.watches[userID]; ok {
		existing.lastTouch = time.Now()
		return existing.tracker, nil
	}
	h.watches[userID] = &watch{tracker: t, lastTouch: time.Now()}
	return t, nil
}

// Apply routes an update to the matching tracker. Updates for users without
// an active watch are ignored.
func (h *Hub) Apply(update StatusUpdate) bool {
	h.mu.Lock()
	w, ok := h.watches[update.UserID]
	h.mu.Unlock()
	if !ok {
		return false
	}
	return w.tracker.Apply(update)
}

// Close tears down a user's watch.
func (h *Hub) Close(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.watches, userID)
}

// RunJanitor drops watches idle longer than the TTL until ctx is cancelled.
func (h *Hub) RunJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := h.sweep(); n > 0 {
				log.Printf("order hub dropped %d idle watches", n)
			}
		}
	}
}

func (h *Hub) sweep() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := time.Now().Add(-h.idleTTL)
	dropped := 0
	for id, w := range h.watches {
		if w.lastTouch.Before(cutoff) {
			delete(h.watches, id)
			dropped++
		}
	}
	return dropped
}
