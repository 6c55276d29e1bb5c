package orders

import (
	"context"
	"sync"

	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

// OrderReader is the read slice of the external store.
type OrderReader interface {
	// ListOrders returns the user's orders newest first, each joined with
	// its restaurant's display name and logo.
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}

// StatusUpdate is the payload of an order change notification.
type StatusUpdate struct {
	OrderID string             `json:"order_id"`
	UserID  string             `json:"user_id"`
	Status  domain.OrderStatus `json:"status"`
}

// Tracker holds one user's last-fetched order list and merges incoming status
// updates into it. Internally a map keyed by order id with an ordered
// projection for display, so "update if present, else ignore" is a single
// lookup rather than a scan.
type Tracker struct {
	mu     sync.RWMutex
	userID string
	ids    []string
	byID   map[string]domain.Order
}

func NewTracker(userID string) *Tracker {
	return &Tracker{
		userID: userID,
		byID:   make(map[string]domain.Order),
	}
}

// Load fetches the user's orders once. Called on watch start; a dropped
// notification afterwards only leaves the shown status stale until the next
// full fetch.
func (t *Tracker) Load(ctx context.Context, reader OrderReader) error {
	fetched, err := reader.ListOrders(ctx, t.userID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = t.ids[:0]
	clear(t.byID)
	for _, o := range fetched {
		t.ids = append(t.ids, o.ID)
		t.byID[o.ID] = o
	}
	return nil
}

// Apply replaces the status of a known order and reports whether the update
// matched. Updates never append, remove, or reorder: new orders are not
// discovered through the notification stream, only status transitions on
// orders already held.
func (t *Tracker) Apply(update StatusUpdate) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	o, ok := t.byID[update.OrderID]
	if !ok {
		return false
	}
	o.Status = update.Status
	t.byID[update.OrderID] = o
	return true
}

// Orders returns the held list in its fetched (newest first) order.
func (t *Tracker) Orders() []domain.Order {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.Order, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.byID[id])
	}
	return out
}

func (t *Tracker) UserID() string { return t.userID }
