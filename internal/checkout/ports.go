package checkout

import (
	"context"

	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

// UserResolver yields the authenticated user for the attempt, or none.
// The caller redirects to login before invoking the saga; the saga still
// re-validates through this port.
type UserResolver interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// OrderWriter is the slice of the external store the saga writes through.
// The store offers no multi-row cross-table transaction to the client, which
// is why the saga compensates manually.
type OrderWriter interface {
	// InsertOrder persists one order row and returns its store-assigned id.
	InsertOrder(ctx context.Context, order *domain.Order) (string, error)
	InsertOrderItems(ctx context.Context, items []domain.OrderLineItem) error
	// DeleteOrders removes previously created orders during compensation.
	DeleteOrders(ctx context.Context, orderIDs []string) error
}

// HistoryInvalidator drops a user's cached order history after the saga
// creates new orders. Best-effort; a stale cache only delays display.
type HistoryInvalidator interface {
	Delete(ctx context.Context, userID string) error
}

// WatchCloser tears down a user's live order watch so their next history
// read refetches instead of serving a pre-checkout snapshot.
type WatchCloser interface {
	Close(userID string)
}
