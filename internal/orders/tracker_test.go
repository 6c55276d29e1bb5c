package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

type mockReader struct {
	orders []domain.Order
	err    error
	calls  int
}

func (m *mockReader) ListOrders(context.Context, string) ([]domain.Order, error) {
	m.calls++
	return m.orders, m.err
}

func sampleOrders() []domain.Order {
	now := time.Now()
	return []domain.Order{
		{ID: "o2", UserID: "user-1", RestaurantID: "r2", Status: domain.OrderStatusPending,
			TotalAmount: decimal.RequireFromString("11.50"), CreatedAt: now},
		{ID: "o1", UserID: "user-1", RestaurantID: "r1", Status: domain.OrderStatusPending,
			TotalAmount: decimal.RequireFromString("21.50"), CreatedAt: now.Add(-time.Hour)},
	}
}

func TestTracker_LoadHoldsFetchedOrder(t *testing.T) {
	tr := NewTracker("user-1")
	require.NoError(t, tr.Load(context.Background(), &mockReader{orders: sampleOrders()}))

	held := tr.Orders()

	require.Len(t, held, 2)
	assert.Equal(t, "o2", held[0].ID, "newest first, as fetched")
	assert.Equal(t, "o1", held[1].ID)
}

func TestTracker_LoadError(t *testing.T) {
	tr := NewTracker("user-1")

	err := tr.Load(context.Background(), &mockReader{err: errors.New("store unavailable")})

	assert.ErrorContains(t, err, "store unavailable")
	assert.Empty(t, tr.Orders())
}

func TestTracker_ApplyReplacesOnlyMatchingStatus(t *testing.T) {
	tr := NewTracker("user-1")
	require.NoError(t, tr.Load(context.Background(), &mockReader{orders: sampleOrders()}))

	matched := tr.Apply(StatusUpdate{OrderID: "o1", UserID: "user-1", Status: domain.OrderStatusPreparing})

	require.True(t, matched)
	held := tr.Orders()
	require.Len(t, held, 2)
	assert.Equal(t, domain.OrderStatusPending, held[0].Status)
	assert.Equal(t, domain.OrderStatusPreparing, held[1].Status)
	// Everything but status is untouched.
	assert.True(t, held[1].TotalAmount.Equal(decimal.RequireFromString("21.50")))
	assert.Equal(t, "r1", held[1].RestaurantID)
}

func TestTracker_ApplyUnknownIDIsIgnored(t *testing.T) {
	tr := NewTracker("user-1")
	require.NoError(t, tr.Load(context.Background(), &mockReader{orders: sampleOrders()}))

	matched := tr.Apply(StatusUpdate{OrderID: "o99", UserID: "user-1", Status: domain.OrderStatusDelivered})

	assert.False(t, matched)
	assert.Len(t, tr.Orders(), 2, "updates never append")
}

func TestTracker_ApplyNeverReorders(t *testing.T) {
	tr := NewTracker("user-1")
	require.NoError(t, tr.Load(context.Background(), &mockReader{orders: sampleOrders()}))

	tr.Apply(StatusUpdate{OrderID: "o1", UserID: "user-1", Status: domain.OrderStatusDelivered})
	tr.Apply(StatusUpdate{OrderID: "o2", UserID: "user-1", Status: domain.OrderStatusPreparing})

	held := tr.Orders()
	assert.Equal(t, "o2", held[0].ID)
	assert.Equal(t, "o1", held[1].ID)
}

func TestHub_TrackerLoadsOnceAndIsReused(t *testing.T) {
	reader := &mockReader{orders: sampleOrders()}
	hub := NewHub(reader, time.Hour)

	first, err := hub.Tracker(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := hub.Tracker(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, reader.calls)
}

func TestHub_TrackerLoadFailureDoesNotRegisterWatch(t *testing.T) {
	reader := &mockReader{err: errors.New("store unavailable")}
	hub := NewHub(reader, time.Hour)

	_, err := hub.Tracker(context.Background(), "user-1")
	require.Error(t, err)

	// A later attempt retries the load.
	reader.err = nil
	reader.orders = sampleOrders()
	tr, err := hub.Tracker(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, tr.Orders(), 2)
}

func TestHub_ApplyRoutesToWatchingUser(t *testing.T) {
	hub := NewHub(&mockReader{orders: sampleOrders()}, time.Hour)
	_, err := hub.Tracker(context.Background(), "user-1")
	require.NoError(t, err)

	matched := hub.Apply(StatusUpdate{OrderID: "o1", UserID: "user-1", Status: domain.OrderStatusPreparing})
	assert.True(t, matched)

	ignored := hub.Apply(StatusUpdate{OrderID: "o1", UserID: "someone-else", Status: domain.OrderStatusPreparing})
	assert.False(t, ignored, "updates for users without a watch are dropped")
}

func TestHub_CloseTearsDownWatch(t *testing.T) {
	reader := &mockReader{orders: sampleOrders()}
	hub := NewHub(reader, time.Hour)
	_, err := hub.Tracker(context.Background(), "user-1")
	require.NoError(t, err)

	hub.Close("user-1")

	assert.False(t, hub.Apply(StatusUpdate{OrderID: "o1", UserID: "user-1", Status: domain.OrderStatusDelivered}))
	_, err = hub.Tracker(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls, "reopening a watch refetches")
}

func TestHub_SweepDropsIdleWatches(t *testing.T) {
	hub := NewHub(&mockReader{orders: sampleOrders()}, time.Nanosecond)
	_, err := hub.Tracker(context.Background(), "user-1")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	dropped := hub.sweep()

	assert.Equal(t, 1, dropped)
}
