package checkout

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/danielnero-bot/potential-goggles/internal/cart"
	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

// Request carries the user's checkout form selections. Groups and totals are
// re-derived from the cart at submission time, never taken from the request.
type Request struct {
	DeliveryAddress string
	PaymentMethod   domain.PaymentMethod
}

type Result struct {
	OrderIDs   []string
	GrandTotal decimal.Decimal
}

// Saga turns a grouped cart into one persisted order per restaurant with
// all-or-nothing externally visible effect. The backing store has no
// cross-table transaction for the client, so a failure partway through is
// compensated by deleting every order created in the same attempt.
type Saga struct {
	users   UserResolver
	writer  OrderWriter
	history HistoryInvalidator // optional
	watches WatchCloser        // optional
	fee     decimal.Decimal
}

func NewSaga(users UserResolver, writer OrderWriter, history HistoryInvalidator, watches WatchCloser, deliveryFee decimal.Decimal) *Saga {
	return &Saga{
		users:   users,
		writer:  writer,
		history: history,
		watches: watches,
		fee:     deliveryFee,
	}
}

// attempt tracks one run of the saga. Orders are recorded in created as soon
// as their insert succeeds, before the item insert, so compensation removes
// the order row even when only half of a pair was written.
type attempt struct {
	state   domain.SagaState
	created []string
}

func (a *attempt) transition(to domain.SagaState) error {
	if !domain.CanTransitionTo(a.state, to) {
		return fmt.Errorf("%w: %s -> %s", IllegalTransitionError, a.state, to)
	}
	a.state = to
	return nil
}

// PlaceOrder runs one checkout attempt against the session's cart. Groups are
// processed strictly sequentially; a failure at any group stops further
// processing, rolls back every created order, and surfaces the original
// error. The cart is cleared only on full success and left untouched on
// failure so the user can retry without re-adding items.
func (s *Saga) PlaceOrder(ctx context.Context, store *cart.Store, req Request) (*Result, error) {
	user, err := s.users.CurrentUser(ctx)
	if err != nil || user == nil {
		return nil, ErrUnauthenticated
	}

	// The attempt must not die with the request. A client disconnect or
	// handler timeout right after an order insert would otherwise also kill
	// the compensating delete and strand the created rows.
	ctx = context.WithoutCancel(ctx)

	if !store.BeginCheckout() {
		return nil, ErrCheckoutInProgress
	}
	defer store.EndCheckout()

	groups := store.Groups()
	if len(groups) == 0 {
		return nil, ErrEmptyCart
	}

	// Equal split across restaurant groups, a deliberate simplification.
	// The charged total may fall short of the fee by up to groupCount-1
	// cents; that divergence is accepted, not corrected.
	share := s.fee.Div(decimal.NewFromInt(int64(len(groups)))).Truncate(2)

	a := &attempt{state: domain.SagaStateIdle}
	if err := a.transition(domain.SagaStateSubmitting); err != nil {
		return nil, err
	}

	result := &Result{GrandTotal: decimal.Zero}
	for _, group := range groups {
		orderID, err := s.submitGroup(ctx, a, user, group, share, req)
		if err != nil {
			return nil, s.fail(ctx, a, err)
		}
		result.OrderIDs = append(result.OrderIDs, orderID)
		result.GrandTotal = result.GrandTotal.Add(group.Subtotal.Add(share))
	}

	if err := a.transition(domain.SagaStateSucceeded); err != nil {
		return nil, err
	}

	store.Clear()
	if s.history != nil {
		if err := s.history.Delete(ctx, user.ID); err != nil {
			log.Printf("order history invalidation failed for user %s: %v", user.ID, err)
		}
	}
	// Any live watch was loaded before these orders existed; drop it so the
	// next history read starts fresh.
	if s.watches != nil {
		s.watches.Close(user.ID)
	}
	return result, nil
}

// submitGroup writes one order row and its line items. The order id is
// recorded for compensation between the two inserts.
func (s *Saga) submitGroup(ctx context.Context, a *attempt, user *domain.User, group domain.CartGroup, share decimal.Decimal, req Request) (string, error) {
	order := &domain.Order{
		UserID:          user.ID,
		RestaurantID:    group.Restaurant.ID,
		TotalAmount:     group.Subtotal.Add(share),
		Status:          domain.OrderStatusPending,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
	}

	orderID, err := s.writer.InsertOrder(ctx, order)
	if err != nil {
		return "", fmt.Errorf("insert order for restaurant %s: %w", group.Restaurant.ID, err)
	}
	a.created = append(a.created, orderID)

	items := make([]domain.OrderLineItem, len(group.Items))
	for i, li := range group.Items {
		items[i] = domain.OrderLineItem{
			OrderID:    orderID,
			MenuItemID: li.MenuItemID,
			Quantity:   li.Quantity,
			Price:      li.Price,
		}
	}
	if err := s.writer.InsertOrderItems(ctx, items); err != nil {
		return "", fmt.Errorf("insert order items for restaurant %s: %w", group.Restaurant.ID, err)
	}
	return orderID, nil
}

// fail rolls back every created order and reports the original error. A
// failure during compensation is logged, never returned: surfacing it would
// mask the primary cause, and the user cannot act on it anyway.
func (s *Saga) fail(ctx context.Context, a *attempt, cause error) error {
	if len(a.created) > 0 {
		if err := a.transition(domain.SagaStateCompensating); err != nil {
			return err
		}
		if err := s.writer.DeleteOrders(ctx, a.created); err != nil {
			log.Printf("compensating delete failed for orders %v: %v", a.created, err)
		}
	}
	if err := a.transition(domain.SagaStateFailed); err != nil {
		return err
	}
	return cause
}
