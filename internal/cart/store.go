package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

// Store holds one session's cart. It is constructed once per session by the
// Manager and lives only for the session's lifetime; nothing is persisted.
// Mutations arrive through HTTP handlers, so access is guarded by a mutex,
// but the semantics stay single-flight: one checkout at a time per session.
type Store struct {
	mu    sync.Mutex
	items []domain.CartLineItem
	open  bool

	checkingOut bool
}

func NewStore() *Store {
	return &Store{}
}

// AddItem inserts a new line item with quantity 1, capturing the restaurant
// snapshot at this moment. If a line item with the same menu item id already
// exists, its quantity is incremented instead.
func (s *Store) AddItem(item domain.MenuItem, restaurant domain.RestaurantRef) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].MenuItemID == item.ID {
			s.items[i].Quantity++
			return
		}
	}

	s.items = append(s.items, domain.CartLineItem{
		ID:           item.ID,
		MenuItemID:   item.ID,
		RestaurantID: item.RestaurantID,
		Name:         item.Name,
		Price:        item.Price,
		ImageURL:     item.ImageURL,
		Quantity:     1,
		Restaurant:   restaurant,
	})
}

// RemoveItem deletes the line item if present; absent ids are a no-op.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *Store) removeLocked(id string) {
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of a line item. A quantity of zero or
// below removes the item entirely; quantity 0 is never stored.
func (s *Store) UpdateQuantity(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(id)
		return
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the store. Called only after a fully successful checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total sums price * quantity over all line items. Rounding to currency
// precision happens at display/submission, not here.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities, not the distinct item count. It drives
// the cart-badge number.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

// Groups derives the restaurant-scoped view of the cart.
func (s *Store) Groups() []domain.CartGroup {
	return GroupByRestaurant(s.Items())
}

// IsOpen reports the bag-sheet visibility flag. It lives here because several
// independent surfaces read and toggle it.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}

// BeginCheckout marks the store as having a checkout in flight. It reports
// false if one is already running; the caller must not start a second saga.
func (s *Store) BeginCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkingOut {
		return false
	}
	s.checkingOut = true
	return true
}

func (s *Store) EndCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkingOut = false
}
