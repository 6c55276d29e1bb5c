package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

func menuItem(id, restaurantID, name, price string) domain.MenuItem {
	return domain.MenuItem{
		ID:           id,
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
	}
}

func restaurant(id, name string) domain.RestaurantRef {
	return domain.RestaurantRef{ID: id, Name: name}
}

func TestAddItem_NewItem(t *testing.T) {
	s := NewStore()

	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "Pizza Place", items[0].Restaurant.Name)
}

func TestAddItem_SameItemIncrementsQuantity(t *testing.T) {
	s := NewStore()

	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, s.ItemCount())
}

func TestItemCount_SumsQuantitiesNotDistinctItems(t *testing.T) {
	s := NewStore()

	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))
	s.AddItem(menuItem("m2", "r1", "Tiramisu", "6.00"), restaurant("r1", "Pizza Place"))

	assert.Equal(t, 3, s.ItemCount())
	assert.Len(t, s.Items(), 2)
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	s := NewStore()
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))

	s.UpdateQuantity("m1", 5)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesItem(t *testing.T) {
	s := NewStore()
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))

	s.UpdateQuantity("m1", 0)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.ItemCount())
}

func TestUpdateQuantity_NegativeRemovesItem(t *testing.T) {
	s := NewStore()
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))

	s.UpdateQuantity("m1", -3)

	assert.Empty(t, s.Items())
}

func TestUpdateQuantity_UnknownIDIsNoOp(t *testing.T) {
	s := NewStore()
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))

	s.UpdateQuantity("nope", 4)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestRemoveItem_AbsentIDIsNoOp(t *testing.T) {
	s := NewStore()
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))

	s.RemoveItem("nope")

	assert.Len(t, s.Items(), 1)
}

func TestNoStoredQuantityEverBelowOne(t *testing.T) {
	s := NewStore()

	// An arbitrary mutation sequence; the invariant must hold throughout.
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))
	s.AddItem(menuItem("m2", "r2", "Tuna Roll", "8.00"), restaurant("r2", "Sushi Spot"))
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))
	s.UpdateQuantity("m2", 7)
	s.UpdateQuantity("m1", -1)
	s.RemoveItem("gone")
	s.AddItem(menuItem("m3", "r2", "Miso Soup", "3.25"), restaurant("r2", "Sushi Spot"))
	s.UpdateQuantity("m3", 0)

	count := 0
	for _, item := range s.Items() {
		assert.GreaterOrEqual(t, item.Quantity, 1)
		count += item.Quantity
	}
	assert.Equal(t, count, s.ItemCount())
}

func TestTotal_SumsPriceTimesQuantity(t *testing.T) {
	s := NewStore()
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))
	s.AddItem(menuItem("m2", "r2", "Tuna Roll", "8.00"), restaurant("r2", "Sushi Spot"))

	assert.True(t, s.Total().Equal(decimal.RequireFromString("33.00")),
		"expected 33.00, got %s", s.Total())
}

func TestClear_EmptiesTheStore(t *testing.T) {
	s := NewStore()
	s.AddItem(menuItem("m1", "r1", "Margherita", "12.50"), restaurant("r1", "Pizza Place"))
	s.AddItem(menuItem("m2", "r2", "Tuna Roll", "8.00"), restaurant("r2", "Sushi Spot"))

	s.Clear()

	assert.Equal(t, 0, s.ItemCount())
	assert.True(t, s.Total().IsZero())
	assert.Empty(t, s.Items())
}

func TestOpenFlag(t *testing.T) {
	s := NewStore()
	assert.False(t, s.IsOpen())

	s.SetOpen(true)
	assert.True(t, s.IsOpen())

	s.SetOpen(false)
	assert.False(t, s.IsOpen())
}

func TestBeginCheckout_RejectsSecondAttempt(t *testing.T) {
	s := NewStore()

	require.True(t, s.BeginCheckout())
	assert.False(t, s.BeginCheckout())

	s.EndCheckout()
	assert.True(t, s.BeginCheckout())
}
