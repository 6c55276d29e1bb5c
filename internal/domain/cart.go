package domain

import "github.com/shopspring/decimal"

// RestaurantRef is the minimal restaurant snapshot attached to a cart line
// item at add-time, so the cart can render and group without re-fetching.
type RestaurantRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

type MenuItem struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url,omitempty"`
}

// CartLineItem identity key is MenuItemID; the store never holds two line
// items for the same menu item, and never holds quantity <= 0.
type CartLineItem struct {
	ID           string          `json:"id"`
	MenuItemID   string          `json:"menu_item_id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url,omitempty"`
	Quantity     int             `json:"quantity"`
	Restaurant   RestaurantRef   `json:"restaurant"`
}

// Subtotal is the line total, price * quantity.
func (li CartLineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// CartGroup is derived fresh from the cart on every read, never stored.
type CartGroup struct {
	Restaurant RestaurantRef   `json:"restaurant"`
	Items      []CartLineItem  `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}
