package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodApplePay PaymentMethod = "apple_pay"
	PaymentMethodCard     PaymentMethod = "card"
)

// Order is owned by the backing store. Immutable after creation except for
// Status, which only the store's own update path may change.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	RestaurantID    string          `json:"restaurant_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	DeliveryAddress string          `json:"delivery_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`

	// Display fields joined from the restaurant at read time.
	RestaurantName    string `json:"restaurant_name,omitempty"`
	RestaurantLogoURL string `json:"restaurant_logo_url,omitempty"`
}

// OrderLineItem carries the price copied at order time, never re-derived from
// the live menu, so later menu price changes do not alter historical orders.
type OrderLineItem struct {
	OrderID    string          `json:"order_id"`
	MenuItemID string          `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

type User struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
