package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/danielnero-bot/potential-goggles/internal/cart"
	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

type CartHandler struct {
	carts *cart.Manager
}

func NewCartHandler(carts *cart.Manager) *CartHandler {
	return &CartHandler{carts: carts}
}

type AddItemRequestDTO struct {
	MenuItem   domain.MenuItem      `json:"menu_item"`
	Restaurant domain.RestaurantRef `json:"restaurant"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type SetOpenRequestDTO struct {
	Open bool `json:"open"`
}

type CartResponseDTO struct {
	Items     []domain.CartLineItem `json:"items"`
	Groups    []domain.CartGroup    `json:"groups"`
	Total     decimal.Decimal       `json:"total"`
	ItemCount int                   `json:"item_count"`
	IsOpen    bool                  `json:"is_open"`
}

func (h *CartHandler) store(r *http.Request) *cart.Store {
	return h.carts.Get(sessionFromContext(r.Context()))
}

func cartResponse(s *cart.Store) CartResponseDTO {
	return CartResponseDTO{
		Items:     s.Items(),
		Groups:    s.Groups(),
		Total:     s.Total(),
		ItemCount: s.ItemCount(),
		IsOpen:    s.IsOpen(),
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, cartResponse(h.store(r)))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.MenuItem.ID == "" {
		respondError(w, http.StatusBadRequest, "invalid_menu_item", "menu_item.id is required")
		return
	}
	if !req.MenuItem.Price.IsPositive() {
		respondError(w, http.StatusBadRequest, "invalid_price", "menu_item.price must be positive")
		return
	}
	if req.Restaurant.ID == "" {
		respondError(w, http.StatusBadRequest, "invalid_restaurant", "restaurant.id is required")
		return
	}
	if req.MenuItem.RestaurantID == "" {
		req.MenuItem.RestaurantID = req.Restaurant.ID
	}

	s := h.store(r)
	s.AddItem(req.MenuItem, req.Restaurant)
	respondJSON(w, http.StatusCreated, cartResponse(s))
}

// PUT /api/v1/cart/items/{item_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "missing_item_id", "item_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Quantity zero or below removes the item; no upper bound here, stock
	// limits are the menu's concern.
	s := h.store(r)
	s.UpdateQuantity(itemID, req.Quantity)
	respondJSON(w, http.StatusOK, cartResponse(s))
}

// DELETE /api/v1/cart/items/{item_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "missing_item_id", "item_id is required")
		return
	}

	s := h.store(r)
	s.RemoveItem(itemID)
	respondJSON(w, http.StatusOK, cartResponse(s))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s := h.store(r)
	s.Clear()
	respondJSON(w, http.StatusOK, cartResponse(s))
}

// PUT /api/v1/cart/open
func (h *CartHandler) SetOpen(w http.ResponseWriter, r *http.Request) {
	var req SetOpenRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	s := h.store(r)
	s.SetOpen(req.Open)
	respondJSON(w, http.StatusOK, cartResponse(s))
}
