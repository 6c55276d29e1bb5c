package httpapi

import (
	"net/http"

	"github.com/danielnero-bot/potential-goggles/internal/orders"
)

type OrdersHandler struct {
	hub *orders.Hub
}

func NewOrdersHandler(hub *orders.Hub) *OrdersHandler {
	return &OrdersHandler{hub: hub}
}

// GET /api/v1/orders
//
// The first request starts a watch: the order list is fetched once and the
// tracker then absorbs status updates from the notification stream. Repeat
// requests read the merged view without refetching.
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	tracker, err := h.hub.Tracker(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "orders_unavailable", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, tracker.Orders())
}

// DELETE /api/v1/orders/watch
//
// Tears the watch down when the orders view goes away.
func (h *OrdersHandler) StopWatch(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	h.hub.Close(user.ID)
	w.WriteHeader(http.StatusNoContent)
}
