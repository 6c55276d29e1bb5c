package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/danielnero-bot/potential-goggles/internal/cart"
	"github.com/danielnero-bot/potential-goggles/internal/checkout"
	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

type CheckoutHandler struct {
	saga  *checkout.Saga
	carts *cart.Manager
}

func NewCheckoutHandler(saga *checkout.Saga, carts *cart.Manager) *CheckoutHandler {
	return &CheckoutHandler{saga: saga, carts: carts}
}

type PlaceOrderRequestDTO struct {
	DeliveryAddress string `json:"delivery_address"`
	PaymentMethod   string `json:"payment_method"`
}

type PlaceOrderResponseDTO struct {
	OrderIDs   []string        `json:"order_ids"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.DeliveryAddress == "" {
		respondError(w, http.StatusBadRequest, "missing_delivery_address", "delivery_address is required")
		return
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	if method != domain.PaymentMethodApplePay && method != domain.PaymentMethodCard {
		respondError(w, http.StatusBadRequest, "invalid_payment_method", "payment_method must be apple_pay or card")
		return
	}

	store := h.carts.Get(sessionFromContext(r.Context()))
	result, err := h.saga.PlaceOrder(r.Context(), store, checkout.Request{
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   method,
	})
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, PlaceOrderResponseDTO{
		OrderIDs:   result.OrderIDs,
		GrandTotal: result.GrandTotal,
	})
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", err.Error())
	default:
		// Write failures were already rolled back; the cart stays intact
		// for retry, so give the client the original cause.
		respondError(w, http.StatusBadGateway, "order_creation_failed", err.Error())
	}
}
