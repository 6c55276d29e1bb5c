package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/danielnero-bot/potential-goggles/internal/cart"
	"github.com/danielnero-bot/potential-goggles/internal/checkout"
	"github.com/danielnero-bot/potential-goggles/internal/orders"
)

// NewRouter assembles the HTTP surface over the ordering core.
func NewRouter(carts *cart.Manager, saga *checkout.Saga, hub *orders.Hub, resolver TokenResolver, requestTimeout time.Duration) *chi.Mux {
	cartHandler := NewCartHandler(carts)
	checkoutHandler := NewCheckoutHandler(saga, carts)
	ordersHandler := NewOrdersHandler(hub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)
	r.Use(AuthMiddleware(resolver))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
			r.Put("/open", cartHandler.SetOpen)
		})
		r.Post("/checkout", checkoutHandler.PlaceOrder)
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Delete("/watch", ordersHandler.StopWatch)
		})
	})

	return r
}
