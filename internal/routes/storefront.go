package routes

import (
	"encoding/json"
	"net/http"

	"github.com/ravnkild/eira/internal/router"
)

// RegisterStorefrontRoutes registers the menu, cart, and checkout routes.
// All endpoints are session-scoped JSON; the session cookie is set on
// first contact by whichever endpoint is hit first.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Menu browsing
	r.Get("/menu/{locationID}", deps.MenuHandler.View)

	// Cart
	r.Get("/api/cart", deps.CartHandler.View)
	r.Post("/api/cart/items", deps.CartHandler.Add)
	r.Patch("/api/cart/items/{cartItemID}", deps.CartHandler.SetQuantity)
	r.Delete("/api/cart/items/{cartItemID}", deps.CartHandler.Remove)
	r.Post("/api/cart/items/{cartItemID}/quantity", deps.CartHandler.CommitQuantityInput)
	r.Post("/api/cart/items/{cartItemID}/increment", deps.CartHandler.Increment)
	r.Post("/api/cart/items/{cartItemID}/decrement", deps.CartHandler.Decrement)
	r.Post("/api/cart/toggle", deps.CartHandler.Toggle)
	r.Put("/api/cart/comment", deps.CartHandler.Comment)

	// Checkout flow
	r.Get("/api/checkout", deps.CheckoutHandler.State)
	r.Post("/api/checkout", deps.CheckoutHandler.Proceed)
	r.Post("/api/checkout/back", deps.CheckoutHandler.Back)
	r.Put("/api/checkout/customer", deps.CheckoutHandler.UpdateCustomer)
	r.Post("/api/checkout/submit", deps.CheckoutHandler.Submit)
}

// RegisterOpsRoutes registers health and metrics endpoints. These bypass
// the session layer and are meant for load balancers and Prometheus.
func RegisterOpsRoutes(r *router.Router, deps StorefrontDeps) {
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if deps.MetricsHandler != nil {
		r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
}
