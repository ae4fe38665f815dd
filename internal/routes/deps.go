package routes

import (
	"net/http"

	"github.com/ravnkild/eira/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Menu browsing
	MenuHandler *storefront.MenuHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Checkout
	CheckoutHandler *storefront.CheckoutHandler

	// Prometheus scrape endpoint
	MetricsHandler http.Handler
}
