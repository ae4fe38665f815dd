package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for storefront-level
// observability. All metrics include a location_id label so dashboards can
// segment by business location.
type BusinessMetrics struct {
	// Menu engagement
	MenuSearches *prometheus.CounterVec

	// Cart
	CartItemsAdd    *prometheus.CounterVec
	CartUpdated     *prometheus.CounterVec
	CartCleared     *prometheus.CounterVec
	StockRejections *prometheus.CounterVec
	CartValue       *prometheus.HistogramVec

	// Checkout funnel
	CheckoutStarted   *prometheus.CounterVec
	CheckoutCompleted *prometheus.CounterVec
	CheckoutFailed    *prometheus.CounterVec

	// Orders
	OrderValue     *prometheus.HistogramVec
	OrderItemCount *prometheus.HistogramVec

	// External API performance
	GatewayLatency *prometheus.HistogramVec
}

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "eira"
	}

	subsystem := "business"

	return &BusinessMetrics{
		MenuSearches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "menu_searches_total",
				Help:      "Total menu search requests",
			},
			[]string{"location_id"},
		),
		CartItemsAdd: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_add_total",
				Help:      "Total add to cart actions",
			},
			[]string{"location_id"},
		),
		CartUpdated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_updated_total",
				Help:      "Total cart quantity/removal mutations",
			},
			[]string{"location_id", "action"}, // action: set, increment, decrement, remove
		),
		CartCleared: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Total cart clears following successful checkout",
			},
			[]string{"location_id"},
		),
		StockRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stock_rejections_total",
				Help:      "Total quantity changes rejected against available stock",
			},
			[]string{"location_id"},
		),
		CartValue: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value",
				Help:      "Cart total at checkout start",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"location_id"},
		),
		CheckoutStarted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_started_total",
				Help:      "Total proceed-to-checkout transitions",
			},
			[]string{"location_id"},
		),
		CheckoutCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_completed_total",
				Help:      "Total successful order submissions",
			},
			[]string{"location_id"},
		),
		CheckoutFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_failed_total",
				Help:      "Total failed order submissions",
			},
			[]string{"location_id", "reason"}, // reason: gateway_error, transport, malformed
		),
		OrderValue: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value",
				Help:      "Total price of submitted orders",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"location_id"},
		),
		OrderItemCount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Item count of submitted orders",
				Buckets:   []float64{1, 2, 3, 5, 10, 25, 50, 100},
			},
			[]string{"location_id"},
		),
		GatewayLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gateway_latency_seconds",
				Help:      "Order submission gateway round-trip latency",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"location_id", "outcome"}, // outcome: success, error
		),
	}
}
