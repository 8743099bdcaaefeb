// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	checkoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Order submissions by outcome",
		},
		[]string{"outcome"},
	)

	orderRevenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_order_revenue_total",
			Help: "Sum of placed order totals in the store currency",
		},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "status"},
	)

	sideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_post_order_failures_total",
			Help: "Post-commit steps that failed after an order was placed",
		},
		[]string{"step"},
	)

	CacheItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_cache_items",
			Help: "Items held by the in-process cache, cart sessions included",
		},
	)
)

// Checkout outcomes
const (
	OutcomePlaced     = "placed"
	OutcomeRejected   = "rejected"
	OutcomeFailed     = "failed"
	OutcomeCancelled  = "cancelled"
	OutcomeInProgress = "in_progress"
)

func RecordCheckout(outcome string) {
	checkoutsTotal.WithLabelValues(outcome).Inc()
}

func RecordRevenue(amount float64) {
	orderRevenue.Add(amount)
}

// RecordOrderOperation counts admin and customer order operations.
func RecordOrderOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}

func RecordSideEffectFailure(step string) {
	sideEffectFailures.WithLabelValues(step).Inc()
}
