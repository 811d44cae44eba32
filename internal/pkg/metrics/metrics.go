// Package metrics holds the Prometheus collectors of the order service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "takeout"

// Refund request results.
const (
	RefundRequested = "requested"
	RefundFailed    = "failed"
)

// Sweep outcomes per order.
const (
	SweepTransitioned = "transitioned"
	SweepConflict     = "conflict"
	SweepFailed       = "failed"
)

type Metrics struct {
	Transitions    *prometheus.CounterVec
	Conflicts      *prometheus.CounterVec
	RefundRequests *prometheus.CounterVec
	LatePayments   prometheus.Counter
	SweptOrders    *prometheus.CounterVec
	SweepDuration  *prometheus.HistogramVec
	SweepSkipped   *prometheus.CounterVec
	Requests       *prometheus.CounterVec
	LatencyMS      *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Committed order lifecycle transitions.",
		}, []string{"from", "to"}),
		Conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_concurrent_changes_total",
			Help:      "Conditional updates that lost to another writer.",
		}, []string{"operation"}),
		RefundRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refund_requests_total",
			Help:      "Refund requests sent to the payment gateway.",
		}, []string{"result"}),
		LatePayments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "late_payments_total",
			Help:      "Payments confirmed for orders that were already cancelled unpaid.",
		}),
		SweptOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "orders_total",
			Help:      "Orders visited by the timeout sweep.",
		}, []string{"job", "outcome"}),
		SweepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Duration of one sweep pass.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		SweepSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "skipped_total",
			Help:      "Sweep passes skipped because another replica held the lease.",
		}, []string{"job"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.Transitions,
		m.Conflicts,
		m.RefundRequests,
		m.LatePayments,
		m.SweptOrders,
		m.SweepDuration,
		m.SweepSkipped,
		m.Requests,
		m.LatencyMS,
	)
	return m
}

// NewNop returns collectors registered nowhere, for tests and tools.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler serves the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
