// Package middleware provides shared Fiber middleware for the HTTP layer
package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Pricing resolution outcomes, labeled by cache tier hit or miss
	rateResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_rate_resolutions_total",
			Help: "Rate resolution lookups partitioned by cache outcome",
		},
		[]string{"outcome"},
	)

	bookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings accepted after price validation",
		},
	)

	bookingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_rejected_total",
			Help: "Bookings rejected before creation, by reason",
		},
		[]string{"reason"},
	)
)

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route template when
// available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}

		labels := prometheus.Labels{
			"method": c.Method(),
			"route":  route,
			"status": strconv.Itoa(c.Response().StatusCode()),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// ObserveRateResolution records one resolver lookup. outcome is "hit" or "miss".
func ObserveRateResolution(outcome string) {
	rateResolutions.WithLabelValues(outcome).Inc()
}

// ObserveBookingCreated records one accepted booking
func ObserveBookingCreated() {
	bookingsCreated.Inc()
}

// ObserveBookingRejected records one rejected booking with its reason
func ObserveBookingRejected(reason string) {
	bookingsRejected.WithLabelValues(reason).Inc()
}
