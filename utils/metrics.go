package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Outbound call metrics (directory, CRM servlets, IP echo, geo APIs)
	OutboundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outbound_request_duration_seconds",
			Help:    "Duration of outbound calls to third-party services",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"service", "operation"},
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure, login/federated/ip_check
	)

	// Session Metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions_total",
			Help: "Total number of active sessions",
		},
	)

	// Tracker Metrics
	TrackerQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracker_queue_depth",
			Help: "Current number of tracking events awaiting delivery",
		},
	)

	TrackerDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_deliveries_total",
			Help: "Tracking event delivery outcomes",
		},
		[]string{"outcome"}, // delivered, retried, dead_lettered, dropped
	)

	// Cache Metrics
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache lookups by result",
		},
		[]string{"cache", "result"}, // hit/miss/stale/error
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by component and kind",
		},
		[]string{"component", "kind"},
	)
)

// TrackOutbound times an outbound third-party call
func TrackOutbound(service, operation string) *prometheus.Timer {
	return prometheus.NewTimer(OutboundDuration.WithLabelValues(service, operation))
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

// TrackCacheOperation records a cache lookup result
func TrackCacheOperation(cache, result string) {
	CacheOperations.WithLabelValues(cache, result).Inc()
}

// TrackDelivery records a tracking-event delivery outcome
func TrackDelivery(outcome string) {
	TrackerDeliveries.WithLabelValues(outcome).Inc()
}

// UpdateActiveSessions sets the current number of active sessions
func UpdateActiveSessions(count float64) {
	ActiveSessions.Set(count)
}

// TrackError increments the error counter
func TrackError(component, kind string) {
	ErrorsTotal.WithLabelValues(component, kind).Inc()
}
