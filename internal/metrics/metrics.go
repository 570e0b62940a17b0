// Package metrics defines Prometheus metrics for sale-tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sst"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthCheckUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "health_check_up",
		Help:      "Whether the last liveness or readiness health check succeeded (1) or failed (0).",
	}, []string{"check"})
)

// Scheduler metrics.
var (
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tick_duration_seconds",
		Help:      "Duration of scheduler ticks in seconds.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	NextTickTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_tick_timestamp",
		Help:      "Unix timestamp of the next scheduled tick.",
	})

	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checks_total",
		Help:      "Total number of product checks by outcome.",
	}, []string{"outcome"})

	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "check_duration_seconds",
		Help:      "Duration of a single product check in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ProductsInBackoff = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "products_in_backoff",
		Help:      "Number of products currently in backoff.",
	})

	ProductsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_removed_total",
		Help:      "Total number of products removed after repeated not-found responses.",
	})
)

// Tracking metrics.
var (
	TrackedProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracked_products",
		Help:      "Number of products with at least one subscription.",
	})

	Subscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "subscriptions",
		Help:      "Number of product subscriptions.",
	})

	EventsDetectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_detected_total",
		Help:      "Total number of detected product events by kind.",
	}, []string{"kind"})

	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of durable store errors by kind.",
	}, []string{"kind"})
)

// Steam API metrics.
var (
	SteamAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "steam_api_calls_total",
		Help:      "Total cumulative Steam API calls.",
	})

	SteamFetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "steam_fetch_errors_total",
		Help:      "Total number of Steam fetch errors by kind.",
	}, []string{"kind"})

	SteamWindowUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "steam_window_usage",
		Help:      "Steam API calls made within the current rolling window.",
	})

	SteamWindowLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "steam_window_limit_hits_total",
		Help:      "Total number of times the Steam API window limit was reached.",
	})
)

// Notification metrics.
var (
	DeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Total number of per-destination delivery outcomes by status.",
	}, []string{"status"})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of delivery channel send calls.",
		Buckets:   prometheus.DefBuckets,
	})

	NotificationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures by kind.",
	}, []string{"kind"})

	DedupErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dedup_errors_total",
		Help:      "Total number of dedup ledger errors.",
	})

	EventsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of events published to the event stream.",
	})

	EventPublishFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_publish_failures_total",
		Help:      "Total number of failed event stream publishes.",
	})
)
