package main

import "errors"

// KnownMetrics is the set of metric names exported by sale-tracker plus
// recording rule names referenced in dashboards and alerts. Histogram
// series are listed by base name.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"sst_http_request_duration_seconds": true,
	"sst_http_requests_total":           true,
	"sst_health_check_up":               true,

	// Scheduler metrics.
	"sst_tick_duration_seconds":         true,
	"sst_scheduler_next_tick_timestamp": true,
	"sst_checks_total":                  true,
	"sst_check_duration_seconds":        true,
	"sst_products_in_backoff":           true,
	"sst_products_removed_total":        true,

	// Tracking metrics.
	"sst_tracked_products":      true,
	"sst_subscriptions":         true,
	"sst_events_detected_total": true,
	"sst_store_errors_total":    true,

	// Steam API metrics.
	"sst_steam_api_calls_total":         true,
	"sst_steam_fetch_errors_total":      true,
	"sst_steam_window_usage":            true,
	"sst_steam_window_limit_hits_total": true,

	// Notification metrics.
	"sst_deliveries_total":              true,
	"sst_notification_duration_seconds": true,
	"sst_notification_failures_total":   true,
	"sst_dedup_errors_total":            true,
	"sst_events_published_total":        true,
	"sst_event_publish_failures_total":  true,

	// Recording rules.
	"sst:http_requests:rate5m":         true,
	"sst:http_errors:rate5m":           true,
	"sst:checks:rate5m":                true,
	"sst:steam_api_calls:rate5m":       true,
	"sst:steam_fetch_errors:rate5m":    true,
	"sst:deliveries:rate5m":            true,
	"sst:notification_duration:p95_5m": true,
	"sst:events_detected:increase1h":   true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
