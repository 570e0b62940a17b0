package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthCheckUp)
	assert.NotNil(t, TickDuration)
	assert.NotNil(t, NextTickTimestamp)
	assert.NotNil(t, ChecksTotal)
	assert.NotNil(t, CheckDuration)
	assert.NotNil(t, ProductsInBackoff)
	assert.NotNil(t, ProductsRemovedTotal)
	assert.NotNil(t, TrackedProducts)
	assert.NotNil(t, Subscriptions)
	assert.NotNil(t, EventsDetectedTotal)
	assert.NotNil(t, StoreErrorsTotal)
	assert.NotNil(t, SteamAPICallsTotal)
	assert.NotNil(t, SteamFetchErrorsTotal)
	assert.NotNil(t, SteamWindowUsage)
	assert.NotNil(t, SteamWindowLimitHits)
	assert.NotNil(t, DeliveriesTotal)
	assert.NotNil(t, NotificationDuration)
	assert.NotNil(t, NotificationFailuresTotal)
	assert.NotNil(t, DedupErrorsTotal)
	assert.NotNil(t, EventsPublishedTotal)
	assert.NotNil(t, EventPublishFailuresTotal)
}

func TestEventsDetectedTotal_Labels(t *testing.T) {
	t.Parallel()

	c := EventsDetectedTotal.WithLabelValues("test_kind")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(c), 0.001)
}
