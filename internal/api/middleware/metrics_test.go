package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/donaldgifford/sale-tracker/internal/api/middleware"
	"github.com/donaldgifford/sale-tracker/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		method string
		route  string
		target string
		status int
	}{
		{"records 200 response", http.MethodGet, "/api/v1/products", "/api/v1/products", http.StatusOK},
		{"records route template", http.MethodPost, "/api/v1/products/:id/check", "/api/v1/products/440/check", http.StatusAccepted},
		{"records 404 response", http.MethodGet, "/api/v1/missing", "/api/v1/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.Add(tt.method, tt.route, func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, http.NoBody))
			assert.Equal(t, tt.status, rec.Code)

			status := strconv.Itoa(tt.status)
			counter, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(tt.method, tt.route, status)
			require.NoError(t, err)
			assert.Positive(t, ptestutil.ToFloat64(counter))

			observer, err := metrics.HTTPRequestDuration.GetMetricWithLabelValues(tt.method, tt.route, status)
			require.NoError(t, err)
			hm := &io_prometheus_client.Metric{}
			require.NoError(t, observer.(prometheus.Metric).Write(hm))
			assert.Positive(t, hm.GetHistogram().GetSampleCount())
		})
	}
}

func TestMetricsMiddleware_HealthChecks(t *testing.T) {
	e := echo.New()
	e.Use(mw.Metrics())

	ready := true
	e.GET("/readyz", func(c echo.Context) error {
		if ready {
			return c.NoContent(http.StatusOK)
		}
		return c.NoContent(http.StatusServiceUnavailable)
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))
	assert.InDelta(t, 1.0, ptestutil.ToFloat64(metrics.HealthCheckUp.WithLabelValues("readiness")), 0)

	ready = false
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))
	assert.InDelta(t, 0.0, ptestutil.ToFloat64(metrics.HealthCheckUp.WithLabelValues("readiness")), 0)

	_, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(http.MethodGet, "/readyz", "200")
	require.NoError(t, err)
	assert.Zero(t, ptestutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/readyz", "200")),
		"health checks do not feed the request counter")
}
