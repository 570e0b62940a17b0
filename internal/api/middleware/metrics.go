// Package middleware provides Echo middleware for the sale-tracker API.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/sale-tracker/internal/metrics"
)

// healthPaths maps operational endpoints to their health check gauge label. These
// paths are excluded from the request histogram and counter.
var healthPaths = map[string]string{
	"/healthz": "liveness",
	"/readyz":  "readiness",
}

// Metrics returns Echo middleware that records request duration and status.
// Health check paths only update metrics.HealthCheckUp; /metrics is not recorded at all.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := routePath(c)

			if path == "/metrics" {
				return next(c)
			}
			if check, ok := healthPaths[path]; ok {
				err := next(c)
				up := 0.0
				if success(c.Response().Status) {
					up = 1
				}
				metrics.HealthCheckUp.WithLabelValues(check).Set(up)
				return err
			}

			start := time.Now()
			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}

// routePath returns the matched route template so ids do not explode
// label cardinality, falling back to the raw path for unmatched requests.
func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return c.Request().URL.Path
}

func success(status int) bool {
	return status >= 200 && status < 300
}
