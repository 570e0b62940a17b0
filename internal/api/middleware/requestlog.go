package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
)

const requestIDHeader = "X-Request-ID"

// RequestLog returns Echo middleware that logs each request with a request
// ID, taken from X-Request-ID or generated. Health check paths log their first
// success and every failure; repeated successes are dropped.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
	)

	// quiet reports whether a successful health check on path was already logged.
	quiet := func(path string, status int) bool {
		if _, ok := healthPaths[path]; !ok {
			return false
		}
		mu.Lock()
		defer mu.Unlock()
		if !success(status) {
			delete(seen, path)
			return false
		}
		if seen[path] {
			return true
		}
		seen[path] = true
		return false
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			if quiet(path, status) {
				return err
			}

			attrs := []any{
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}
			if sc := trace.SpanContextFromContext(c.Request().Context()); sc.HasTraceID() {
				attrs = append(attrs, "trace_id", sc.TraceID().String())
			}

			level := slog.LevelInfo
			if _, health := healthPaths[path]; (health && !success(status)) || status >= 500 {
				level = slog.LevelWarn
			}
			log.Log(c.Request().Context(), level, "request", attrs...)

			return err
		}
	}
}
