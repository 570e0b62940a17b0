package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func serve(t *testing.T, handler echo.HandlerFunc, method, path string, hdr http.Header) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range hdr {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handler(c))
	return rec, c
}

func TestRequestLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		status        int
		providedReqID string
		wantLogFields []string
	}{
		{
			name:   "GET with generated ID",
			method: http.MethodGet,
			path:   "/api/v1/products",
			status: http.StatusOK,
			wantLogFields: []string{
				"level=INFO",
				"method=GET",
				"path=/api/v1/products",
				"status=200",
				"duration_ms=",
				"request_id=",
			},
		},
		{
			name:          "POST keeps provided ID",
			method:        http.MethodPost,
			path:          "/api/v1/subscriptions",
			status:        http.StatusCreated,
			providedReqID: "custom-req-id-123",
			wantLogFields: []string{
				"method=POST",
				"status=201",
				"request_id=custom-req-id-123",
			},
		},
		{
			name:   "server error logs at warn",
			method: http.MethodPost,
			path:   "/api/v1/products/440/check",
			status: http.StatusBadGateway,
			wantLogFields: []string{
				"level=WARN",
				"status=502",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			mw := RequestLog(slog.New(slog.NewTextHandler(&buf, nil)))

			hdr := http.Header{}
			if tt.providedReqID != "" {
				hdr.Set(requestIDHeader, tt.providedReqID)
			}
			rec, c := serve(t, mw(func(c echo.Context) error {
				return c.NoContent(tt.status)
			}), tt.method, tt.path, hdr)

			for _, field := range tt.wantLogFields {
				assert.Contains(t, buf.String(), field)
			}

			respID := rec.Header().Get(requestIDHeader)
			assert.NotEmpty(t, respID)
			if tt.providedReqID != "" {
				assert.Equal(t, tt.providedReqID, respID)
			}
			assert.Equal(t, respID, c.Get("request_id"))
		})
	}
}

func TestRequestLog_HealthCheckSuccessLoggedOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := RequestLog(slog.New(slog.NewTextHandler(&buf, nil)))(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	serve(t, handler, http.MethodGet, "/healthz", nil)
	assert.Contains(t, buf.String(), "path=/healthz")
	first := buf.Len()

	serve(t, handler, http.MethodGet, "/healthz", nil)
	serve(t, handler, http.MethodGet, "/healthz", nil)
	assert.Equal(t, first, buf.Len(), "repeated successful health checks are not logged")

	serve(t, handler, http.MethodGet, "/api/v1/products", nil)
	serve(t, handler, http.MethodGet, "/api/v1/products", nil)
	assert.Greater(t, buf.Len(), first, "non health check paths are always logged")
}

func TestRequestLog_HealthCheckFailureAlwaysLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	calls := 0
	handler := RequestLog(slog.New(slog.NewTextHandler(&buf, nil)))(func(c echo.Context) error {
		calls++
		if calls == 2 || calls == 3 {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	serve(t, handler, http.MethodGet, "/readyz", nil)
	afterFirst := buf.Len()

	serve(t, handler, http.MethodGet, "/readyz", nil)
	assert.Greater(t, buf.Len(), afterFirst)
	assert.Contains(t, buf.String(), "status=503")
	assert.Contains(t, buf.String(), "level=WARN")
	afterFail := buf.Len()

	serve(t, handler, http.MethodGet, "/readyz", nil)
	assert.Greater(t, buf.Len(), afterFail, "every failure is logged")
	afterSecondFail := buf.Len()

	serve(t, handler, http.MethodGet, "/readyz", nil)
	assert.Greater(t, buf.Len(), afterSecondFail, "recovery after a failure is logged")
}

func TestRequestLog_TraceID(t *testing.T) {
	t.Parallel()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})

	var buf bytes.Buffer
	handler := RequestLog(slog.New(slog.NewTextHandler(&buf, nil)))(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", http.NoBody)
	req = req.WithContext(trace.ContextWithSpanContext(context.Background(), sc))
	require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))

	assert.Contains(t, buf.String(), "trace_id=4bf92f3577b34da6a3ce929d0e0e4736")
}
