package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// QuotaSource reports upstream call budget usage.
type QuotaSource interface {
	Count() int64
	Limit() int64
	Remaining() int64
	ResetAt() time.Time
}

// QuotaHandler provides the Steam API quota status endpoint.
type QuotaHandler struct {
	src QuotaSource
}

// NewQuotaHandler creates a new QuotaHandler. A nil source reports zeros.
func NewQuotaHandler(src QuotaSource) *QuotaHandler {
	return &QuotaHandler{src: src}
}

// QuotaOutput is the response body for the quota endpoint.
type QuotaOutput struct {
	Body struct {
		WindowLimit int64     `json:"window_limit" example:"200"                  doc:"Configured per-window API call limit"`
		WindowUsed  int64     `json:"window_used"  example:"42"                   doc:"API calls used in the current window"`
		Remaining   int64     `json:"remaining"    example:"158"                  doc:"API calls remaining in the current window"`
		ResetAt     time.Time `json:"reset_at"     example:"2026-03-01T12:05:00Z" doc:"When the current window expires"`
	}
}

// GetQuota returns the current Steam API window usage.
func (h *QuotaHandler) GetQuota(_ context.Context, _ *struct{}) (*QuotaOutput, error) {
	resp := &QuotaOutput{}
	if h.src == nil {
		return resp, nil
	}

	resp.Body.WindowLimit = h.src.Limit()
	resp.Body.WindowUsed = h.src.Count()
	resp.Body.Remaining = h.src.Remaining()
	resp.Body.ResetAt = h.src.ResetAt()
	return resp, nil
}

// RegisterQuotaRoutes registers the quota endpoint with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get Steam API quota status",
		Description: "Returns the call budget usage of the current rate-limit window.",
		Tags:        []string{"steam"},
	}, h.GetQuota)
}
