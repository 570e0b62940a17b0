package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// FailureLister reads persisted delivery failures.
type FailureLister interface {
	ListDeliveryFailures(ctx context.Context, limit int) ([]domain.DeliveryFailure, error)
}

// FailuresHandler exposes delivery failures for operators.
type FailuresHandler struct {
	store FailureLister
}

// NewFailuresHandler creates a new FailuresHandler.
func NewFailuresHandler(s FailureLister) *FailuresHandler {
	return &FailuresHandler{store: s}
}

// ListFailuresInput bounds the failure listing.
type ListFailuresInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"500" default:"50" doc:"Maximum number of failures, newest first"`
}

// ListFailuresOutput is the response body for the failures endpoint.
type ListFailuresOutput struct {
	Body struct {
		Failures []domain.DeliveryFailure `json:"failures"`
		Total    int                      `json:"total" example:"1"`
	}
}

// List returns the most recent delivery failures.
func (h *FailuresHandler) List(ctx context.Context, input *ListFailuresInput) (*ListFailuresOutput, error) {
	failures, err := h.store.ListDeliveryFailures(ctx, input.Limit)
	if err != nil {
		return nil, storeError("listing delivery failures", err)
	}
	if failures == nil {
		failures = []domain.DeliveryFailure{}
	}

	resp := &ListFailuresOutput{}
	resp.Body.Failures = failures
	resp.Body.Total = len(failures)
	return resp, nil
}

// RegisterFailureRoutes registers the failures endpoint with the Huma API.
func RegisterFailureRoutes(api huma.API, h *FailuresHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-delivery-failures",
		Method:      http.MethodGet,
		Path:        "/api/v1/deliveries/failures",
		Summary:     "List delivery failures",
		Description: "Returns deliveries that failed permanently or exhausted their retries.",
		Tags:        []string{"notifications"},
		Errors:      []int{http.StatusServiceUnavailable},
	}, h.List)
}
