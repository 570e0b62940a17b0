package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/sale-tracker/internal/engine"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Checker runs product checks on demand.
type Checker interface {
	RunTick(ctx context.Context) (engine.TickResult, error)
	CheckProduct(ctx context.Context, id domain.ProductID) engine.CheckResult
}

// CheckHandler triggers checks outside the schedule.
type CheckHandler struct {
	checker Checker
}

// NewCheckHandler creates a new CheckHandler.
func NewCheckHandler(c Checker) *CheckHandler {
	return &CheckHandler{checker: c}
}

// TickOutput is the response body for a manual tick.
type TickOutput struct {
	Body struct {
		Products   int            `json:"products"    example:"12"`
		Events     int            `json:"events"      example:"2"`
		DurationMS int64          `json:"duration_ms" example:"1840"`
		Outcomes   map[string]int `json:"outcomes"`
	}
}

// Tick checks every tracked product once.
func (h *CheckHandler) Tick(ctx context.Context, _ *struct{}) (*TickOutput, error) {
	res, err := h.checker.RunTick(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, huma.Error500InternalServerError("tick failed: " + err.Error())
	}

	resp := &TickOutput{}
	resp.Body.Products = res.Products
	resp.Body.Events = res.Events
	resp.Body.DurationMS = res.Duration.Milliseconds()
	resp.Body.Outcomes = make(map[string]int, len(res.Outcomes))
	for o, n := range res.Outcomes {
		resp.Body.Outcomes[string(o)] = n
	}
	return resp, nil
}

// CheckProductInput identifies the product to check.
type CheckProductInput struct {
	ProductID string `path:"product_id" doc:"Store app id"`
}

// CheckProductOutput is the response body for a single product check.
type CheckProductOutput struct {
	Body struct {
		ProductID string                 `json:"product_id" example:"620"`
		Outcome   string                 `json:"outcome"    example:"changed"`
		Events    []domain.EventKind     `json:"events"`
		Report    *domain.DeliveryReport `json:"report,omitempty"`
		Error     string                 `json:"error,omitempty"`
	}
}

// Check runs one check of a single product.
func (h *CheckHandler) Check(ctx context.Context, input *CheckProductInput) (*CheckProductOutput, error) {
	res := h.checker.CheckProduct(ctx, domain.ProductID(input.ProductID))
	if res.Outcome == engine.OutcomeUntracked {
		return nil, huma.Error404NotFound("product " + input.ProductID + " is not tracked")
	}

	resp := &CheckProductOutput{}
	resp.Body.ProductID = input.ProductID
	resp.Body.Outcome = string(res.Outcome)
	resp.Body.Events = res.Events
	if resp.Body.Events == nil {
		resp.Body.Events = []domain.EventKind{}
	}
	resp.Body.Report = res.Report
	if res.Err != nil {
		resp.Body.Error = res.Err.Error()
	}
	return resp, nil
}

// RegisterCheckRoutes registers the manual check endpoints with the Huma API.
func RegisterCheckRoutes(api huma.API, h *CheckHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "run-tick",
		Method:      http.MethodPost,
		Path:        "/api/v1/check",
		Summary:     "Run a tick now",
		Description: "Checks every tracked product once, outside the schedule.",
		Tags:        []string{"scheduler"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Tick)

	huma.Register(api, huma.Operation{
		OperationID: "check-product",
		Method:      http.MethodPost,
		Path:        "/api/v1/products/{product_id}/check",
		Summary:     "Check one product now",
		Tags:        []string{"scheduler"},
		Errors:      []int{http.StatusNotFound},
	}, h.Check)
}
