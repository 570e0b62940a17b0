package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/sale-tracker/internal/engine"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// ProductLister lists tracked products and their subscribers.
type ProductLister interface {
	Products() []domain.TrackedProduct
	DestinationsFor(id domain.ProductID) []domain.Subscription
}

// Inspector exposes the scheduler's per-product view.
type Inspector interface {
	Status(id domain.ProductID) engine.ProductStatus
	Snapshot(id domain.ProductID) *domain.Snapshot
}

// ProductsHandler lists tracked products with their current state.
type ProductsHandler struct {
	products ProductLister
	inspect  Inspector
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(products ProductLister, inspect Inspector) *ProductsHandler {
	return &ProductsHandler{products: products, inspect: inspect}
}

// ProductView is a tracked product with its scheduler state.
type ProductView struct {
	domain.TrackedProduct
	Subscribers  int                 `json:"subscribers"             example:"3"`
	Phase        domain.ProductPhase `json:"phase"                   example:"idle"`
	Misses       int                 `json:"misses"                  example:"0"`
	LastOutcome  string              `json:"last_outcome,omitempty"  example:"unchanged"`
	LastCheck    *time.Time          `json:"last_check,omitempty"`
	BackoffUntil *time.Time          `json:"backoff_until,omitempty"`
}

// ListProductsOutput is the response body for the products endpoint.
type ListProductsOutput struct {
	Body struct {
		Products []ProductView `json:"products"`
		Total    int           `json:"total" example:"12"`
	}
}

// List returns every tracked product ordered by id.
func (h *ProductsHandler) List(_ context.Context, _ *struct{}) (*ListProductsOutput, error) {
	resp := &ListProductsOutput{}
	resp.Body.Products = []ProductView{}

	for _, p := range h.products.Products() {
		status := h.inspect.Status(p.ID)
		p.LastSnapshot = h.inspect.Snapshot(p.ID)
		view := ProductView{
			TrackedProduct: p,
			Subscribers:    len(h.products.DestinationsFor(p.ID)),
			Phase:          status.Phase,
			Misses:         status.Misses,
			LastOutcome:    string(status.LastOutcome),
			LastCheck:      timePtr(status.LastCheck),
			BackoffUntil:   timePtr(status.BackoffUntil),
		}
		resp.Body.Products = append(resp.Body.Products, view)
	}
	resp.Body.Total = len(resp.Body.Products)
	return resp, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// RegisterProductRoutes registers the products endpoint with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List tracked products",
		Description: "Returns every tracked product with its last snapshot and scheduler phase.",
		Tags:        []string{"products"},
	}, h.List)
}
