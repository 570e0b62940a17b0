package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/donaldgifford/sale-tracker/internal/api/handlers"
	"github.com/donaldgifford/sale-tracker/internal/steam"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Products returns every tracked product with its scheduler state.
func (c *Client) Products(ctx context.Context) ([]handlers.ProductView, error) {
	var out struct {
		Products []handlers.ProductView `json:"products"`
	}
	if err := c.get(ctx, "/api/v1/products", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// Search looks products up in the store catalog by name.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]steam.SearchResult, error) {
	req := map[string]any{"query": query}
	if limit > 0 {
		req["limit"] = limit
	}
	var out struct {
		Results []steam.SearchResult `json:"results"`
	}
	if err := c.post(ctx, "/api/v1/search", req, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// TickSummary is the result of a manual tick.
type TickSummary struct {
	Products   int            `json:"products"`
	Events     int            `json:"events"`
	DurationMS int64          `json:"duration_ms"`
	Outcomes   map[string]int `json:"outcomes"`
}

// RunTick checks every tracked product once.
func (c *Client) RunTick(ctx context.Context) (*TickSummary, error) {
	var out TickSummary
	if err := c.post(ctx, "/api/v1/check", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckSummary is the result of a single product check.
type CheckSummary struct {
	ProductID string                 `json:"product_id"`
	Outcome   string                 `json:"outcome"`
	Events    []domain.EventKind     `json:"events"`
	Report    *domain.DeliveryReport `json:"report,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// CheckProduct checks one product now.
func (c *Client) CheckProduct(ctx context.Context, id domain.ProductID) (*CheckSummary, error) {
	var out CheckSummary
	if err := c.post(ctx, "/api/v1/products/"+url.PathEscape(string(id))+"/check", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Failures returns the most recent delivery failures.
func (c *Client) Failures(ctx context.Context, limit int) ([]domain.DeliveryFailure, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Failures []domain.DeliveryFailure `json:"failures"`
	}
	if err := c.get(ctx, "/api/v1/deliveries/failures", q, &out); err != nil {
		return nil, err
	}
	return out.Failures, nil
}

// Quota is the upstream call budget usage.
type Quota struct {
	WindowLimit int64     `json:"window_limit"`
	WindowUsed  int64     `json:"window_used"`
	Remaining   int64     `json:"remaining"`
	ResetAt     time.Time `json:"reset_at"`
}

// Quota returns the Steam API window usage.
func (c *Client) Quota(ctx context.Context) (*Quota, error) {
	var out Quota
	if err := c.get(ctx, "/api/v1/quota", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
