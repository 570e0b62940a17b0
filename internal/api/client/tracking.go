package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/donaldgifford/sale-tracker/internal/api/handlers"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

type addTrackingRequest struct {
	ProductID   string `json:"product_id"`
	GroupID     string `json:"group_id"`
	ChannelID   string `json:"channel_id"`
	MinDiscount int    `json:"min_discount,omitempty"`
}

func destinationQuery(dest domain.Destination) url.Values {
	return url.Values{"group_id": {dest.GroupID}, "channel_id": {dest.ChannelID}}
}

// AddTracking subscribes dest to a product.
func (c *Client) AddTracking(
	ctx context.Context,
	id domain.ProductID,
	dest domain.Destination,
	minDiscount int,
) (*handlers.TrackingBody, error) {
	var out handlers.TrackingBody
	req := addTrackingRequest{
		ProductID:   string(id),
		GroupID:     dest.GroupID,
		ChannelID:   dest.ChannelID,
		MinDiscount: minDiscount,
	}
	if err := c.post(ctx, "/api/v1/tracking", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveTracking unsubscribes dest from a product.
func (c *Client) RemoveTracking(ctx context.Context, id domain.ProductID, dest domain.Destination) error {
	return c.del(ctx, "/api/v1/tracking/"+url.PathEscape(string(id)), destinationQuery(dest), nil)
}

// ListTracking returns the products dest follows, ordered by name.
func (c *Client) ListTracking(ctx context.Context, dest domain.Destination) ([]handlers.TrackingBody, error) {
	var out struct {
		Items []handlers.TrackingBody `json:"items"`
	}
	if err := c.get(ctx, "/api/v1/tracking", destinationQuery(dest), &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// ClearGroup removes every subscription held by group.
func (c *Client) ClearGroup(ctx context.Context, group string) (int64, error) {
	var out struct {
		Removed int64 `json:"removed"`
	}
	path := fmt.Sprintf("/api/v1/groups/%s/tracking", url.PathEscape(group))
	if err := c.del(ctx, path, nil, &out); err != nil {
		return 0, err
	}
	return out.Removed, nil
}

func groupThresholdPath(group string) string {
	return fmt.Sprintf("/api/v1/groups/%s/threshold", url.PathEscape(group))
}

// GroupThreshold returns the default discount threshold of group.
func (c *Client) GroupThreshold(ctx context.Context, group string) (int, error) {
	var out handlers.GroupThresholdBody
	if err := c.get(ctx, groupThresholdPath(group), nil, &out); err != nil {
		return 0, err
	}
	return out.MinDiscount, nil
}

// SetGroupThreshold sets the default discount threshold of group.
func (c *Client) SetGroupThreshold(ctx context.Context, group string, minDiscount int) error {
	req := map[string]int{"min_discount": minDiscount}
	return c.put(ctx, groupThresholdPath(group), req, nil)
}
