package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/sale-tracker/internal/steam"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Tracker is the subscription registry as seen by the API.
type Tracker interface {
	Product(id domain.ProductID) (domain.TrackedProduct, bool)
	Subscribe(ctx context.Context, product domain.TrackedProduct, sub domain.Subscription) (bool, error)
	Unsubscribe(ctx context.Context, id domain.ProductID, dest domain.Destination) (bool, error)
	ClearGroup(ctx context.Context, group string) (int64, error)
	SetGroupThreshold(ctx context.Context, group string, minDiscount int) error
	GroupThreshold(group string) int
	ListForDestination(dest domain.Destination) []domain.TrackedProduct
	SubscriptionsFor(dest domain.Destination) []domain.Subscription
}

// Fetcher reads one product from the store catalog.
type Fetcher interface {
	Fetch(ctx context.Context, id domain.ProductID) (*steam.App, error)
}

// TrackingDefaults are applied to newly tracked products.
type TrackingDefaults struct {
	Region       string
	TrackRelease bool
}

// TrackingHandler manages which destinations follow which products.
type TrackingHandler struct {
	catalog  Fetcher
	tracker  Tracker
	defaults TrackingDefaults
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(catalog Fetcher, tracker Tracker, defaults TrackingDefaults) *TrackingHandler {
	return &TrackingHandler{catalog: catalog, tracker: tracker, defaults: defaults}
}

// AddTrackingInput is the request body for add-tracking.
type AddTrackingInput struct {
	Body struct {
		ProductID   string `json:"product_id"             minLength:"1" pattern:"^[0-9]+$" doc:"Store app id" example:"620"`
		GroupID     string `json:"group_id"               minLength:"1"                    doc:"Subscriber group (community) id" example:"1029384756"`
		ChannelID   string `json:"channel_id"             minLength:"1"                    doc:"Channel to notify" example:"5647382910"`
		MinDiscount int    `json:"min_discount,omitempty" minimum:"0"   maximum:"99"       doc:"Only announce sales at or above this discount"`
	}
}

// TrackingBody describes one tracked product for a destination.
type TrackingBody struct {
	Product     domain.TrackedProduct `json:"product"`
	MinDiscount int                   `json:"min_discount" example:"25"`
}

// AddTrackingOutput is the response for add-tracking. Status is 201 when a
// new subscription was created and 200 when an existing one was updated.
type AddTrackingOutput struct {
	Status int
	Body   TrackingBody
}

// Add subscribes a destination to a product, verifying the product upstream
// when it is not tracked yet. Free products that are already out can never
// go on sale and are refused.
func (h *TrackingHandler) Add(ctx context.Context, input *AddTrackingInput) (*AddTrackingOutput, error) {
	id := domain.ProductID(input.Body.ProductID)

	product, tracked := h.tracker.Product(id)
	if !tracked {
		app, err := h.catalog.Fetch(ctx, id)
		if err != nil {
			return nil, catalogError(err)
		}
		if app.IsFree && app.Snapshot.Released {
			return nil, huma.Error422UnprocessableEntity("app " + string(id) + " is free and already released")
		}
		product = domain.TrackedProduct{
			ID:           id,
			Name:         app.Name,
			Region:       h.defaults.Region,
			TrackRelease: h.defaults.TrackRelease,
			CreatedAt:    time.Now().UTC(),
		}
	}

	sub := domain.Subscription{
		ProductID:   id,
		Destination: domain.Destination{GroupID: input.Body.GroupID, ChannelID: input.Body.ChannelID},
		MinDiscount: input.Body.MinDiscount,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := h.tracker.Subscribe(ctx, product, sub)
	if err != nil {
		return nil, storeError("adding tracking", err)
	}

	resp := &AddTrackingOutput{Status: http.StatusOK}
	if created {
		resp.Status = http.StatusCreated
	}
	resp.Body.Product = product
	resp.Body.MinDiscount = sub.MinDiscount
	return resp, nil
}

// DestinationInput selects one destination.
type DestinationInput struct {
	GroupID   string `query:"group_id"   required:"true" minLength:"1" doc:"Subscriber group id"`
	ChannelID string `query:"channel_id" required:"true" minLength:"1" doc:"Channel id"`
}

func (in DestinationInput) destination() domain.Destination {
	return domain.Destination{GroupID: in.GroupID, ChannelID: in.ChannelID}
}

// RemoveTrackingInput identifies the subscription to remove.
type RemoveTrackingInput struct {
	ProductID string `path:"product_id" doc:"Store app id"`
	DestinationInput
}

// Remove unsubscribes a destination from a product.
func (h *TrackingHandler) Remove(ctx context.Context, input *RemoveTrackingInput) (*struct{}, error) {
	removed, err := h.tracker.Unsubscribe(ctx, domain.ProductID(input.ProductID), input.destination())
	if err != nil {
		return nil, storeError("removing tracking", err)
	}
	if !removed {
		return nil, huma.Error404NotFound("product " + input.ProductID + " is not tracked here")
	}
	return nil, nil
}

// ListTrackingOutput lists the products a destination follows.
// GroupMinDiscount applies to items whose own MinDiscount is 0.
type ListTrackingOutput struct {
	Body struct {
		Items            []TrackingBody `json:"items"`
		Total            int            `json:"total" example:"2"`
		GroupMinDiscount int            `json:"group_min_discount" example:"20"`
	}
}

// List returns the products a destination follows, ordered by name.
func (h *TrackingHandler) List(_ context.Context, input *DestinationInput) (*ListTrackingOutput, error) {
	dest := input.destination()

	discounts := make(map[domain.ProductID]int)
	for _, s := range h.tracker.SubscriptionsFor(dest) {
		discounts[s.ProductID] = s.MinDiscount
	}

	resp := &ListTrackingOutput{}
	resp.Body.Items = []TrackingBody{}
	for _, p := range h.tracker.ListForDestination(dest) {
		resp.Body.Items = append(resp.Body.Items, TrackingBody{Product: p, MinDiscount: discounts[p.ID]})
	}
	resp.Body.Total = len(resp.Body.Items)
	resp.Body.GroupMinDiscount = h.tracker.GroupThreshold(dest.GroupID)
	return resp, nil
}

// ClearGroupInput identifies a subscriber group.
type ClearGroupInput struct {
	GroupID string `path:"group_id" doc:"Subscriber group id"`
}

// ClearGroupOutput reports how many subscriptions were removed.
type ClearGroupOutput struct {
	Body struct {
		Removed int64 `json:"removed" example:"4"`
	}
}

// ClearGroup removes every subscription of a group.
func (h *TrackingHandler) ClearGroup(ctx context.Context, input *ClearGroupInput) (*ClearGroupOutput, error) {
	n, err := h.tracker.ClearGroup(ctx, input.GroupID)
	if err != nil {
		return nil, storeError("clearing group", err)
	}
	resp := &ClearGroupOutput{}
	resp.Body.Removed = n
	return resp, nil
}

// GroupThresholdBody is a group's default discount threshold.
type GroupThresholdBody struct {
	GroupID     string `json:"group_id"     example:"1029384756"`
	MinDiscount int    `json:"min_discount" example:"20"`
}

// GroupThresholdOutput returns a group's default discount threshold.
type GroupThresholdOutput struct {
	Body GroupThresholdBody
}

// SetGroupThresholdInput sets a group's default discount threshold.
type SetGroupThresholdInput struct {
	GroupID string `path:"group_id" doc:"Subscriber group id"`
	Body    struct {
		MinDiscount int `json:"min_discount" minimum:"0" maximum:"99" doc:"Default threshold; 0 announces every sale"`
	}
}

// GetGroupThreshold returns a group's default discount threshold.
func (h *TrackingHandler) GetGroupThreshold(_ context.Context, input *ClearGroupInput) (*GroupThresholdOutput, error) {
	resp := &GroupThresholdOutput{}
	resp.Body = GroupThresholdBody{GroupID: input.GroupID, MinDiscount: h.tracker.GroupThreshold(input.GroupID)}
	return resp, nil
}

// SetGroupThreshold sets the threshold used by a group's subscriptions that
// have none of their own.
func (h *TrackingHandler) SetGroupThreshold(ctx context.Context, input *SetGroupThresholdInput) (*GroupThresholdOutput, error) {
	if err := h.tracker.SetGroupThreshold(ctx, input.GroupID, input.Body.MinDiscount); err != nil {
		return nil, storeError("setting group threshold", err)
	}
	resp := &GroupThresholdOutput{}
	resp.Body = GroupThresholdBody{GroupID: input.GroupID, MinDiscount: input.Body.MinDiscount}
	return resp, nil
}

// RegisterTrackingRoutes registers the tracking endpoints with the Huma API.
func RegisterTrackingRoutes(api huma.API, h *TrackingHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-tracking",
		Method:        http.MethodPost,
		Path:          "/api/v1/tracking",
		Summary:       "Track a product",
		Description:   "Subscribes a destination to a store product. Unknown products are verified upstream first.",
		Tags:          []string{"tracking"},
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusTooManyRequests,
			http.StatusBadGateway, http.StatusServiceUnavailable,
		},
	}, h.Add)

	huma.Register(api, huma.Operation{
		OperationID:   "remove-tracking",
		Method:        http.MethodDelete,
		Path:          "/api/v1/tracking/{product_id}",
		Summary:       "Stop tracking a product",
		Description:   "Removes one destination's subscription. The product is dropped when nobody follows it.",
		Tags:          []string{"tracking"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, h.Remove)

	huma.Register(api, huma.Operation{
		OperationID: "list-tracking",
		Method:      http.MethodGet,
		Path:        "/api/v1/tracking",
		Summary:     "List tracked products for a destination",
		Tags:        []string{"tracking"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "clear-group",
		Method:      http.MethodDelete,
		Path:        "/api/v1/groups/{group_id}/tracking",
		Summary:     "Clear a group's tracking",
		Description: "Removes every subscription held by a subscriber group.",
		Tags:        []string{"tracking"},
		Errors:      []int{http.StatusServiceUnavailable},
	}, h.ClearGroup)

	huma.Register(api, huma.Operation{
		OperationID: "get-group-threshold",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{group_id}/threshold",
		Summary:     "Get a group's discount threshold",
		Tags:        []string{"tracking"},
	}, h.GetGroupThreshold)

	huma.Register(api, huma.Operation{
		OperationID: "set-group-threshold",
		Method:      http.MethodPut,
		Path:        "/api/v1/groups/{group_id}/threshold",
		Summary:     "Set a group's discount threshold",
		Description: "Sets the minimum discount announced for the group's subscriptions that set none of their own.",
		Tags:        []string{"tracking"},
		Errors:      []int{http.StatusServiceUnavailable},
	}, h.SetGroupThreshold)
}
