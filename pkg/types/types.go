// Package domain defines the core business types for the sale tracker.
package domain

import (
	"fmt"
	"time"
)

// ProductID is the storefront catalog identifier of a product. It is
// opaque to the engine; for Steam it is the numeric app id in string form.
type ProductID string

// Snapshot is an immutable observation of a product's storefront state.
// Prices are integer minor-currency units (cents).
type Snapshot struct {
	Price           int64     `json:"price"`
	InitialPrice    int64     `json:"initial_price"`
	DiscountPercent int       `json:"discount_percent"`
	OnSale          bool      `json:"on_sale"`
	Released        bool      `json:"released"`
	Currency        string    `json:"currency"`
	ObservedAt      time.Time `json:"observed_at"`
}

// SameState reports whether s and o describe the same storefront state,
// ignoring when they were observed.
func (s Snapshot) SameState(o Snapshot) bool {
	return s.Price == o.Price &&
		s.InitialPrice == o.InitialPrice &&
		s.DiscountPercent == o.DiscountPercent &&
		s.OnSale == o.OnSale &&
		s.Released == o.Released &&
		s.Currency == o.Currency
}

// TrackedProduct is a catalog item that at least one destination follows.
type TrackedProduct struct {
	ID           ProductID `json:"id"`
	Name         string    `json:"name"`
	Region       string    `json:"region"`
	TrackRelease bool      `json:"track_release"`
	LastSnapshot *Snapshot `json:"last_snapshot,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Destination identifies where a subscriber group wants its notifications.
type Destination struct {
	GroupID   string `json:"group_id"`
	ChannelID string `json:"channel_id"`
}

// Key returns a stable string form of the destination.
func (d Destination) Key() string {
	return d.GroupID + "/" + d.ChannelID
}

// Subscription binds one destination to one tracked product.
type Subscription struct {
	ProductID   ProductID   `json:"product_id"`
	Destination Destination `json:"destination"`
	// MinDiscount gates SaleStarted notifications. 0 means any sale.
	MinDiscount int       `json:"min_discount"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventKind enumerates the state changes the engine reports.
type EventKind int

// Event kinds, in emission order.
const (
	EventSaleStarted EventKind = iota + 1
	EventSaleEnded
	EventPriceDropped
	EventReleased
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventSaleStarted:
		return "sale_started"
	case EventSaleEnded:
		return "sale_ended"
	case EventPriceDropped:
		return "price_dropped"
	case EventReleased:
		return "released"
	default:
		return fmt.Sprintf("event_kind(%d)", int(k))
	}
}

// ParseEventKind returns the kind whose String form is s.
func ParseEventKind(s string) (EventKind, bool) {
	for _, k := range AllEventKinds() {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// AllEventKinds returns every event kind in emission order.
func AllEventKinds() []EventKind {
	return []EventKind{EventSaleStarted, EventSaleEnded, EventPriceDropped, EventReleased}
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(b []byte) error {
	parsed, ok := ParseEventKind(string(b))
	if !ok {
		return fmt.Errorf("unknown event kind %q", string(b))
	}
	*k = parsed
	return nil
}

// Event is a single state change detected between two snapshots of a product.
// Prev is nil only for Released events raised on first observation.
type Event struct {
	Kind      EventKind `json:"kind"`
	ProductID ProductID `json:"product_id"`
	Prev      *Snapshot `json:"prev,omitempty"`
	Next      Snapshot  `json:"next"`
}

// DeliveryStatus is the per-destination result of one dispatch.
type DeliveryStatus string

// Delivery status constants.
const (
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliverySkipped   DeliveryStatus = "skipped"
	DeliveryDuplicate DeliveryStatus = "duplicate"
	DeliveryFailed    DeliveryStatus = "failed"
)

// DeliveryOutcome records what happened for one destination.
type DeliveryOutcome struct {
	Destination Destination    `json:"destination"`
	Status      DeliveryStatus `json:"status"`
	Attempts    int            `json:"attempts"`
	Error       string         `json:"error,omitempty"`
}

// DeliveryReport collects the outcomes of notifying every destination of a product.
type DeliveryReport struct {
	ProductID ProductID         `json:"product_id"`
	Outcomes  []DeliveryOutcome `json:"outcomes"`
}

// Count returns the number of outcomes with the given status.
func (r DeliveryReport) Count(status DeliveryStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// DeliveryFailure is a persisted operator diagnostic for a delivery that
// exhausted its retries or failed permanently.
type DeliveryFailure struct {
	ID          int64       `json:"id"`
	ProductID   ProductID   `json:"product_id"`
	Destination Destination `json:"destination"`
	Kinds       []EventKind `json:"kinds"`
	Attempts    int         `json:"attempts"`
	Error       string      `json:"error"`
	FailedAt    time.Time   `json:"failed_at"`
}

// ProductPhase is the scheduler's per-product lifecycle state.
type ProductPhase string

// Product phase constants.
const (
	PhaseIdle        ProductPhase = "idle"
	PhaseFetching    ProductPhase = "fetching"
	PhaseDetecting   ProductPhase = "detecting"
	PhaseDispatching ProductPhase = "dispatching"
	PhaseBackoff     ProductPhase = "backoff"
)
