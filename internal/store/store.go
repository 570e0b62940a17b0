// Package store defines the datastore abstraction for sale-tracker.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Store defines all data access operations for sale-tracker.
// Failures are reported as *Error values matchable with ErrUnavailable,
// ErrConflict and ErrNotFound.
type Store interface {
	// Products
	UpsertProduct(ctx context.Context, p *domain.TrackedProduct) error
	GetProduct(ctx context.Context, id domain.ProductID) (*domain.TrackedProduct, error)
	ListProducts(ctx context.Context) ([]domain.TrackedProduct, error)
	UpdateSnapshot(ctx context.Context, id domain.ProductID, snap domain.Snapshot) error
	// DeleteProduct removes the product and all of its subscriptions.
	DeleteProduct(ctx context.Context, id domain.ProductID) error

	// Subscriptions
	//
	// CreateSubscription is idempotent: an existing subscription has its
	// MinDiscount updated and created is false.
	CreateSubscription(ctx context.Context, sub *domain.Subscription) (created bool, err error)
	DeleteSubscription(ctx context.Context, id domain.ProductID, dest domain.Destination) (bool, error)
	DeleteGroupSubscriptions(ctx context.Context, groupID string) (int64, error)
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)

	// Group settings
	//
	// A group's threshold applies to its subscriptions that set none.
	SetGroupThreshold(ctx context.Context, groupID string, minDiscount int) error
	ListGroupThresholds(ctx context.Context) (map[string]int, error)

	// Delivery diagnostics
	InsertDeliveryFailure(ctx context.Context, f *domain.DeliveryFailure) error
	ListDeliveryFailures(ctx context.Context, limit int) ([]domain.DeliveryFailure, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// maxDeliveryFailures bounds the diagnostics table; older rows are pruned on insert.
const maxDeliveryFailures = 1000
