// Package steam provides a Steam storefront client abstracted behind
// interfaces for testability.
package steam

import (
	"context"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// SearchResult is a catalog search hit.
type SearchResult struct {
	ID   domain.ProductID `json:"id"`
	Name string           `json:"name"`
}

// App is the normalized storefront view of one product.
type App struct {
	ID       domain.ProductID
	Name     string
	IsFree   bool
	Snapshot domain.Snapshot
}

// Catalog defines the interface for reading the upstream product catalog.
// Fetch failures are returned as *FetchError.
type Catalog interface {
	Search(ctx context.Context, name string) ([]SearchResult, error)
	Fetch(ctx context.Context, id domain.ProductID) (*App, error)
}
