package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/sale-tracker/internal/steam"
)

// Searcher looks products up by name.
type Searcher interface {
	Search(ctx context.Context, name string) ([]steam.SearchResult, error)
}

// SearchHandler handles catalog search requests.
type SearchHandler struct {
	catalog Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(c Searcher) *SearchHandler {
	return &SearchHandler{catalog: c}
}

// SearchInput is the request body for catalog search.
type SearchInput struct {
	Body struct {
		Query string `json:"query"           minLength:"1" doc:"Product name to search for" example:"Portal 2"`
		Limit int    `json:"limit,omitempty" minimum:"1"   maximum:"50"                    default:"10" doc:"Maximum number of results"`
	}
}

// SearchOutput is the response body for catalog search.
type SearchOutput struct {
	Body struct {
		Results []steam.SearchResult `json:"results" doc:"Matching products"`
		Total   int                  `json:"total"   doc:"Number of results returned" example:"3"`
	}
}

// Search queries the store catalog by name.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	results, err := h.catalog.Search(ctx, input.Body.Query)
	if err != nil {
		return nil, catalogError(err)
	}
	if limit := input.Body.Limit; limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []steam.SearchResult{}
	}

	resp := &SearchOutput{}
	resp.Body.Results = results
	resp.Body.Total = len(results)
	return resp, nil
}

// RegisterSearchRoutes registers the search endpoint with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-catalog",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Search the store catalog",
		Description: "Finds store products by name so they can be tracked by id.",
		Tags:        []string{"steam"},
		Errors:      []int{http.StatusTooManyRequests, http.StatusBadGateway},
	}, h.Search)
}
