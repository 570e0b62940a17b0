// Package handlers implements HTTP handlers for the sale-tracker API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/sale-tracker/internal/steam"
	"github.com/donaldgifford/sale-tracker/internal/store"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// storeError maps a store failure to an HTTP error.
func storeError(msg string, err error) error {
	switch {
	case errors.Is(err, store.ErrUnavailable):
		return huma.Error503ServiceUnavailable(msg + ": store unavailable")
	case errors.Is(err, store.ErrNotFound):
		return huma.Error404NotFound(msg + ": not found")
	case errors.Is(err, store.ErrConflict):
		return huma.Error409Conflict(msg + ": conflict")
	default:
		return huma.Error500InternalServerError(msg + ": " + err.Error())
	}
}

// catalogError maps a catalog failure to an HTTP error.
func catalogError(err error) error {
	switch steam.KindOf(err) {
	case steam.NotFound:
		return huma.Error404NotFound("app not found on the store")
	case steam.RateLimited:
		return huma.NewError(http.StatusTooManyRequests, "steam rate limit reached, try again later")
	default:
		return huma.Error502BadGateway("steam API error: " + err.Error())
	}
}
