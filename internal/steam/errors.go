package steam

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// FetchErrorKind classifies catalog failures by how the caller should react.
type FetchErrorKind int

// Fetch error kinds.
const (
	// NotFound means the product no longer exists upstream.
	NotFound FetchErrorKind = iota + 1
	// RateLimited means upstream asked us to slow down.
	RateLimited
	// Transient covers network failures, timeouts and 5xx responses.
	Transient
	// Malformed means upstream answered with data we cannot interpret.
	Malformed
)

// String returns the metric label for the kind.
func (k FetchErrorKind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case RateLimited:
		return "rate_limited"
	case Transient:
		return "transient"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// FetchError is returned by Catalog implementations.
type FetchError struct {
	Kind      FetchErrorKind
	ProductID domain.ProductID
	// Wait is the upstream-suggested delay for RateLimited errors, if any.
	Wait time.Duration
	Err  error
}

func (e *FetchError) Error() string {
	if e.ProductID != "" {
		return fmt.Sprintf("steam %s for app %s: %v", e.Kind, e.ProductID, e.Err)
	}
	return fmt.Sprintf("steam %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RetryAfter returns the upstream-suggested wait.
func (e *FetchError) RetryAfter() time.Duration { return e.Wait }

// KindOf returns the FetchErrorKind of err, or 0 when err is not a *FetchError.
func KindOf(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// IsTransient reports whether err is a Transient fetch error.
func IsTransient(err error) bool {
	return KindOf(err) == Transient
}

func fetchErr(kind FetchErrorKind, id domain.ProductID, err error) *FetchError {
	return &FetchError{Kind: kind, ProductID: id, Err: err}
}
