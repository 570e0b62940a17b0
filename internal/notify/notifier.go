// Package notify composes event notifications and delivers them to
// subscriber destinations through a Channel.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Message is one composed notification for one destination.
type Message struct {
	ProductID domain.ProductID
	Title     string
	URL       string
	Lines     []string
	Kinds     []domain.EventKind
	Price     string
	Discount  int
	Color     int
}

// Channel delivers messages to destinations. Implementations report
// failures as *DeliveryError.
type Channel interface {
	Send(ctx context.Context, dest domain.Destination, msg Message) error
}

// DeliveryErrorKind classifies delivery failures.
type DeliveryErrorKind int

// Delivery error kinds.
const (
	// Unreachable means the destination does not exist or rejected the message.
	Unreachable DeliveryErrorKind = iota + 1
	// Forbidden means the channel may not post to the destination.
	Forbidden
	// Transient failures are worth retrying.
	Transient
)

func (k DeliveryErrorKind) String() string {
	switch k {
	case Unreachable:
		return "unreachable"
	case Forbidden:
		return "forbidden"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// DeliveryError is returned by Channel implementations.
type DeliveryError struct {
	Kind        DeliveryErrorKind
	Destination domain.Destination
	Status      int
	Wait        time.Duration
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivering to %s: %s: %v", e.Destination.Key(), e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// RetryAfter returns the wait the channel asked for, if any.
func (e *DeliveryError) RetryAfter() time.Duration { return e.Wait }

// IsTransient reports whether err is a retryable delivery failure.
func IsTransient(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de) && de.Kind == Transient
}

// KindOf returns the metric label for a delivery failure.
func KindOf(err error) string {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Kind.String()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "unknown"
}
