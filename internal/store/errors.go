package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("store unavailable")
	ErrConflict    = errors.New("store conflict")
)

// ErrorKind classifies a store failure.
type ErrorKind int

// Store error kinds.
const (
	// Unavailable covers connectivity, locking and capacity failures that
	// may succeed later.
	Unavailable ErrorKind = iota + 1
	// Conflict covers constraint violations.
	Conflict
	// NotFound means the addressed row does not exist.
	NotFound
)

func (k ErrorKind) String() string {
	switch k {
	case Unavailable:
		return "unavailable"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is returned by Store implementations.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == Unavailable
	case ErrConflict:
		return e.Kind == Conflict
	case ErrNotFound:
		return e.Kind == NotFound
	}
	return false
}

// KindOf returns the ErrorKind of err, or 0 when err is not a store error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
