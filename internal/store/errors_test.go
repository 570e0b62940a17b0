package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := fmt.Errorf("swapping snapshot: %w", newError(Unavailable, "updating snapshot", cause))

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, Unavailable, KindOf(err))
	assert.Contains(t, err.Error(), "updating snapshot: unavailable: connection refused")
}

func TestKindOf_NonStoreError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ErrorKind(0), KindOf(errors.New("boom")))
}

func TestErrorKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unavailable", Unavailable.String())
	assert.Equal(t, "conflict", Conflict.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}
