// Package retry implements bounded retry with capped exponential backoff.
//
// Retries are an explicit loop over an attempt counter. Time is read and
// slept through a Clock so callers and tests control it.
package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// Clock abstracts time for retry and scheduling code.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Backoff computes capped exponential delays.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// Delay returns the wait before retry number attempt (1-based).
// Non-positive attempts return zero.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 || b.Initial <= 0 {
		return 0
	}
	mult := b.Multiplier
	if mult < 1 {
		mult = 2
	}
	d := float64(b.Initial) * math.Pow(mult, float64(attempt-1))
	if b.Max > 0 && d > float64(b.Max) {
		return b.Max
	}
	if d > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Hinter is implemented by errors that carry a minimum wait before the next
// attempt, such as an upstream Retry-After header.
type Hinter interface {
	RetryAfter() time.Duration
}

// Policy bounds a retry loop. A positive Deadline caps the time from the
// first attempt; a retry whose wait would cross it is not started.
type Policy struct {
	MaxAttempts int
	Backoff     Backoff
	Deadline    time.Duration
}

// ErrDeadline is joined to the last error when Policy.Deadline stops a loop.
var ErrDeadline = errors.New("retry deadline exceeded")

// Retrier runs operations under a Policy.
type Retrier struct {
	policy Policy
	clock  Clock
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithClock sets the clock used to sleep between attempts.
func WithClock(c Clock) Option {
	return func(r *Retrier) {
		r.clock = c
	}
}

// New creates a Retrier. MaxAttempts below 1 is treated as 1.
func New(p Policy, opts ...Option) *Retrier {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	r := &Retrier{policy: p, clock: RealClock()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxAttempts returns the attempt budget.
func (r *Retrier) MaxAttempts() int {
	return r.policy.MaxAttempts
}

// Do calls op until it succeeds, returns an error retryable rejects, or the
// attempt budget or deadline is spent. It returns the number of attempts made
// and the last error. Context cancellation while waiting ends the loop with the
// last operation error joined with ctx.Err().
func (r *Retrier) Do(
	ctx context.Context,
	op func(ctx context.Context) error,
	retryable func(error) bool,
) (int, error) {
	var err error
	start := r.clock.Now()
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return attempt, nil
		}
		if attempt == r.policy.MaxAttempts || !retryable(err) {
			return attempt, err
		}

		wait := r.policy.Backoff.Delay(attempt)
		var h Hinter
		if errors.As(err, &h) && h.RetryAfter() > wait {
			wait = h.RetryAfter()
		}
		if r.policy.Deadline > 0 && r.clock.Now().Sub(start)+wait > r.policy.Deadline {
			return attempt, errors.Join(err, ErrDeadline)
		}
		if serr := r.clock.Sleep(ctx, wait); serr != nil {
			return attempt, errors.Join(err, serr)
		}
	}
	return r.policy.MaxAttempts, err
}
