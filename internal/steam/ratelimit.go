package steam

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrWindowLimitReached is returned when the call budget for the current
// window has been exhausted.
var ErrWindowLimitReached = errors.New("steam API window limit reached")

// RateLimiter controls API call rate and windowed usage limits.
// It uses a token bucket for per-second rate limiting and a fixed-length
// window for the call budget, which Steam enforces per IP.
type RateLimiter struct {
	limiter     *rate.Limiter
	count       atomic.Int64
	maxCalls    int64
	window      time.Duration
	windowStart time.Time
	resetAt     time.Time
	mu          sync.Mutex
	nowFunc     func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a rate limiter with the given per-second rate,
// burst size, window length and per-window call budget.
func NewRateLimiter(
	perSecond float64,
	burst int,
	window time.Duration,
	maxCalls int64,
	opts ...RateLimiterOption,
) *RateLimiter {
	r := &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		maxCalls: maxCalls,
		window:   window,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	now := r.nowFunc()
	r.windowStart = now
	r.resetAt = now.Add(window)
	return r
}

// Wait blocks until the rate limiter allows the call, or the context is canceled.
// Returns ErrWindowLimitReached if the window budget has been exhausted.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.checkWindowReset()

	if r.count.Load() >= r.maxCalls {
		return fmt.Errorf("%w (%d/%d)", ErrWindowLimitReached, r.count.Load(), r.maxCalls)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.count.Add(1)
	return nil
}

// Count returns the number of calls made in the current window.
func (r *RateLimiter) Count() int64 {
	return r.count.Load()
}

// Limit returns the configured per-window call budget.
func (r *RateLimiter) Limit() int64 {
	return r.maxCalls
}

// Remaining returns the number of calls left in the current window.
func (r *RateLimiter) Remaining() int64 {
	remaining := r.maxCalls - r.count.Load()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetAt returns the time when the current window expires.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}

// UntilReset returns how long until the current window expires.
func (r *RateLimiter) UntilReset() time.Duration {
	d := r.ResetAt().Sub(r.nowFunc())
	if d < 0 {
		return 0
	}
	return d
}

func (r *RateLimiter) checkWindowReset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.count.Store(0)
		r.windowStart = now
		r.resetAt = now.Add(r.window)
	}
}
