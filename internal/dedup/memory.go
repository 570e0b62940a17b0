package dedup

import (
	"context"
	"sync"
	"time"
)

// sweepEvery is how many claims pass between expiry sweeps.
const sweepEvery = 256

// MemoryLedger is a single-process Ledger with per-key expiry.
type MemoryLedger struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	claims  map[string]time.Time
	sinceGC int
}

// MemoryOption configures a MemoryLedger.
type MemoryOption func(*MemoryLedger)

// WithMemoryNowFunc overrides the clock, for tests.
func WithMemoryNowFunc(fn func() time.Time) MemoryOption {
	return func(l *MemoryLedger) {
		l.now = fn
	}
}

// NewMemoryLedger creates a MemoryLedger that forgets claims after ttl.
func NewMemoryLedger(ttl time.Duration, opts ...MemoryOption) *MemoryLedger {
	l := &MemoryLedger{
		ttl:    ttl,
		now:    time.Now,
		claims: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Claim implements Ledger.
func (l *MemoryLedger) Claim(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sinceGC++
	if l.sinceGC >= sweepEvery {
		l.sweepLocked(now)
	}

	if exp, ok := l.claims[key]; ok && now.Before(exp) {
		return false, nil
	}
	l.claims[key] = now.Add(l.ttl)
	return true, nil
}

// Len returns the number of unexpired claims.
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(l.now())
	return len(l.claims)
}

func (l *MemoryLedger) sweepLocked(now time.Time) {
	for k, exp := range l.claims {
		if !now.Before(exp) {
			delete(l.claims, k)
		}
	}
	l.sinceGC = 0
}
