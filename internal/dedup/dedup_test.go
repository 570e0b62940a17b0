package dedup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

func TestKey(t *testing.T) {
	t.Parallel()

	at := time.Unix(1700000000, 0)
	prev := domain.Snapshot{Price: 1999, InitialPrice: 1999, Released: true, Currency: "USD", ObservedAt: at.Add(-time.Hour)}
	next := domain.Snapshot{Price: 999, InitialPrice: 1999, DiscountPercent: 50, OnSale: true, Released: true, Currency: "USD", ObservedAt: at}
	started := domain.Event{Kind: domain.EventSaleStarted, ProductID: "440", Prev: &prev, Next: next}
	dropped := domain.Event{Kind: domain.EventPriceDropped, ProductID: "440", Prev: &prev, Next: next}
	dest := domain.Destination{GroupID: "g1", ChannelID: "c1"}

	both := Key("440", dest, []domain.Event{started, dropped})
	assert.Equal(t, "440|g1/c1|1999:1999:0:false:true:USD>999:1999:50:true:true:USD|sale_started,price_dropped", both)
	assert.NotEqual(t, both, Key("440", dest, []domain.Event{dropped}))
	assert.NotEqual(t, both, Key("440", domain.Destination{GroupID: "g1", ChannelID: "c2"}, []domain.Event{started, dropped}))

	deeper := started
	deeper.Next.Price = 499
	deeper.Next.DiscountPercent = 75
	assert.NotEqual(t, Key("440", dest, []domain.Event{started}), Key("440", dest, []domain.Event{deeper}))

	released := domain.Event{Kind: domain.EventReleased, ProductID: "620", Next: next}
	assert.Equal(t, "620|g1/c1|->999:1999:50:true:true:USD|released", Key("620", dest, []domain.Event{released}))
}

func TestKey_IgnoresObservationTime(t *testing.T) {
	t.Parallel()

	at := time.Unix(1700000000, 0)
	prev := domain.Snapshot{Price: 1999, InitialPrice: 1999, Released: true, Currency: "USD", ObservedAt: at.Add(-time.Hour)}
	next := domain.Snapshot{Price: 999, InitialPrice: 1999, DiscountPercent: 50, OnSale: true, Released: true, Currency: "USD", ObservedAt: at}
	dest := domain.Destination{GroupID: "g1", ChannelID: "c1"}

	// Two replicas fetch the same change a few seconds apart.
	replicaA := []domain.Event{{Kind: domain.EventSaleStarted, ProductID: "440", Prev: &prev, Next: next}}
	otherPrev := prev
	otherPrev.ObservedAt = at.Add(-50 * time.Minute)
	otherNext := next
	otherNext.ObservedAt = at.Add(7 * time.Second)
	replicaB := []domain.Event{{Kind: domain.EventSaleStarted, ProductID: "440", Prev: &otherPrev, Next: otherNext}}

	l := NewMemoryLedger(time.Hour)
	ctx := context.Background()

	ok, err := l.Claim(ctx, Key("440", dest, replicaA))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Claim(ctx, Key("440", dest, replicaB))
	require.NoError(t, err)
	assert.False(t, ok, "the same transition is claimed once")
}

func TestMemoryLedger_ClaimOnce(t *testing.T) {
	t.Parallel()

	l := NewMemoryLedger(time.Hour)
	ctx := context.Background()

	ok, err := l.Claim(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Claim(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Claim(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestMemoryLedger_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	l := NewMemoryLedger(time.Minute, WithMemoryNowFunc(clock))
	ctx := context.Background()

	ok, _ := l.Claim(ctx, "k")
	assert.True(t, ok)

	advance(59 * time.Second)
	ok, _ = l.Claim(ctx, "k")
	assert.False(t, ok)

	advance(time.Second)
	assert.Equal(t, 0, l.Len())
	ok, _ = l.Claim(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryLedger_ConcurrentClaimsSingleWinner(t *testing.T) {
	t.Parallel()

	l := NewMemoryLedger(time.Hour)
	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Claim(context.Background(), "same"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

type fakeSetNX struct {
	mu   sync.Mutex
	keys map[string]time.Duration
	err  error
}

func (f *fakeSetNX) SetNX(ctx context.Context, key string, _ any, exp time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = exp
	return redis.NewBoolResult(true, nil)
}

func TestRedisLedger_Claim(t *testing.T) {
	t.Parallel()

	fake := &fakeSetNX{keys: make(map[string]time.Duration)}
	l := NewRedisLedger(fake, "sst:", 48*time.Hour)
	ctx := context.Background()

	ok, err := l.Claim(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 48*time.Hour, fake.keys["sst:k"])

	ok, err = l.Claim(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLedger_ClaimError(t *testing.T) {
	t.Parallel()

	fake := &fakeSetNX{keys: make(map[string]time.Duration), err: errors.New("connection refused")}
	l := NewRedisLedger(fake, "sst:", time.Hour)

	ok, err := l.Claim(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "claiming k")
}
