package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

type hintErr struct{ after time.Duration }

func (e hintErr) Error() string { return "slow down" }
func (e hintErr) RetryAfter() time.Duration { return e.after }

func always(error) bool { return true }

func TestBackoff_Delay(t *testing.T) {
	t.Parallel()

	b := Backoff{Initial: time.Second, Max: 10 * time.Second, Multiplier: 2}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{60, 10 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Delay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestBackoff_DefaultMultiplier(t *testing.T) {
	t.Parallel()

	b := Backoff{Initial: 100 * time.Millisecond}
	assert.Equal(t, 400*time.Millisecond, b.Delay(3))
}

func TestRetrier_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Unix(0, 0))
	r := New(Policy{
		MaxAttempts: 5,
		Backoff:     Backoff{Initial: time.Second, Max: 3 * time.Second, Multiplier: 2},
	}, WithClock(clock))

	calls := 0
	attempts, err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 4 {
			return errFlaky
		}
		return nil
	}, always)

	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, clock.Sleeps())
}

func TestRetrier_StopsAtMaxAttempts(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Unix(0, 0))
	r := New(Policy{MaxAttempts: 3, Backoff: Backoff{Initial: time.Millisecond}}, WithClock(clock))

	calls := 0
	attempts, err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return errFlaky
	}, always)

	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
	assert.Len(t, clock.Sleeps(), 2)
}

func TestRetrier_NonRetryableReturnsImmediately(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Unix(0, 0))
	r := New(Policy{MaxAttempts: 5}, WithClock(clock))

	attempts, err := r.Do(context.Background(), func(context.Context) error {
		return errFlaky
	}, func(error) bool { return false })

	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, clock.Sleeps())
}

func TestRetrier_RetryAfterHintIsAFloor(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Unix(0, 0))
	r := New(Policy{MaxAttempts: 2, Backoff: Backoff{Initial: time.Second}}, WithClock(clock))

	calls := 0
	_, err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return hintErr{after: 30 * time.Second}
		}
		return nil
	}, always)

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{30 * time.Second}, clock.Sleeps())
}

func TestRetrier_DeadlineStopsRetries(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Unix(0, 0))
	r := New(Policy{
		MaxAttempts: 10,
		Backoff:     Backoff{Initial: time.Second, Multiplier: 2},
		Deadline:    5 * time.Second,
	}, WithClock(clock))

	attempts, err := r.Do(context.Background(), func(context.Context) error {
		return errFlaky
	}, always)

	require.ErrorIs(t, err, errFlaky)
	require.ErrorIs(t, err, ErrDeadline)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, clock.Sleeps())
}

func TestRetrier_DeadlineCountsOperationTime(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Unix(0, 0))
	r := New(Policy{
		MaxAttempts: 5,
		Backoff:     Backoff{Initial: time.Second},
		Deadline:    10 * time.Second,
	}, WithClock(clock))

	attempts, err := r.Do(context.Background(), func(context.Context) error {
		clock.Advance(6 * time.Second)
		return errFlaky
	}, always)

	require.ErrorIs(t, err, ErrDeadline)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []time.Duration{time.Second}, clock.Sleeps())
}

func TestRetrier_ZeroDeadlineIsUnbounded(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Unix(0, 0))
	r := New(Policy{MaxAttempts: 4, Backoff: Backoff{Initial: time.Hour}}, WithClock(clock))

	attempts, err := r.Do(context.Background(), func(context.Context) error {
		return errFlaky
	}, always)

	require.ErrorIs(t, err, errFlaky)
	require.NotErrorIs(t, err, ErrDeadline)
	assert.Equal(t, 4, attempts)
}

func TestRetrier_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	r := New(Policy{MaxAttempts: 5, Backoff: Backoff{Initial: time.Second}},
		WithClock(NewFakeClock(time.Unix(0, 0))))

	attempts, err := r.Do(ctx, func(context.Context) error {
		cancel()
		return errFlaky
	}, always)

	require.ErrorIs(t, err, errFlaky)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestNew_ClampsAttempts(t *testing.T) {
	t.Parallel()

	r := New(Policy{})
	assert.Equal(t, 1, r.MaxAttempts())
}

func TestRealClock_SleepHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RealClock().Sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}
