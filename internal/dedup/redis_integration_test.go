//go:build integration

package dedup_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/donaldgifford/sale-tracker/internal/dedup"
)

func setupRedis(t *testing.T) *dedup.RedisLedger {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := dedup.NewRedisClient(ctx, endpoint, "", 0)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return dedup.NewRedisLedger(client, "sst-test:", time.Minute)
}

func TestRedisLedger_SharedClaims(t *testing.T) {
	l := setupRedis(t)
	ctx := context.Background()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Claim(ctx, "440|g1/c1|sale_started|1")
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	ok, err := l.Claim(ctx, "440|g1/c1|price_dropped|1")
	require.NoError(t, err)
	assert.True(t, ok)
}
