package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/sale-tracker/internal/store"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

func setupSQLite(t *testing.T) *store.SQLiteStore {
	t.Helper()
	ctx := context.Background()

	s, err := store.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(ctx))
	return s
}

func testProduct(id string) *domain.TrackedProduct {
	return &domain.TrackedProduct{
		ID:     domain.ProductID(id),
		Name:   "Product " + id,
		Region: "US",
	}
}

func testSub(id, group, channel string) *domain.Subscription {
	return &domain.Subscription{
		ProductID:   domain.ProductID(id),
		Destination: domain.Destination{GroupID: group, ChannelID: channel},
	}
}

func TestSQLiteStore_MigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	s := setupSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Ping(context.Background()))
}

func TestSQLiteStore_Products(t *testing.T) {
	t.Parallel()

	s := setupSQLite(t)
	ctx := context.Background()

	p := testProduct("440")
	require.NoError(t, s.UpsertProduct(ctx, p))
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.GetProduct(ctx, "440")
	require.NoError(t, err)
	assert.Equal(t, "Product 440", got.Name)
	assert.Nil(t, got.LastSnapshot)

	t.Run("upsert with empty name keeps the existing name", func(t *testing.T) {
		require.NoError(t, s.UpsertProduct(ctx, &domain.TrackedProduct{ID: "440", Region: "DE", TrackRelease: true}))
		got, err := s.GetProduct(ctx, "440")
		require.NoError(t, err)
		assert.Equal(t, "Product 440", got.Name)
		assert.Equal(t, "DE", got.Region)
		assert.True(t, got.TrackRelease)
	})

	t.Run("snapshot round trip", func(t *testing.T) {
		snap := domain.Snapshot{
			Price: 499, InitialPrice: 1999, DiscountPercent: 75, OnSale: true, Released: true,
			Currency: "USD", ObservedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		}
		require.NoError(t, s.UpdateSnapshot(ctx, "440", snap))

		products, err := s.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 1)
		require.NotNil(t, products[0].LastSnapshot)
		assert.Equal(t, snap, *products[0].LastSnapshot)
	})

	t.Run("snapshot for unknown product is not found", func(t *testing.T) {
		err := s.UpdateSnapshot(ctx, "missing", domain.Snapshot{})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("get unknown product is not found", func(t *testing.T) {
		_, err := s.GetProduct(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSQLiteStore_Subscriptions(t *testing.T) {
	t.Parallel()

	s := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertProduct(ctx, testProduct("440")))
	require.NoError(t, s.UpsertProduct(ctx, testProduct("620")))

	created, err := s.CreateSubscription(ctx, testSub("440", "g1", "c1"))
	require.NoError(t, err)
	assert.True(t, created)

	again := testSub("440", "g1", "c1")
	again.MinDiscount = 50
	created, err = s.CreateSubscription(ctx, again)
	require.NoError(t, err)
	assert.False(t, created, "second subscribe is idempotent")

	_, err = s.CreateSubscription(ctx, testSub("620", "g1", "c2"))
	require.NoError(t, err)
	_, err = s.CreateSubscription(ctx, testSub("620", "g2", "c9"))
	require.NoError(t, err)

	subs, err := s.ListSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, 50, subs[0].MinDiscount)

	t.Run("subscription to unknown product conflicts", func(t *testing.T) {
		_, err := s.CreateSubscription(ctx, testSub("missing", "g1", "c1"))
		require.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("delete subscription", func(t *testing.T) {
		removed, err := s.DeleteSubscription(ctx, "440", domain.Destination{GroupID: "g1", ChannelID: "c1"})
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.DeleteSubscription(ctx, "440", domain.Destination{GroupID: "g1", ChannelID: "c1"})
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("delete group", func(t *testing.T) {
		n, err := s.DeleteGroupSubscriptions(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		subs, err := s.ListSubscriptions(ctx)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "g2", subs[0].Destination.GroupID)
	})

	t.Run("delete product cascades", func(t *testing.T) {
		require.NoError(t, s.DeleteProduct(ctx, "620"))
		subs, err := s.ListSubscriptions(ctx)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})
}

func TestSQLiteStore_DeliveryFailures(t *testing.T) {
	t.Parallel()

	s := setupSQLite(t)
	ctx := context.Background()

	for i := range 3 {
		f := &domain.DeliveryFailure{
			ProductID:   "440",
			Destination: domain.Destination{GroupID: "g1", ChannelID: "c1"},
			Kinds:       []domain.EventKind{domain.EventSaleStarted, domain.EventPriceDropped},
			Attempts:    i + 1,
			Error:       "discord unreachable",
		}
		require.NoError(t, s.InsertDeliveryFailure(ctx, f))
		assert.Positive(t, f.ID)
	}

	failures, err := s.ListDeliveryFailures(ctx, 2)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, 3, failures[0].Attempts, "newest first")
	assert.Equal(t, []domain.EventKind{domain.EventSaleStarted, domain.EventPriceDropped}, failures[0].Kinds)
	assert.False(t, failures[0].FailedAt.IsZero())
}

func TestSQLiteStore_GroupThresholds(t *testing.T) {
	t.Parallel()

	s := setupSQLite(t)
	ctx := context.Background()

	thresholds, err := s.ListGroupThresholds(ctx)
	require.NoError(t, err)
	assert.Empty(t, thresholds)

	require.NoError(t, s.SetGroupThreshold(ctx, "g1", 40))
	require.NoError(t, s.SetGroupThreshold(ctx, "g2", 75))
	require.NoError(t, s.SetGroupThreshold(ctx, "g1", 60))

	thresholds, err = s.ListGroupThresholds(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"g1": 60, "g2": 75}, thresholds)
}
