package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/sale-tracker/internal/store"
	storeMocks "github.com/donaldgifford/sale-tracker/internal/store/mocks"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type forgetRecorder struct {
	mu      sync.Mutex
	removed []domain.ProductID
}

func (f *forgetRecorder) Remove(id domain.ProductID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
}

var (
	alpha = domain.Destination{GroupID: "g1", ChannelID: "c1"}
	beta  = domain.Destination{GroupID: "g2", ChannelID: "c9"}
)

func product(id, name string) domain.TrackedProduct {
	return domain.TrackedProduct{ID: domain.ProductID(id), Name: name, Region: "US"}
}

func newRegistry(t *testing.T) (*Registry, *storeMocks.MockStore, *forgetRecorder) {
	t.Helper()
	ms := storeMocks.NewMockStore(t)
	fr := &forgetRecorder{}
	return New(ms, fr, WithLogger(quietLogger())), ms, fr
}

func TestRegistry_SubscribeUnsubscribeRoundTrip(t *testing.T) {
	t.Parallel()

	r, ms, fr := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Once()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(true, nil).Once()

	created, err := r.Subscribe(ctx, product("440", "Team Fortress 2"), domain.Subscription{Destination: alpha})
	require.NoError(t, err)
	assert.True(t, created)

	subs := r.DestinationsFor("440")
	require.Len(t, subs, 1)
	assert.Equal(t, alpha, subs[0].Destination)
	assert.Equal(t, domain.ProductID("440"), subs[0].ProductID)

	ms.EXPECT().DeleteSubscription(mock.Anything, domain.ProductID("440"), alpha).Return(true, nil).Once()
	ms.EXPECT().DeleteProduct(mock.Anything, domain.ProductID("440")).Return(nil).Once()

	removed, err := r.Unsubscribe(ctx, "440", alpha)
	require.NoError(t, err)
	assert.True(t, removed)

	assert.Empty(t, r.DestinationsFor("440"))
	assert.Empty(t, r.Products())
	_, ok := r.Product("440")
	assert.False(t, ok)
	assert.Equal(t, []domain.ProductID{"440"}, fr.removed)
}

func TestRegistry_SubscribeTwiceUpdatesThreshold(t *testing.T) {
	t.Parallel()

	r, ms, _ := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Once()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(true, nil).Once()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(false, nil).Once()

	_, err := r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: alpha})
	require.NoError(t, err)
	created, err := r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: alpha, MinDiscount: 50})
	require.NoError(t, err)
	assert.False(t, created)

	subs := r.DestinationsFor("440")
	require.Len(t, subs, 1)
	assert.Equal(t, 50, subs[0].MinDiscount)
}

func TestRegistry_UnsubscribeKeepsProductWithOtherDestinations(t *testing.T) {
	t.Parallel()

	r, ms, fr := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Once()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(true, nil).Twice()
	ms.EXPECT().DeleteSubscription(mock.Anything, domain.ProductID("440"), alpha).Return(true, nil).Once()

	_, err := r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: alpha})
	require.NoError(t, err)
	_, err = r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: beta})
	require.NoError(t, err)

	removed, err := r.Unsubscribe(ctx, "440", alpha)
	require.NoError(t, err)
	assert.True(t, removed)

	subs := r.DestinationsFor("440")
	require.Len(t, subs, 1)
	assert.Equal(t, beta, subs[0].Destination)
	assert.Empty(t, fr.removed)
}

func TestRegistry_UnsubscribeUnknown(t *testing.T) {
	t.Parallel()

	r, ms, _ := newRegistry(t)
	ms.EXPECT().DeleteSubscription(mock.Anything, domain.ProductID("999"), alpha).Return(false, nil).Once()

	removed, err := r.Unsubscribe(context.Background(), "999", alpha)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRegistry_PinDefersCleanup(t *testing.T) {
	t.Parallel()

	r, ms, fr := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Once()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(true, nil).Once()
	ms.EXPECT().DeleteSubscription(mock.Anything, domain.ProductID("440"), alpha).Return(true, nil).Once()

	_, err := r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: alpha})
	require.NoError(t, err)

	require.True(t, r.Pin("440"))

	_, err = r.Unsubscribe(ctx, "440", alpha)
	require.NoError(t, err)

	_, ok := r.Product("440")
	assert.True(t, ok, "product survives while pinned")
	assert.Empty(t, r.DestinationsFor("440"))
	assert.Empty(t, fr.removed)

	ms.EXPECT().DeleteProduct(mock.Anything, domain.ProductID("440")).Return(nil).Once()
	require.NoError(t, r.Unpin(ctx, "440"))

	_, ok = r.Product("440")
	assert.False(t, ok)
	assert.Equal(t, []domain.ProductID{"440"}, fr.removed)
}

func TestRegistry_ResubscribeWhilePinnedCancelsCleanup(t *testing.T) {
	t.Parallel()

	r, ms, fr := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Once()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(true, nil).Twice()
	ms.EXPECT().DeleteSubscription(mock.Anything, domain.ProductID("440"), alpha).Return(true, nil).Once()

	_, err := r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: alpha})
	require.NoError(t, err)
	require.True(t, r.Pin("440"))
	_, err = r.Unsubscribe(ctx, "440", alpha)
	require.NoError(t, err)
	_, err = r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: beta})
	require.NoError(t, err)

	require.NoError(t, r.Unpin(ctx, "440"))

	_, ok := r.Product("440")
	assert.True(t, ok)
	assert.Empty(t, fr.removed)
}

func TestRegistry_PinUnknownProduct(t *testing.T) {
	t.Parallel()

	r, _, _ := newRegistry(t)
	assert.False(t, r.Pin("440"))
	require.NoError(t, r.Unpin(context.Background(), "440"))
}

func TestRegistry_ClearGroup(t *testing.T) {
	t.Parallel()

	r, ms, fr := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Twice()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(true, nil).Times(3)

	_, err := r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: alpha})
	require.NoError(t, err)
	_, err = r.Subscribe(ctx, product("620", "Portal 2"), domain.Subscription{Destination: alpha})
	require.NoError(t, err)
	_, err = r.Subscribe(ctx, product("620", "Portal 2"), domain.Subscription{Destination: beta})
	require.NoError(t, err)

	ms.EXPECT().DeleteGroupSubscriptions(mock.Anything, "g1").Return(int64(2), nil).Once()
	ms.EXPECT().DeleteProduct(mock.Anything, domain.ProductID("440")).Return(nil).Once()

	n, err := r.ClearGroup(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	products := r.Products()
	require.Len(t, products, 1)
	assert.Equal(t, domain.ProductID("620"), products[0].ID)
	assert.Empty(t, r.ListForDestination(alpha))
	assert.Equal(t, []domain.ProductID{"440"}, fr.removed)
}

func TestRegistry_ListForDestinationSortedByName(t *testing.T) {
	t.Parallel()

	r, ms, _ := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Times(3)
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(true, nil).Times(3)

	for _, p := range []domain.TrackedProduct{
		product("620", "portal 2"),
		product("440", "Team Fortress 2"),
		product("570", "Dota 2"),
	} {
		_, err := r.Subscribe(ctx, p, domain.Subscription{Destination: alpha})
		require.NoError(t, err)
	}

	got := r.ListForDestination(alpha)
	require.Len(t, got, 3)
	assert.Equal(t, "Dota 2", got[0].Name)
	assert.Equal(t, "portal 2", got[1].Name)
	assert.Equal(t, "Team Fortress 2", got[2].Name)

	assert.Empty(t, r.ListForDestination(beta))
	assert.Len(t, r.SubscriptionsFor(alpha), 3)
}

func TestRegistry_SubscribeDurableFailure(t *testing.T) {
	t.Parallel()

	r, ms, _ := newRegistry(t)
	unavailable := &store.Error{Kind: store.Unavailable, Op: "creating subscription", Err: errors.New("down")}

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Once()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(false, unavailable).Once()
	ms.EXPECT().DeleteProduct(mock.Anything, domain.ProductID("440")).Return(nil).Once()

	_, err := r.Subscribe(context.Background(), product("440", "TF2"), domain.Subscription{Destination: alpha})
	require.ErrorIs(t, err, store.ErrUnavailable)
	assert.Empty(t, r.DestinationsFor("440"))
	assert.Empty(t, r.Products(), "a product without subscribers is not tracked")
	assert.False(t, r.Pin("440"))
}

func TestRegistry_SubscribeFailureKeepsExistingProduct(t *testing.T) {
	t.Parallel()

	r, ms, _ := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Once()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(true, nil).Once()
	_, err := r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: alpha})
	require.NoError(t, err)

	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(false, errors.New("db down")).Once()
	_, err = r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: beta})
	require.Error(t, err)

	require.Len(t, r.Products(), 1)
	subs := r.DestinationsFor("440")
	require.Len(t, subs, 1)
	assert.Equal(t, alpha, subs[0].Destination)
}

func TestRegistry_RemoveProduct(t *testing.T) {
	t.Parallel()

	r, ms, fr := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Once()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(true, nil).Twice()
	ms.EXPECT().DeleteProduct(mock.Anything, domain.ProductID("440")).Return(nil).Once()

	_, err := r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: alpha})
	require.NoError(t, err)
	_, err = r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: beta})
	require.NoError(t, err)

	require.True(t, r.Pin("440"))
	require.NoError(t, r.RemoveProduct(ctx, "440"))

	assert.Empty(t, r.Products())
	assert.Empty(t, r.DestinationsFor("440"))
	assert.Equal(t, []domain.ProductID{"440"}, fr.removed)
	require.NoError(t, r.Unpin(ctx, "440"))
}

func TestRegistry_Load(t *testing.T) {
	t.Parallel()

	r, ms, fr := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().ListProducts(mock.Anything).Return([]domain.TrackedProduct{
		product("440", "TF2"),
		product("620", "Portal 2"),
	}, nil).Once()
	ms.EXPECT().ListSubscriptions(mock.Anything).Return([]domain.Subscription{
		{ProductID: "440", Destination: alpha, MinDiscount: 25},
		{ProductID: "440", Destination: beta},
	}, nil).Once()
	ms.EXPECT().ListGroupThresholds(mock.Anything).Return(map[string]int{"g2": 40}, nil).Once()
	ms.EXPECT().DeleteProduct(mock.Anything, domain.ProductID("620")).Return(nil).Once()

	require.NoError(t, r.Load(ctx))
	assert.Equal(t, 40, r.GroupThreshold("g2"))

	products := r.Products()
	require.Len(t, products, 1)
	assert.Equal(t, domain.ProductID("440"), products[0].ID)
	assert.Len(t, r.DestinationsFor("440"), 2)
	assert.Equal(t, []domain.ProductID{"620"}, fr.removed)
}

func TestRegistry_LoadError(t *testing.T) {
	t.Parallel()

	r, ms, _ := newRegistry(t)
	ms.EXPECT().ListProducts(mock.Anything).Return(nil, errors.New("boom")).Once()

	err := r.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading products")
}

func TestRegistry_GroupThreshold(t *testing.T) {
	t.Parallel()

	r, ms, _ := newRegistry(t)
	ctx := context.Background()

	ms.EXPECT().UpsertProduct(mock.Anything, mock.Anything).Return(nil).Once()
	ms.EXPECT().CreateSubscription(mock.Anything, mock.Anything).Return(true, nil).Twice()
	ms.EXPECT().SetGroupThreshold(mock.Anything, "g1", 60).Return(nil).Once()

	_, err := r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: alpha})
	require.NoError(t, err)
	_, err = r.Subscribe(ctx, product("440", "TF2"), domain.Subscription{Destination: beta, MinDiscount: 30})
	require.NoError(t, err)

	assert.Equal(t, 0, r.GroupThreshold("g1"))
	require.NoError(t, r.SetGroupThreshold(ctx, "g1", 60))
	assert.Equal(t, 60, r.GroupThreshold("g1"))

	got := make(map[string]int)
	for _, s := range r.Recipients("440") {
		got[s.Destination.Key()] = s.MinDiscount
	}
	assert.Equal(t, map[string]int{alpha.Key(): 60, beta.Key(): 30}, got, "own threshold overrides the group's")

	for _, s := range r.DestinationsFor("440") {
		if s.Destination == alpha {
			assert.Equal(t, 0, s.MinDiscount, "stored subscription is unchanged")
		}
	}
}

func TestRegistry_SetGroupThresholdDurableFailure(t *testing.T) {
	t.Parallel()

	r, ms, _ := newRegistry(t)
	ms.EXPECT().SetGroupThreshold(mock.Anything, "g1", 50).Return(errors.New("db down")).Once()

	require.Error(t, r.SetGroupThreshold(context.Background(), "g1", 50))
	assert.Equal(t, 0, r.GroupThreshold("g1"))
}
