package steam_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/sale-tracker/internal/steam"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestClient(url string, opts ...steam.StoreOption) *steam.StoreClient {
	base := []steam.StoreOption{
		steam.WithStoreURL(url),
		steam.WithCommunityURL(url),
		steam.WithNowFunc(func() time.Time { return fixedNow }),
	}
	return steam.NewStoreClient(append(base, opts...)...)
}

func TestStoreClient_Fetch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       domain.ProductID
		handler  http.HandlerFunc
		wantKind steam.FetchErrorKind
		check    func(t *testing.T, app *steam.App)
	}{
		{
			name: "discounted released app",
			id:   "440",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/appdetails", r.URL.Path)
				assert.Equal(t, "440", r.URL.Query().Get("appids"))
				assert.Equal(t, "US", r.URL.Query().Get("cc"))
				assert.Equal(t, "basic,price_overview,release_date", r.URL.Query().Get("filters"))
				_, _ = w.Write([]byte(`{"440":{"success":true,"data":{
					"type":"game","name":"Portal 2","steam_appid":440,"is_free":false,
					"price_overview":{"currency":"USD","initial":1999,"final":499,"discount_percent":75},
					"release_date":{"coming_soon":false,"date":"18 Apr, 2011"}}}}`))
			},
			check: func(t *testing.T, app *steam.App) {
				t.Helper()
				assert.Equal(t, "Portal 2", app.Name)
				assert.Equal(t, domain.Snapshot{
					Price:           499,
					InitialPrice:    1999,
					DiscountPercent: 75,
					OnSale:          true,
					Released:        true,
					Currency:        "USD",
					ObservedAt:      fixedNow,
				}, app.Snapshot)
			},
		},
		{
			name: "coming soon app without price",
			id:   "999",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"999":{"success":true,"data":{
					"name":"Upcoming","is_free":false,"release_date":{"coming_soon":true,"date":"Coming soon"}}}}`))
			},
			check: func(t *testing.T, app *steam.App) {
				t.Helper()
				assert.False(t, app.Snapshot.Released)
				assert.False(t, app.Snapshot.OnSale)
				assert.Zero(t, app.Snapshot.Price)
				assert.Empty(t, app.Snapshot.Currency)
			},
		},
		{
			name: "free app",
			id:   "570",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"570":{"success":true,"data":{"name":"Dota 2","is_free":true,
					"release_date":{"coming_soon":false}}}}`))
			},
			check: func(t *testing.T, app *steam.App) {
				t.Helper()
				assert.True(t, app.IsFree)
				assert.True(t, app.Snapshot.Released)
				assert.Zero(t, app.Snapshot.Price)
			},
		},
		{
			name: "success false is not found",
			id:   "1",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"1":{"success":false}}`))
			},
			wantKind: steam.NotFound,
		},
		{
			name: "null body is not found",
			id:   "2",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`null`))
			},
			wantKind: steam.NotFound,
		},
		{
			name:     "non numeric id is not found",
			id:       "abc",
			handler:  func(_ http.ResponseWriter, _ *http.Request) { t.Error("upstream must not be called") },
			wantKind: steam.NotFound,
		},
		{
			name: "429 is rate limited",
			id:   "440",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Retry-After", "120")
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantKind: steam.RateLimited,
		},
		{
			name: "403 is rate limited",
			id:   "440",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			wantKind: steam.RateLimited,
		},
		{
			name: "502 is transient",
			id:   "440",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantKind: steam.Transient,
		},
		{
			name: "invalid JSON is malformed",
			id:   "440",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			wantKind: steam.Malformed,
		},
		{
			name: "missing entry is malformed",
			id:   "440",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"441":{"success":true,"data":{}}}`))
			},
			wantKind: steam.Malformed,
		},
		{
			name: "missing success flag is malformed",
			id:   "440",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"440":{"data":{}}}`))
			},
			wantKind: steam.Malformed,
		},
		{
			name: "wrong data shape is malformed",
			id:   "440",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"440":{"success":true,"data":[]}}`))
			},
			wantKind: steam.Malformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			app, err := newTestClient(srv.URL).Fetch(context.Background(), tt.id)

			if tt.wantKind != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, steam.KindOf(err))
				assert.Nil(t, app)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, app)
			assert.Equal(t, tt.id, app.ID)
			tt.check(t, app)
		})
	}
}

func TestStoreClient_Fetch_RetryAfterParsed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "90")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), "440")

	var fe *steam.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 90*time.Second, fe.RetryAfter())
	assert.Equal(t, domain.ProductID("440"), fe.ProductID)
}

func TestStoreClient_Fetch_TimeoutIsTransient(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(srv.URL, steam.WithRequestTimeout(20*time.Millisecond))
	_, err := c.Fetch(context.Background(), "440")

	require.Error(t, err)
	assert.True(t, steam.IsTransient(err))
}

func TestStoreClient_Fetch_WindowLimitIsRateLimited(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"440":{"success":true,"data":{"name":"x"}}}`))
	}))
	defer srv.Close()

	rl := steam.NewRateLimiter(1000, 10, time.Minute, 1)
	c := newTestClient(srv.URL, steam.WithRateLimiter(rl))

	_, err := c.Fetch(context.Background(), "440")
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), "440")
	require.Error(t, err)
	assert.Equal(t, steam.RateLimited, steam.KindOf(err))
	assert.Equal(t, int32(1), calls.Load())

	var fe *steam.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Positive(t, fe.RetryAfter())
}

func TestStoreClient_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actions/SearchApps/half life", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"appid":"70","name":"Half-Life","icon":"x","logo":"y"},
			{"appid":220,"name":"Half-Life 2"}
		]`))
	}))
	defer srv.Close()

	results, err := newTestClient(srv.URL).Search(context.Background(), "half life")
	require.NoError(t, err)
	assert.Equal(t, []steam.SearchResult{
		{ID: "70", Name: "Half-Life"},
		{ID: "220", Name: "Half-Life 2"},
	}, results)
}

func TestStoreClient_Search_EmptyQuery(t *testing.T) {
	t.Parallel()

	results, err := steam.NewStoreClient().Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStoreClient_Search_Malformed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), "portal")
	require.Error(t, err)
	assert.Equal(t, steam.Malformed, steam.KindOf(err))
}

func TestFetchErrorKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "not_found", steam.NotFound.String())
	assert.Equal(t, "rate_limited", steam.RateLimited.String())
	assert.Equal(t, "transient", steam.Transient.String())
	assert.Equal(t, "malformed", steam.Malformed.String())
	assert.Equal(t, "unknown", steam.FetchErrorKind(0).String())
}
