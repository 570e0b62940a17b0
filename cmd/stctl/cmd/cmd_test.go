package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// These tests share the global viper instance and so do not run in parallel.

func execute(t *testing.T, serverURL string, settings map[string]string, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	viper.Set("server", serverURL)
	for k, v := range settings {
		viper.Set(k, v)
	}
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func dest() map[string]string {
	return map[string]string{"group": "g1", "channel": "c1"}
}

func TestTrackAdd(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/tracking", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"product":{"id":"620","name":"Portal 2"},"min_discount":50}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, dest(), trackCmd(), "add", "620", "--min-discount", "50")
	require.NoError(t, err)
	assert.Equal(t, "Tracking Portal 2 (620), min discount 50%.\n", out)
	assert.Equal(t, "620", got["product_id"])
	assert.Equal(t, "g1", got["group_id"])
	assert.Equal(t, "c1", got["channel_id"])
	assert.InDelta(t, 50, got["min_discount"], 0)
}

func TestTrack_RequiresDestination(t *testing.T) {
	_, err := execute(t, "http://localhost:1", nil, trackCmd(), "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--group and --channel are required")
}

func TestTrackRemove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/tracking/620", r.URL.Path)
		assert.Equal(t, "g1", r.URL.Query().Get("group_id"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, dest(), trackCmd(), "remove", "620")
	require.NoError(t, err)
	assert.Equal(t, "Stopped tracking 620.\n", out)
}

func TestTrackList(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		output   string
		contains []string
	}{
		{
			name:     "empty",
			body:     `{"items":[]}`,
			contains: []string{"No tracked products."},
		},
		{
			name: "table",
			body: `{"items":[{"product":{"id":"620","name":"Portal 2","last_snapshot":{"price":199,` +
				`"initial_price":999,"discount_percent":80,"on_sale":true,"released":true,"currency":"USD"}},"min_discount":0}]}`,
			contains: []string{"ID", "MIN DISCOUNT", "Portal 2", "1.99 USD", "80%", "any", "yes"},
		},
		{
			name:     "json",
			body:     `{"items":[{"product":{"id":"620","name":"Portal 2"},"min_discount":10}]}`,
			output:   "json",
			contains: []string{`"min_discount": 10`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			settings := dest()
			if tt.output != "" {
				settings["output"] = tt.output
			}
			out, err := execute(t, srv.URL, settings, trackCmd(), "list")
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestGroupsClear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/groups/g9/tracking", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"removed":4}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, nil, groupsCmd(), "clear", "g9")
	require.NoError(t, err)
	assert.Equal(t, "Removed 4 subscription(s) from group g9.\n", out)
}

func TestGroupsThreshold(t *testing.T) {
	var put map[string]int
	pct := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/groups/g9/threshold", r.URL.Path)
		if r.Method == http.MethodPut {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&put))
			pct = put["min_discount"]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"group_id":"g9","min_discount":%d}`, pct)
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, nil, groupsCmd(), "threshold", "g9")
	require.NoError(t, err)
	assert.Equal(t, "Group g9 threshold: any\n", out)

	out, err = execute(t, srv.URL, nil, groupsCmd(), "threshold", "g9", "30")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"min_discount": 30}, put)
	assert.Equal(t, "Group g9 threshold: 30%\n", out)

	_, err = execute(t, srv.URL, nil, groupsCmd(), "threshold", "g9", "150")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 0 and 99")
}

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/check":
			_, _ = w.Write([]byte(`{"products":3,"events":1,"duration_ms":42,"outcomes":{"unchanged":2,"changed":1}}`))
		case "/api/v1/products/620/check":
			_, _ = w.Write([]byte(`{"product_id":"620","outcome":"changed","events":["sale_started"],` +
				`"report":{"product_id":"620","outcomes":[{"destination":{"group_id":"g1","channel_id":"c1"},"status":"delivered","attempts":1}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, nil, checkCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Checked 3 product(s) in 42ms, 1 event(s).")
	assert.Less(t, bytes.Index([]byte(out), []byte("changed")), bytes.Index([]byte(out), []byte("unchanged")))

	out, err = execute(t, srv.URL, nil, checkCmd(), "620")
	require.NoError(t, err)
	assert.Equal(t, "620: changed\n  event: sale_started\n  g1/c1: delivered\n", out)
}

func TestFailures(t *testing.T) {
	failedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"failures": []domain.DeliveryFailure{{
				ID:          1,
				ProductID:   "620",
				Destination: domain.Destination{GroupID: "g1", ChannelID: "c1"},
				Kinds:       []domain.EventKind{domain.EventSaleStarted, domain.EventPriceDropped},
				Attempts:    3,
				Error:       "discord 503",
				FailedAt:    failedAt,
			}},
		}))
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, nil, failuresCmd(), "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "g1/c1")
	assert.Contains(t, out, "sale_started,price_dropped")
	assert.Contains(t, out, "discord 503")
}

func TestQuota_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"boom"}`))
	}))
	defer srv.Close()

	_, err := execute(t, srv.URL, nil, quotaCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents    int64
		currency string
		want     string
	}{
		{1999, "USD", "19.99 USD"},
		{5, "EUR", "0.05 EUR"},
		{0, "", "0.00"},
		{-150, "GBP", "-1.50 GBP"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPrice(tt.cents, tt.currency))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
