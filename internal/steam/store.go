package steam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/sale-tracker/internal/metrics"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

const (
	defaultStoreURL     = "https://store.steampowered.com"
	defaultCommunityURL = "https://steamcommunity.com"
	defaultCountryCode  = "US"
	defaultTimeout      = 10 * time.Second

	appDetailsFilters = "basic,price_overview,release_date"
)

// StoreClient implements Catalog using the public Steam storefront API.
type StoreClient struct {
	storeURL     string
	communityURL string
	countryCode  string
	timeout      time.Duration
	client       *http.Client
	rateLimiter  *RateLimiter
	nowFunc      func() time.Time
}

// StoreOption configures the StoreClient.
type StoreOption func(*StoreClient)

// WithStoreURL overrides the storefront base URL.
func WithStoreURL(u string) StoreOption {
	return func(c *StoreClient) {
		c.storeURL = strings.TrimRight(u, "/")
	}
}

// WithCommunityURL overrides the community base URL used for search.
func WithCommunityURL(u string) StoreOption {
	return func(c *StoreClient) {
		c.communityURL = strings.TrimRight(u, "/")
	}
}

// WithCountryCode sets the storefront region used for pricing.
func WithCountryCode(cc string) StoreOption {
	return func(c *StoreClient) {
		c.countryCode = cc
	}
}

// WithRequestTimeout bounds every upstream call.
func WithRequestTimeout(d time.Duration) StoreOption {
	return func(c *StoreClient) {
		c.timeout = d
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) StoreOption {
	return func(c *StoreClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter. When set, every call goes through
// Wait() first and an exhausted window is reported as RateLimited.
func WithRateLimiter(r *RateLimiter) StoreOption {
	return func(c *StoreClient) {
		c.rateLimiter = r
	}
}

// WithNowFunc overrides the clock used to stamp snapshots.
func WithNowFunc(f func() time.Time) StoreOption {
	return func(c *StoreClient) {
		c.nowFunc = f
	}
}

// NewStoreClient creates a new Steam storefront client.
func NewStoreClient(opts ...StoreOption) *StoreClient {
	c := &StoreClient{
		storeURL:     defaultStoreURL,
		communityURL: defaultCommunityURL,
		countryCode:  defaultCountryCode,
		timeout:      defaultTimeout,
		client:       &http.Client{},
		nowFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CountryCode returns the storefront region this client prices in.
func (c *StoreClient) CountryCode() string {
	return c.countryCode
}

// Fetch implements Catalog.Fetch using the appdetails endpoint.
func (c *StoreClient) Fetch(ctx context.Context, id domain.ProductID) (*App, error) {
	if _, err := strconv.ParseUint(string(id), 10, 64); err != nil {
		return nil, c.count(fetchErr(NotFound, id, fmt.Errorf("invalid app id %q", id)))
	}

	params := url.Values{}
	params.Set("appids", string(id))
	params.Set("cc", c.countryCode)
	params.Set("filters", appDetailsFilters)

	body, err := c.get(ctx, id, c.storeURL+"/api/appdetails?"+params.Encode())
	if err != nil {
		return nil, err
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, c.count(fetchErr(NotFound, id, errors.New("empty appdetails response")))
	}

	var resp map[string]appDetailsEnvelope
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, c.count(fetchErr(Malformed, id, fmt.Errorf("parsing appdetails response: %w", err)))
	}

	env, ok := resp[string(id)]
	if !ok || env.Success == nil {
		return nil, c.count(fetchErr(Malformed, id, errors.New("appdetails response missing app entry")))
	}
	if !*env.Success {
		return nil, c.count(fetchErr(NotFound, id, errors.New("appdetails reported success=false")))
	}

	var data appData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, c.count(fetchErr(Malformed, id, fmt.Errorf("parsing app data: %w", err)))
	}

	return c.normalize(id, &data), nil
}

func (c *StoreClient) normalize(id domain.ProductID, data *appData) *App {
	snap := domain.Snapshot{
		Released:   data.ReleaseDate == nil || !data.ReleaseDate.ComingSoon,
		ObservedAt: c.nowFunc().UTC(),
	}
	if po := data.PriceOverview; po != nil && !data.IsFree {
		snap.Price = po.Final
		snap.InitialPrice = po.Initial
		snap.DiscountPercent = po.DiscountPercent
		snap.OnSale = po.DiscountPercent > 0
		snap.Currency = po.Currency
	}
	return &App{
		ID:       id,
		Name:     data.Name,
		IsFree:   data.IsFree,
		Snapshot: snap,
	}
}

// Search implements Catalog.Search using the community SearchApps endpoint.
func (c *StoreClient) Search(ctx context.Context, name string) ([]SearchResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	body, err := c.get(ctx, "", c.communityURL+"/actions/SearchApps/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}

	var entries []searchAppsEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, c.count(fetchErr(Malformed, "", fmt.Errorf("parsing search response: %w", err)))
	}

	results := make([]SearchResult, 0, len(entries))
	for _, e := range entries {
		if e.AppID == "" {
			continue
		}
		results = append(results, SearchResult{ID: domain.ProductID(e.AppID.String()), Name: e.Name})
	}
	return results, nil
}

// get performs one rate-limited, time-bounded GET and classifies failures.
func (c *StoreClient) get(ctx context.Context, id domain.ProductID, u string) ([]byte, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrWindowLimitReached) {
				metrics.SteamWindowLimitHits.Inc()
				fe := fetchErr(RateLimited, id, err)
				fe.Wait = c.rateLimiter.UntilReset()
				return nil, c.count(fe)
			}
			return nil, c.count(fetchErr(Transient, id, err))
		}
		metrics.SteamWindowUsage.Set(float64(c.rateLimiter.Count()))
	}
	metrics.SteamAPICallsTotal.Inc()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, c.count(fetchErr(Malformed, id, fmt.Errorf("creating HTTP request: %w", err)))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.count(fetchErr(Transient, id, fmt.Errorf("executing request: %w", err)))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.count(fetchErr(Transient, id, fmt.Errorf("reading response body: %w", err)))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusForbidden:
		fe := fetchErr(RateLimited, id, fmt.Errorf("steam API error (status %d)", resp.StatusCode))
		fe.Wait = parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, c.count(fe)
	case resp.StatusCode == http.StatusNotFound:
		return nil, c.count(fetchErr(NotFound, id, fmt.Errorf("steam API error (status %d)", resp.StatusCode)))
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, c.count(fetchErr(Transient, id, fmt.Errorf("steam API error (status %d)", resp.StatusCode)))
	default:
		return nil, c.count(fetchErr(Malformed, id, fmt.Errorf(
			"steam API error (status %d): %s", resp.StatusCode, truncate(body, 200),
		)))
	}
}

func (c *StoreClient) count(fe *FetchError) *FetchError {
	metrics.SteamFetchErrorsTotal.WithLabelValues(fe.Kind.String()).Inc()
	return fe
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ Catalog = (*StoreClient)(nil)
