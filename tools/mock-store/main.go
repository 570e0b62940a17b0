// Package main implements a mock Steam storefront for local development.
// It serves appdetails and SearchApps responses from a JSON fixture, lets
// you change prices at runtime to simulate sales, and accepts Discord
// channel messages so notifications can be inspected without a bot token.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type priceOverview struct {
	Currency        string `json:"currency"`
	Initial         int64  `json:"initial"`
	Final           int64  `json:"final"`
	DiscountPercent int    `json:"discount_percent"`
}

type releaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

type app struct {
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	SteamAppID    int64          `json:"steam_appid"`
	IsFree        bool           `json:"is_free"`
	PriceOverview *priceOverview `json:"price_overview,omitempty"`
	ReleaseDate   *releaseDate   `json:"release_date,omitempty"`
}

type fixtureFile struct {
	Apps []app `json:"apps"`
}

// catalog is the mutable set of apps served by the mock.
type catalog struct {
	mu   sync.RWMutex
	apps map[string]app
}

func newCatalog(apps []app) *catalog {
	c := &catalog{apps: make(map[string]app, len(apps))}
	for _, a := range apps {
		c.apps[strconv.FormatInt(a.SteamAppID, 10)] = a
	}
	return c
}

func (c *catalog) get(id string) (app, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.apps[id]
	return a, ok
}

func (c *catalog) search(term string) []app {
	c.mu.RLock()
	defer c.mu.RUnlock()

	term = strings.ToLower(term)
	var out []app
	for _, a := range c.apps {
		if strings.Contains(strings.ToLower(a.Name), term) {
			out = append(out, a)
		}
	}
	return out
}

func (c *catalog) update(id string, fn func(*app)) (app, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.apps[id]
	if !ok {
		return app{}, false
	}
	fn(&a)
	c.apps[id] = a
	return a, true
}

func main() {
	port := flag.Int("port", 8090, "port to listen on")
	fixturePath := flag.String("fixture", "tools/mock-store/testdata/apps.json", "path to app fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	apps, err := loadFixture(*fixturePath)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixturePath, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "apps", len(apps))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Steam store", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, newCatalog(apps))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, c *catalog) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/appdetails", appDetailsHandler(logger, c))
	mux.HandleFunc("GET /actions/SearchApps/{term}", searchHandler(logger, c))
	mux.HandleFunc("PUT /admin/apps/{id}/price", setPriceHandler(logger, c))
	mux.HandleFunc("POST /api/v10/channels/{channel}/messages", discordHandler(logger))
	return mux
}

func loadFixture(path string) ([]app, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return f.Apps, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func appDetailsHandler(logger *slog.Logger, c *catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("appids")
		a, ok := c.get(id)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{id: map[string]bool{"success": false}})
			logger.Info("appdetails miss", "appid", id)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{id: map[string]any{"success": true, "data": a}})
		logger.Info("appdetails", "appid", id, "cc", r.URL.Query().Get("cc"))
	}
}

func searchHandler(logger *slog.Logger, c *catalog) http.HandlerFunc {
	type entry struct {
		AppID string `json:"appid"`
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Logo  string `json:"logo"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.PathValue("term")
		matched := c.search(term)
		out := make([]entry, 0, len(matched))
		for _, a := range matched {
			out = append(out, entry{AppID: strconv.FormatInt(a.SteamAppID, 10), Name: a.Name})
		}
		writeJSON(w, http.StatusOK, out)
		logger.Info("search", "term", term, "matched", len(out))
	}
}

type setPriceRequest struct {
	Final           int64 `json:"final"`
	DiscountPercent int   `json:"discount_percent"`
	Released        *bool `json:"released"`
}

// setPriceHandler changes an app's current price so a running tracker sees
// a sale start or end on its next tick.
func setPriceHandler(logger *slog.Logger, c *catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setPriceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "discount_percent must be 0-100"})
			return
		}

		a, ok := c.update(r.PathValue("id"), func(a *app) {
			if a.PriceOverview == nil {
				a.PriceOverview = &priceOverview{Currency: "USD", Initial: req.Final}
			}
			a.PriceOverview.Final = req.Final
			a.PriceOverview.DiscountPercent = req.DiscountPercent
			if req.Released != nil {
				if a.ReleaseDate == nil {
					a.ReleaseDate = &releaseDate{}
				}
				a.ReleaseDate.ComingSoon = !*req.Released
			}
		})
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown app"})
			return
		}
		writeJSON(w, http.StatusOK, a)
		logger.Info("price updated", "appid", a.SteamAppID, "final", req.Final, "discount", req.DiscountPercent)
	}
}

func discordHandler(logger *slog.Logger) http.HandlerFunc {
	var seq atomic.Int64
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bot ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "401: Unauthorized", "code": 0})
			return
		}
		var msg map[string]any
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid JSON", "code": 50109})
			return
		}
		id := seq.Add(1)
		logger.Info("discord message", "channel", r.PathValue("channel"), "id", id, "payload", msg)
		writeJSON(w, http.StatusOK, map[string]any{"id": strconv.FormatInt(id, 10), "channel_id": r.PathValue("channel")})
	}
}
