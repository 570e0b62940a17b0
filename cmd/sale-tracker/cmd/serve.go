package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/sale-tracker/api/openapi"
	"github.com/donaldgifford/sale-tracker/internal/api/handlers"
	"github.com/donaldgifford/sale-tracker/internal/api/middleware"
	"github.com/donaldgifford/sale-tracker/internal/config"
	"github.com/donaldgifford/sale-tracker/internal/engine"
	"github.com/donaldgifford/sale-tracker/internal/notify"
	"github.com/donaldgifford/sale-tracker/internal/registry"
	"github.com/donaldgifford/sale-tracker/internal/state"
	"github.com/donaldgifford/sale-tracker/internal/telemetry"
	"github.com/donaldgifford/sale-tracker/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

var skipMigrate bool

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run migrations on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("flushing traces failed", "error", err)
		}
	}()

	st, err := openStore(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if !skipMigrate {
		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	snapshots := state.New(st)
	if err := snapshots.Load(ctx); err != nil {
		return fmt.Errorf("loading snapshots: %w", err)
	}
	reg := registry.New(st, snapshots, registry.WithLogger(log))
	if err := reg.Load(ctx); err != nil {
		return fmt.Errorf("loading subscriptions: %w", err)
	}

	ledger, redisClient, err := newLedger(ctx, &cfg.Notifications.Dedup)
	if err != nil {
		return err
	}
	readiness := map[string]handlers.Pinger{"store": st}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		readiness["dedup"] = redisPinger{client: redisClient}
	}

	publisher, err := newPublisher(&cfg.Events.Kafka, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("closing event publisher failed", "error", err)
		}
	}()

	catalog, limiter := newCatalog(&cfg.Steam)
	dispatcher := notify.NewDispatcher(
		newChannel(&cfg.Notifications.Discord, log),
		ledger,
		st,
		notify.WithLogger(log),
		notify.WithRetrier(retrier(cfg.Notifications.Delivery)),
	)
	eng := engine.NewEngine(catalog, snapshots, reg, dispatcher, engineOptions(cfg, log, publisher)...)

	sched, err := engine.NewScheduler(eng, cfg.Schedule.TickInterval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := newServer(cfg, log, readiness)
	registerAPI(newAPI(e), apiDeps{
		catalog:  catalog,
		tracker:  reg,
		engine:   eng,
		failures: st,
		quota:    limiter,
		defaults: handlers.TrackingDefaults{
			Region:       catalog.CountryCode(),
			TrackRelease: cfg.Tracking.TrackRelease,
		},
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server",
		"addr", addr,
		"products", len(reg.Products()),
		"tick_interval", cfg.Schedule.TickInterval,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	sched.Start()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("server error", "error", err)
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("tick still running at shutdown deadline")
	}

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newServer builds the Echo server with middleware, health checks and metrics.
func newServer(cfg *config.Config, log *slog.Logger, readiness map[string]handlers.Pinger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(readiness))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	openapi.RegisterRoutes(e, apiTitle, "/openapi.json")
	return e
}
