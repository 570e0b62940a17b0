package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/sale-tracker/internal/config"
	"github.com/donaldgifford/sale-tracker/internal/dedup"
	"github.com/donaldgifford/sale-tracker/internal/engine"
	"github.com/donaldgifford/sale-tracker/internal/eventbus"
	"github.com/donaldgifford/sale-tracker/internal/notify"
	"github.com/donaldgifford/sale-tracker/internal/steam"
	"github.com/donaldgifford/sale-tracker/internal/store"
	"github.com/donaldgifford/sale-tracker/pkg/retry"
)

// openStore connects to the configured durable store.
func openStore(ctx context.Context, cfg *config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		st, err := store.NewSQLiteStore(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return st, nil
	default:
		st, err := store.NewPostgresStore(ctx, cfg.DSN(), store.WithPoolSize(cfg.PoolSize))
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		return st, nil
	}
}

// newLedger builds the dedup ledger. The returned client is nil for the
// memory backend.
func newLedger(ctx context.Context, cfg *config.DedupConfig) (dedup.Ledger, *redis.Client, error) {
	if cfg.Backend != config.DedupRedis {
		return dedup.NewMemoryLedger(cfg.TTL), nil, nil
	}

	client, err := dedup.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	return dedup.NewRedisLedger(client, cfg.Redis.Prefix, cfg.TTL), client, nil
}

// newChannel builds the delivery channel.
func newChannel(cfg *config.DiscordConfig, log *slog.Logger) notify.Channel {
	if !cfg.Enabled {
		log.Warn("discord disabled, notifications will only be logged")
		return notify.NewNoOpChannel(log)
	}
	return notify.NewDiscordChannel(cfg.BotToken, notify.WithAPIURL(cfg.APIURL))
}

// newPublisher builds the event stream publisher.
func newPublisher(cfg *config.KafkaConfig, log *slog.Logger) (eventbus.Publisher, error) {
	if !cfg.Enabled {
		return eventbus.NoOpPublisher{}, nil
	}
	p, err := eventbus.NewKafkaPublisher(cfg.Brokers, cfg.Topic, eventbus.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}
	return p, nil
}

// newCatalog builds the Steam client and its admission limiter.
func newCatalog(cfg *config.SteamConfig) (*steam.StoreClient, *steam.RateLimiter) {
	rl := steam.NewRateLimiter(
		cfg.RateLimit.PerSecond,
		cfg.RateLimit.Burst,
		cfg.RateLimit.Window,
		cfg.RateLimit.WindowLimit,
	)
	client := steam.NewStoreClient(
		steam.WithStoreURL(cfg.StoreURL),
		steam.WithCommunityURL(cfg.CommunityURL),
		steam.WithCountryCode(cfg.CountryCode),
		steam.WithRequestTimeout(cfg.RequestTimeout),
		steam.WithRateLimiter(rl),
	)
	return client, rl
}

func retrier(b config.BackoffConfig) *retry.Retrier {
	return retry.New(retry.Policy{
		MaxAttempts: b.MaxAttempts,
		Backoff:     retry.Backoff{Initial: b.InitialBackoff, Max: b.MaxBackoff},
		Deadline:    b.Deadline,
	})
}

// engineOptions maps configuration onto engine options.
func engineOptions(cfg *config.Config, log *slog.Logger, pub eventbus.Publisher) []engine.EngineOption {
	return []engine.EngineOption{
		engine.WithLogger(log),
		engine.WithPublisher(pub),
		engine.WithFetchRetrier(retrier(cfg.Retry.Fetch)),
		engine.WithBackoff(retry.Backoff{
			Initial: cfg.Retry.RateLimit.InitialBackoff,
			Max:     cfg.Retry.RateLimit.MaxBackoff,
		}),
		engine.WithWorkers(cfg.Schedule.Workers),
		engine.WithMaxConcurrentFetches(cfg.Schedule.MaxConcurrentFetches),
		engine.WithJitterWindow(cfg.Schedule.JitterWindow),
		engine.WithMissThreshold(cfg.Tracking.MissThreshold),
	}
}

// redisPinger adapts a redis client to the readiness check.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
