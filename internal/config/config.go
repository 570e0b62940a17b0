// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Steam         SteamConfig         `yaml:"steam"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Retry         RetryConfig         `yaml:"retry"`
	Tracking      TrackingConfig      `yaml:"tracking"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Events        EventsConfig        `yaml:"events"`
	Tracing       TracingConfig       `yaml:"tracing"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig defines the durable store connection settings.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres, sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
	Path     string `yaml:"path"` // sqlite file
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// SteamConfig defines the storefront API settings.
type SteamConfig struct {
	StoreURL       string          `yaml:"store_url"`
	CommunityURL   string          `yaml:"community_url"`
	CountryCode    string          `yaml:"country_code"`
	RequestTimeout time.Duration   `yaml:"request_timeout"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines client-side admission control for the storefront API.
type RateLimitConfig struct {
	PerSecond   float64       `yaml:"per_second"`
	Burst       int           `yaml:"burst"`
	Window      time.Duration `yaml:"window"`
	WindowLimit int64         `yaml:"window_limit"`
}

// ScheduleConfig defines how often and how widely products are checked.
type ScheduleConfig struct {
	TickInterval         time.Duration `yaml:"tick_interval"`
	JitterWindow         time.Duration `yaml:"jitter_window"`
	Workers              int           `yaml:"workers"`
	MaxConcurrentFetches int           `yaml:"max_concurrent_fetches"`
}

// BackoffConfig defines a bounded capped-exponential retry policy.
type BackoffConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	// Deadline caps the total time spent retrying. Zero leaves it to the caller's context.
	Deadline time.Duration `yaml:"deadline"`
}

// RetryConfig defines upstream retry behavior.
type RetryConfig struct {
	Fetch BackoffConfig `yaml:"fetch"`
	// RateLimit governs how long a rate-limited product waits before its next check.
	RateLimit BackoffConfig `yaml:"rate_limit_backoff"`
}

// TrackingConfig defines product lifecycle policy.
type TrackingConfig struct {
	MissThreshold int  `yaml:"miss_threshold"`
	TrackRelease  bool `yaml:"track_release"`
}

// NotificationsConfig defines notification targets and delivery policy.
type NotificationsConfig struct {
	Discord  DiscordConfig `yaml:"discord"`
	Delivery BackoffConfig `yaml:"delivery"`
	Dedup    DedupConfig   `yaml:"dedup"`
}

// DiscordConfig defines Discord bot settings.
type DiscordConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	APIURL   string `yaml:"api_url"`
}

// Dedup ledger backends.
const (
	DedupMemory = "memory"
	DedupRedis  = "redis"
)

// DedupConfig defines the delivery dedup ledger.
type DedupConfig struct {
	Backend string        `yaml:"backend"` // memory, redis
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig defines Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// EventsConfig defines the optional detected-event stream.
type EventsConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
}

// KafkaConfig defines Kafka producer settings.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// TracingConfig defines OpenTelemetry export. Metrics rides the same
// collector endpoint as traces.
type TracingConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Endpoint       string        `yaml:"endpoint"`
	ServiceName    string        `yaml:"service_name"`
	Insecure       bool          `yaml:"insecure"`
	Metrics        bool          `yaml:"metrics"`
	MetricInterval time.Duration `yaml:"metric_interval"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, logfmt, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applySteamDefaults(&cfg.Steam)
	applyScheduleDefaults(&cfg.Schedule)
	applyRetryDefaults(&cfg.Retry)
	applyTrackingDefaults(&cfg.Tracking)
	applyNotificationDefaults(&cfg.Notifications, cfg.Schedule.TickInterval)
	applyEventsDefaults(&cfg.Events)
	applyTracingDefaults(&cfg.Tracing)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = DriverPostgres
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applySteamDefaults(s *SteamConfig) {
	if s.StoreURL == "" {
		s.StoreURL = "https://store.steampowered.com"
	}
	if s.CommunityURL == "" {
		s.CommunityURL = "https://steamcommunity.com"
	}
	if s.CountryCode == "" {
		s.CountryCode = "US"
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = 10 * time.Second
	}
	applyRateLimitDefaults(&s.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 1.0
	}
	if r.Burst == 0 {
		r.Burst = 5
	}
	if r.Window == 0 {
		r.Window = 5 * time.Minute
	}
	if r.WindowLimit == 0 {
		r.WindowLimit = 200
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.TickInterval == 0 {
		s.TickInterval = time.Hour
	}
	if s.JitterWindow == 0 {
		s.JitterWindow = 5 * time.Minute
	}
	if s.Workers == 0 {
		s.Workers = 8
	}
	if s.MaxConcurrentFetches == 0 {
		s.MaxConcurrentFetches = 4
	}
}

func applyBackoffDefaults(b *BackoffConfig, attempts int, initial, maxBackoff time.Duration) {
	if b.MaxAttempts == 0 {
		b.MaxAttempts = attempts
	}
	if b.InitialBackoff == 0 {
		b.InitialBackoff = initial
	}
	if b.MaxBackoff == 0 {
		b.MaxBackoff = maxBackoff
	}
}

func applyRetryDefaults(r *RetryConfig) {
	applyBackoffDefaults(&r.Fetch, 3, time.Second, 30*time.Second)
	applyBackoffDefaults(&r.RateLimit, 1, 5*time.Minute, time.Hour)
}

func applyTrackingDefaults(t *TrackingConfig) {
	if t.MissThreshold == 0 {
		t.MissThreshold = 3
	}
}

func applyNotificationDefaults(n *NotificationsConfig, tick time.Duration) {
	if n.Discord.APIURL == "" {
		n.Discord.APIURL = "https://discord.com/api/v10"
	}
	applyBackoffDefaults(&n.Delivery, 3, 2*time.Second, 30*time.Second)
	if n.Dedup.Backend == "" {
		n.Dedup.Backend = DedupMemory
	}
	// One tick covers replicas observing the same transition; a repeat of
	// that transition takes at least two ticks.
	if n.Dedup.TTL == 0 {
		n.Dedup.TTL = tick
	}
	if n.Dedup.Redis.Prefix == "" {
		n.Dedup.Redis.Prefix = "sale-tracker:dedup:"
	}
}

func applyEventsDefaults(e *EventsConfig) {
	if e.Kafka.Topic == "" {
		e.Kafka.Topic = "sale-tracker.events"
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "sale-tracker"
	}
	if t.MetricInterval == 0 {
		t.MetricInterval = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required"))
		}
	case DriverSQLite:
		if cfg.Database.Path == "" {
			errs = append(errs, fmt.Errorf("database.path is required when driver is sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"database.driver must be one of: postgres, sqlite (got %q)",
			cfg.Database.Driver,
		))
	}

	if cfg.Schedule.Workers < 1 {
		errs = append(errs, fmt.Errorf("schedule.workers must be at least 1"))
	}
	if cfg.Schedule.MaxConcurrentFetches < 1 {
		errs = append(errs, fmt.Errorf("schedule.max_concurrent_fetches must be at least 1"))
	}
	if cfg.Schedule.JitterWindow >= cfg.Schedule.TickInterval {
		errs = append(errs, fmt.Errorf("schedule.jitter_window must be shorter than schedule.tick_interval"))
	}
	if cfg.Notifications.Dedup.TTL >= 2*cfg.Schedule.TickInterval {
		errs = append(errs, fmt.Errorf("notifications.dedup.ttl must be shorter than twice schedule.tick_interval"))
	}
	if cfg.Tracking.MissThreshold < 1 {
		errs = append(errs, fmt.Errorf("tracking.miss_threshold must be at least 1"))
	}
	if cfg.Retry.Fetch.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.fetch.max_attempts must be at least 1"))
	}
	if cfg.Retry.Fetch.Deadline < 0 || cfg.Notifications.Delivery.Deadline < 0 {
		errs = append(errs, fmt.Errorf("retry deadlines must not be negative"))
	}
	if cfg.Notifications.Delivery.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("notifications.delivery.max_attempts must be at least 1"))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.BotToken == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.bot_token is required when discord is enabled"))
	}

	switch cfg.Notifications.Dedup.Backend {
	case DedupMemory:
	case DedupRedis:
		if cfg.Notifications.Dedup.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("notifications.dedup.redis.addr is required when backend is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"notifications.dedup.backend must be one of: memory, redis (got %q)",
			cfg.Notifications.Dedup.Backend,
		))
	}

	if cfg.Events.Kafka.Enabled && len(cfg.Events.Kafka.Brokers) == 0 {
		errs = append(errs, fmt.Errorf("events.kafka.brokers is required when kafka is enabled"))
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, fmt.Errorf("tracing.endpoint is required when tracing is enabled"))
	}

	return errors.Join(errs...)
}
