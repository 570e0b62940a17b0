package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/sale-tracker/internal/metrics"
)

// Scheduler fires engine ticks on a fixed interval. A tick that is still
// running when the next one is due causes that one to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	engine  *Engine
	log     *slog.Logger
	entryID cron.EntryID

	ctx    context.Context
	cancel context.CancelFunc
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// NewScheduler creates a Scheduler that runs eng.RunTick every tickInterval.
func NewScheduler(eng *Engine, tickInterval time.Duration, log *slog.Logger) (*Scheduler, error) {
	if tickInterval < time.Second {
		return nil, fmt.Errorf("tick interval must be at least 1s (got %s)", tickInterval)
	}

	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	id, err := c.AddFunc("@every "+tickInterval.String(), s.runTick)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("registering tick: %w", err)
	}
	s.entryID = id

	return s, nil
}

// Start begins running scheduled ticks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
	s.SyncNextTick()
}

// Stop cancels any running tick and stops the scheduler. The returned
// context is done once the running tick has returned.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	s.cancel()
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// NextTick returns when the next tick is due, or the zero time before Start.
func (s *Scheduler) NextTick() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// SyncNextTick publishes the next tick time as a metric.
func (s *Scheduler) SyncNextTick() {
	if next := s.NextTick(); !next.IsZero() {
		metrics.NextTickTimestamp.Set(float64(next.Unix()))
	}
}

func (s *Scheduler) runTick() {
	s.log.Info("scheduled tick starting")
	if _, err := s.engine.RunTick(s.ctx); err != nil {
		s.log.Warn("scheduled tick interrupted", "error", err)
	}
	s.SyncNextTick()
}
