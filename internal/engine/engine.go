package engine

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/donaldgifford/sale-tracker/internal/eventbus"
	"github.com/donaldgifford/sale-tracker/internal/metrics"
	"github.com/donaldgifford/sale-tracker/internal/registry"
	"github.com/donaldgifford/sale-tracker/internal/state"
	"github.com/donaldgifford/sale-tracker/internal/steam"
	"github.com/donaldgifford/sale-tracker/internal/store"
	"github.com/donaldgifford/sale-tracker/pkg/detector"
	"github.com/donaldgifford/sale-tracker/pkg/retry"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Notifier dispatches detected events to subscribers.
type Notifier interface {
	Notify(ctx context.Context, product domain.TrackedProduct, events []domain.Event, subs []domain.Subscription) domain.DeliveryReport
}

// Outcome is the result of one product check.
type Outcome string

// Check outcomes.
const (
	OutcomeChanged     Outcome = "changed"
	OutcomeUnchanged   Outcome = "unchanged"
	OutcomeBaseline    Outcome = "baseline"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeRemoved     Outcome = "removed"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeTransient   Outcome = "transient"
	OutcomeMalformed   Outcome = "malformed"
	OutcomeStoreError  Outcome = "store_error"
	OutcomeInFlight    Outcome = "in_flight"
	OutcomeBackoff     Outcome = "backoff"
	OutcomeUntracked   Outcome = "untracked"
	OutcomeCanceled    Outcome = "canceled"
)

// CheckResult describes one product check.
type CheckResult struct {
	ProductID domain.ProductID
	Outcome   Outcome
	Events    []domain.EventKind
	Report    *domain.DeliveryReport
	Err       error
}

// TickResult summarizes one pass over every tracked product.
type TickResult struct {
	Started  time.Time
	Duration time.Duration
	Products int
	Outcomes map[Outcome]int
	Events   int
}

// ProductStatus is the scheduler's view of one product.
type ProductStatus struct {
	Phase        domain.ProductPhase
	Misses       int
	BackoffUntil time.Time
	LastCheck    time.Time
	LastOutcome  Outcome
}

// productState is the per-product record in the engine's arena. It is
// only read or written with Engine.mu held.
type productState struct {
	phase           domain.ProductPhase
	misses          int
	backoffAttempts int
	backoffUntil    time.Time
	lastCheck       time.Time
	lastOutcome     Outcome
}

// Engine runs product checks: fetch, swap, detect, dispatch.
type Engine struct {
	catalog   steam.Catalog
	state     *state.Store
	registry  *registry.Registry
	notifier  Notifier
	publisher eventbus.Publisher
	log       *slog.Logger
	tracer    trace.Tracer
	checks    metric.Int64Counter

	clock         retry.Clock
	fetchRetrier  *retry.Retrier
	backoff       retry.Backoff
	fetchSem      *semaphore.Weighted
	workers       int
	jitterWindow  time.Duration
	missThreshold int

	mu    sync.Mutex
	arena map[domain.ProductID]*productState
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithClock sets the clock used for jitter and backoff deadlines.
func WithClock(c retry.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithFetchRetrier sets the in-tick retry policy for transient fetch failures.
func WithFetchRetrier(r *retry.Retrier) EngineOption {
	return func(e *Engine) {
		e.fetchRetrier = r
	}
}

// WithBackoff sets the delay schedule for rate-limited and store-failed products.
func WithBackoff(b retry.Backoff) EngineOption {
	return func(e *Engine) {
		e.backoff = b
	}
}

// WithWorkers bounds how many products are checked at once.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithMaxConcurrentFetches bounds in-flight upstream fetches.
func WithMaxConcurrentFetches(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.fetchSem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithJitterWindow spreads product checks across the start of a tick.
func WithJitterWindow(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.jitterWindow = d
	}
}

// WithMissThreshold sets how many consecutive not-found fetches remove a product.
func WithMissThreshold(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.missThreshold = n
		}
	}
}

// WithPublisher sets the event stream publisher.
func WithPublisher(p eventbus.Publisher) EngineOption {
	return func(e *Engine) {
		e.publisher = p
	}
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	catalog steam.Catalog,
	st *state.Store,
	reg *registry.Registry,
	n Notifier,
	opts ...EngineOption,
) *Engine {
	clock := retry.RealClock()
	eng := &Engine{
		catalog:       catalog,
		state:         st,
		registry:      reg,
		notifier:      n,
		publisher:     eventbus.NoOpPublisher{},
		log:           slog.Default(),
		tracer:        otel.Tracer("github.com/donaldgifford/sale-tracker/internal/engine"),
		clock:         clock,
		backoff:       retry.Backoff{Initial: 5 * time.Minute, Max: time.Hour},
		fetchSem:      semaphore.NewWeighted(4),
		workers:       8,
		missThreshold: 3,
		arena:         make(map[domain.ProductID]*productState),
	}
	for _, opt := range opts {
		opt(eng)
	}
	checks, err := otel.Meter("github.com/donaldgifford/sale-tracker/internal/engine").
		Int64Counter("sst.checks", metric.WithDescription("Product checks by outcome."))
	if err != nil {
		eng.log.Warn("creating check counter", "error", err)
	}
	eng.checks = checks
	if eng.fetchRetrier == nil {
		eng.fetchRetrier = retry.New(retry.Policy{
			MaxAttempts: 3,
			Backoff:     retry.Backoff{Initial: time.Second, Max: 30 * time.Second},
		}, retry.WithClock(eng.clock))
	}
	return eng
}

// RunTick checks every tracked product once. Each check starts at a stable
// per-product offset within the jitter window. Products are queued in offset
// order so a worker waiting on a late offset never holds back an earlier one.
func (eng *Engine) RunTick(ctx context.Context) (TickResult, error) {
	start := eng.clock.Now()
	products := eng.registry.Products()
	slices.SortStableFunc(products, func(a, b domain.TrackedProduct) int {
		return cmp.Compare(eng.jitterOffset(a.ID), eng.jitterOffset(b.ID))
	})

	res := TickResult{
		Started:  start,
		Products: len(products),
		Outcomes: make(map[Outcome]int),
	}

	var (
		mu     sync.Mutex
		events atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(eng.workers)
	for _, p := range products {
		g.Go(func() error {
			if wait := start.Add(eng.jitterOffset(p.ID)).Sub(eng.clock.Now()); wait > 0 {
				if err := eng.clock.Sleep(gctx, wait); err != nil {
					return nil
				}
			}
			r := eng.CheckProduct(gctx, p.ID)
			events.Add(int64(len(r.Events)))
			mu.Lock()
			res.Outcomes[r.Outcome]++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	res.Events = int(events.Load())
	res.Duration = eng.clock.Now().Sub(start)
	metrics.TickDuration.Observe(res.Duration.Seconds())
	eng.log.Info("tick complete",
		"products", res.Products,
		"events", res.Events,
		"duration", res.Duration,
		"outcomes", res.Outcomes,
	)
	return res, ctx.Err()
}

// jitterOffset maps id to a stable offset in [0, jitterWindow).
func (eng *Engine) jitterOffset(id domain.ProductID) time.Duration {
	if eng.jitterWindow <= 0 {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return time.Duration(h.Sum64() % uint64(eng.jitterWindow))
}

// CheckProduct runs one fetch, detect and dispatch cycle for id. At most one
// check per product runs at a time; a concurrent call returns OutcomeInFlight.
func (eng *Engine) CheckProduct(ctx context.Context, id domain.ProductID) CheckResult {
	start := time.Now()
	res := CheckResult{ProductID: id}

	ctx, span := eng.tracer.Start(ctx, "engine.CheckProduct",
		trace.WithAttributes(attribute.String("product_id", string(id))))
	defer func() {
		span.SetAttributes(attribute.String("outcome", string(res.Outcome)))
		if res.Err != nil {
			span.SetStatus(codes.Error, res.Err.Error())
		}
		span.End()
		metrics.ChecksTotal.WithLabelValues(string(res.Outcome)).Inc()
		if eng.checks != nil {
			eng.checks.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(res.Outcome))))
		}
		metrics.CheckDuration.Observe(time.Since(start).Seconds())
	}()

	if skip := eng.begin(id); skip != "" {
		res.Outcome = skip
		return res
	}

	if !eng.registry.Pin(id) {
		eng.forget(id)
		res.Outcome = OutcomeUntracked
		return res
	}
	defer func() {
		if err := eng.registry.Unpin(context.WithoutCancel(ctx), id); err != nil {
			eng.log.Error("deferred product cleanup failed", "product_id", id, "error", err)
		}
	}()

	product, ok := eng.registry.Product(id)
	if !ok {
		eng.forget(id)
		res.Outcome = OutcomeUntracked
		return res
	}

	app, err := eng.fetch(ctx, id)
	if err != nil {
		res.Err = err
		res.Outcome = eng.handleFetchError(ctx, id, err)
		return res
	}

	eng.setPhase(id, domain.PhaseDetecting)
	prev, err := eng.state.Swap(ctx, id, app.Snapshot)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(store.KindOf(err).String()).Inc()
		until := eng.enterBackoff(id, 0, OutcomeStoreError)
		eng.log.Warn("persisting snapshot failed, backing off",
			"product_id", id,
			"until", until,
			"error", err,
		)
		res.Err = err
		res.Outcome = OutcomeStoreError
		return res
	}

	events := detector.Detect(id, prev, app.Snapshot, product.TrackRelease)
	res.Events = detector.Kinds(events)
	if len(events) == 0 {
		res.Outcome = OutcomeUnchanged
		if prev == nil {
			res.Outcome = OutcomeBaseline
		}
		eng.finish(id, res.Outcome)
		return res
	}

	for _, ev := range events {
		metrics.EventsDetectedTotal.WithLabelValues(ev.Kind.String()).Inc()
	}

	eng.setPhase(id, domain.PhaseDispatching)
	if product.Name == "" {
		product.Name = app.Name
	}
	if err := eng.publisher.Publish(ctx, product, events); err != nil {
		eng.log.Warn("publishing events failed", "product_id", id, "error", err)
	}

	report := eng.notifier.Notify(ctx, product, events, eng.registry.Recipients(id))
	res.Report = &report
	res.Outcome = OutcomeChanged
	eng.log.Info("product changed",
		"product_id", id,
		"name", product.Name,
		"events", res.Events,
		"delivered", report.Count(domain.DeliveryDelivered),
		"duplicate", report.Count(domain.DeliveryDuplicate),
		"skipped", report.Count(domain.DeliverySkipped),
		"failed", report.Count(domain.DeliveryFailed),
	)
	eng.finish(id, res.Outcome)
	return res
}

// fetch retrieves id under the fetch semaphore, retrying transient failures.
func (eng *Engine) fetch(ctx context.Context, id domain.ProductID) (*steam.App, error) {
	var app *steam.App
	attempts, err := eng.fetchRetrier.Do(ctx, func(ctx context.Context) error {
		if err := eng.fetchSem.Acquire(ctx, 1); err != nil {
			return err
		}
		defer eng.fetchSem.Release(1)

		a, err := eng.catalog.Fetch(ctx, id)
		if err != nil {
			return err
		}
		app = a
		return nil
	}, steam.IsTransient)
	if err != nil {
		return nil, fmt.Errorf("fetching %s after %d attempts: %w", id, attempts, err)
	}
	return app, nil
}

func (eng *Engine) handleFetchError(ctx context.Context, id domain.ProductID, err error) Outcome {
	kind := steam.KindOf(err)
	if kind == 0 && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		eng.finish(id, OutcomeCanceled)
		return OutcomeCanceled
	}

	switch kind {
	case steam.NotFound:
		return eng.handleNotFound(ctx, id, err)
	case steam.RateLimited:
		var hint time.Duration
		var h retry.Hinter
		if errors.As(err, &h) {
			hint = h.RetryAfter()
		}
		until := eng.enterBackoff(id, hint, OutcomeRateLimited)
		eng.log.Warn("rate limited, backing off", "product_id", id, "until", until)
		return OutcomeRateLimited
	case steam.Malformed:
		eng.log.Warn("malformed upstream data, skipping tick", "product_id", id, "error", err)
		eng.finish(id, OutcomeMalformed)
		return OutcomeMalformed
	case steam.Transient:
		eng.log.Warn("fetch failed, deferring to next tick", "product_id", id, "error", err)
		eng.finish(id, OutcomeTransient)
		return OutcomeTransient
	default:
		eng.log.Error("unexpected fetch error", "product_id", id, "error", err)
		eng.finish(id, OutcomeTransient)
		return OutcomeTransient
	}
}

func (eng *Engine) handleNotFound(ctx context.Context, id domain.ProductID, cause error) Outcome {
	eng.mu.Lock()
	st := eng.stateLocked(id)
	st.misses++
	misses := st.misses
	eng.mu.Unlock()

	if misses < eng.missThreshold {
		eng.log.Info("product not found upstream",
			"product_id", id,
			"misses", misses,
			"threshold", eng.missThreshold,
		)
		eng.finish(id, OutcomeNotFound)
		return OutcomeNotFound
	}

	if err := eng.registry.RemoveProduct(context.WithoutCancel(ctx), id); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(store.KindOf(err).String()).Inc()
		eng.log.Error("removing vanished product failed", "product_id", id, "error", err)
		eng.finish(id, OutcomeNotFound)
		return OutcomeNotFound
	}

	metrics.ProductsRemovedTotal.Inc()
	eng.log.Warn("product removed after repeated not-found responses",
		"product_id", id,
		"misses", misses,
		"error", cause,
	)
	eng.forget(id)
	return OutcomeRemoved
}

// begin moves id from Idle (or an expired Backoff) to Fetching. It returns
// a non-empty outcome when the check must be skipped.
func (eng *Engine) begin(id domain.ProductID) Outcome {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	st := eng.stateLocked(id)
	switch st.phase {
	case domain.PhaseIdle:
	case domain.PhaseBackoff:
		if eng.clock.Now().Before(st.backoffUntil) {
			return OutcomeBackoff
		}
	case domain.PhaseFetching, domain.PhaseDetecting, domain.PhaseDispatching:
		return OutcomeInFlight
	default:
	}
	st.phase = domain.PhaseFetching
	st.lastCheck = eng.clock.Now()
	eng.syncBackoffGaugeLocked()
	return ""
}

// enterBackoff parks id until a capped exponential delay has passed. The
// hint, when positive, is a floor.
func (eng *Engine) enterBackoff(id domain.ProductID, hint time.Duration, outcome Outcome) time.Time {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	st := eng.stateLocked(id)
	st.backoffAttempts++
	delay := eng.backoff.Delay(st.backoffAttempts)
	if hint > delay {
		delay = hint
	}
	st.phase = domain.PhaseBackoff
	st.backoffUntil = eng.clock.Now().Add(delay)
	st.lastOutcome = outcome
	eng.syncBackoffGaugeLocked()
	return st.backoffUntil
}

func (eng *Engine) setPhase(id domain.ProductID, phase domain.ProductPhase) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	eng.stateLocked(id).phase = phase
}

// finish returns id to Idle.
func (eng *Engine) finish(id domain.ProductID, outcome Outcome) {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	st := eng.stateLocked(id)
	st.phase = domain.PhaseIdle
	st.lastOutcome = outcome
	switch outcome {
	case OutcomeChanged, OutcomeUnchanged, OutcomeBaseline:
		st.misses = 0
		st.backoffAttempts = 0
		st.backoffUntil = time.Time{}
	case OutcomeMalformed, OutcomeTransient:
		st.misses = 0
	default:
	}
	eng.syncBackoffGaugeLocked()
}

// forget drops id from the arena.
func (eng *Engine) forget(id domain.ProductID) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	delete(eng.arena, id)
	eng.syncBackoffGaugeLocked()
}

func (eng *Engine) stateLocked(id domain.ProductID) *productState {
	st, ok := eng.arena[id]
	if !ok {
		st = &productState{phase: domain.PhaseIdle}
		eng.arena[id] = st
	}
	return st
}

func (eng *Engine) syncBackoffGaugeLocked() {
	n := 0
	for _, st := range eng.arena {
		if st.phase == domain.PhaseBackoff {
			n++
		}
	}
	metrics.ProductsInBackoff.Set(float64(n))
}

// Status returns the scheduler's view of id.
func (eng *Engine) Status(id domain.ProductID) ProductStatus {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	st, ok := eng.arena[id]
	if !ok {
		return ProductStatus{Phase: domain.PhaseIdle}
	}
	return ProductStatus{
		Phase:        st.phase,
		Misses:       st.misses,
		BackoffUntil: st.backoffUntil,
		LastCheck:    st.lastCheck,
		LastOutcome:  st.lastOutcome,
	}
}

// Snapshot returns the current state of id, or nil before its first fetch.
func (eng *Engine) Snapshot(id domain.ProductID) *domain.Snapshot {
	return eng.state.Get(id)
}
