package notify

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/sale-tracker/internal/dedup"
	"github.com/donaldgifford/sale-tracker/internal/metrics"
	"github.com/donaldgifford/sale-tracker/pkg/retry"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// FailureRecorder persists deliveries that could not be completed.
type FailureRecorder interface {
	InsertDeliveryFailure(ctx context.Context, f *domain.DeliveryFailure) error
}

// Dispatcher fans an event set out to every subscribed destination.
type Dispatcher struct {
	channel     Channel
	ledger      dedup.Ledger
	failures    FailureRecorder
	retrier     *retry.Retrier
	log         *slog.Logger
	concurrency int
	now         func() time.Time
	tracer      trace.Tracer
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithRetrier sets the retry policy for transient delivery failures.
func WithRetrier(r *retry.Retrier) DispatcherOption {
	return func(d *Dispatcher) {
		d.retrier = r
	}
}

// WithConcurrency bounds how many destinations are delivered to at once.
func WithConcurrency(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithNowFunc overrides the clock used for failure timestamps.
func WithNowFunc(fn func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		d.now = fn
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(
	channel Channel,
	ledger dedup.Ledger,
	failures FailureRecorder,
	opts ...DispatcherOption,
) *Dispatcher {
	d := &Dispatcher{
		channel:     channel,
		ledger:      ledger,
		failures:    failures,
		retrier:     retry.New(retry.Policy{MaxAttempts: 3, Backoff: retry.Backoff{Initial: 2 * time.Second, Max: 30 * time.Second}}),
		log:         slog.Default(),
		concurrency: 8,
		now:         time.Now,
		tracer:      otel.Tracer("github.com/donaldgifford/sale-tracker/internal/notify"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify delivers events for product to every subscription. Destinations
// are handled independently; a failure for one never affects another.
func (d *Dispatcher) Notify(
	ctx context.Context,
	product domain.TrackedProduct,
	events []domain.Event,
	subs []domain.Subscription,
) domain.DeliveryReport {
	ctx, span := d.tracer.Start(ctx, "notify.Notify", trace.WithAttributes(
		attribute.String("product_id", string(product.ID)),
		attribute.Int("events", len(events)),
		attribute.Int("destinations", len(subs)),
	))
	defer span.End()

	report := domain.DeliveryReport{
		ProductID: product.ID,
		Outcomes:  make([]domain.DeliveryOutcome, len(subs)),
	}

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, sub := range subs {
		g.Go(func() error {
			report.Outcomes[i] = d.deliver(ctx, product, events, sub)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range report.Outcomes {
		metrics.DeliveriesTotal.WithLabelValues(string(o.Status)).Inc()
	}
	return report
}

func (d *Dispatcher) deliver(
	ctx context.Context,
	product domain.TrackedProduct,
	events []domain.Event,
	sub domain.Subscription,
) domain.DeliveryOutcome {
	dest := sub.Destination
	out := domain.DeliveryOutcome{Destination: dest}

	wanted := FilterEvents(events, sub)
	if len(wanted) == 0 {
		out.Status = domain.DeliverySkipped
		return out
	}

	if !d.claim(ctx, product.ID, dest, wanted) {
		out.Status = domain.DeliveryDuplicate
		return out
	}

	msg, ok := Compose(product, wanted)
	if !ok {
		out.Status = domain.DeliverySkipped
		return out
	}

	attempts, err := d.retrier.Do(ctx, func(ctx context.Context) error {
		return d.channel.Send(ctx, dest, msg)
	}, IsTransient)
	out.Attempts = attempts
	if err == nil {
		out.Status = domain.DeliveryDelivered
		d.log.Debug("notification delivered",
			"product_id", product.ID,
			"destination", dest.Key(),
			"kinds", msg.Kinds,
		)
		return out
	}

	out.Status = domain.DeliveryFailed
	out.Error = err.Error()
	metrics.NotificationFailuresTotal.WithLabelValues(KindOf(err)).Inc()
	d.log.Warn("notification failed",
		"product_id", product.ID,
		"destination", dest.Key(),
		"attempts", attempts,
		"error", err,
	)
	d.recordFailure(ctx, product.ID, dest, msg.Kinds, attempts, err)
	return out
}

// claim reports whether this call owns delivery of events to dest. Ledger
// errors are logged and the delivery proceeds.
func (d *Dispatcher) claim(ctx context.Context, id domain.ProductID, dest domain.Destination, events []domain.Event) bool {
	ok, err := d.ledger.Claim(ctx, dedup.Key(id, dest, events))
	if err != nil {
		metrics.DedupErrorsTotal.Inc()
		d.log.Warn("dedup ledger unavailable, delivering without claim",
			"product_id", id,
			"destination", dest.Key(),
			"error", err,
		)
		return true
	}
	return ok
}

func (d *Dispatcher) recordFailure(
	ctx context.Context,
	id domain.ProductID,
	dest domain.Destination,
	kinds []domain.EventKind,
	attempts int,
	cause error,
) {
	if d.failures == nil {
		return
	}
	// Record even if the dispatch context was canceled mid-retry.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	f := &domain.DeliveryFailure{
		ProductID:   id,
		Destination: dest,
		Kinds:       kinds,
		Attempts:    attempts,
		Error:       cause.Error(),
		FailedAt:    d.now().UTC(),
	}
	if err := d.failures.InsertDeliveryFailure(rctx, f); err != nil {
		d.log.Error("recording delivery failure", "product_id", id, "destination", dest.Key(), "error", err)
	}
}
