// Package registry owns the mapping from tracked products to the
// destinations that follow them. Every mutation writes through to the
// durable store before the in-memory index changes.
package registry

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/donaldgifford/sale-tracker/internal/metrics"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Durable is the subset of the store the registry writes through to.
type Durable interface {
	UpsertProduct(ctx context.Context, p *domain.TrackedProduct) error
	ListProducts(ctx context.Context) ([]domain.TrackedProduct, error)
	DeleteProduct(ctx context.Context, id domain.ProductID) error
	CreateSubscription(ctx context.Context, sub *domain.Subscription) (bool, error)
	DeleteSubscription(ctx context.Context, id domain.ProductID, dest domain.Destination) (bool, error)
	DeleteGroupSubscriptions(ctx context.Context, groupID string) (int64, error)
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	SetGroupThreshold(ctx context.Context, groupID string, minDiscount int) error
	ListGroupThresholds(ctx context.Context) (map[string]int, error)
}

// Forgetter drops per-product state when a product stops being tracked.
type Forgetter interface {
	Remove(id domain.ProductID)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

// Registry is the in-memory index of products and subscriptions.
type Registry struct {
	durable Durable
	state   Forgetter
	log     *slog.Logger

	mu         sync.RWMutex
	products   map[domain.ProductID]domain.TrackedProduct
	subs       map[domain.ProductID]map[string]domain.Subscription
	pins       map[domain.ProductID]int
	pending    map[domain.ProductID]bool
	thresholds map[string]int
}

// New creates an empty Registry. Call Load to populate it from durable storage.
func New(durable Durable, state Forgetter, opts ...Option) *Registry {
	r := &Registry{
		durable:    durable,
		state:      state,
		log:        slog.Default(),
		products:   make(map[domain.ProductID]domain.TrackedProduct),
		subs:       make(map[domain.ProductID]map[string]domain.Subscription),
		pins:       make(map[domain.ProductID]int),
		pending:    make(map[domain.ProductID]bool),
		thresholds: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load rebuilds the index from durable storage. Products left without any
// subscription are cleaned up.
func (r *Registry) Load(ctx context.Context) error {
	products, err := r.durable.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("loading products: %w", err)
	}
	subs, err := r.durable.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("loading subscriptions: %w", err)
	}
	thresholds, err := r.durable.ListGroupThresholds(ctx)
	if err != nil {
		return fmt.Errorf("loading group thresholds: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.thresholds = make(map[string]int, len(thresholds))
	for group, pct := range thresholds {
		r.thresholds[group] = pct
	}

	r.products = make(map[domain.ProductID]domain.TrackedProduct, len(products))
	r.subs = make(map[domain.ProductID]map[string]domain.Subscription, len(products))
	for _, p := range products {
		p.LastSnapshot = nil
		r.products[p.ID] = p
	}
	for _, s := range subs {
		if _, ok := r.products[s.ProductID]; !ok {
			continue
		}
		r.indexLocked(s)
	}

	for id := range r.products {
		if len(r.subs[id]) > 0 {
			continue
		}
		r.log.Info("removing orphaned product", "product_id", id)
		if err := r.cleanupLocked(ctx, id); err != nil {
			return err
		}
	}

	r.updateGaugesLocked()
	return nil
}

// Subscribe records that sub.Destination follows product. The product is
// created on first subscription. Subscribing twice updates MinDiscount and
// reports created=false.
func (r *Registry) Subscribe(ctx context.Context, product domain.TrackedProduct, sub domain.Subscription) (bool, error) {
	sub.ProductID = product.ID

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.products[product.ID]
	if !exists {
		product.LastSnapshot = nil
		if err := r.durable.UpsertProduct(ctx, &product); err != nil {
			return false, fmt.Errorf("creating product %s: %w", product.ID, err)
		}
		r.products[product.ID] = product
	}

	created, err := r.durable.CreateSubscription(ctx, &sub)
	if err != nil {
		if !exists {
			r.rollbackLocked(ctx, product.ID)
		}
		return false, fmt.Errorf("subscribing %s to %s: %w", sub.Destination.Key(), product.ID, err)
	}

	r.indexLocked(sub)
	delete(r.pending, product.ID)
	r.updateGaugesLocked()
	return created, nil
}

// Unsubscribe removes dest from id. Removing the last destination removes
// the product, deferred until Unpin while a check holds it.
func (r *Registry) Unsubscribe(ctx context.Context, id domain.ProductID, dest domain.Destination) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed, err := r.durable.DeleteSubscription(ctx, id, dest)
	if err != nil {
		return false, fmt.Errorf("unsubscribing %s from %s: %w", dest.Key(), id, err)
	}
	if set, ok := r.subs[id]; ok {
		if _, had := set[dest.Key()]; had {
			delete(set, dest.Key())
			removed = true
		}
	}
	if !removed {
		return false, nil
	}

	if _, tracked := r.products[id]; tracked && len(r.subs[id]) == 0 {
		if err := r.cleanupLocked(ctx, id); err != nil {
			r.updateGaugesLocked()
			return true, err
		}
	}
	r.updateGaugesLocked()
	return true, nil
}

// ClearGroup removes every subscription held by group and returns how many
// were removed.
func (r *Registry) ClearGroup(ctx context.Context, group string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.durable.DeleteGroupSubscriptions(ctx, group)
	if err != nil {
		return 0, fmt.Errorf("clearing group %s: %w", group, err)
	}

	var emptied []domain.ProductID
	for id, set := range r.subs {
		for key, s := range set {
			if s.Destination.GroupID == group {
				delete(set, key)
			}
		}
		if len(set) == 0 {
			emptied = append(emptied, id)
		}
	}

	var errs []error
	for _, id := range emptied {
		if _, tracked := r.products[id]; !tracked {
			continue
		}
		if err := r.cleanupLocked(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	r.updateGaugesLocked()
	if len(errs) > 0 {
		return n, errs[0]
	}
	return n, nil
}

// RemoveProduct drops id and all of its subscriptions regardless of pins.
func (r *Registry) RemoveProduct(ctx context.Context, id domain.ProductID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.durable.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("removing product %s: %w", id, err)
	}
	r.forgetLocked(id)
	r.updateGaugesLocked()
	return nil
}

// SetGroupThreshold sets the discount threshold applied to the group's
// subscriptions that carry none of their own.
func (r *Registry) SetGroupThreshold(ctx context.Context, group string, minDiscount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.durable.SetGroupThreshold(ctx, group, minDiscount); err != nil {
		return fmt.Errorf("setting threshold for group %s: %w", group, err)
	}
	r.thresholds[group] = minDiscount
	return nil
}

// GroupThreshold returns the group's default discount threshold; 0 means
// any sale.
func (r *Registry) GroupThreshold(group string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.thresholds[group]
}

// Pin marks id as held by an in-flight check. It reports false when id is
// not tracked.
func (r *Registry) Pin(id domain.ProductID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false
	}
	r.pins[id]++
	return true
}

// Unpin releases a pin taken by Pin and runs any cleanup deferred while
// the product was held.
func (r *Registry) Unpin(ctx context.Context, id domain.ProductID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pins[id] > 1 {
		r.pins[id]--
		return nil
	}
	delete(r.pins, id)

	if !r.pending[id] {
		return nil
	}
	if _, tracked := r.products[id]; !tracked || len(r.subs[id]) > 0 {
		delete(r.pending, id)
		return nil
	}
	err := r.cleanupLocked(ctx, id)
	r.updateGaugesLocked()
	return err
}

// Product returns the tracked product with the given id.
func (r *Registry) Product(id domain.ProductID) (domain.TrackedProduct, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	return p, ok
}

// Products returns every tracked product ordered by id.
func (r *Registry) Products() []domain.TrackedProduct {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.TrackedProduct, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.TrackedProduct) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// DestinationsFor returns the subscriptions of id ordered by destination.
func (r *Registry) DestinationsFor(id domain.ProductID) []domain.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.subs[id]
	out := make([]domain.Subscription, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b domain.Subscription) int {
		return strings.Compare(a.Destination.Key(), b.Destination.Key())
	})
	return out
}

// Recipients returns the subscriptions of id with MinDiscount resolved: a
// subscription without its own threshold takes its group's.
func (r *Registry) Recipients(id domain.ProductID) []domain.Subscription {
	subs := r.DestinationsFor(id)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range subs {
		if subs[i].MinDiscount == 0 {
			subs[i].MinDiscount = r.thresholds[subs[i].Destination.GroupID]
		}
	}
	return subs
}

// ListForDestination returns the products dest follows, ordered by name.
func (r *Registry) ListForDestination(dest domain.Destination) []domain.TrackedProduct {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.TrackedProduct
	for id, set := range r.subs {
		if _, ok := set[dest.Key()]; !ok {
			continue
		}
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.TrackedProduct) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// SubscriptionsFor returns the subscriptions held by dest.
func (r *Registry) SubscriptionsFor(dest domain.Destination) []domain.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Subscription
	for _, set := range r.subs {
		if s, ok := set[dest.Key()]; ok {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b domain.Subscription) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return out
}

func (r *Registry) indexLocked(s domain.Subscription) {
	set, ok := r.subs[s.ProductID]
	if !ok {
		set = make(map[string]domain.Subscription)
		r.subs[s.ProductID] = set
	}
	set[s.Destination.Key()] = s
}

// cleanupLocked removes an unsubscribed product, or marks it pending when
// a check holds it.
func (r *Registry) cleanupLocked(ctx context.Context, id domain.ProductID) error {
	if r.pins[id] > 0 {
		r.pending[id] = true
		r.log.Debug("deferring product cleanup until check completes", "product_id", id)
		return nil
	}
	if err := r.durable.DeleteProduct(ctx, id); err != nil {
		r.pending[id] = true
		return fmt.Errorf("removing product %s: %w", id, err)
	}
	r.forgetLocked(id)
	r.log.Info("product no longer tracked", "product_id", id)
	return nil
}

// rollbackLocked undoes the creation of a product whose first subscription
// failed. A product row left behind is swept as an orphan on the next Load.
func (r *Registry) rollbackLocked(ctx context.Context, id domain.ProductID) {
	delete(r.products, id)
	delete(r.subs, id)
	if err := r.durable.DeleteProduct(context.WithoutCancel(ctx), id); err != nil {
		r.log.Warn("rolling back product creation", "product_id", id, "error", err)
	}
}

func (r *Registry) forgetLocked(id domain.ProductID) {
	delete(r.products, id)
	delete(r.subs, id)
	delete(r.pending, id)
	r.state.Remove(id)
}

func (r *Registry) updateGaugesLocked() {
	total := 0
	for _, set := range r.subs {
		total += len(set)
	}
	metrics.TrackedProducts.Set(float64(len(r.products)))
	metrics.Subscriptions.Set(float64(total))
}
