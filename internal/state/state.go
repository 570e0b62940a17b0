// Package state holds the authoritative last-known snapshot of every tracked
// product. Swaps for one product are serialized; different products never
// contend. Every swap writes through to durable storage before the
// in-memory value changes.
package state

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Durable is the persistence the state store writes through to.
type Durable interface {
	UpdateSnapshot(ctx context.Context, id domain.ProductID, snap domain.Snapshot) error
	ListProducts(ctx context.Context) ([]domain.TrackedProduct, error)
}

type record struct {
	mu   sync.Mutex
	snap *domain.Snapshot
}

// Store maps product ids to their last-known snapshot.
type Store struct {
	durable Durable

	mu      sync.Mutex
	records map[domain.ProductID]*record
}

// New creates an empty Store backed by durable.
func New(durable Durable) *Store {
	return &Store{
		durable: durable,
		records: make(map[domain.ProductID]*record),
	}
}

// Load replaces the in-memory state with the snapshots held in durable storage.
func (s *Store) Load(ctx context.Context) error {
	products, err := s.durable.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshots: %w", err)
	}

	records := make(map[domain.ProductID]*record, len(products))
	for _, p := range products {
		records[p.ID] = &record{snap: copySnapshot(p.LastSnapshot)}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

func (s *Store) record(id domain.ProductID) *record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		rec = &record{}
		s.records[id] = rec
	}
	return rec
}

// Swap stores next as the current snapshot of id and returns the previous
// one, or nil on first observation. If the durable write fails the
// previous value is kept and the store error is returned.
func (s *Store) Swap(ctx context.Context, id domain.ProductID, next domain.Snapshot) (*domain.Snapshot, error) {
	rec := s.record(id)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := s.durable.UpdateSnapshot(ctx, id, next); err != nil {
		return nil, fmt.Errorf("persisting snapshot for %s: %w", id, err)
	}

	prev := rec.snap
	rec.snap = &next
	return copySnapshot(prev), nil
}

// Get returns a copy of the current snapshot of id, or nil.
func (s *Store) Get(id domain.ProductID) *domain.Snapshot {
	s.mu.Lock()
	rec, ok := s.records[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return copySnapshot(rec.snap)
}

// Remove forgets id. The durable row is owned by the subscription registry.
func (s *Store) Remove(id domain.ProductID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

// Len returns the number of products with state.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func copySnapshot(s *domain.Snapshot) *domain.Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
