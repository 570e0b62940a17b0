package detector

import (
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Detect compares two snapshots of the same product and returns the events
// they imply, in the order SaleStarted, SaleEnded, PriceDropped, Released.
//
// A nil prev is a first observation: the snapshot becomes the baseline and
// only a Released event can fire, and only when trackRelease is set.
// Price rules only compare snapshots priced in the same currency. An
// unpriced snapshot (coming soon, or free) has no currency and compares
// against any other, so a price appearing or vanishing is still seen.
// Released is independent of pricing.
func Detect(id domain.ProductID, prev *domain.Snapshot, next domain.Snapshot, trackRelease bool) []domain.Event {
	if prev == nil {
		if next.Released && trackRelease {
			return []domain.Event{{Kind: domain.EventReleased, ProductID: id, Next: next}}
		}
		return nil
	}

	var events []domain.Event
	emit := func(kind domain.EventKind) {
		p := *prev
		events = append(events, domain.Event{Kind: kind, ProductID: id, Prev: &p, Next: next})
	}

	if samePricing(*prev, next) {
		if !prev.OnSale && next.OnSale {
			emit(domain.EventSaleStarted)
		}
		if prev.OnSale && !next.OnSale {
			emit(domain.EventSaleEnded)
		}
		if next.Price < prev.Price {
			emit(domain.EventPriceDropped)
		}
	}
	if !prev.Released && next.Released {
		emit(domain.EventReleased)
	}

	return events
}

// samePricing reports whether the price rules may compare a and b. Two
// priced snapshots in different currencies start a new baseline.
func samePricing(a, b domain.Snapshot) bool {
	return a.Currency == "" || b.Currency == "" || a.Currency == b.Currency
}

// Kinds returns the kinds of events, preserving order.
func Kinds(events []domain.Event) []domain.EventKind {
	kinds := make([]domain.EventKind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
