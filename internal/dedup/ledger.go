// Package dedup records which notifications have already been handed to a
// delivery channel so that overlapping checks never notify a destination
// twice for the same event.
package dedup

import (
	"context"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Ledger claims delivery keys. Claim reports true exactly once per key
// within the ledger's retention window.
type Ledger interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// Key identifies one event set delivered to one destination. It is built
// from the transition itself, never from when it was observed, so replicas
// that fetch the same change independently produce the same key.
func Key(id domain.ProductID, dest domain.Destination, events []domain.Event) string {
	var b strings.Builder
	b.WriteString(string(id))
	b.WriteByte('|')
	b.WriteString(dest.Key())
	if len(events) > 0 {
		b.WriteByte('|')
		writeState(&b, events[0].Prev)
		b.WriteString(">")
		next := events[0].Next
		writeState(&b, &next)
	}
	for i, ev := range events {
		if i == 0 {
			b.WriteByte('|')
		} else {
			b.WriteByte(',')
		}
		b.WriteString(ev.Kind.String())
	}
	return b.String()
}

func writeState(b *strings.Builder, s *domain.Snapshot) {
	if s == nil {
		b.WriteByte('-')
		return
	}
	b.WriteString(strconv.FormatInt(s.Price, 10))
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(s.InitialPrice, 10))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(s.DiscountPercent))
	b.WriteByte(':')
	b.WriteString(strconv.FormatBool(s.OnSale))
	b.WriteByte(':')
	b.WriteString(strconv.FormatBool(s.Released))
	b.WriteByte(':')
	b.WriteString(s.Currency)
}
