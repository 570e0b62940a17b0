package notify

import (
	"fmt"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

const storeAppURL = "https://store.steampowered.com/app/"

const (
	colorGreen  = 0x2ECC71 // sale started
	colorYellow = 0xF1C40F // price drop
	colorOrange = 0xE67E22 // sale ended
	colorBlue   = 0x3498DB // released
)

// Compose renders an event set for one product as a single message. A
// SaleStarted accompanied by a PriceDropped becomes one sale line. It
// reports false when events holds nothing to announce.
func Compose(p domain.TrackedProduct, events []domain.Event) (Message, bool) {
	var started, ended, dropped, released *domain.Event
	for i := range events {
		ev := &events[i]
		switch ev.Kind {
		case domain.EventSaleStarted:
			started = ev
		case domain.EventSaleEnded:
			ended = ev
		case domain.EventPriceDropped:
			dropped = ev
		case domain.EventReleased:
			released = ev
		default:
		}
	}
	if started == nil && ended == nil && dropped == nil && released == nil {
		return Message{}, false
	}

	next := events[len(events)-1].Next
	name := displayName(p)
	msg := Message{
		ProductID: p.ID,
		URL:       storeAppURL + string(p.ID) + "/",
		Price:     formatPrice(next.Price, next.Currency),
		Discount:  next.DiscountPercent,
	}

	if released != nil {
		msg.Title = "Released: " + name
		msg.Color = colorBlue
		msg.Kinds = append(msg.Kinds, domain.EventReleased)
		msg.Lines = append(msg.Lines, "Now available for "+msg.Price)
	}

	switch {
	case started != nil:
		msg.Kinds = append(msg.Kinds, domain.EventSaleStarted)
		line := fmt.Sprintf("On sale: %d%% off, now %s", next.DiscountPercent, msg.Price)
		if dropped != nil {
			msg.Kinds = append(msg.Kinds, domain.EventPriceDropped)
			line += " (was " + formatPrice(dropped.Prev.Price, next.Currency) + ")"
		} else if next.InitialPrice > next.Price {
			line += " (regular " + formatPrice(next.InitialPrice, next.Currency) + ")"
		}
		msg.Lines = append(msg.Lines, line)
		setHeadline(&msg, "Sale: "+name, colorGreen)
	case dropped != nil:
		msg.Kinds = append(msg.Kinds, domain.EventPriceDropped)
		msg.Lines = append(msg.Lines, fmt.Sprintf("Price dropped from %s to %s",
			formatPrice(dropped.Prev.Price, next.Currency), msg.Price))
		setHeadline(&msg, "Price drop: "+name, colorYellow)
	}

	if ended != nil {
		msg.Kinds = append(msg.Kinds, domain.EventSaleEnded)
		msg.Lines = append(msg.Lines, "Sale ended, price is now "+msg.Price)
		setHeadline(&msg, "Sale ended: "+name, colorOrange)
	}

	return msg, true
}

// FilterEvents drops the events a subscription does not want. SaleStarted
// is kept only when the discount reaches the subscription's threshold, and
// so is a PriceDropped caused purely by that discount. Drops in the base
// price are always kept.
func FilterEvents(events []domain.Event, sub domain.Subscription) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, ev := range events {
		switch ev.Kind {
		case domain.EventSaleStarted:
			if ev.Next.DiscountPercent < sub.MinDiscount {
				continue
			}
		case domain.EventPriceDropped:
			if discountDriven(ev) && ev.Next.DiscountPercent < sub.MinDiscount {
				continue
			}
		case domain.EventSaleEnded, domain.EventReleased:
		default:
			continue
		}
		out = append(out, ev)
	}
	return out
}

// discountDriven reports whether a price drop came from a discount on an
// unchanged base price.
func discountDriven(ev domain.Event) bool {
	return ev.Prev != nil && ev.Next.OnSale && ev.Next.InitialPrice == ev.Prev.InitialPrice
}

func setHeadline(msg *Message, title string, color int) {
	if msg.Title != "" {
		return
	}
	msg.Title = title
	msg.Color = color
}

func displayName(p domain.TrackedProduct) string {
	if p.Name != "" {
		return p.Name
	}
	return "App " + string(p.ID)
}

// formatPrice renders minor currency units. Free products have no currency.
func formatPrice(minor int64, currency string) string {
	if minor == 0 || currency == "" {
		return "Free"
	}
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, currency)
}
