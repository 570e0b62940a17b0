package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/donaldgifford/sale-tracker/internal/api/handlers"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printTrackingTable(w io.Writer, items []handlers.TrackingBody) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tPRICE\tDISCOUNT\tMIN DISCOUNT\tRELEASED\n")
	for i := range items {
		p := &items[i].Product
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			truncate(p.Name, 40),
			snapshotPrice(p.LastSnapshot),
			snapshotDiscount(p.LastSnapshot),
			minDiscount(items[i].MinDiscount),
			snapshotReleased(p.LastSnapshot),
		)
	}
	return tw.finish()
}

func printProductsTable(w io.Writer, products []handlers.ProductView) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tPRICE\tDISCOUNT\tSUBS\tPHASE\tMISSES\tLAST OUTCOME\tLAST CHECK\n")
	for i := range products {
		p := &products[i]
		tw.writef("%s\t%s\t%s\t%s\t%d\t%s\t%d\t%s\t%s\n",
			p.ID,
			truncate(p.Name, 40),
			snapshotPrice(p.LastSnapshot),
			snapshotDiscount(p.LastSnapshot),
			p.Subscribers,
			p.Phase,
			p.Misses,
			orDash(p.LastOutcome),
			formatTime(p.LastCheck),
		)
	}
	return tw.finish()
}

func printFailuresTable(w io.Writer, failures []domain.DeliveryFailure) error {
	tw := newTabWriter(w)
	tw.writef("FAILED AT\tPRODUCT\tDESTINATION\tEVENTS\tATTEMPTS\tERROR\n")
	for i := range failures {
		f := &failures[i]
		kinds := make([]string, len(f.Kinds))
		for j, k := range f.Kinds {
			kinds[j] = k.String()
		}
		tw.writef("%s\t%s\t%s\t%s\t%d\t%s\n",
			f.FailedAt.Format(timeLayout),
			f.ProductID,
			f.Destination.Key(),
			strings.Join(kinds, ","),
			f.Attempts,
			truncate(f.Error, 50),
		)
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatPrice renders minor currency units, e.g. 1999 USD as "19.99 USD".
func formatPrice(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	s := fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
	if currency != "" {
		s += " " + currency
	}
	return s
}

func snapshotPrice(s *domain.Snapshot) string {
	if s == nil {
		return "-"
	}
	return formatPrice(s.Price, s.Currency)
}

func snapshotDiscount(s *domain.Snapshot) string {
	if s == nil || !s.OnSale {
		return "-"
	}
	return fmt.Sprintf("%d%%", s.DiscountPercent)
}

func snapshotReleased(s *domain.Snapshot) string {
	if s == nil {
		return "-"
	}
	if s.Released {
		return "yes"
	}
	return "no"
}

func minDiscount(n int) string {
	if n == 0 {
		return "any"
	}
	return fmt.Sprintf("%d%%", n)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
