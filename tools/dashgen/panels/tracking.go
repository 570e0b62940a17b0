package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

func countStat(title, description, expr string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(expr, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// TrackedProducts returns a stat panel showing how many products are tracked.
func TrackedProducts() *stat.PanelBuilder {
	return countStat("Tracked Products", "Products with at least one subscription",
		fmt.Sprintf(`sst_tracked_products{%s}`, Job))
}

// Subscriptions returns a stat panel showing the number of subscriptions.
func Subscriptions() *stat.PanelBuilder {
	return countStat("Subscriptions", "Destination and product pairs",
		fmt.Sprintf(`sst_subscriptions{%s}`, Job))
}

// ProductsRemoved returns a stat panel showing products dropped after
// repeated not-found responses in the past 7 days.
func ProductsRemoved() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Removed (7d)").
		Description("Products removed after repeated not-found responses").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(fmt.Sprintf(`increase(sst_products_removed_total{%s}[7d])`, Job), "", "A")).
		Thresholds(ThresholdsGreenAbove(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// StoreErrors returns a stat panel showing durable store errors in the
// past hour.
func StoreErrors() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Store Errors (1h)").
		Description("Durable store operations that failed").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(fmt.Sprintf(`sum(increase(sst_store_errors_total{%s}[1h]))`, Job), "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// EventsDetected returns a timeseries panel showing detected events by kind.
func EventsDetected() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Events Detected").
		Description("Detected storefront events per hour by kind").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(FullWidth).
		WithTarget(PromQuery(`sst:events_detected:increase1h`, "{{kind}}", "A")).
		FillOpacity(30).
		LineWidth(1).
		Legend(TableLegend("sum", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}
