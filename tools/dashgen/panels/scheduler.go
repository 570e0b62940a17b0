package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// NextTick returns a stat panel showing time until the next scheduled tick.
func NextTick() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Next Tick").
		Description("Time until the next scheduled tick; negative means the scheduler is late").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(fmt.Sprintf(`sst_scheduler_next_tick_timestamp{%s} - time()`, Job), "", "A")).
		Unit("s").
		Thresholds(ThresholdsRedGreen(0)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// ProductsInBackoff returns a stat panel showing products waiting out a backoff.
func ProductsInBackoff() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("In Backoff").
		Description("Products skipped until their backoff expires").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(fmt.Sprintf(`sst_products_in_backoff{%s}`, Job), "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// ChecksByOutcome returns a timeseries panel showing the product check
// rate split by outcome.
func ChecksByOutcome() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Checks by Outcome").
		Description("Product checks per minute by outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sst:checks:rate5m * 60`, "{{outcome}}", "A")).
		FillOpacity(20).
		LineWidth(1).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// TickDuration returns a timeseries panel showing tick and per-product
// check duration percentiles.
func TickDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Tick Duration").
		Description("p95 duration of a full tick and of a single product check").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`histogram_quantile(0.95, sum(rate(sst_tick_duration_seconds_bucket{%s}[1h])) by (le))`, Job),
			"tick p95", "A",
		)).
		WithTarget(PromQuery(
			fmt.Sprintf(`histogram_quantile(0.95, sum(rate(sst_check_duration_seconds_bucket{%s}[5m])) by (le))`, Job),
			"check p95", "B",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
