package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// DeliveriesByStatus returns a timeseries panel showing per-destination
// delivery outcomes.
func DeliveriesByStatus() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Deliveries by Status").
		Description("Per-destination deliveries per minute by status").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`sst:deliveries:rate5m * 60`, "{{status}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NotificationLatency returns a timeseries panel showing the p95 Discord
// send latency.
func NotificationLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Send Latency (p95)").
		Description("95th percentile Discord send latency").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`sst:notification_duration:p95_5m`, "p95", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NotificationFailures returns a timeseries panel showing send failures,
// dedup ledger errors and event stream publish failures.
func NotificationFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Failures").
		Description("Send failures by kind, dedup ledger errors and event stream publish failures").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`sum(increase(sst_notification_failures_total{%s}[5m])) by (kind)`, Job),
			"send {{kind}}", "A",
		)).
		WithTarget(PromQuery(fmt.Sprintf(`increase(sst_dedup_errors_total{%s}[5m])`, Job), "dedup", "B")).
		WithTarget(PromQuery(fmt.Sprintf(`increase(sst_event_publish_failures_total{%s}[5m])`, Job), "event stream", "C")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("sum", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
