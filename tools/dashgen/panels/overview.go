package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/gauge"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

func healthStat(title, description, check string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(fmt.Sprintf(`sst_health_check_up{check=%q}`, check), "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// LivenessStat returns a stat panel showing the liveness health check status.
func LivenessStat() *stat.PanelBuilder {
	return healthStat("Healthz", "Liveness health check status (1 = ok, 0 = failing)", "liveness")
}

// ReadinessStat returns a stat panel showing the readiness health check status.
func ReadinessStat() *stat.PanelBuilder {
	return healthStat("Readyz", "Readiness health check status (1 = ready, 0 = not ready)", "readiness")
}

// QuotaGauge returns a gauge panel showing Steam API usage within the
// current window as a percentage of the budget.
func QuotaGauge() *gauge.PanelBuilder {
	expr := fmt.Sprintf("sst_steam_window_usage{%s} / %d * 100", Job, SteamWindowLimit)
	return gauge.NewPanelBuilder().
		Title("Steam Quota %").
		Description("Steam API calls in the current window as percentage of the budget").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(expr, "", "A")).
		Unit("percent").
		Min(0).
		Max(100).
		Thresholds(ThresholdsGreenYellowRed(80, 95)).
		ColorScheme(ColorSchemeThresholds())
}

// UptimeStat returns a stat panel showing process uptime.
func UptimeStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Uptime").
		Description("Time since process start").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(fmt.Sprintf(`time() - process_start_time_seconds{%s}`, Job), "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
