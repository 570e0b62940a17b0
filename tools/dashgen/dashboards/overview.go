// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/sale-tracker/tools/dashgen/panels"
)

// BuildOverview constructs the Sale Tracker overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Sale Tracker Overview").
		Uid("sst-overview").
		Tags([]string{"sst", "sale-tracker"}).
		Refresh("30s").
		Time("now-24h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.LivenessStat()).
		WithPanel(panels.ReadinessStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Scheduler").
		WithPanel(panels.NextTick()).
		WithPanel(panels.ProductsInBackoff()).
		WithPanel(panels.LimitHits()).
		WithPanel(panels.StoreErrors()).
		WithPanel(panels.ChecksByOutcome()).
		WithPanel(panels.TickDuration()))

	b.WithRow(dashboard.NewRowBuilder("Steam API").
		WithPanel(panels.APICallsRate()).
		WithPanel(panels.WindowUsage()).
		WithPanel(panels.FetchErrors()))

	b.WithRow(dashboard.NewRowBuilder("Tracking").
		WithPanel(panels.TrackedProducts()).
		WithPanel(panels.Subscriptions()).
		WithPanel(panels.ProductsRemoved()).
		WithPanel(panels.EventsDetected()))

	b.WithRow(dashboard.NewRowBuilder("Notifications").
		WithPanel(panels.DeliveriesByStatus()).
		WithPanel(panels.NotificationLatency()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
