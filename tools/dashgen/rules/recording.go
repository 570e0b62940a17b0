package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "sst-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "sst-recording",
					Rules: []Rule{
						{
							Record: "sst:http_requests:rate5m",
							Expr:   `sum(rate(sst_http_requests_total[5m]))`,
						},
						{
							Record: "sst:http_errors:rate5m",
							Expr:   `sum(rate(sst_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "sst:checks:rate5m",
							Expr:   `sum(rate(sst_checks_total[5m])) by (outcome)`,
						},
						{
							Record: "sst:steam_api_calls:rate5m",
							Expr:   `rate(sst_steam_api_calls_total[5m])`,
						},
						{
							Record: "sst:steam_fetch_errors:rate5m",
							Expr:   `sum(rate(sst_steam_fetch_errors_total[5m])) by (kind)`,
						},
						{
							Record: "sst:deliveries:rate5m",
							Expr:   `sum(rate(sst_deliveries_total[5m])) by (status)`,
						},
						{
							Record: "sst:notification_duration:p95_5m",
							Expr:   `histogram_quantile(0.95, sum(rate(sst_notification_duration_seconds_bucket[5m])) by (le))`,
						},
						{
							Record: "sst:events_detected:increase1h",
							Expr:   `sum(increase(sst_events_detected_total[1h])) by (kind)`,
						},
					},
				},
			},
		},
	}
}
