package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// sale-tracker operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "sst-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "sst-alerts",
					Rules: []Rule{
						{
							Alert:  "SstDown",
							Expr:   `absent(up{job="sale-tracker"})`,
							For:    "2m",
							Labels: map[string]string{"severity": "critical"},
							Annotations: map[string]string{
								"summary":     "Sale Tracker is down",
								"description": "The sale-tracker job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert:  "SstReadinessDown",
							Expr:   `sst_health_check_up{check="readiness"} == 0`,
							For:    "2m",
							Labels: map[string]string{"severity": "critical"},
							Annotations: map[string]string{
								"summary":     "Sale Tracker readiness check is failing",
								"description": "A dependency (database or dedup ledger) has been unreachable for more than 2 minutes.",
							},
						},
						{
							Alert:  "SstHighErrorRate",
							Expr:   `sst:http_errors:rate5m / sst:http_requests:rate5m > 0.05`,
							For:    "5m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Sale Tracker",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert:  "SstSchedulerLate",
							Expr:   `time() - sst_scheduler_next_tick_timestamp > 900`,
							For:    "5m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "Scheduler tick is overdue",
								"description": "The next scheduled tick is more than 15 minutes in the past.",
							},
						},
						{
							Alert:  "SstSteamFetchErrors",
							Expr:   `sum(sst:steam_fetch_errors:rate5m{kind=~"transient|malformed"}) > 0.05`,
							For:    "15m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "Steam fetches are failing",
								"description": "Transient or malformed Steam responses have persisted for 15 minutes.",
							},
						},
						{
							Alert:  "SstSteamBudgetExhausted",
							Expr:   `increase(sst_steam_window_limit_hits_total[5m]) > 0`,
							For:    "0m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "Steam API window budget exhausted",
								"description": "Checks are being deferred until the Steam API window resets.",
							},
						},
						{
							Alert:  "SstStoreErrors",
							Expr:   `sum(increase(sst_store_errors_total[5m])) > 0`,
							For:    "5m",
							Labels: map[string]string{"severity": "critical"},
							Annotations: map[string]string{
								"summary":     "Durable store errors",
								"description": "Snapshot or subscription writes are failing; detected changes are not being committed.",
							},
						},
						{
							Alert:  "SstDeliveryFailures",
							Expr:   `increase(sst_deliveries_total{status="failed"}[15m]) > 0`,
							For:    "1m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more Discord deliveries exhausted their retries. See /api/v1/deliveries/failures.",
							},
						},
					},
				},
			},
		},
	}
}
