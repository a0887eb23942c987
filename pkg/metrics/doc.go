/*
Package metrics provides Prometheus metrics for nmctl reconciliations.

The metrics package defines and registers all nmctl metrics using the
Prometheus client library, giving observability into reconciliation outcomes,
Netmaker API request volume and latency, and login exchanges. Metrics are
registered against the default registry at package init and can be exposed
with Handler() when nmctl is embedded in a long-running process.

# Metric Categories

	Reconciler: nmctl_reconciliations_total{kind,action}
	            nmctl_reconciliation_duration_seconds{kind}
	API:        nmctl_api_requests_total{method,status}
	            nmctl_api_request_duration_seconds{method}
	Auth:       nmctl_auth_logins_total{outcome}

The action label on reconciliations records the converging decision taken:
created, updated, deleted, unchanged, or dry-run.

# Timer

Timer wraps elapsed-time measurement for histogram observation:

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ReconciliationDuration.WithLabelValues("network"))
*/
package metrics
