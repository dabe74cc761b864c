// Package metrics exposes sync counters in Prometheus text exposition format.
//
// Registry tracks runs (by result), outages fetched/submitted, retried
// upstream attempts, and the last run's finish time and outcome. It
// implements http.Handler for the admin /metrics endpoint, encoding with
// prometheus/common's expfmt — the same wire format the rest of the
// monitoring stack consumes.
package metrics
