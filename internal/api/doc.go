// Package api serves the admin diagnostics endpoints for interval mode:
// GET /healthz (liveness), GET /status (latest run summary as JSON), and
// GET /metrics (Prometheus text exposition).
package api
