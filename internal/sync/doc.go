// Package sync orchestrates the outage pipeline: fetch the outage list and
// site info (concurrently — they are independent), filter and enrich against
// the site's device inventory, and submit the result upstream.
//
// Runner.Run executes one pass; Runner.RunLoop re-runs on a ticker for
// interval mode. Every run's outcome is recorded in the Status store (served
// at /status), the metrics registry, and the failure notifier.
package sync
