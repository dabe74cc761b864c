// Package outage defines the upstream API data model (Outage, Device,
// SiteInfo, EnrichedOutage) and the pure filter/enrich transform.
//
// An outage decoded from upstream JSON keeps every source field verbatim —
// including fields outside the typed id/begin/end view and the original
// timestamp encoding — so the submitted payload is the source object with
// only the device name attached.
//
// Enrich keeps outages that begin at or after Cutoff and whose ID matches a
// device in the site, attaching that device's display name. The transform is
// stable (input order preserved), deterministic, and does no I/O — the cutoff
// is a constant, not wall-clock time.
package outage
