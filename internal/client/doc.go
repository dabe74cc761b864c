// Package client implements the typed upstream API client.
//
// Operations: Outages (GET /outages), SiteInfo (GET /site-info/{siteId}),
// SubmitOutages (POST /site-outages/{siteId}). All three share one retry
// policy: HTTP 5xx and 429 responses are retried up to max_retries attempts
// with truncated exponential backoff (±25% jitter); any other failure —
// non-2xx status, network error, malformed JSON — fails immediately.
//
// Error taxonomy: *TransientError (retryable, internal to the loop) and
// *FatalError (what callers receive). Retry exhaustion surfaces as a
// FatalError wrapping the last TransientError.
//
// Authentication (API key header, bearer token) is injected by an
// authRoundTripper on the underlying http.Client, so individual operations
// never touch credentials.
package client
