package api

// HealthResponse is the payload for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Runs   int    `json:"runs"`
}

// StatusResponse is the payload for GET /status — the latest run summary.
type StatusResponse struct {
	SiteID     string  `json:"site_id"`
	Result     string  `json:"result"`
	StartedAt  string  `json:"started_at"` // RFC3339
	DurationMs float64 `json:"duration_ms"`
	Fetched    int     `json:"fetched"`
	Enriched   int     `json:"enriched"`
	Submitted  bool    `json:"submitted"`
	Error      string  `json:"error,omitempty"`
	Runs       int     `json:"runs"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
