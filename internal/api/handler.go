package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/outagesync/outagesync/internal/metrics"
	"github.com/outagesync/outagesync/internal/sync"
)

// Handler is the HTTP handler for the admin diagnostics endpoints.
// It reads run state from the status store and serves metrics.
type Handler struct {
	status *sync.Status
	mux    *http.ServeMux
}

// New creates a Handler wired to the given status store and metrics registry,
// and registers all routes.
func New(st *sync.Status, reg *metrics.Registry) http.Handler {
	h := &Handler{status: st, mux: http.NewServeMux()}

	h.mux.HandleFunc("/healthz", h.health)
	h.mux.HandleFunc("/status", h.lastRun)
	h.mux.Handle("/metrics", reg)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// health returns GET /healthz — process liveness and run count.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok", Runs: h.status.Runs()})
}

// lastRun returns GET /status — the most recent run summary.
// 404 until the first run completes.
func (h *Handler) lastRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sum, ok := h.status.Last()
	if !ok {
		jsonErr(w, http.StatusNotFound, "no runs recorded yet")
		return
	}

	jsonResp(w, http.StatusOK, StatusResponse{
		SiteID:     sum.SiteID,
		Result:     sum.Result,
		StartedAt:  sum.StartedAt.UTC().Format(time.RFC3339),
		DurationMs: float64(sum.Duration) / float64(time.Millisecond),
		Fetched:    sum.Fetched,
		Enriched:   sum.Enriched,
		Submitted:  sum.Submitted,
		Error:      sum.Error,
		Runs:       h.status.Runs(),
	})
}

// --- response helpers -------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
