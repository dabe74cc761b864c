package metrics

import (
	"net/http"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Run result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Registry accumulates sync counters and renders them in Prometheus text
// exposition format. Safe for concurrent use.
type Registry struct {
	mu               sync.Mutex
	runsTotal        map[string]float64 // keyed by result label
	outagesFetched   float64
	outagesSubmitted float64
	retriesTotal     float64
	lastRunUnix      float64
	lastRunSuccess   float64
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{runsTotal: make(map[string]float64)}
}

// RecordRun records one completed pipeline run.
func (r *Registry) RecordRun(result string, fetched, submitted int, finished time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runsTotal[result]++
	r.outagesFetched += float64(fetched)
	r.outagesSubmitted += float64(submitted)
	r.lastRunUnix = float64(finished.Unix())
	if result == ResultSuccess {
		r.lastRunSuccess = 1
	} else {
		r.lastRunSuccess = 0
	}
}

// IncRetries counts one retried upstream attempt.
func (r *Registry) IncRetries() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retriesTotal++
}

// ServeHTTP renders the registry as a Prometheus /metrics response.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range r.families() {
		if err := enc.Encode(mf); err != nil {
			// Client went away mid-write; nothing sensible to send.
			return
		}
	}
}

// families snapshots the registry into metric families.
func (r *Registry) families() []*dto.MetricFamily {
	r.mu.Lock()
	defer r.mu.Unlock()

	runs := counterFamily("outagesync_runs_total",
		"Completed pipeline runs by result.")
	for _, result := range []string{ResultSuccess, ResultFailure} {
		runs.Metric = append(runs.Metric, &dto.Metric{
			Label: []*dto.LabelPair{
				{Name: strPtr("result"), Value: strPtr(result)},
			},
			Counter: &dto.Counter{Value: f64Ptr(r.runsTotal[result])},
		})
	}

	return []*dto.MetricFamily{
		runs,
		singleCounter("outagesync_outages_fetched_total",
			"Outages fetched from the upstream service.", r.outagesFetched),
		singleCounter("outagesync_outages_submitted_total",
			"Enriched outages submitted to the upstream service.", r.outagesSubmitted),
		singleCounter("outagesync_retries_total",
			"Retried upstream attempts across all operations.", r.retriesTotal),
		singleGauge("outagesync_last_run_timestamp_seconds",
			"Unix time the last run finished.", r.lastRunUnix),
		singleGauge("outagesync_last_run_success",
			"1 when the last run succeeded, 0 otherwise.", r.lastRunSuccess),
	}
}

func counterFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: strPtr(name),
		Help: strPtr(help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
}

func singleCounter(name, help string, v float64) *dto.MetricFamily {
	mf := counterFamily(name, help)
	mf.Metric = []*dto.Metric{{Counter: &dto.Counter{Value: f64Ptr(v)}}}
	return mf
}

func singleGauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   strPtr(name),
		Help:   strPtr(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: f64Ptr(v)}}},
	}
}

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }
