package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/outagesync/outagesync/internal/client"
	"github.com/outagesync/outagesync/internal/metrics"
	"github.com/outagesync/outagesync/internal/notify"
	"github.com/outagesync/outagesync/internal/outage"
)

// Runner executes the fetch → enrich → submit pipeline for one site.
type Runner struct {
	client   *client.Client
	siteID   string
	registry *metrics.Registry
	notifier *notify.Notifier
	status   *Status
}

// NewRunner wires a Runner. The client's retry hook is connected to the
// metrics registry so retried attempts show up in /metrics.
func NewRunner(c *client.Client, siteID string, reg *metrics.Registry, n *notify.Notifier, st *Status) *Runner {
	c.OnRetry = func(string) { reg.IncRetries() }
	return &Runner{
		client:   c,
		siteID:   siteID,
		registry: reg,
		notifier: n,
		status:   st,
	}
}

// Run executes one full pipeline pass. The two fetches are independent and
// run concurrently; both must complete before enrichment. A run with nothing
// to submit still counts as success — the POST is skipped with a warning.
func (r *Runner) Run(ctx context.Context) error {
	started := time.Now()
	slog.Info("sync: starting run", "site", r.siteID)

	outages, site, err := r.fetch(ctx)
	if err != nil {
		r.finish(Summary{SiteID: r.siteID, StartedAt: started}, err)
		return err
	}
	slog.Info("sync: fetched upstream data",
		"site", r.siteID,
		"outages", len(outages),
		"devices", len(site.Devices),
	)

	enriched := outage.Enrich(outages, site)
	slog.Info("sync: filtered and enriched outages",
		"site", r.siteID,
		"kept", len(enriched),
		"discarded", len(outages)-len(enriched),
	)

	sum := Summary{
		SiteID:    r.siteID,
		StartedAt: started,
		Fetched:   len(outages),
		Enriched:  len(enriched),
	}

	if len(enriched) == 0 {
		slog.Warn("sync: no enriched outages — skipping submit", "site", r.siteID)
		r.finish(sum, nil)
		return nil
	}

	if err := r.client.SubmitOutages(ctx, r.siteID, enriched); err != nil {
		r.finish(sum, err)
		return err
	}
	sum.Submitted = true

	r.finish(sum, nil)
	slog.Info("sync: run complete",
		"site", r.siteID,
		"submitted", len(enriched),
		"duration", time.Since(started),
	)
	return nil
}

// fetch retrieves the outage list and the site info concurrently.
func (r *Runner) fetch(ctx context.Context) ([]outage.Outage, outage.SiteInfo, error) {
	type outagesResult struct {
		outages []outage.Outage
		err     error
	}
	ch := make(chan outagesResult, 1)
	go func() {
		o, err := r.client.Outages(ctx)
		ch <- outagesResult{outages: o, err: err}
	}()

	site, siteErr := r.client.SiteInfo(ctx, r.siteID)
	res := <-ch

	if res.err != nil {
		return nil, outage.SiteInfo{}, res.err
	}
	if siteErr != nil {
		return nil, outage.SiteInfo{}, siteErr
	}
	return res.outages, site, nil
}

// finish records the run outcome in status, metrics and notifications.
func (r *Runner) finish(sum Summary, err error) {
	sum.Duration = time.Since(sum.StartedAt)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailure
		sum.Error = err.Error()
		slog.Error("sync: run failed", "site", r.siteID, "err", err)
	}
	sum.Result = result

	r.status.Record(sum)
	r.registry.RecordRun(result, sum.Fetched, submittedCount(sum), sum.StartedAt.Add(sum.Duration))
	r.notifier.RunCompleted(r.siteID, err)
}

func submittedCount(sum Summary) int {
	if !sum.Submitted {
		return 0
	}
	return sum.Enriched
}

// RunLoop runs the pipeline immediately and then on every tick of interval
// until ctx is cancelled. Individual run failures do not stop the loop;
// each is already logged and recorded by Run.
func (r *Runner) RunLoop(ctx context.Context, interval time.Duration) {
	r.Run(ctx)
	if ctx.Err() != nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Run(ctx)
			if ctx.Err() != nil {
				return
			}
		}
	}
}
