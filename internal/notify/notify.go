package notify

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/outagesync/outagesync/internal/config"
)

// Event states.
const (
	StateFailed    = "failed"
	StateRecovered = "recovered"
)

// Event is one notification produced by a sync state transition.
type Event struct {
	SiteID  string    `json:"site_id"`
	State   string    `json:"state"` // "failed" | "recovered"
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier delivers webhook notifications when a sync run starts failing and
// when it recovers. Repeated failures do not re-fire; only the transition
// does. Safe for concurrent use.
type Notifier struct {
	webhooks []config.WebhookConfig
	client   *http.Client

	mu      sync.Mutex
	failing bool
	now     func() time.Time // injectable for deterministic tests
}

// New creates a Notifier from the notify configuration.
// A Notifier with no webhooks is valid — RunCompleted becomes a no-op.
func New(cfg config.NotifyConfig) *Notifier {
	return &Notifier{
		webhooks: cfg.Webhooks,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// RunCompleted records the outcome of one pipeline run and delivers a
// notification if the ok/failing state changed. Delivery errors are logged
// and never affect the caller.
func (n *Notifier) RunCompleted(siteID string, runErr error) {
	if len(n.webhooks) == 0 {
		return
	}

	n.mu.Lock()
	wasFailing := n.failing
	n.failing = runErr != nil
	n.mu.Unlock()

	switch {
	case runErr != nil && !wasFailing:
		n.deliver(&Event{
			SiteID:  siteID,
			State:   StateFailed,
			Message: fmt.Sprintf("outage sync for %s failed: %v", siteID, runErr),
			At:      n.now(),
		})
	case runErr == nil && wasFailing:
		n.deliver(&Event{
			SiteID:  siteID,
			State:   StateRecovered,
			Message: fmt.Sprintf("outage sync for %s recovered", siteID),
			At:      n.now(),
		})
	}
}

// deliver sends e to all configured targets.
func (n *Notifier) deliver(e *Event) {
	for _, wh := range n.webhooks {
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = n.sendSlack(url, e)
		case "teams":
			err = n.sendTeams(url, e)
		case "http":
			err = n.sendHTTP(url, e)
		default:
			slog.Warn("notify: unknown webhook type — skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("notify: webhook delivery failed",
				"type", wh.Type,
				"site", e.SiteID,
				"err", err,
			)
		} else {
			slog.Debug("notify: webhook delivered",
				"type", wh.Type,
				"site", e.SiteID,
				"state", e.State,
			)
		}
	}
}
