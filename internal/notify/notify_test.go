package notify

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/outagesync/outagesync/internal/config"
)

// captureServer records every webhook body it receives.
type captureServer struct {
	mu     sync.Mutex
	bodies []string
	srv    *httptest.Server
}

func newCaptureServer(t *testing.T, envVar string) *captureServer {
	t.Helper()
	cs := &captureServer{}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		cs.mu.Lock()
		cs.bodies = append(cs.bodies, string(b))
		cs.mu.Unlock()
	}))
	t.Cleanup(cs.srv.Close)
	t.Setenv(envVar, cs.srv.URL)
	return cs
}

func (cs *captureServer) count() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.bodies)
}

func notifier(webhooks ...config.WebhookConfig) *Notifier {
	return New(config.NotifyConfig{Webhooks: webhooks})
}

func TestRunCompleted_FiresOnFirstFailureOnly(t *testing.T) {
	cs := newCaptureServer(t, "TEST_NOTIFY_URL")
	n := notifier(config.WebhookConfig{Type: "http", URLEnv: "TEST_NOTIFY_URL"})

	n.RunCompleted("norwich-pear-tree", errors.New("boom"))
	n.RunCompleted("norwich-pear-tree", errors.New("still boom"))

	if got := cs.count(); got != 1 {
		t.Errorf("deliveries = %d, want 1 (no re-fire on repeated failure)", got)
	}

	var payload struct {
		Event Event `json:"event"`
	}
	if err := json.Unmarshal([]byte(cs.bodies[0]), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Event.State != StateFailed {
		t.Errorf("state = %q, want failed", payload.Event.State)
	}
	if payload.Event.SiteID != "norwich-pear-tree" {
		t.Errorf("site_id = %q", payload.Event.SiteID)
	}
}

func TestRunCompleted_FiresOnRecovery(t *testing.T) {
	cs := newCaptureServer(t, "TEST_NOTIFY_URL")
	n := notifier(config.WebhookConfig{Type: "http", URLEnv: "TEST_NOTIFY_URL"})

	n.RunCompleted("s", errors.New("boom"))
	n.RunCompleted("s", nil)
	n.RunCompleted("s", nil)

	if got := cs.count(); got != 2 {
		t.Fatalf("deliveries = %d, want 2 (failed + recovered)", got)
	}
	if !strings.Contains(cs.bodies[1], StateRecovered) {
		t.Errorf("second delivery = %q, want recovered event", cs.bodies[1])
	}
}

func TestRunCompleted_SilentWhileHealthy(t *testing.T) {
	cs := newCaptureServer(t, "TEST_NOTIFY_URL")
	n := notifier(config.WebhookConfig{Type: "http", URLEnv: "TEST_NOTIFY_URL"})

	n.RunCompleted("s", nil)
	n.RunCompleted("s", nil)

	if got := cs.count(); got != 0 {
		t.Errorf("deliveries = %d, want 0", got)
	}
}

func TestSlackPayloadShape(t *testing.T) {
	cs := newCaptureServer(t, "TEST_SLACK_URL")
	n := notifier(config.WebhookConfig{Type: "slack", URLEnv: "TEST_SLACK_URL"})

	n.RunCompleted("s", errors.New("boom"))

	if cs.count() != 1 {
		t.Fatal("no slack delivery")
	}
	var msg map[string]string
	if err := json.Unmarshal([]byte(cs.bodies[0]), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(msg["text"], "[FAILED]") {
		t.Errorf("text = %q, want [FAILED] prefix", msg["text"])
	}
}

func TestUnresolvedURL_Skipped(t *testing.T) {
	// URLEnv points at an unset variable — target silently skipped.
	n := notifier(config.WebhookConfig{Type: "http", URLEnv: "TEST_NOTIFY_UNSET"})
	n.RunCompleted("s", errors.New("boom")) // must not panic or block
}

func TestNoWebhooks_NoOp(t *testing.T) {
	n := New(config.NotifyConfig{})
	n.RunCompleted("s", errors.New("boom"))
	n.RunCompleted("s", nil)
}
