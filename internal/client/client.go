package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/outagesync/outagesync/internal/config"
	"github.com/outagesync/outagesync/internal/outage"
)

const backoffMax = 30 * time.Second

// maxBodyBytes caps how much of a response body is read. The outage list for
// a large site stays well under this; anything bigger is a broken upstream.
const maxBodyBytes = 8 << 20

// Client talks to the upstream outage API. All calls share one retry policy:
// transient upstream errors (HTTP 5xx, 429) are retried up to MaxRetries
// attempts with truncated exponential backoff; everything else fails fast.
type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries int
	backoff    time.Duration

	// OnRetry, when set, is invoked once per retried attempt with the
	// operation name. Used by the sync runner to count retries.
	OnRetry func(op string)
}

// New builds a Client for the given API configuration.
func New(cfg config.APIConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		http:       buildHTTPClient(cfg),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
	}
}

// Outages fetches the full outage list from GET /outages.
func (c *Client) Outages(ctx context.Context) ([]outage.Outage, error) {
	var out []outage.Outage
	if err := c.call(ctx, "get outages", http.MethodGet, "/outages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SiteInfo fetches device metadata for siteID from GET /site-info/{siteId}.
func (c *Client) SiteInfo(ctx context.Context, siteID string) (outage.SiteInfo, error) {
	var info outage.SiteInfo
	path := "/site-info/" + url.PathEscape(siteID)
	if err := c.call(ctx, "get site info", http.MethodGet, path, nil, &info); err != nil {
		return outage.SiteInfo{}, err
	}
	return info, nil
}

// SubmitOutages posts the enriched outage list to POST /site-outages/{siteId}.
func (c *Client) SubmitOutages(ctx context.Context, siteID string, outages []outage.EnrichedOutage) error {
	path := "/site-outages/" + url.PathEscape(siteID)
	return c.call(ctx, "submit outages", http.MethodPost, path, outages, nil)
}

// call runs one API operation through the shared retry loop.
// body (when non-nil) is JSON-encoded as the request payload; a 2xx response
// body is JSON-decoded into out (when non-nil).
func (c *Client) call(ctx context.Context, op, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &FatalError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
	}

	bo := newBackoff(c.backoff)
	var lastStatus int

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		status, err := c.attempt(ctx, op, method, path, payload, out)
		if err == nil {
			return nil
		}

		var te *TransientError
		if !errors.As(err, &te) {
			return err
		}
		lastStatus = status

		if attempt == c.maxRetries {
			break
		}

		wait := bo.next()
		slog.Warn("client: transient upstream error, will retry",
			"op", op,
			"status", status,
			"attempt", attempt,
			"max_attempts", c.maxRetries,
			"retry_in", wait,
		)
		if c.OnRetry != nil {
			c.OnRetry(op)
		}

		select {
		case <-ctx.Done():
			return &FatalError{Op: op, Err: ctx.Err()}
		case <-time.After(wait):
		}
	}

	return &FatalError{
		Op:     op,
		Status: lastStatus,
		Err:    fmt.Errorf("retries exhausted after %d attempts: %w", c.maxRetries, &TransientError{Op: op, Status: lastStatus}),
	}
}

// attempt performs a single HTTP round trip. It returns the response status
// (0 when no response was received) and either nil, a *TransientError, or a
// *FatalError.
func (c *Client) attempt(ctx context.Context, op, method, path string, payload []byte, out any) (int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, &FatalError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &FatalError{Op: op, Err: fmt.Errorf("http %s: %w", strings.ToLower(method), err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, &FatalError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return resp.StatusCode, nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, &FatalError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
		return resp.StatusCode, nil

	case transientStatus(resp.StatusCode):
		return resp.StatusCode, &TransientError{Op: op, Status: resp.StatusCode}

	default:
		return resp.StatusCode, &FatalError{Op: op, Status: resp.StatusCode}
	}
}

// authRoundTripper injects authentication headers into every outgoing request.
type authRoundTripper struct {
	base http.RoundTripper
	auth config.AuthConfig
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.auth.Mode {
	case "apikey":
		req = req.Clone(req.Context())
		req.Header.Set(t.auth.EffectiveHeader(), t.auth.Key())
	case "bearer":
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.auth.Token())
	}
	return t.base.RoundTrip(req)
}

// buildHTTPClient constructs an http.Client for the API's auth and TLS settings.
func buildHTTPClient(cfg config.APIConfig) *http.Client {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: cfg.TLS.InsecureSkipVerify, //nolint:gosec // user-configured
	}
	transport := &authRoundTripper{
		base: &http.Transport{TLSClientConfig: tlsCfg},
		auth: cfg.Auth,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}

// backoff implements truncated exponential backoff with jitter.
type backoff struct {
	current time.Duration
}

func newBackoff(initial time.Duration) *backoff {
	return &backoff{current: initial}
}

// next returns the current backoff duration and advances the internal state.
func (b *backoff) next() time.Duration {
	d := b.current
	// Apply ±25 % jitter.
	jitter := time.Duration(float64(b.current) * 0.25 * (rand.Float64()*2 - 1)) //nolint:gosec // not crypto
	d += jitter
	if d < 0 {
		d = 0
	}

	b.current *= 2
	if b.current > backoffMax {
		b.current = backoffMax
	}
	return d
}
