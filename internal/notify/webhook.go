package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

func (n *Notifier) sendSlack(url string, e *Event) error {
	body, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("*%s* %s", stateLabel(e.State), e.Message),
	})
	return n.post(url, body)
}

func (n *Notifier) sendTeams(url string, e *Event) error {
	payload := map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": stateColor(e.State),
		"summary":    fmt.Sprintf("outage sync %s", e.State),
		"title":      fmt.Sprintf("Outagesync: %s %s", e.SiteID, e.State),
		"text":       e.Message,
	}
	body, _ := json.Marshal(payload)
	return n.post(url, body)
}

func (n *Notifier) sendHTTP(url string, e *Event) error {
	body, _ := json.Marshal(map[string]interface{}{"event": e})
	return n.post(url, body)
}

func (n *Notifier) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func stateLabel(s string) string {
	if s == StateFailed {
		return "[FAILED]"
	}
	return "[RECOVERED]"
}

func stateColor(s string) string {
	if s == StateFailed {
		return "FF4F6A"
	}
	return "36A64F"
}
