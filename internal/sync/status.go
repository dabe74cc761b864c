package sync

import (
	"sync"
	"time"
)

// Summary is the record of one completed pipeline run.
type Summary struct {
	SiteID     string        `json:"site_id"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Fetched    int           `json:"fetched"`
	Enriched   int           `json:"enriched"`
	Submitted  bool          `json:"submitted"`
	Result     string        `json:"result"` // "success" | "failure"
	Error      string        `json:"error,omitempty"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Status is a thread-safe holder for the most recent run summary.
type Status struct {
	mu   sync.RWMutex
	last *Summary
	runs int
	now  func() time.Time // injectable for deterministic tests
}

// NewStatus returns an empty Status.
func NewStatus() *Status {
	return &Status{now: time.Now}
}

// Record stores sum as the latest run, stamping RecordedAt.
func (s *Status) Record(sum Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum.RecordedAt = s.now()
	s.last = &sum
	s.runs++
}

// Last returns a copy of the most recent run summary and whether one exists.
func (s *Status) Last() (Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Summary{}, false
	}
	return *s.last, true
}

// Runs returns the total number of recorded runs.
func (s *Status) Runs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs
}
