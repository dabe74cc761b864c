package client

import "fmt"

// TransientError is a retryable upstream failure: HTTP 5xx, or 429 when the
// service is rate limiting. The client retries these internally; callers only
// see a TransientError wrapped inside a FatalError after retry exhaustion.
type TransientError struct {
	Op     string
	Status int
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient upstream error (HTTP %d)", e.Op, e.Status)
}

// FatalError is a non-retryable failure: a non-2xx status outside the
// transient set, a network error, a malformed response body, or retry
// exhaustion. Status is 0 when no HTTP response was received.
type FatalError struct {
	Op     string
	Status int
	Err    error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: upstream returned HTTP %d", e.Op, e.Status)
}

func (e *FatalError) Unwrap() error { return e.Err }

// transientStatus reports whether an HTTP status code is worth retrying.
// 429 is included because the upstream rate limiter clears on backoff.
func transientStatus(code int) bool {
	return code >= 500 || code == 429
}
