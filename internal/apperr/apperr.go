// Package apperr defines the error kinds shared by the proxy services.
// Handlers map these to HTTP status codes at the response boundary.
package apperr

import "fmt"

// ValidationError reports caller input that fails a precondition.
// It is never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// ConfigurationError reports a missing credential or setting. It is
// raised before any network activity takes place.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

// UpstreamError reports a non-success response from a remote service
// after all applicable fallback attempts were exhausted. StatusCode is
// the remote HTTP status; Body carries the raw error body or the
// remote job's error detail for diagnostics.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("upstream error: %s", e.Body)
}

// TimeoutError reports a remote job that did not reach a terminal
// state before the deadline. JobID and LastStatus allow follow-up
// inspection of the still-pending job.
type TimeoutError struct {
	JobID      string
	LastStatus string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("job %s did not complete before deadline (last status: %s)", e.JobID, e.LastStatus)
}
