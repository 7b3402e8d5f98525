// Package report writes the machine-readable and console outputs of a run.
package report

import (
	"time"

	"github.com/pevans/newsorder/newsfeed"
	"github.com/pevans/newsorder/validate"
)

// Run is everything the report writers need to know about one check.
// Verdict is nil when the run ended in an error before validation.
type Run struct {
	ID         string            `json:"run_id"`
	StartURL   string            `json:"start_url"`
	Target     int               `json:"target"`
	Hops       int               `json:"hops"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Verdict    *validate.Verdict `json:"verdict,omitempty"`
	Error      string            `json:"error,omitempty"`
	ErrorKind  string            `json:"error_kind,omitempty"`
	Items      []newsfeed.Item   `json:"items"`
}

// Passed reports whether the run produced a passing verdict.
func (r Run) Passed() bool {
	return r.Error == "" && r.Verdict != nil && r.Verdict.Pass
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
