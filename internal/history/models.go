package history

import "time"

// Status is the outcome of a merge run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Record is one merge run.
type Record struct {
	ID           string     `json:"id"`
	InputPath    string     `json:"input_path"`
	OutputPath   string     `json:"output_path,omitempty"`
	Title        string     `json:"title,omitempty"`
	FilterGraph  string     `json:"filter_graph,omitempty"`
	Args         []string   `json:"args,omitempty"`
	Status       Status     `json:"status"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	OutputBytes  int64      `json:"output_bytes"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Duration returns the run time, or zero when the run has no finish time.
func (r Record) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
