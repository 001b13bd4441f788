package domain

import "time"

// ProgressEvent is emitted at every stage boundary and at each parallel
// task completion (§4.K, §6). Events within a single stage are emitted in
// completion order, never reordered (§5).
type ProgressEvent struct {
	Stage   string        `json:"stage"`
	Item    string        `json:"item,omitempty"`
	Status  string        `json:"status"`
	Elapsed time.Duration `json:"elapsed"`
	Detail  string        `json:"detail,omitempty"`
}

// ProgressFunc is the caller-provided, untrusted progress callback. The
// runner must isolate panics/errors from it and never let them become
// fatal to the pipeline (§4.K).
type ProgressFunc func(ProgressEvent)

// NoopProgress is a ProgressFunc that does nothing, used where a caller
// does not need progress events.
func NoopProgress(ProgressEvent) {}
