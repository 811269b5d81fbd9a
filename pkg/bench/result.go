package bench

import "time"

// Status is the outcome of one benchmark's execution.
type Status string

const (
	// StatusOK means the benchmark ran and carried no target.
	StatusOK Status = "ok"
	// StatusPass means the measured ops/sec met the configured target.
	StatusPass Status = "pass"
	// StatusFail means the measured ops/sec missed the configured target.
	StatusFail Status = "fail"
	// StatusFailed means a lifecycle call errored or panicked; the
	// statistics fields are zero and Error holds the cause.
	StatusFailed Status = "failed"
)

// Result is the aggregated output for one benchmark. It is handed to the
// reporter as soon as it is computed and not retained by the engine.
type Result struct {
	Group      string `json:"group"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Samples    int    `json:"samples"`
	Iterations int    `json:"iterations"`

	Total  time.Duration `json:"total_ns"`
	Mean   time.Duration `json:"mean_ns"`
	Min    time.Duration `json:"min_ns"`
	Max    time.Duration `json:"max_ns"`
	StdDev time.Duration `json:"stddev_ns"`

	OpsPerSec float64 `json:"ops_per_sec"`

	// BaselineRatio is this benchmark's mean divided by the group
	// baseline's mean. A real ratio is always positive, so zero encodes
	// "undefined" (no baseline in the group, or the baseline failed).
	BaselineRatio float64 `json:"baseline_ratio,omitempty"`

	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Graded reports whether the result carries a pass/fail grade from a target.
func (r Result) Graded() bool {
	return r.Status == StatusPass || r.Status == StatusFail
}
