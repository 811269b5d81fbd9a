// Package history archives benchmark runs and compares them across time.
// It is layered on the executor's result stream; the engine itself persists
// nothing.
package history

import (
	"time"

	"github.com/kirbyfan64/Celero/pkg/bench"
)

// Run is one archived execution of the full suite.
type Run struct {
	Timestamp time.Time      `json:"timestamp"`
	Commit    string         `json:"commit,omitempty"` // git commit hash, when available
	Results   []bench.Result `json:"results"`
}

// Store persists runs. Implementations keep runs ordered oldest-first.
type Store interface {
	Save(run Run) error
	LoadLatest() (*Run, error)
	LoadAll() ([]Run, error)
	Close() error
}
