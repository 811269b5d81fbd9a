// Package timer wraps the monotonic clock used to measure benchmark samples.
package timer

import (
	"errors"
	"sync"
	"time"
)

// ErrUnavailable means the monotonic clock source cannot be trusted. It is
// fatal for a run: no benchmark timing is meaningful without it.
var ErrUnavailable = errors.New("monotonic clock unavailable")

// Timer measures the elapsed duration of a code region. Implementations must
// invoke region exactly once and keep no work of their own inside the
// measured span.
type Timer interface {
	Measure(region func()) time.Duration
}

// Monotonic measures with time.Now/time.Since, which carry the runtime's
// monotonic reading and are unaffected by wall-clock adjustments.
type Monotonic struct{}

func (Monotonic) Measure(region func()) time.Duration {
	start := time.Now()
	region()
	return time.Since(start)
}

// Check probes the clock before a run. Successive readings must never move
// backwards and must advance within a bounded spin; anything else means the
// monotonic source is broken on this platform.
func (Monotonic) Check() error {
	prev := time.Now()
	advanced := false
	for i := 0; i < 1_000_000; i++ {
		now := time.Now()
		if now.Before(prev) {
			return ErrUnavailable
		}
		if now.After(prev) {
			advanced = true
			break
		}
	}
	if !advanced {
		return ErrUnavailable
	}
	return nil
}

// Scripted is a Timer for tests: it still runs the region exactly once but
// returns a pre-programmed duration sequence (cycling when exhausted) so
// statistics and adaptive stopping points are deterministic.
type Scripted struct {
	Durations []time.Duration

	mu    sync.Mutex
	next  int
	calls int
}

func (s *Scripted) Measure(region func()) time.Duration {
	region()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.Durations) == 0 {
		return 0
	}
	d := s.Durations[s.next%len(s.Durations)]
	s.next++
	return d
}

// Calls returns how many measurements have been taken.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
