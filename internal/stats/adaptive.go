package stats

import (
	"math"
	"time"
)

// Adaptive sampling defaults, used when a benchmark registers with zero
// samples. These are configuration constants rather than user API input so a
// scripted timer sequence yields deterministic stopping points.
const (
	DefaultMinSamples = 10
	DefaultMaxSamples = 100
	DefaultRelStdErr  = 0.05
)

// AdaptiveConfig bounds the adaptive sample loop.
type AdaptiveConfig struct {
	MinSamples int
	MaxSamples int
	// RelStdErr is the stopping threshold: collection ends once the
	// standard error of the mean divided by the mean falls below it.
	RelStdErr float64
}

// Normalized fills unset fields with the defaults and repairs inverted
// bounds so the loop always terminates.
func (c AdaptiveConfig) Normalized() AdaptiveConfig {
	if c.MinSamples < 2 {
		c.MinSamples = DefaultMinSamples
	}
	if c.MaxSamples < c.MinSamples {
		c.MaxSamples = DefaultMaxSamples
	}
	if c.MaxSamples < c.MinSamples {
		c.MaxSamples = c.MinSamples
	}
	if c.RelStdErr <= 0 {
		c.RelStdErr = DefaultRelStdErr
	}
	return c
}

// AdaptiveSampler accumulates samples with Welford's running mean/variance
// and decides when the measurement is precise enough to stop.
type AdaptiveSampler struct {
	cfg  AdaptiveConfig
	n    int
	mean float64
	m2   float64
}

func NewAdaptiveSampler(cfg AdaptiveConfig) *AdaptiveSampler {
	return &AdaptiveSampler{cfg: cfg.Normalized()}
}

// Add records one sample.
func (s *AdaptiveSampler) Add(d time.Duration) {
	s.n++
	x := float64(d)
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
}

// RelStdErr returns the current standard error of the mean relative to the
// mean, using the population variance. Zero while the mean is zero.
func (s *AdaptiveSampler) RelStdErr() float64 {
	if s.n == 0 || s.mean == 0 {
		return 0
	}
	stderr := math.Sqrt(s.m2/float64(s.n)) / math.Sqrt(float64(s.n))
	return stderr / s.mean
}

// Done reports whether collection should stop: at least MinSamples taken and
// either the precision threshold is met or the cap is reached.
func (s *AdaptiveSampler) Done() bool {
	if s.n < s.cfg.MinSamples {
		return false
	}
	if s.n >= s.cfg.MaxSamples {
		return true
	}
	return s.RelStdErr() < s.cfg.RelStdErr
}

// Count returns the number of samples recorded so far.
func (s *AdaptiveSampler) Count() int { return s.n }
