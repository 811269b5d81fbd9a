// Package stats turns per-sample elapsed times into the summary statistics
// reported for each benchmark.
package stats

import (
	"math"
	"time"
)

// Summary holds the aggregate statistics for one benchmark's samples.
type Summary struct {
	Count     int
	Total     time.Duration
	Mean      time.Duration
	Min       time.Duration
	Max       time.Duration
	StdDev    time.Duration // population standard deviation
	OpsPerSec float64
}

// Summarize aggregates an ordered sample sequence. iterations is the number
// of body invocations covered by each sample and feeds the ops/sec
// derivation: iterations / mean sample time in seconds.
func Summarize(samples []time.Duration, iterations int) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	s := Summary{
		Count: len(samples),
		Min:   samples[0],
		Max:   samples[0],
	}
	for _, d := range samples {
		s.Total += d
		if d < s.Min {
			s.Min = d
		}
		if d > s.Max {
			s.Max = d
		}
	}
	mean := float64(s.Total) / float64(len(samples))
	s.Mean = time.Duration(mean)

	var sq float64
	for _, d := range samples {
		diff := float64(d) - mean
		sq += diff * diff
	}
	s.StdDev = time.Duration(math.Sqrt(sq / float64(len(samples))))

	if s.Mean > 0 {
		s.OpsPerSec = float64(iterations) / s.Mean.Seconds()
	}
	return s
}

// Ratio normalizes a mean against the group baseline's mean. Zero means the
// ratio is undefined (no baseline, or a baseline that produced no timing).
func Ratio(mean, baselineMean time.Duration) float64 {
	if baselineMean <= 0 {
		return 0
	}
	return float64(mean) / float64(baselineMean)
}
