// Package exec drives registered benchmarks through the timer and statistics
// pipeline and streams results to a reporter.
package exec

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirbyfan64/Celero/internal/stats"
	"github.com/kirbyfan64/Celero/internal/telemetry"
	"github.com/kirbyfan64/Celero/internal/timer"
	"github.com/kirbyfan64/Celero/pkg/bench"
)

// ErrRunFailed is returned by Run when at least one benchmark failed to
// execute or missed its target. Individual results still cover every
// registered benchmark; this only signals the overall exit status.
var ErrRunFailed = errors.New("one or more benchmarks failed")

// Reporter consumes results as they are produced, one per benchmark, in
// execution order.
type Reporter interface {
	Report(bench.Result)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(bench.Result)

func (f ReporterFunc) Report(r bench.Result) { f(r) }

// Config carries the execution knobs that are configuration, not user API
// input.
type Config struct {
	Adaptive stats.AdaptiveConfig
}

// Executor runs benchmarks strictly sequentially. Concurrency is
// deliberately absent: parallel benchmarks would feed scheduler noise into
// the very timings being measured.
type Executor struct {
	timer    timer.Timer
	reporter Reporter
	cfg      Config
}

func New(t timer.Timer, r Reporter, cfg Config) *Executor {
	cfg.Adaptive = cfg.Adaptive.Normalized()
	return &Executor{timer: t, reporter: r, cfg: cfg}
}

// Run executes every benchmark in the registry, groups in registration order
// and the baseline first within its group so ratios can be computed. groups,
// when non-empty, narrows the run to the named groups.
//
// A failing benchmark never stops the run; a broken timer does, since no
// measurement could be trusted.
func (e *Executor) Run(reg *bench.Registry, groups []string) ([]bench.Result, error) {
	if c, ok := e.timer.(interface{ Check() error }); ok {
		if err := c.Check(); err != nil {
			return nil, err
		}
	}

	selected := reg.Groups()
	if len(groups) > 0 {
		selected = filterGroups(selected, groups)
	}

	var results []bench.Result
	anyFailed := false
	for _, group := range selected {
		members := baselineFirst(reg.Group(group))

		var baselineMean time.Duration
		for _, b := range members {
			slog.Debug("running benchmark", "group", b.Group, "name", b.Name, "role", b.Role.String())

			res := e.runBenchmark(b)
			if b.Role == bench.RoleBaseline {
				baselineMean = res.Mean
				if res.Status != bench.StatusFailed {
					// A baseline compared against itself is exactly 1.
					res.BaselineRatio = 1.0
				}
			} else if res.Status != bench.StatusFailed {
				res.BaselineRatio = stats.Ratio(res.Mean, baselineMean)
			}

			telemetry.BenchmarksTotal.WithLabelValues(string(res.Status)).Inc()
			if res.Status == bench.StatusFailed || res.Status == bench.StatusFail {
				anyFailed = true
			}

			if e.reporter != nil {
				e.reporter.Report(res)
			}
			results = append(results, res)
		}
	}

	if anyFailed {
		return results, ErrRunFailed
	}
	return results, nil
}

// runBenchmark executes the full sample loop for one benchmark and folds the
// elapsed times into a Result. Lifecycle errors and panics are contained
// here.
func (e *Executor) runBenchmark(b *bench.Benchmark) bench.Result {
	res := bench.Result{
		Group:      b.Group,
		Name:       b.Name,
		Role:       b.Role,
		Iterations: b.Iterations,
		Status:     bench.StatusOK,
	}

	samples, err := e.collectSamples(b.Factory.New(), b.Samples, b.Iterations)
	if err != nil {
		slog.Error("benchmark failed", "group", b.Group, "name", b.Name, "error", err)
		res.Status = bench.StatusFailed
		res.Error = err.Error()
		return res
	}

	sum := stats.Summarize(samples, b.Iterations)
	res.Samples = sum.Count
	res.Total = sum.Total
	res.Mean = sum.Mean
	res.Min = sum.Min
	res.Max = sum.Max
	res.StdDev = sum.StdDev
	res.OpsPerSec = sum.OpsPerSec

	if b.Target > 0 {
		if res.OpsPerSec >= b.Target {
			res.Status = bench.StatusPass
		} else {
			res.Status = bench.StatusFail
			res.Error = fmt.Sprintf("target not met: %.0f ops/sec < %.0f ops/sec", res.OpsPerSec, b.Target)
		}
	}
	return res
}

// collectSamples runs the fixed or adaptive sample loop. The same loop
// mechanics back BuildDistribution so the noise characterization stays
// representative.
func (e *Executor) collectSamples(exp bench.Experiment, sampleCount, iterations int) ([]time.Duration, error) {
	if sampleCount > 0 {
		samples := make([]time.Duration, 0, sampleCount)
		for i := 0; i < sampleCount; i++ {
			d, err := e.runSample(exp, i, iterations)
			if err != nil {
				return nil, err
			}
			samples = append(samples, d)
		}
		return samples, nil
	}

	sampler := stats.NewAdaptiveSampler(e.cfg.Adaptive)
	var samples []time.Duration
	for i := 0; !sampler.Done(); i++ {
		d, err := e.runSample(exp, i, iterations)
		if err != nil {
			return nil, err
		}
		sampler.Add(d)
		samples = append(samples, d)
	}
	return samples, nil
}

// runSample drives one full experiment lifecycle: SetUp, the timed iteration
// loop, TearDown. Only the iteration loop sits inside the measured span.
// Panics from any lifecycle call surface as errors.
func (e *Executor) runSample(exp bench.Experiment, sample, iterations int) (elapsed time.Duration, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sample %d panicked: %v", sample, r)
		}
	}()

	if err := exp.SetUp(sample); err != nil {
		return 0, fmt.Errorf("sample %d setup: %w", sample, err)
	}

	elapsed = e.timer.Measure(func() {
		for i := 0; i < iterations; i++ {
			exp.Body()
		}
	})
	telemetry.SamplesTotal.Inc()

	if err := exp.TearDown(); err != nil {
		return 0, fmt.Errorf("sample %d teardown: %w", sample, err)
	}
	return elapsed, nil
}

func baselineFirst(members []*bench.Benchmark) []*bench.Benchmark {
	ordered := make([]*bench.Benchmark, 0, len(members))
	for _, b := range members {
		if b.Role == bench.RoleBaseline {
			ordered = append(ordered, b)
		}
	}
	for _, b := range members {
		if b.Role != bench.RoleBaseline {
			ordered = append(ordered, b)
		}
	}
	return ordered
}

func filterGroups(all, wanted []string) []string {
	keep := make(map[string]bool, len(wanted))
	for _, g := range wanted {
		keep[g] = true
	}
	var out []string
	for _, g := range all {
		if keep[g] {
			out = append(out, g)
		}
	}
	return out
}
