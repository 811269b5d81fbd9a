// Package celero is the public surface of the benchmarking harness. User
// programs register benchmarks during start-up (typically in init functions
// or at the top of main) and then hand control to Run:
//
//	func main() {
//		celero.MustRegisterBaseline("Sort", "Bubble", 30, 100, celero.FromFunc(bubble))
//		celero.MustRegisterTest("Sort", "Std", 30, 100, celero.FromFunc(std))
//		if err := celero.Run(os.Args[1:]); err != nil {
//			os.Exit(1)
//		}
//	}
package celero

import (
	"time"

	"github.com/kirbyfan64/Celero/internal/exec"
	"github.com/kirbyfan64/Celero/internal/timer"
	"github.com/kirbyfan64/Celero/pkg/bench"
)

// Re-exported core types so callers need only this package.
type (
	Experiment  = bench.Experiment
	Factory     = bench.Factory
	FactoryFunc = bench.FactoryFunc
	BodyFunc    = bench.BodyFunc
	Benchmark   = bench.Benchmark
	Result      = bench.Result
	Status      = bench.Status
	Role        = bench.Role
)

const (
	StatusOK     = bench.StatusOK
	StatusPass   = bench.StatusPass
	StatusFail   = bench.StatusFail
	StatusFailed = bench.StatusFailed
)

// FromFunc wraps a bare function as a Factory for fixture-less benchmarks.
func FromFunc(fn func()) Factory { return bench.FromFunc(fn) }

// RegisterTest registers a non-baseline benchmark. samples of zero selects
// adaptive sampling; iterations is the number of body invocations measured
// as one sample.
func RegisterTest(group, name string, samples, iterations int, factory Factory) (*Benchmark, error) {
	return bench.RegisterTest(group, name, samples, iterations, factory)
}

// RegisterTestWithTarget registers a benchmark graded against a minimum
// ops/sec threshold.
func RegisterTestWithTarget(group, name string, samples, iterations int, factory Factory, minOpsPerSec float64) (*Benchmark, error) {
	return bench.RegisterTestWithTarget(group, name, samples, iterations, factory, minOpsPerSec)
}

// RegisterBaseline registers the group's baseline. At most one per group.
func RegisterBaseline(group, name string, samples, iterations int, factory Factory) (*Benchmark, error) {
	return bench.RegisterBaseline(group, name, samples, iterations, factory)
}

// MustRegisterTest is RegisterTest but panics on error. Registration errors
// mean a corrupted registry, which is fatal at start-up.
func MustRegisterTest(group, name string, samples, iterations int, factory Factory) *Benchmark {
	b, err := RegisterTest(group, name, samples, iterations, factory)
	if err != nil {
		panic(err)
	}
	return b
}

// MustRegisterTestWithTarget is RegisterTestWithTarget but panics on error.
func MustRegisterTestWithTarget(group, name string, samples, iterations int, factory Factory, minOpsPerSec float64) *Benchmark {
	b, err := RegisterTestWithTarget(group, name, samples, iterations, factory, minOpsPerSec)
	if err != nil {
		panic(err)
	}
	return b
}

// MustRegisterBaseline is RegisterBaseline but panics on error.
func MustRegisterBaseline(group, name string, samples, iterations int, factory Factory) *Benchmark {
	b, err := RegisterBaseline(group, name, samples, iterations, factory)
	if err != nil {
		panic(err)
	}
	return b
}

// Reset discards the process-wide registry. Intended for test suites.
func Reset() { bench.Reset() }

// BuildDistribution measures n workload-free samples of k iterations each
// through the executor's own sample loop and returns the raw elapsed times.
// It characterizes the noise floor of the measurement apparatus and is
// independent of registration state.
func BuildDistribution(n, k int) ([]time.Duration, error) {
	return exec.New(timer.Monotonic{}, nil, exec.Config{}).BuildDistribution(n, k)
}
