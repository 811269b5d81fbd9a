package bench

import "fmt"

// Role distinguishes the baseline of a group from the benchmarks measured
// against it.
type Role int

const (
	RoleTest Role = iota
	RoleBaseline
)

func (r Role) String() string {
	if r == RoleBaseline {
		return "baseline"
	}
	return "test"
}

// MarshalText lets Role render as its name in JSON output.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case "baseline":
		*r = RoleBaseline
	case "test":
		*r = RoleTest
	default:
		return fmt.Errorf("unknown role %q", text)
	}
	return nil
}

// Benchmark is an immutable registration record. It is created once during
// process start-up and never mutated afterwards; the executor only reads it.
type Benchmark struct {
	Group string
	Name  string
	Role  Role

	// Samples is the number of timed measurements to take. Zero selects
	// adaptive sampling.
	Samples int

	// Iterations is the number of Body invocations measured as one sample.
	Iterations int

	// Target is a minimum ops/sec threshold the benchmark is graded
	// against. Zero means ungraded.
	Target float64

	Factory Factory
}

// Key returns the registry key for the benchmark.
func (b *Benchmark) Key() string {
	return b.Group + "/" + b.Name
}

func (b *Benchmark) validate() error {
	if b.Group == "" || b.Name == "" {
		return fmt.Errorf("%w: group and name are required", ErrInvalidBenchmark)
	}
	if b.Samples < 0 {
		return fmt.Errorf("%w: %s: samples must be >= 0", ErrInvalidBenchmark, b.Key())
	}
	if b.Iterations < 1 {
		return fmt.Errorf("%w: %s: iterations must be >= 1", ErrInvalidBenchmark, b.Key())
	}
	if b.Target < 0 {
		return fmt.Errorf("%w: %s: target must be >= 0", ErrInvalidBenchmark, b.Key())
	}
	if b.Factory == nil {
		return fmt.Errorf("%w: %s: factory is required", ErrInvalidBenchmark, b.Key())
	}
	if b.Role == RoleBaseline && b.Target != 0 {
		return fmt.Errorf("%w: %s: a baseline cannot carry a target", ErrInvalidBenchmark, b.Key())
	}
	return nil
}
