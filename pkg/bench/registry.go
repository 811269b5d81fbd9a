package bench

import (
	"fmt"
	"sync"
)

// Registry is the process-wide, append-only collection of benchmark
// descriptors. Registration happens during unordered start-up steps across
// packages, so the registry is guarded by a mutex and the global instance is
// constructed lazily on first access rather than in any particular init
// order. It is read-only once Run begins.
type Registry struct {
	mu       sync.Mutex
	groups   []string                // registration order of groups
	byGroup  map[string][]*Benchmark // registration order within a group
	byKey    map[string]*Benchmark
	baseline map[string]*Benchmark
}

// NewRegistry returns an empty registry. Most callers want Default instead;
// independent registries exist so test suites can build and discard them.
func NewRegistry() *Registry {
	return &Registry{
		byGroup:  make(map[string][]*Benchmark),
		byKey:    make(map[string]*Benchmark),
		baseline: make(map[string]*Benchmark),
	}
}

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide registry, constructing it on first use.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}

// Reset discards the process-wide registry so the next access starts empty.
// Idempotent; intended for test suites that rebuild registration state
// between cases.
func Reset() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = nil
}

// Register validates and appends a descriptor. It fails with
// ErrDuplicateRegistration if the (group, name) pair already exists and with
// ErrMultipleBaselines if the group already has a baseline.
func (r *Registry) Register(b *Benchmark) (*Benchmark, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byKey[b.Key()]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRegistration, b.Key())
	}
	if b.Role == RoleBaseline {
		if prev, ok := r.baseline[b.Group]; ok {
			return nil, fmt.Errorf("%w: %s (baseline is %s)", ErrMultipleBaselines, b.Group, prev.Name)
		}
	}

	if _, ok := r.byGroup[b.Group]; !ok {
		r.groups = append(r.groups, b.Group)
	}
	r.byGroup[b.Group] = append(r.byGroup[b.Group], b)
	r.byKey[b.Key()] = b
	if b.Role == RoleBaseline {
		r.baseline[b.Group] = b
	}
	return b, nil
}

// Groups returns group names in first-registered order.
func (r *Registry) Groups() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.groups))
	copy(out, r.groups)
	return out
}

// Group returns the group's benchmarks in registration order.
func (r *Registry) Group(name string) []*Benchmark {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := r.byGroup[name]
	out := make([]*Benchmark, len(members))
	copy(out, members)
	return out
}

// Baseline returns the group's baseline, or nil if none is registered.
func (r *Registry) Baseline(group string) *Benchmark {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.baseline[group]
}

// Len returns the total number of registered benchmarks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

// RegisterTest adds a non-baseline benchmark to the default registry.
// samples of zero selects adaptive sampling.
func RegisterTest(group, name string, samples, iterations int, factory Factory) (*Benchmark, error) {
	return Default().Register(&Benchmark{
		Group:      group,
		Name:       name,
		Role:       RoleTest,
		Samples:    samples,
		Iterations: iterations,
		Factory:    factory,
	})
}

// RegisterTestWithTarget adds a graded benchmark: the result is marked pass
// or fail depending on whether it reaches minOpsPerSec.
func RegisterTestWithTarget(group, name string, samples, iterations int, factory Factory, minOpsPerSec float64) (*Benchmark, error) {
	return Default().Register(&Benchmark{
		Group:      group,
		Name:       name,
		Role:       RoleTest,
		Samples:    samples,
		Iterations: iterations,
		Target:     minOpsPerSec,
		Factory:    factory,
	})
}

// RegisterBaseline adds the group's baseline benchmark to the default
// registry. At most one baseline may exist per group.
func RegisterBaseline(group, name string, samples, iterations int, factory Factory) (*Benchmark, error) {
	return Default().Register(&Benchmark{
		Group:      group,
		Name:       name,
		Role:       RoleBaseline,
		Samples:    samples,
		Iterations: iterations,
		Factory:    factory,
	})
}
