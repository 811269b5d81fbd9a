package bench

import "errors"

var (
	// ErrDuplicateRegistration is returned when a (group, name) pair is
	// registered twice. Fatal at start-up: a corrupted registry cannot
	// produce meaningful comparisons.
	ErrDuplicateRegistration = errors.New("benchmark already registered")

	// ErrMultipleBaselines is returned when a group that already has a
	// baseline receives a second one.
	ErrMultipleBaselines = errors.New("group already has a baseline")

	// ErrInvalidBenchmark is returned for descriptors that violate the
	// registration invariants (empty names, iterations < 1, ...).
	ErrInvalidBenchmark = errors.New("invalid benchmark")
)
