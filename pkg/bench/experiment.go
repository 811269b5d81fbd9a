package bench

// Experiment is the capability set a user benchmark supplies. The executor
// drives it through SetUp -> Body x iterations -> TearDown for every sample;
// only the Body loop is timed.
//
// Body deliberately has no error return so the timed span carries no
// bookkeeping. A Body that cannot proceed should panic; the executor captures
// panics from any lifecycle call and marks the benchmark failed without
// aborting the run.
type Experiment interface {
	// SetUp prepares fixture state for one sample. sample is the
	// zero-based index of the sample about to be measured.
	SetUp(sample int) error

	// Body is the measured unit. It is invoked exactly Iterations times
	// per sample.
	Body()

	// TearDown releases fixture state after a sample's measurement.
	TearDown() error
}

// Factory instantiates the Experiment for a benchmark. New is called once per
// benchmark run; SetUp/TearDown bracket every sample.
type Factory interface {
	New() Experiment
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func() Experiment

func (f FactoryFunc) New() Experiment { return f() }

// BodyFunc adapts a bare function to a full Experiment with no fixture state.
// It is the registration shorthand for benchmarks that need no set-up.
type BodyFunc func()

func (f BodyFunc) SetUp(int) error { return nil }
func (f BodyFunc) Body()           { f() }
func (f BodyFunc) TearDown() error { return nil }

// FromFunc returns a Factory whose experiments run fn as the body.
func FromFunc(fn func()) Factory {
	return FactoryFunc(func() Experiment { return BodyFunc(fn) })
}
