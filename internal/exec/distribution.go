package exec

import (
	"fmt"
	"time"

	"github.com/kirbyfan64/Celero/pkg/bench"
)

// BuildDistribution measures n workload-free samples of k iterations each
// and returns every raw elapsed time, unaggregated. Because the samples run
// through the executor's own sample loop, the returned spread characterizes
// the noise floor of the measurement apparatus itself.
func (e *Executor) BuildDistribution(n, k int) ([]time.Duration, error) {
	if n < 0 {
		return nil, fmt.Errorf("distribution: samples must be >= 0, got %d", n)
	}
	if k < 1 {
		return nil, fmt.Errorf("distribution: iterations must be >= 1, got %d", k)
	}
	if c, ok := e.timer.(interface{ Check() error }); ok {
		if err := c.Check(); err != nil {
			return nil, err
		}
	}

	exp := bench.BodyFunc(func() {})
	samples := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		d, err := e.runSample(exp, i, k)
		if err != nil {
			return nil, err
		}
		samples = append(samples, d)
	}
	return samples, nil
}
