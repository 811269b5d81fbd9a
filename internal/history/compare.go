package history

import (
	"fmt"

	"github.com/kirbyfan64/Celero/pkg/bench"
)

// Comparison relates one benchmark's current mean to its mean in a previous
// run. MeanDiffPct is the percentage change; positive means slower.
type Comparison struct {
	Group       string
	Name        string
	MeanDiffPct float64
	Prev        bench.Result
	Curr        bench.Result
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s/%s: %+.2f%% mean", c.Group, c.Name, c.MeanDiffPct)
}

// Regressed reports whether the change exceeds the threshold percentage.
func (c Comparison) Regressed(threshold float64) bool {
	return c.MeanDiffPct > threshold
}

// Compare pairs the current results with a previous run by (group, name) key.
// Benchmarks that failed in either run, or that are new, are skipped.
func Compare(prev Run, curr []bench.Result) []Comparison {
	prevMap := make(map[string]bench.Result, len(prev.Results))
	for _, r := range prev.Results {
		prevMap[r.Group+"/"+r.Name] = r
	}

	var comparisons []Comparison
	for _, c := range curr {
		p, ok := prevMap[c.Group+"/"+c.Name]
		if !ok {
			continue
		}
		if p.Status == bench.StatusFailed || c.Status == bench.StatusFailed || p.Mean <= 0 {
			continue
		}
		comparisons = append(comparisons, Comparison{
			Group:       c.Group,
			Name:        c.Name,
			MeanDiffPct: (float64(c.Mean) - float64(p.Mean)) / float64(p.Mean) * 100,
			Prev:        p,
			Curr:        c,
		})
	}
	return comparisons
}

// Regressions filters comparisons down to those beyond the threshold.
func Regressions(comparisons []Comparison, threshold float64) []Comparison {
	var out []Comparison
	for _, c := range comparisons {
		if c.Regressed(threshold) {
			out = append(out, c)
		}
	}
	return out
}
