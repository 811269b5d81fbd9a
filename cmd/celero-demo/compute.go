package main

import (
	"math"

	"github.com/kirbyfan64/Celero/pkg/celero"
)

// sink defeats dead-code elimination of the benchmarked computations.
var sink float64

func init() {
	// Adaptive sampling: zero samples lets the engine decide when the
	// measurement is stable.
	celero.MustRegisterBaseline("Compute", "Sqrt", 0, 10000,
		celero.FromFunc(func() { sink = math.Sqrt(sink + 2) }))
	celero.MustRegisterTest("Compute", "Pow", 0, 10000,
		celero.FromFunc(func() { sink = math.Pow(sink+2, 0.5) }))

	// A graded benchmark: fails the run if it cannot do a million
	// additions per second.
	celero.MustRegisterTestWithTarget("Compute", "Add", 30, 10000,
		celero.FromFunc(func() { sink += 1.5 }), 1_000_000)
}
