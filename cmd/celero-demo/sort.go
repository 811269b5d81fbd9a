package main

import (
	"math/rand"
	"slices"
	"sort"

	"github.com/kirbyfan64/Celero/pkg/celero"
)

// The classic comparison: a deliberately naive bubble sort as the baseline
// against the standard library's sorts, on fresh random data every sample.

const sortSize = 2048

type sortFixture struct {
	sortFn func([]int)
	data   []int
}

func (f *sortFixture) SetUp(sample int) error {
	rng := rand.New(rand.NewSource(int64(sample)))
	f.data = make([]int, sortSize)
	for i := range f.data {
		f.data[i] = rng.Int()
	}
	return nil
}

func (f *sortFixture) Body() {
	// Sort a copy so every iteration works on unsorted input.
	buf := make([]int, len(f.data))
	copy(buf, f.data)
	f.sortFn(buf)
}

func (f *sortFixture) TearDown() error {
	f.data = nil
	return nil
}

func sortFactory(fn func([]int)) celero.Factory {
	return celero.FactoryFunc(func() celero.Experiment {
		return &sortFixture{sortFn: fn}
	})
}

func bubbleSort(v []int) {
	for i := len(v) - 1; i > 0; i-- {
		swapped := false
		for j := 0; j < i; j++ {
			if v[j] > v[j+1] {
				v[j], v[j+1] = v[j+1], v[j]
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}

func init() {
	celero.MustRegisterBaseline("Sort", "Bubble", 10, 3, sortFactory(bubbleSort))
	celero.MustRegisterTest("Sort", "SortInts", 10, 3, sortFactory(sort.Ints))
	celero.MustRegisterTest("Sort", "SlicesSort", 10, 3,
		sortFactory(func(v []int) { slices.Sort(v) }))
}
