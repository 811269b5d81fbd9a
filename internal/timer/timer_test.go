package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonotonicMeasure(t *testing.T) {
	var tm Monotonic

	ran := false
	d := tm.Measure(func() {
		ran = true
		time.Sleep(5 * time.Millisecond)
	})

	assert.True(t, ran)
	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
}

func TestMonotonicCheck(t *testing.T) {
	require.NoError(t, Monotonic{}.Check())
}

func TestScriptedSequence(t *testing.T) {
	s := &Scripted{Durations: []time.Duration{time.Millisecond, 2 * time.Millisecond}}

	calls := 0
	region := func() { calls++ }

	assert.Equal(t, time.Millisecond, s.Measure(region))
	assert.Equal(t, 2*time.Millisecond, s.Measure(region))
	// cycles when exhausted
	assert.Equal(t, time.Millisecond, s.Measure(region))

	assert.Equal(t, 3, calls, "region must run exactly once per measurement")
	assert.Equal(t, 3, s.Calls())
}

func TestScriptedEmpty(t *testing.T) {
	s := &Scripted{}
	assert.Equal(t, time.Duration(0), s.Measure(func() {}))
}
