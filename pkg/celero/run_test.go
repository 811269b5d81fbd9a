package celero

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirbyfan64/Celero/internal/history"
	"github.com/kirbyfan64/Celero/internal/timer"
	"github.com/kirbyfan64/Celero/pkg/bench"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func registerSuite(t *testing.T) {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	// A small sleep keeps sample means well above clock resolution.
	MustRegisterBaseline("Demo", "Base", 3, 10, FromFunc(func() { time.Sleep(50 * time.Microsecond) }))
	MustRegisterTest("Demo", "Other", 3, 10, FromFunc(func() { time.Sleep(50 * time.Microsecond) }))
}

func TestRunTableOutput(t *testing.T) {
	registerSuite(t)

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Base")
	assert.Contains(t, out, "Other")
	assert.Contains(t, out, "baseline")
	// the baseline streams first
	assert.Less(t, strings.Index(out, "Base"), strings.Index(out, "Other"))
}

func TestRunNoBenchmarks(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "No benchmarks registered")
}

func TestRunJSONOutput(t *testing.T) {
	registerSuite(t)

	out, err := execute(t, "--output", "json")
	require.NoError(t, err)

	var results []bench.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "Base", results[0].Name)
	assert.Equal(t, 1.0, results[0].BaselineRatio)
}

func TestRunUnknownOutput(t *testing.T) {
	registerSuite(t)

	_, err := execute(t, "--output", "xml")
	assert.Error(t, err)
}

func TestRunGroupFilter(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	MustRegisterTest("A", "a", 1, 1, FromFunc(func() {}))
	MustRegisterTest("B", "b", 1, 1, FromFunc(func() {}))

	out, err := execute(t, "--group", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "a")
	assert.NotContains(t, out, "B ")
}

func TestRunMissedTargetFails(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	// One body invocation per second would be needed to hit this target.
	MustRegisterTestWithTarget("Demo", "Slow", 2, 1,
		FromFunc(func() { time.Sleep(time.Millisecond) }), 1e12)

	_, err := execute(t)
	assert.Error(t, err)
}

// fakeLive stands in for the dashboard so its shutdown can be observed.
type fakeLive struct {
	results []bench.Result
	waited  bool
}

func (f *fakeLive) Report(r bench.Result) { f.results = append(f.results, r) }
func (f *fakeLive) Wait()                 { f.waited = true }

// deadClock fails the pre-run availability check.
type deadClock struct{}

func (deadClock) Measure(region func()) time.Duration {
	region()
	return 0
}

func (deadClock) Check() error { return timer.ErrUnavailable }

func TestRunLiveDashboard(t *testing.T) {
	registerSuite(t)

	fake := &fakeLive{}
	origLive := newLive
	newLive = func(total int) liveReporter { return fake }
	t.Cleanup(func() { newLive = origLive })

	_, err := execute(t, "--live")
	require.NoError(t, err)
	assert.True(t, fake.waited, "the dashboard must be shut down after the run")
	assert.Len(t, fake.results, 2)
}

func TestRunTimerFailureShutsDownDashboard(t *testing.T) {
	registerSuite(t)

	fake := &fakeLive{}
	origTimer, origLive := newTimer, newLive
	newTimer = func() timer.Timer { return deadClock{} }
	newLive = func(total int) liveReporter { return fake }
	t.Cleanup(func() { newTimer, newLive = origTimer, origLive })

	_, err := execute(t, "--live")
	assert.ErrorIs(t, err, timer.ErrUnavailable)
	assert.True(t, fake.waited, "the dashboard must be shut down on a fatal timer error")
	assert.Empty(t, fake.results, "nothing may reach the dashboard without a usable clock")
}

func TestRunSaveAndCompare(t *testing.T) {
	registerSuite(t)
	archive := filepath.Join(t.TempDir(), "history.json")

	out, err := execute(t, "--save", "--archive-file", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "Run archived")

	store, err := history.NewFileStore(archive)
	require.NoError(t, err)
	runs, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Results, 2)

	out, err = execute(t, "--compare", "--archive-file", archive, "--threshold", "1000000")
	require.NoError(t, err, "an absurdly high threshold cannot regress")
	assert.Contains(t, out, "DIFF %")
}

func TestRunCompareDetectsRegression(t *testing.T) {
	registerSuite(t)
	archive := filepath.Join(t.TempDir(), "history.json")

	// Seed the archive with impossibly fast previous means so the current
	// run must look like a regression.
	store, err := history.NewFileStore(archive)
	require.NoError(t, err)
	require.NoError(t, store.Save(history.Run{
		Timestamp: time.Now().Add(-time.Hour),
		Results: []bench.Result{
			{Group: "Demo", Name: "Base", Mean: 1, Status: bench.StatusOK},
			{Group: "Demo", Name: "Other", Mean: 1, Status: bench.StatusOK},
		},
	}))

	out, err := execute(t, "--compare", "--archive-file", archive, "--threshold", "10")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "regressed")
	assert.Contains(t, out, "REGRESSED")
}

func TestRunCompareWithEmptyArchive(t *testing.T) {
	registerSuite(t)
	archive := filepath.Join(t.TempDir(), "history.json")

	out, err := execute(t, "--compare", "--archive-file", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "No archived run to compare")
}

func TestDistCommand(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	out, err := execute(t, "dist", "--samples", "5", "--iterations", "2")
	require.NoError(t, err)

	lines := 0
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" && !strings.HasPrefix(line, "samples=") {
			lines++
		}
	}
	assert.Equal(t, 5, lines)
}

func TestListCommand(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	MustRegisterBaseline("G", "base", 5, 10, FromFunc(func() {}))
	MustRegisterTest("G", "adaptive", 0, 10, FromFunc(func() {}))
	MustRegisterTestWithTarget("G", "graded", 5, 10, FromFunc(func() {}), 2500)

	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "base")
	assert.Contains(t, out, "adaptive")
	assert.Contains(t, out, "2500 ops/sec")
}

func TestBuildDistributionFacade(t *testing.T) {
	samples, err := BuildDistribution(10, 4)
	require.NoError(t, err)
	assert.Len(t, samples, 10)
	for _, d := range samples {
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	MustRegisterTest("G", "N", 1, 1, FromFunc(func() {}))
	assert.Panics(t, func() {
		MustRegisterTest("G", "N", 1, 1, FromFunc(func() {}))
	})
	assert.Panics(t, func() {
		MustRegisterBaseline("G", "N", 1, 1, FromFunc(func() {}))
	})
}
