package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirbyfan64/Celero/pkg/bench"
)

func result(group, name string, mean time.Duration) bench.Result {
	return bench.Result{
		Group: group, Name: name, Samples: 3, Iterations: 10,
		Mean: mean, Status: bench.StatusOK,
	}
}

func testStoreRoundTrip(t *testing.T, store Store) {
	t.Helper()

	runs, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, runs)

	latest, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Nil(t, latest)

	run1 := Run{
		Timestamp: time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond),
		Commit:    "abc",
		Results:   []bench.Result{result("G", "B1", time.Millisecond)},
	}
	require.NoError(t, store.Save(run1))

	run2 := Run{
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		Commit:    "def",
		Results:   []bench.Result{result("G", "B1", 2*time.Millisecond)},
	}
	require.NoError(t, store.Save(run2))

	runs, err = store.LoadAll()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "abc", runs[0].Commit)
	assert.Equal(t, "def", runs[1].Commit)
	assert.Equal(t, time.Millisecond, runs[0].Results[0].Mean)

	latest, err = store.LoadLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "def", latest.Commit)
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	defer store.Close()

	testStoreRoundTrip(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	testStoreRoundTrip(t, store)
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(StoreConfig{Backend: "file", Path: filepath.Join(dir, "h.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
	store.Close()

	store, err = NewStore(StoreConfig{Backend: "sqlite", Path: filepath.Join(dir, "h.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	store.Close()

	_, err = NewStore(StoreConfig{Backend: "postgres"})
	assert.Error(t, err, "postgres requires a DSN")

	_, err = NewStore(StoreConfig{Backend: "etcd"})
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	prev := Run{Results: []bench.Result{
		result("G", "Stable", time.Millisecond),
		result("G", "Slower", time.Millisecond),
		result("G", "Faster", 2*time.Millisecond),
		{Group: "G", Name: "WasBroken", Status: bench.StatusFailed},
	}}
	curr := []bench.Result{
		result("G", "Stable", time.Millisecond),
		result("G", "Slower", 1500*time.Microsecond),
		result("G", "Faster", time.Millisecond),
		result("G", "WasBroken", time.Millisecond),
		result("G", "Brand New", time.Millisecond),
	}

	comparisons := Compare(prev, curr)
	require.Len(t, comparisons, 3, "failed and new benchmarks are skipped")

	byName := make(map[string]Comparison)
	for _, c := range comparisons {
		byName[c.Name] = c
	}
	assert.InDelta(t, 0.0, byName["Stable"].MeanDiffPct, 1e-9)
	assert.InDelta(t, 50.0, byName["Slower"].MeanDiffPct, 1e-9)
	assert.InDelta(t, -50.0, byName["Faster"].MeanDiffPct, 1e-9)

	regressions := Regressions(comparisons, 10.0)
	require.Len(t, regressions, 1)
	assert.Equal(t, "Slower", regressions[0].Name)
	assert.True(t, regressions[0].Regressed(10.0))
	assert.Contains(t, regressions[0].String(), "+50.00%")
}
