package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpslab/go-snesim/results"
)

func testResults(id string, seed uint32) *results.Results {
	return &results.Results{
		Version: results.SchemaVersion,
		Metadata: results.Metadata{
			RunID:       id,
			Timestamp:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Status:      "success",
			ComputeTime: 2.5,
		},
		Simulation: results.Simulation{
			Levels:     []results.Level{{K: 4, RX: 1, RY: 1, RZ: 1}},
			Switchover: 50,
			Seed:       seed,
		},
		Output: results.Output{
			File:      "out.gslib",
			GridCells: [3]int{100, 100, 1},
			CellCount: 10000,
			Informed:  10000,
			Histogram: []results.CategoryBin{
				{Category: 0, Count: 6000, Fraction: 0.6},
				{Category: 1, Count: 4000, Fraction: 0.4},
			},
		},
	}
}

func TestRecordAndListRuns(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RecordRun(testResults("run-a", 1)))
	require.NoError(t, store.RecordRun(testResults("run-b", 2)))

	rows, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "success", r.Status)
		assert.Equal(t, 100, r.NX)
		assert.Equal(t, 1, r.Levels)
	}
}

func TestHistogram(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RecordRun(testResults("run-a", 1)))

	bins, err := store.Histogram("run-a")
	require.NoError(t, err)
	require.Len(t, bins, 2)
	assert.Equal(t, 0, bins[0].Category)
	assert.Equal(t, 6000, bins[0].Count)
	assert.InDelta(t, 0.6, bins[0].Fraction, 1e-12)

	none, err := store.Histogram("absent")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDuplicateRunRejected(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RecordRun(testResults("run-a", 1)))
	require.Error(t, store.RecordRun(testResults("run-a", 1)), "primary key collision")
}
