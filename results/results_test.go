package results

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpslab/go-snesim/grid"
)

func TestBuilderAndRoundTrip(t *testing.T) {
	s, err := grid.NewStructure2D(4, 4, 1, 1, 0, 0)
	require.NoError(t, err)
	p := grid.NewProperty(s)
	for idx := 0; idx < p.Len(); idx++ {
		require.NoError(t, p.SetAt(idx, float32(idx%2)))
	}

	res := NewBuilder().
		WithSimulation(Simulation{
			TrainingImage: "ti.gslib",
			Levels:        []Level{{K: 4, RX: 1, RY: 1, RZ: 1}},
			Switchover:    50,
			Seed:          42,
			Sentinel:      -99,
		}).
		WithOutput("out.gslib", p).
		WithComputeTime(1500 * time.Millisecond).
		Build()

	assert.Equal(t, SchemaVersion, res.Version)
	assert.NotEmpty(t, res.Metadata.RunID)
	assert.Equal(t, "success", res.Metadata.Status)
	assert.Equal(t, 1.5, res.Metadata.ComputeTime)
	assert.Equal(t, [3]int{4, 4, 1}, res.Output.GridCells)
	assert.Equal(t, 16, res.Output.Informed)
	require.Len(t, res.Output.Histogram, 2)
	assert.Equal(t, 0, res.Output.Histogram[0].Category)
	assert.Equal(t, 8, res.Output.Histogram[0].Count)
	assert.InDelta(t, 0.5, res.Output.Histogram[0].Fraction, 1e-12)

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteJSON(res, path))
	back, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, res.Metadata.RunID, back.Metadata.RunID)
	assert.Equal(t, res.Output.Histogram, back.Output.Histogram)
}

func TestReadJSONRejectsIncompatibleSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "2.0.0"}`), 0o644))
	_, err := ReadJSON(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	_, err = ReadJSON(path)
	require.Error(t, err, "unversioned documents are rejected")
}

func TestWriteJSONLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")
	res := NewBuilder().Build()
	require.NoError(t, WriteJSON(res, path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no staging leftovers")
	assert.Equal(t, "results.json", entries[0].Name())
}

func TestBuilderError(t *testing.T) {
	res := NewBuilder().WithError(assert.AnError).Build()
	assert.Equal(t, "error", res.Metadata.Status)
	assert.NotEmpty(t, res.Metadata.Error)
}
