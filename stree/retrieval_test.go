package stree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/mould"
)

// rowProperty lays out the given values along a 1-row 2D grid.
func rowProperty(t *testing.T, values []float32) *grid.Property {
	t.Helper()
	s, err := grid.NewStructure2D(len(values), 1, 1, 1, 0, 0)
	require.NoError(t, err)
	p := grid.NewProperty(s)
	for i, v := range values {
		require.NoError(t, p.Set(grid.NewIndex2D(i, 0), v))
	}
	return p
}

func TestK1NearestNeighborHistogram(t *testing.T) {
	// Template is the single neighbor one cell east; the tree degenerates
	// to the histogram of cores per nearest-neighbor value.
	m, err := mould.ByLocations(grid.NewIndex2D(0, 0), []grid.SpatialIndex{grid.NewIndex2D(1, 0)})
	require.NoError(t, err)

	ti := rowProperty(t, []float32{0, 1, 0, 1})
	tree, err := Build(m, ti, nil)
	require.NoError(t, err)

	// Patterns: core 0 sees 1, core 1 sees 0, core 0 sees 1.
	assert.Equal(t, map[int]int{0: 2}, tree.RetrieveForward([]int{1}, 0))
	assert.Equal(t, map[int]int{1: 1}, tree.RetrieveForward([]int{0}, 0))
	assert.Equal(t, map[int]int{0: 2}, tree.RetrieveReverse([]int{1}, 0, 1))
}

func TestAllMissingEventReturnsNone(t *testing.T) {
	ti := checkerboard(t, 8)
	tree, err := Build(crossMould(t), ti, nil)
	require.NoError(t, err)

	event := []int{NoValue, NoValue, NoValue, NoValue}
	assert.Nil(t, tree.RetrieveForward(event, 0))
	assert.Nil(t, tree.RetrieveReverse(event, 0, 1))
}

func TestForwardDeepestInformedWins(t *testing.T) {
	ti := checkerboard(t, 16)
	tree, err := Build(crossMould(t), ti, nil)
	require.NoError(t, err)

	// A full checkerboard neighborhood of ones forces core zero: the
	// deepest informed level is a singleton class.
	agg := tree.RetrieveForward([]int{1, 1, 1, 1}, 0)
	require.NotNil(t, agg)
	assert.Zero(t, agg[1])
	assert.Positive(t, agg[0])
}

func TestForwardWildcardExpandsFrontier(t *testing.T) {
	ti := checkerboard(t, 16)
	tree, err := Build(crossMould(t), ti, nil)
	require.NoError(t, err)

	// Missing at depth 0 wildcards both branches; the informed depth 1
	// still pins the core.
	agg := tree.RetrieveForward([]int{NoValue, 1, NoValue, NoValue}, 0)
	require.NotNil(t, agg)
	assert.Positive(t, agg[0])
	assert.Zero(t, agg[1])
}

func TestForwardFallsBackToShallowerLevel(t *testing.T) {
	ti := rowProperty(t, []float32{0, 1, 0, 1, 0, 1})
	// Two neighbors east at distances 1 and 2.
	m, err := mould.ByLocations(grid.NewIndex2D(0, 0), []grid.SpatialIndex{
		grid.NewIndex2D(1, 0), grid.NewIndex2D(2, 0),
	})
	require.NoError(t, err)
	tree, err := Build(m, ti, nil)
	require.NoError(t, err)

	// The pair (1, 1) never occurs in an alternating row, so the deepest
	// level is empty and retrieval degrades to the depth-0 match.
	agg := tree.RetrieveForward([]int{1, 1}, 0)
	require.NotNil(t, agg)
	assert.Equal(t, map[int]int{0: 2}, agg)
}

func TestReverseMatchesForwardUnderFullEvidence(t *testing.T) {
	ti := checkerboard(t, 16)
	tree, err := Build(crossMould(t), ti, nil)
	require.NoError(t, err)

	events := [][]int{
		{1, 1, 1, 1},
		{0, 0, 0, 0},
		{0, 1, 1, 0},
	}
	for _, event := range events {
		forward := tree.RetrieveForward(event, 0)
		reverse := tree.RetrieveReverse(event, 0, 4)
		assert.Equal(t, forward, reverse, "event %v", event)
	}
}

func TestReverseFiltersSharedDeepBuckets(t *testing.T) {
	// Period-three row: the depth-1 bucket for category 1 holds two
	// leaves, so the equality with forward retrieval depends on the
	// ancestor filter discarding the mismatching one.
	ti := rowProperty(t, []float32{0, 1, 1, 0, 1, 1, 0, 1, 1})
	m, err := mould.ByLocations(grid.NewIndex2D(0, 0), []grid.SpatialIndex{
		grid.NewIndex2D(1, 0), grid.NewIndex2D(2, 0),
	})
	require.NoError(t, err)
	tree, err := Build(m, ti, nil)
	require.NoError(t, err)

	event := []int{0, 1}
	forward := tree.RetrieveForward(event, 0)
	reverse := tree.RetrieveReverse(event, 0, 1)
	require.NotNil(t, forward)
	assert.Equal(t, forward, reverse)
	assert.Equal(t, map[int]int{1: 2}, reverse)
}

func TestReversePartialEvidence(t *testing.T) {
	ti := checkerboard(t, 16)
	tree, err := Build(crossMould(t), ti, nil)
	require.NoError(t, err)

	// Farthest informed neighbor only: bucket lookup without filtering.
	agg := tree.RetrieveReverse([]int{NoValue, NoValue, NoValue, 1}, 0, 1)
	require.NotNil(t, agg)
	assert.Positive(t, agg[0])
	assert.Zero(t, agg[1])

	// Far and near informed but contradictory: the near evidence filters
	// out the only deep candidate, so retrieval falls through to the
	// near depth's own bucket.
	filtered := tree.RetrieveReverse([]int{0, NoValue, NoValue, 1}, 0, 1)
	require.NotNil(t, filtered)
	assert.Positive(t, filtered[1])
	assert.Zero(t, filtered[0])
}

func TestRetrieveThresholdSuppressesWeakLevels(t *testing.T) {
	ti := constantProperty(t, 3, 1)
	tree, err := Build(crossMould(t), ti, nil)
	require.NoError(t, err)

	// One pattern total: any level aggregates exactly one replicate, which
	// never exceeds a threshold of one.
	event := []int{1, 1, 1, 1}
	assert.Nil(t, tree.RetrieveForward(event, 1))
	assert.Nil(t, tree.RetrieveReverse(event, 1, 1))
	assert.NotNil(t, tree.RetrieveForward(event, 0))
}
