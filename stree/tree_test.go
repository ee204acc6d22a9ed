package stree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/mould"
)

func crossMould(t *testing.T) *mould.Mould {
	t.Helper()
	m, err := mould.ByAnisotropicTopK(4, 1, 1, 1, 1, false)
	require.NoError(t, err)
	return m
}

func constantProperty(t *testing.T, n int, value float32) *grid.Property {
	t.Helper()
	s, err := grid.NewStructure2D(n, n, 1, 1, 0, 0)
	require.NoError(t, err)
	p := grid.NewProperty(s)
	for idx := 0; idx < p.Len(); idx++ {
		require.NoError(t, p.SetAt(idx, value))
	}
	return p
}

func checkerboard(t *testing.T, n int) *grid.Property {
	t.Helper()
	s, err := grid.NewStructure2D(n, n, 1, 1, 0, 0)
	require.NoError(t, err)
	p := grid.NewProperty(s)
	for iy := 0; iy < n; iy++ {
		for ix := 0; ix < n; ix++ {
			require.NoError(t, p.Set(grid.NewIndex2D(ix, iy), float32((ix+iy)%2)))
		}
	}
	return p
}

func TestBuildDegenerateTI(t *testing.T) {
	ti := constantProperty(t, 3, 1)
	tree, err := Build(crossMould(t), ti, nil)
	require.NoError(t, err)

	// Only the center cell has all four neighbors: one pattern, one branch.
	assert.Equal(t, []int{1}, tree.Categories())
	assert.Equal(t, 5, tree.NodeCount(), "root plus one chain of depth 4")
	assert.Equal(t, map[int]int{1: 1}, tree.RootFrequencies())
	for d := 0; d < tree.K(); d++ {
		assert.Equal(t, 1, tree.NodesAtDepth(d))
	}
}

func TestBuildRootInvariant(t *testing.T) {
	ti := checkerboard(t, 16)
	tree, err := Build(crossMould(t), ti, nil)
	require.NoError(t, err)

	// 14x14 interior cells have fully informed neighborhoods; the core is
	// always present, so the root counts every pattern.
	freq := tree.RootFrequencies()
	assert.Equal(t, 196, freq[0]+freq[1])
	assert.Equal(t, 98, freq[0])
	assert.Equal(t, 98, freq[1])
}

func TestReverseStructureInvariant(t *testing.T) {
	ti := checkerboard(t, 16)
	tree, err := Build(crossMould(t), ti, nil)
	require.NoError(t, err)

	for d := 0; d < tree.K(); d++ {
		inBuckets := 0
		for _, c := range tree.Categories() {
			inBuckets += tree.ReverseBucketSize(d, c)
		}
		assert.Equal(t, tree.NodesAtDepth(d), inBuckets, "depth %d", d)
	}
}

func TestBuildWorkerCountInvariance(t *testing.T) {
	ti := checkerboard(t, 16)
	m := crossMould(t)

	one, err := Build(m, ti, &BuildOptions{Workers: 1})
	require.NoError(t, err)
	many, err := Build(m, ti, &BuildOptions{Workers: 8})
	require.NoError(t, err)

	require.Equal(t, one.NodeCount(), many.NodeCount())
	assert.Equal(t, one.RootFrequencies(), many.RootFrequencies())

	event := []int{1, 1, 1, 1}
	assert.Equal(t, one.RetrieveForward(event, 0), many.RetrieveForward(event, 0))
	assert.Equal(t, one.RetrieveReverse(event, 0, 1), many.RetrieveReverse(event, 0, 8))
}

func TestBuildTooManyCategories(t *testing.T) {
	s, err := grid.NewStructure2D(16, 16, 1, 1, 0, 0)
	require.NoError(t, err)
	ti := grid.NewProperty(s)
	for idx := 0; idx < ti.Len(); idx++ {
		require.NoError(t, ti.SetAt(idx, float32(idx%11)))
	}
	_, err = Build(crossMould(t), ti, nil)
	require.ErrorIs(t, err, ErrTooManyCategories)
}

func TestBuildNonCategorical(t *testing.T) {
	s, err := grid.NewStructure2D(4, 4, 1, 1, 0, 0)
	require.NoError(t, err)
	ti := grid.NewProperty(s)
	for idx := 0; idx < ti.Len(); idx++ {
		require.NoError(t, ti.SetAt(idx, 0.5))
	}
	_, err = Build(crossMould(t), ti, nil)
	require.ErrorIs(t, err, ErrNotCategorical)
}

func TestBuildSkipsPartialNeighborhoods(t *testing.T) {
	// A hole in the TI removes the patterns whose neighborhood touches it,
	// but the core-missing cell itself still contributes its neighbors'
	// pattern with zero core weight.
	ti := checkerboard(t, 8)
	require.NoError(t, ti.Unset(grid.NewIndex2D(4, 4)))

	tree, err := Build(crossMould(t), ti, nil)
	require.NoError(t, err)

	// 6x6 interior cells minus the four neighborhoods broken by the hole.
	freq := tree.RootFrequencies()
	assert.Equal(t, 32, freq[0]+freq[1])
}
