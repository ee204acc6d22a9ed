package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpslab/go-snesim/grid"
)

func TestDownsampleMode(t *testing.T) {
	s, err := grid.NewStructure2D(4, 4, 1, 1, 0, 0)
	require.NoError(t, err)
	p := grid.NewProperty(s)
	// Top-left block: three 1s and one 0 -> mode 1.
	require.NoError(t, p.Set(grid.NewIndex2D(0, 0), 1))
	require.NoError(t, p.Set(grid.NewIndex2D(1, 0), 1))
	require.NoError(t, p.Set(grid.NewIndex2D(0, 1), 1))
	require.NoError(t, p.Set(grid.NewIndex2D(1, 1), 0))
	// Block (1,0): 2-2 split of 0 and 3 -> tie breaks to 0.
	require.NoError(t, p.Set(grid.NewIndex2D(2, 0), 0))
	require.NoError(t, p.Set(grid.NewIndex2D(3, 0), 0))
	require.NoError(t, p.Set(grid.NewIndex2D(2, 1), 3))
	require.NoError(t, p.Set(grid.NewIndex2D(3, 1), 3))
	// Block (0,1): single informed cell.
	require.NoError(t, p.Set(grid.NewIndex2D(1, 2), 7))
	// Block (1,1): left entirely missing.

	coarse, err := DownsampleMode(p, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, coarse.Structure().NX())
	assert.Equal(t, 2, coarse.Structure().NY())

	v, ok := coarse.Get(grid.NewIndex2D(0, 0))
	require.True(t, ok)
	assert.Equal(t, float32(1), v)

	v, ok = coarse.Get(grid.NewIndex2D(1, 0))
	require.True(t, ok)
	assert.Equal(t, float32(0), v)

	v, ok = coarse.Get(grid.NewIndex2D(0, 1))
	require.True(t, ok)
	assert.Equal(t, float32(7), v)

	_, ok = coarse.Get(grid.NewIndex2D(1, 1))
	assert.False(t, ok, "all-missing block stays missing")
}

func TestDownsampleOddExtent(t *testing.T) {
	s, err := grid.NewStructure2D(5, 5, 1, 1, 0, 0)
	require.NoError(t, err)
	p := grid.NewProperty(s)
	for idx := 0; idx < p.Len(); idx++ {
		require.NoError(t, p.SetAt(idx, 2))
	}
	coarse, err := DownsampleMode(p, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, coarse.Structure().NX())
	assert.Equal(t, 0, coarse.UndefinedCount())
}

func TestUpsampleLooseWritesOnlyMissing(t *testing.T) {
	fineStructure, err := grid.NewStructure2D(4, 4, 1, 1, 0, 0)
	require.NoError(t, err)
	coarseStructure, err := fineStructure.Coarsen(2)
	require.NoError(t, err)

	coarse := grid.NewProperty(coarseStructure)
	for idx := 0; idx < coarse.Len(); idx++ {
		require.NoError(t, coarse.SetAt(idx, 5))
	}

	fine := grid.NewProperty(fineStructure)
	hard := grid.NewIndex2D(1, 1)
	require.NoError(t, fine.Set(hard, 9))

	require.NoError(t, UpsampleLoose(coarse, fine))

	// Coarse (0,0) maps to fine floor(0.5*2) = (1,1): occupied by hard
	// data, so it stays 9.
	v, ok := fine.Get(hard)
	require.True(t, ok)
	assert.Equal(t, float32(9), v)

	// Coarse (1,1) maps to fine (3,3).
	v, ok = fine.Get(grid.NewIndex2D(3, 3))
	require.True(t, ok)
	assert.Equal(t, float32(5), v)

	// Cells off the loose mapping stay missing.
	_, ok = fine.Get(grid.NewIndex2D(0, 0))
	assert.False(t, ok)
}

func TestDownsampleStabilizesConstantRegions(t *testing.T) {
	s, err := grid.NewStructure2D(8, 8, 1, 1, 0, 0)
	require.NoError(t, err)
	p := grid.NewProperty(s)
	for idx := 0; idx < p.Len(); idx++ {
		require.NoError(t, p.SetAt(idx, 4))
	}

	coarse, err := DownsampleMode(p, 0)
	require.NoError(t, err)
	fine := grid.NewProperty(s)
	require.NoError(t, UpsampleLoose(coarse, fine))

	// Every cell the loose mapping touches carries the constant value.
	for idx := 0; idx < fine.Len(); idx++ {
		if v, ok, _ := fine.GetAt(idx); ok {
			assert.Equal(t, float32(4), v)
		}
	}
	assert.Equal(t, coarse.Len(), fine.DefinedCount())
}
