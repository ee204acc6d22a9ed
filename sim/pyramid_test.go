package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/mould"
)

func TestPyramidSingleLevelEqualsDriver(t *testing.T) {
	ti := checkerboard(t, 16)
	opts := DefaultOptions()
	opts.Seed = 321

	pyramid, err := NewPyramid([]Level{{K: 4, RX: 1, RY: 1, RZ: 1}}, opts)
	require.NoError(t, err)
	viaPyramid := blank(t, 16)
	_, err = pyramid.Run(context.Background(), viaPyramid, ti)
	require.NoError(t, err)

	m, err := mould.ByAnisotropicTopK(4, 1, 1, 1, 1, false)
	require.NoError(t, err)
	driver, err := NewDriver(ti, m, opts)
	require.NoError(t, err)
	viaDriver := blank(t, 16)
	require.NoError(t, driver.Run(context.Background(), viaDriver))

	assert.True(t, viaPyramid.Equal(viaDriver))
}

func TestPyramidTwoLevels(t *testing.T) {
	ti := checkerboard(t, 16)
	opts := DefaultOptions()
	opts.Seed = 11

	levels := []Level{
		{K: 4, RX: 1, RY: 1, RZ: 1},
		{K: 4, RX: 1, RY: 1, RZ: 1},
	}
	pyramid, err := NewPyramid(levels, opts)
	require.NoError(t, err)

	realization := blank(t, 16)
	hard := grid.NewIndex2D(5, 5)
	require.NoError(t, realization.Set(hard, 1))

	out, err := pyramid.Run(context.Background(), realization, ti)
	require.NoError(t, err)

	assert.Zero(t, out.UndefinedCount())
	v, ok := out.Get(hard)
	require.True(t, ok)
	assert.Equal(t, float32(1), v, "hard data survives the pyramid")
	for idx := 0; idx < out.Len(); idx++ {
		v, _, _ := out.GetAt(idx)
		assert.Contains(t, []float32{0, 1}, v)
	}
}

func TestPyramidDeterministicAcrossWorkerCounts(t *testing.T) {
	ti := checkerboard(t, 16)
	levels := []Level{
		{K: 4, RX: 1, RY: 1, RZ: 1},
		{K: 4, RX: 1, RY: 1, RZ: 1},
	}

	run := func(workers int) *grid.Property {
		opts := DefaultOptions()
		opts.Seed = 2024
		opts.Workers = workers
		pyramid, err := NewPyramid(levels, opts)
		require.NoError(t, err)
		r := blank(t, 16)
		out, err := pyramid.Run(context.Background(), r, ti)
		require.NoError(t, err)
		return out
	}

	assert.True(t, run(1).Equal(run(8)))
}

func TestPyramidValidation(t *testing.T) {
	_, err := NewPyramid(nil, nil)
	require.ErrorIs(t, err, ErrPrecondition)

	_, err = NewPyramid([]Level{{K: 0, RX: 1, RY: 1, RZ: 1}}, nil)
	require.ErrorIs(t, err, ErrPrecondition)

	_, err = NewPyramid([]Level{{K: 4, RX: 1, RY: -1, RZ: 1}}, nil)
	require.ErrorIs(t, err, ErrPrecondition)
}
