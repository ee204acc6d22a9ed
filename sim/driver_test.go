package sim

import (
	"context"
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

func blank(t *testing.T, n int) *grid.Property {
	t.Helper()
	s, err := grid.NewStructure2D(n, n, 1, 1, 0, 0)
	require.NoError(t, err)
	return grid.NewProperty(s)
}

func TestDriverDegenerateTI(t *testing.T) {
	// A single-category training image can only ever produce that
	// category, whatever the seed.
	driver, err := NewDriver(constantProperty(t, 3, 1), crossMould(t), nil)
	require.NoError(t, err)

	realization := blank(t, 5)
	require.NoError(t, driver.Run(context.Background(), realization))

	assert.Zero(t, realization.UndefinedCount())
	for idx := 0; idx < realization.Len(); idx++ {
		v, ok, _ := realization.GetAt(idx)
		require.True(t, ok)
		assert.Equal(t, float32(1), v)
	}
}

func TestDriverPreservesHardData(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 123
	driver, err := NewDriver(checkerboard(t, 16), crossMould(t), opts)
	require.NoError(t, err)

	realization := blank(t, 16)
	// Hard data deliberately off the checkerboard parity: the simulation
	// must preserve it anyway.
	hard := map[grid.SpatialIndex]float32{
		grid.NewIndex2D(3, 3):   1,
		grid.NewIndex2D(8, 2):   0,
		grid.NewIndex2D(12, 14): 0,
	}
	for si, v := range hard {
		require.NoError(t, realization.Set(si, v))
	}

	require.NoError(t, driver.Run(context.Background(), realization))
	assert.Zero(t, realization.UndefinedCount())
	for si, want := range hard {
		v, ok := realization.Get(si)
		require.True(t, ok)
		assert.Equal(t, want, v, "hard datum at %s", si)
	}
}

func TestDriverCheckerboardCategories(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 123
	driver, err := NewDriver(checkerboard(t, 16), crossMould(t), opts)
	require.NoError(t, err)

	realization := blank(t, 16)
	require.NoError(t, driver.Run(context.Background(), realization))

	assert.Zero(t, realization.UndefinedCount())
	for idx := 0; idx < realization.Len(); idx++ {
		v, _, _ := realization.GetAt(idx)
		assert.Contains(t, []float32{0, 1}, v)
	}
}

func TestDriverDeterministicAcrossWorkerCounts(t *testing.T) {
	ti := checkerboard(t, 16)
	m := crossMould(t)

	runWith := func(workers int, switchover float64) *grid.Property {
		opts := DefaultOptions()
		opts.Seed = 777
		opts.Workers = workers
		opts.Switchover = switchover
		driver, err := NewDriver(ti, m, opts)
		require.NoError(t, err)
		r := blank(t, 12)
		require.NoError(t, driver.Run(context.Background(), r))
		return r
	}

	for _, switchover := range []float64{0, 50, 100} {
		serial := runWith(1, switchover)
		parallel := runWith(8, switchover)
		assert.True(t, serial.Equal(parallel), "switchover %g", switchover)
	}
}

func TestDriverRepeatableForSeed(t *testing.T) {
	ti := checkerboard(t, 16)
	m := crossMould(t)

	run := func(seed uint32) *grid.Property {
		opts := DefaultOptions()
		opts.Seed = seed
		driver, err := NewDriver(ti, m, opts)
		require.NoError(t, err)
		r := blank(t, 12)
		require.NoError(t, driver.Run(context.Background(), r))
		return r
	}

	assert.True(t, run(99).Equal(run(99)))
}

func TestDriverCancellation(t *testing.T) {
	driver, err := NewDriver(checkerboard(t, 16), crossMould(t), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = driver.Run(ctx, blank(t, 8))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDriverOptionValidation(t *testing.T) {
	opts := DefaultOptions()
	opts.Switchover = 120
	_, err := NewDriver(checkerboard(t, 8), crossMould(t), opts)
	require.ErrorIs(t, err, ErrPrecondition)

	opts = DefaultOptions()
	opts.CDMin = -1
	_, err = NewDriver(checkerboard(t, 8), crossMould(t), opts)
	require.ErrorIs(t, err, ErrPrecondition)
}
