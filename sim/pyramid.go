package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/mould"
)

// Level parameterizes the template of one pyramid level: neighbor count K
// and per-axis anisotropy ratios.
type Level struct {
	K          int
	RX, RY, RZ float64
}

// Pyramid runs hierarchical simulation: the training image and realization
// are coarsened level by level, the coarsest level is simulated first, and
// each result seeds the next finer level as conditioning data. Levels are
// listed finest first; a single level degenerates to plain
// single-resolution simulation.
type Pyramid struct {
	levels []Level
	opts   Options
}

// NewPyramid validates the level list and captures the run options.
func NewPyramid(levels []Level, opts *Options) (*Pyramid, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: at least one pyramid level required", ErrPrecondition)
	}
	for i, l := range levels {
		if l.K <= 0 {
			return nil, fmt.Errorf("%w: level %d K must be > 0, got %d", ErrPrecondition, i, l.K)
		}
		if l.RX <= 0 || l.RY <= 0 || l.RZ <= 0 {
			return nil, fmt.Errorf("%w: level %d ratios must be > 0, got (%g, %g, %g)",
				ErrPrecondition, i, l.RX, l.RY, l.RZ)
		}
	}
	return &Pyramid{levels: levels, opts: *opts}, nil
}

// Run simulates the realization coarse to fine and returns the finest
// result (the realization itself, mutated in place). Coarser copies of the
// training image come from block-mode downsampling; coarser realizations
// carry only projected hard data.
func (p *Pyramid) Run(ctx context.Context, realization, ti *grid.Property) (*grid.Property, error) {
	if realization.Structure().Is3D() != ti.Structure().Is3D() {
		return nil, fmt.Errorf("%w: realization %s vs training image %s",
			ErrGridMismatch, realization.Structure(), ti.Structure())
	}
	last := len(p.levels) - 1

	tis := make([]*grid.Property, len(p.levels))
	tis[0] = ti
	reals := make([]*grid.Property, len(p.levels))
	reals[0] = realization
	for l := 1; l <= last; l++ {
		var err error
		if tis[l], err = DownsampleMode(tis[l-1], p.opts.Workers); err != nil {
			return nil, fmt.Errorf("downsample training image to level %d: %w", l, err)
		}
		if reals[l], err = ProjectHardData(reals[l-1], p.opts.Workers); err != nil {
			return nil, fmt.Errorf("project hard data to level %d: %w", l, err)
		}
	}

	is3D := ti.Structure().Is3D()
	for l := last; l >= 0; l-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		level := p.levels[l]
		// The pyramid supplies the coarsening, so every level's template
		// uses multi-grid factor 1.
		m, err := mould.ByAnisotropicTopK(level.K, level.RX, level.RY, level.RZ, 1, is3D)
		if err != nil {
			return nil, fmt.Errorf("level %d template: %w", l, err)
		}
		if l < last {
			if err := UpsampleLoose(reals[l+1], reals[l]); err != nil {
				return nil, fmt.Errorf("upsample level %d result: %w", l+1, err)
			}
		}

		started := time.Now()
		driver, err := NewDriver(tis[l], m, &p.opts)
		if err != nil {
			return nil, fmt.Errorf("level %d driver: %w", l, err)
		}
		if err := driver.Run(ctx, reals[l]); err != nil {
			return nil, fmt.Errorf("level %d simulation: %w", l, err)
		}
		p.opts.Logger.Info().
			Int("level", l).
			Str("grid", reals[l].Structure().String()).
			Dur("elapsed", time.Since(started)).
			Msg("pyramid level complete")
	}
	return reals[0], nil
}
