// Package sim drives sequential multiple-point simulation: randomized
// visiting paths, the single-resolution driver that fills a realization
// cell by cell from search-tree retrievals, and the multi-resolution
// pyramid that repeats the process coarse to fine.
package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/mould"
	"github.com/mpslab/go-snesim/rng"
	"github.com/mpslab/go-snesim/stats"
	"github.com/mpslab/go-snesim/stree"
)

// Options configures a simulation run.
type Options struct {
	// Switchover is the progress percentage at or below which retrieval
	// runs in reverse (far-to-near) mode. 0 means always forward, 100
	// means always reverse.
	Switchover float64
	// Seed initializes the run's single Mersenne Twister stream.
	Seed uint32
	// CDMin is the minimum replicate threshold a retrieval aggregate must
	// exceed to be accepted.
	CDMin int
	// Workers bounds the data-parallel phases (pattern extraction,
	// reverse-retrieval filtering, pyramid reduction). Zero means
	// GOMAXPROCS. Worker count never influences the realization.
	Workers int
	// Logger receives progress events. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultOptions returns the standard run configuration.
func DefaultOptions() *Options {
	return &Options{
		Switchover: 50,
		Seed:       1,
		CDMin:      1,
		Workers:    0,
		Logger:     zerolog.Nop(),
	}
}

func (o *Options) validate() error {
	if o.Switchover < 0 || o.Switchover > 100 {
		return fmt.Errorf("%w: switchover must be in [0, 100], got %g", ErrPrecondition, o.Switchover)
	}
	if o.CDMin < 0 {
		return fmt.Errorf("%w: cd_min must be >= 0, got %d", ErrPrecondition, o.CDMin)
	}
	return nil
}

// Driver runs single-resolution sequential simulation against one search
// tree. The tree and global distribution are built once at construction
// and shared read-only afterwards.
type Driver struct {
	tree       *stree.Tree
	mould      *mould.Mould
	globalPDF  stats.PDF
	categories []int
	opts       Options
}

// NewDriver builds the search tree and global category distribution from a
// training image and template.
func NewDriver(ti *grid.Property, m *mould.Mould, opts *Options) (*Driver, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if m.Is3D() != ti.Structure().Is3D() {
		return nil, fmt.Errorf("%w: %dD template on %s", ErrGridMismatch, dimsOf(m.Is3D()), ti.Structure())
	}
	tree, err := stree.Build(m, ti, &stree.BuildOptions{Workers: opts.Workers, Logger: opts.Logger})
	if err != nil {
		return nil, err
	}
	globalPDF, err := stats.GlobalPDF(ti)
	if err != nil {
		return nil, fmt.Errorf("training image: %w", err)
	}
	return &Driver{
		tree:       tree,
		mould:      m,
		globalPDF:  globalPDF,
		categories: tree.Categories(),
		opts:       *opts,
	}, nil
}

// Tree exposes the driver's search tree (read-only).
func (d *Driver) Tree() *stree.Tree { return d.tree }

// GlobalPDF exposes the training image's marginal category distribution.
func (d *Driver) GlobalPDF() stats.PDF { return d.globalPDF }

// Run fills every uninformed cell of the realization in place. Pre-informed
// cells are frozen up front and never mutated. The PRNG stream is consumed
// by the path shuffle first, then by one draw per simulated cell in visit
// order, so a seed fully determines the output.
func (d *Driver) Run(ctx context.Context, realization *grid.Property) error {
	if realization.Structure().Is3D() != d.mould.Is3D() {
		return fmt.Errorf("%w: %dD template on %s", ErrGridMismatch, dimsOf(d.mould.Is3D()), realization.Structure())
	}

	generator := rng.New(d.opts.Seed)
	path := NewPath(realization.Structure(), generator)

	// Hard data participates in progress from the start.
	for idx := 0; idx < realization.Len(); idx++ {
		if _, ok, _ := realization.GetAt(idx); ok {
			si, _ := realization.Structure().SpatialIndexOf(idx)
			path.Freeze(si)
		}
	}

	k := d.mould.Size()
	values := make([]float32, k)
	present := make([]bool, k)
	event := make([]int, k)
	lastDecile := -1

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		si, ok := path.VisitNext()
		if !ok {
			break
		}
		if realization.Has(si) {
			continue
		}

		res := d.mould.Gather(si, realization, values, present)
		pdf := d.globalPDF
		if res.AnyValid {
			for i := 0; i < k; i++ {
				if present[i] {
					event[i] = int(values[i])
				} else {
					event[i] = stree.NoValue
				}
			}
			var agg map[int]int
			if path.Progress() <= d.opts.Switchover {
				agg = d.tree.RetrieveReverse(event, d.opts.CDMin, d.opts.Workers)
			} else {
				agg = d.tree.RetrieveForward(event, d.opts.CDMin)
			}
			if agg != nil {
				conditional, err := stats.FromAggregate(agg, d.categories)
				if err != nil {
					return fmt.Errorf("conditional distribution at %s: %w", si, err)
				}
				pdf = conditional
			}
		}

		category, err := pdf.Sample(generator.NextUnitFloat())
		if err != nil {
			return fmt.Errorf("sample at %s: %w", si, err)
		}
		if err := realization.Set(si, float32(category)); err != nil {
			return err
		}

		if decile := int(path.Progress()) / 10; decile != lastDecile {
			lastDecile = decile
			d.opts.Logger.Debug().
				Float64("percent", path.Progress()).
				Int("frozen", path.FrozenCount()).
				Int("cells", path.Len()).
				Msg("simulation progress")
		}
	}
	return nil
}

func dimsOf(is3D bool) int {
	if is3D {
		return 3
	}
	return 2
}
