package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/stats"
)

// Builder accumulates run output incrementally.
type Builder struct {
	res *Results
}

// NewBuilder starts a result set with a fresh run id.
func NewBuilder() *Builder {
	return &Builder{
		res: &Results{
			Version: SchemaVersion,
			Metadata: Metadata{
				RunID:     uuid.New().String(),
				Timestamp: time.Now().UTC(),
				Status:    "success",
			},
		},
	}
}

// WithSimulation records the run parameters.
func (b *Builder) WithSimulation(sim Simulation) *Builder {
	b.res.Simulation = sim
	return b
}

// WithOutput summarizes the simulated property: grid extent, informed
// count, and per-category histogram.
func (b *Builder) WithOutput(file string, p *grid.Property) *Builder {
	s := p.Structure()
	out := Output{
		File:      file,
		GridCells: [3]int{s.NX(), s.NY(), s.NZ()},
		CellCount: p.Len(),
		Informed:  p.DefinedCount(),
	}
	freq := stats.Frequencies(p)
	out.Categories = len(freq)
	for _, c := range stats.Categories(freq) {
		out.Histogram = append(out.Histogram, CategoryBin{
			Category: c,
			Count:    freq[c],
			Fraction: float64(freq[c]) / float64(p.DefinedCount()),
		})
	}
	b.res.Output = out
	return b
}

// WithComputeTime records the wall-clock duration.
func (b *Builder) WithComputeTime(d time.Duration) *Builder {
	b.res.Metadata.ComputeTime = d.Seconds()
	return b
}

// WithError marks the run failed.
func (b *Builder) WithError(err error) *Builder {
	b.res.Metadata.Status = "error"
	b.res.Metadata.Error = err.Error()
	return b
}

// Build returns the assembled results.
func (b *Builder) Build() *Results {
	return b.res
}
