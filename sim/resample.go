package sim

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/stats"
)

// blockFactor is the per-axis coarsening between adjacent pyramid levels.
const blockFactor = 2

// DownsampleMode coarsens a categorical property by blockFactor along x and
// y (and z for 3D grids). Each coarse cell takes the mode of the present
// values in its source block, with ties resolved toward the smaller
// category; a block with no present source stays missing. Blocks reduce
// independently across the worker pool.
func DownsampleMode(p *grid.Property, workers int) (*grid.Property, error) {
	coarseStructure, err := p.Structure().Coarsen(blockFactor)
	if err != nil {
		return nil, err
	}
	coarse := grid.NewProperty(coarseStructure)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	n := coarseStructure.Count()
	type cellValue struct {
		idx int
		v   float32
		ok  bool
	}
	results := make([]cellValue, n)

	chunkSize := (n + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		if lo >= n {
			break
		}
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			for idx := lo; idx < hi; idx++ {
				si, err := coarseStructure.SpatialIndexOf(idx)
				if err != nil {
					return err
				}
				v, ok := blockMode(p, si)
				results[idx] = cellValue{idx: idx, v: v, ok: ok}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.ok {
			if err := coarse.SetAt(r.idx, r.v); err != nil {
				return nil, err
			}
		}
	}
	return coarse, nil
}

// blockMode reduces the fine source block of one coarse cell to its modal
// category.
func blockMode(fine *grid.Property, coarse grid.SpatialIndex) (float32, bool) {
	s := fine.Structure()
	zSpan := 1
	if s.Is3D() {
		zSpan = blockFactor
	}
	freq := make(map[int]int, blockFactor*blockFactor*zSpan)
	for dz := 0; dz < zSpan; dz++ {
		for dy := 0; dy < blockFactor; dy++ {
			for dx := 0; dx < blockFactor; dx++ {
				si := grid.SpatialIndex{
					IX:  coarse.IX*blockFactor + dx,
					IY:  coarse.IY*blockFactor + dy,
					IZ:  coarse.IZ*zSpan + dz,
					Dim: coarse.Dim,
				}
				if v, ok := fine.Get(si); ok {
					freq[int(v)]++
				}
			}
		}
	}
	mode, ok := stats.Mode(freq)
	return float32(mode), ok
}

// ProjectHardData carries a realization's informed cells onto the next
// coarser grid. For a categorical property the projection is the block
// mode of present values; uninformed blocks stay missing, so simulation on
// the coarse level treats the projection exactly like hard data.
func ProjectHardData(p *grid.Property, workers int) (*grid.Property, error) {
	return DownsampleMode(p, workers)
}

// UpsampleLoose writes a coarse property onto a finer grid using the loose
// center-of-block mapping: coarse cell (ix, iy, iz) lands on the fine cell
// floor((ix+0.5)*scale) per axis, with scale the ratio of fine to coarse
// counts. Only missing fine cells receive values; hard data is never
// overwritten.
func UpsampleLoose(coarse, fine *grid.Property) error {
	cs := coarse.Structure()
	fs := fine.Structure()
	scaleX := float64(fs.NX()) / float64(cs.NX())
	scaleY := float64(fs.NY()) / float64(cs.NY())
	scaleZ := float64(fs.NZ()) / float64(cs.NZ())

	for idx := 0; idx < coarse.Len(); idx++ {
		v, ok, err := coarse.GetAt(idx)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		csi, err := cs.SpatialIndexOf(idx)
		if err != nil {
			return err
		}
		fsi := grid.SpatialIndex{
			IX:  int((float64(csi.IX) + 0.5) * scaleX),
			IY:  int((float64(csi.IY) + 0.5) * scaleY),
			IZ:  int((float64(csi.IZ) + 0.5) * scaleZ),
			Dim: dimTag(fs),
		}
		if !fs.Contains(fsi) || fine.Has(fsi) {
			continue
		}
		if err := fine.Set(fsi, v); err != nil {
			return err
		}
	}
	return nil
}

func dimTag(s *grid.Structure) int {
	if s.Is3D() {
		return 3
	}
	return 2
}
