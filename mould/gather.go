package mould

import "github.com/mpslab/go-snesim/grid"

// GatherResult summarizes a data event collected around a center cell.
type GatherResult struct {
	Core        float32 // value at the center, if present
	CorePresent bool
	AnyValid    bool // at least one neighbor informed
	AllValid    bool // every neighbor informed
}

// Gather fills values/present with the neighbor data event around center:
// values[i] holds the property at center + offset i, present[i] is false
// for missing or out-of-bounds neighbors. Both slices must have length
// Size(). The 2D and 3D paths are specialized so the hot loop never
// branches on dimensionality per neighbor.
func (m *Mould) Gather(center grid.SpatialIndex, p *grid.Property, values []float32, present []bool) GatherResult {
	res := GatherResult{AllValid: true}
	res.Core, res.CorePresent = p.Get(center)

	if m.is3D {
		m.gather3D(center, p, values, present, &res)
	} else {
		m.gather2D(center, p, values, present, &res)
	}
	if m.Size() == 0 {
		res.AllValid = false
	}
	return res
}

func (m *Mould) gather2D(center grid.SpatialIndex, p *grid.Property, values []float32, present []bool, res *GatherResult) {
	for i := range m.dx {
		v, ok := p.Get(center.Shift(m.dx[i], m.dy[i], 0))
		values[i] = v
		present[i] = ok
		if ok {
			res.AnyValid = true
		} else {
			res.AllValid = false
		}
	}
}

func (m *Mould) gather3D(center grid.SpatialIndex, p *grid.Property, values []float32, present []bool, res *GatherResult) {
	for i := range m.dx {
		v, ok := p.Get(center.Shift(m.dx[i], m.dy[i], m.dz[i]))
		values[i] = v
		present[i] = ok
		if ok {
			res.AnyValid = true
		} else {
			res.AllValid = false
		}
	}
}
