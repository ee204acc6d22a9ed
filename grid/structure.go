// Package grid provides the regular-grid geometry and property buffers used
// throughout the simulation: immutable grid descriptors, discrete spatial
// indices, real-world coordinates, and dense categorical properties with
// missing-value bookkeeping.
package grid

import "fmt"

// Structure is an immutable descriptor of a regular 2D or 3D grid.
// Cell counts, cell sizes, and the coordinate of the first cell center
// fully determine the geometry. nz == 1 means the grid is 2D.
type Structure struct {
	nx, ny, nz int
	sx, sy, sz float64
	x0, y0, z0 float64
}

// NewStructure2D creates a 2D grid descriptor (nz fixed to 1).
func NewStructure2D(nx, ny int, sx, sy float64, x0, y0 float64) (*Structure, error) {
	return NewStructure3D(nx, ny, 1, sx, sy, 1.0, x0, y0, 0)
}

// NewStructure3D creates a 3D grid descriptor.
// All counts must be >= 1 and all cell sizes > 0.
func NewStructure3D(nx, ny, nz int, sx, sy, sz float64, x0, y0, z0 float64) (*Structure, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("%w: cell counts must be >= 1, got (%d, %d, %d)", ErrPrecondition, nx, ny, nz)
	}
	if sx <= 0 || sy <= 0 || sz <= 0 {
		return nil, fmt.Errorf("%w: cell sizes must be > 0, got (%g, %g, %g)", ErrPrecondition, sx, sy, sz)
	}
	return &Structure{
		nx: nx, ny: ny, nz: nz,
		sx: sx, sy: sy, sz: sz,
		x0: x0, y0: y0, z0: z0,
	}, nil
}

// NX returns the cell count along x.
func (s *Structure) NX() int { return s.nx }

// NY returns the cell count along y.
func (s *Structure) NY() int { return s.ny }

// NZ returns the cell count along z (1 for 2D grids).
func (s *Structure) NZ() int { return s.nz }

// SX returns the cell size along x.
func (s *Structure) SX() float64 { return s.sx }

// SY returns the cell size along y.
func (s *Structure) SY() float64 { return s.sy }

// SZ returns the cell size along z.
func (s *Structure) SZ() float64 { return s.sz }

// Origin returns the coordinate of the first cell center.
func (s *Structure) Origin() (x0, y0, z0 float64) { return s.x0, s.y0, s.z0 }

// Count returns the total number of cells nx*ny*nz.
func (s *Structure) Count() int { return s.nx * s.ny * s.nz }

// Is3D reports whether the grid has more than one layer along z.
func (s *Structure) Is3D() bool { return s.nz > 1 }

// dims returns the dimensionality tag for indices derived from this grid.
func (s *Structure) dims() int {
	if s.Is3D() {
		return 3
	}
	return 2
}

// Contains reports whether si is in-bounds for this grid.
// A 2D index is accepted by a 3D grid only at layer zero.
func (s *Structure) Contains(si SpatialIndex) bool {
	return si.IX >= 0 && si.IX < s.nx &&
		si.IY >= 0 && si.IY < s.ny &&
		si.IZ >= 0 && si.IZ < s.nz
}

// ArrayIndex converts a spatial index to its position in the row-major
// storage order (ix fastest, then iy, then iz).
func (s *Structure) ArrayIndex(si SpatialIndex) (int, error) {
	if !s.Contains(si) {
		return 0, fmt.Errorf("%w: %s on %dx%dx%d grid", ErrOutOfRange, si, s.nx, s.ny, s.nz)
	}
	return si.IZ*s.nx*s.ny + si.IY*s.nx + si.IX, nil
}

// SpatialIndexOf converts an array position back to a spatial index.
func (s *Structure) SpatialIndexOf(idx int) (SpatialIndex, error) {
	if idx < 0 || idx >= s.Count() {
		return SpatialIndex{}, fmt.Errorf("%w: array index %d of %d", ErrOutOfRange, idx, s.Count())
	}
	plane := s.nx * s.ny
	iz := idx / plane
	rem := idx % plane
	return SpatialIndex{IX: rem % s.nx, IY: rem / s.nx, IZ: iz, Dim: s.dims()}, nil
}

// CoordOf returns the real-world coordinate of a cell center.
// The index is not bounds-checked; out-of-grid indices extrapolate linearly.
func (s *Structure) CoordOf(si SpatialIndex) Coord {
	return Coord{
		X:   s.x0 + float64(si.IX)*s.sx,
		Y:   s.y0 + float64(si.IY)*s.sy,
		Z:   s.z0 + float64(si.IZ)*s.sz,
		Dim: si.Dim,
	}
}

// IndexAtCoord maps a coordinate to the spatial index of the nearest cell
// center. The second return is false when the coordinate falls outside the
// grid.
func (s *Structure) IndexAtCoord(c Coord) (SpatialIndex, bool) {
	ix := roundToInt((c.X - s.x0) / s.sx)
	iy := roundToInt((c.Y - s.y0) / s.sy)
	iz := 0
	if s.Is3D() {
		iz = roundToInt((c.Z - s.z0) / s.sz)
	}
	si := SpatialIndex{IX: ix, IY: iy, IZ: iz, Dim: s.dims()}
	return si, s.Contains(si)
}

// Coarsen derives the descriptor of a grid coarsened by an integer factor
// along every axis (z included only for 3D grids). Counts are rounded up so
// every fine cell belongs to some coarse block; the origin moves to the
// center of the first block.
func (s *Structure) Coarsen(factor int) (*Structure, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: coarsening factor must be >= 1, got %d", ErrPrecondition, factor)
	}
	nx := (s.nx + factor - 1) / factor
	ny := (s.ny + factor - 1) / factor
	nz := s.nz
	sz := s.sz
	z0 := s.z0
	if s.Is3D() {
		nz = (s.nz + factor - 1) / factor
		sz = s.sz * float64(factor)
		z0 = s.z0 + s.sz*float64(factor-1)/2
	}
	return NewStructure3D(
		nx, ny, nz,
		s.sx*float64(factor), s.sy*float64(factor), sz,
		s.x0+s.sx*float64(factor-1)/2, s.y0+s.sy*float64(factor-1)/2, z0,
	)
}

// Equal reports structural equality on all fields.
func (s *Structure) Equal(o *Structure) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.nx == o.nx && s.ny == o.ny && s.nz == o.nz &&
		s.sx == o.sx && s.sy == o.sy && s.sz == o.sz &&
		s.x0 == o.x0 && s.y0 == o.y0 && s.z0 == o.z0
}

// String returns a compact description for logs and error messages.
func (s *Structure) String() string {
	return fmt.Sprintf("grid %dx%dx%d cell (%g, %g, %g) origin (%g, %g, %g)",
		s.nx, s.ny, s.nz, s.sx, s.sy, s.sz, s.x0, s.y0, s.z0)
}

func roundToInt(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}
