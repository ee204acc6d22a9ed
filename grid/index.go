package grid

import (
	"fmt"
	"math"
)

// SpatialIndex addresses a single cell by its discrete (ix, iy, iz)
// position. Dim tags the index as 2D or 3D; IZ is zero for 2D indices.
type SpatialIndex struct {
	IX, IY, IZ int
	Dim        int
}

// NewIndex2D creates a 2D spatial index.
func NewIndex2D(ix, iy int) SpatialIndex {
	return SpatialIndex{IX: ix, IY: iy, Dim: 2}
}

// NewIndex3D creates a 3D spatial index.
func NewIndex3D(ix, iy, iz int) SpatialIndex {
	return SpatialIndex{IX: ix, IY: iy, IZ: iz, Dim: 3}
}

// Add returns si + o. Operands must share dimensionality.
func (si SpatialIndex) Add(o SpatialIndex) (SpatialIndex, error) {
	if si.Dim != o.Dim {
		return SpatialIndex{}, fmt.Errorf("%w: %dD + %dD", ErrDimensionMismatch, si.Dim, o.Dim)
	}
	return SpatialIndex{IX: si.IX + o.IX, IY: si.IY + o.IY, IZ: si.IZ + o.IZ, Dim: si.Dim}, nil
}

// Sub returns si - o. Operands must share dimensionality.
func (si SpatialIndex) Sub(o SpatialIndex) (SpatialIndex, error) {
	if si.Dim != o.Dim {
		return SpatialIndex{}, fmt.Errorf("%w: %dD - %dD", ErrDimensionMismatch, si.Dim, o.Dim)
	}
	return SpatialIndex{IX: si.IX - o.IX, IY: si.IY - o.IY, IZ: si.IZ - o.IZ, Dim: si.Dim}, nil
}

// Shift returns the index displaced by raw integer offsets without a
// dimensionality check. Used on hot paths where offsets come from a
// template whose dimensionality is fixed at construction.
func (si SpatialIndex) Shift(dx, dy, dz int) SpatialIndex {
	return SpatialIndex{IX: si.IX + dx, IY: si.IY + dy, IZ: si.IZ + dz, Dim: si.Dim}
}

// Key returns a stable text key for use in lookup maps.
func (si SpatialIndex) Key() string {
	return fmt.Sprintf("%d_%d_%d", si.IX, si.IY, si.IZ)
}

// String implements fmt.Stringer.
func (si SpatialIndex) String() string {
	if si.Dim == 3 {
		return fmt.Sprintf("(%d, %d, %d)", si.IX, si.IY, si.IZ)
	}
	return fmt.Sprintf("(%d, %d)", si.IX, si.IY)
}

// Coord is a real-world point. Dim tags it as 2D or 3D; Z is zero for 2D.
type Coord struct {
	X, Y, Z float64
	Dim     int
}

// NewCoord2D creates a 2D coordinate.
func NewCoord2D(x, y float64) Coord {
	return Coord{X: x, Y: y, Dim: 2}
}

// NewCoord3D creates a 3D coordinate.
func NewCoord3D(x, y, z float64) Coord {
	return Coord{X: x, Y: y, Z: z, Dim: 3}
}

// DistanceTo returns the Euclidean distance between two coordinates.
func (c Coord) DistanceTo(o Coord) (float64, error) {
	if c.Dim != o.Dim {
		return 0, fmt.Errorf("%w: %dD vs %dD coordinate", ErrDimensionMismatch, c.Dim, o.Dim)
	}
	dx := c.X - o.X
	dy := c.Y - o.Y
	dz := c.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz), nil
}
