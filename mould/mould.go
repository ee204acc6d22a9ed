// Package mould implements the search template: an ordered list of
// center-relative neighbor offsets, sorted near-to-far by anisotropically
// scaled distance. The template defines both the patterns extracted from a
// training image and the data events gathered around a simulation cell.
package mould

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mpslab/go-snesim/grid"
)

// maxTopKRadius bounds the growing enumeration box of ByAnisotropicTopK.
// A box this large exceeds any practical grid diagonal; hitting it means
// the requested K cannot be satisfied.
const maxTopKRadius = 1024

// Error types for the mould package.
var (
	// ErrPrecondition is returned for invalid construction parameters.
	ErrPrecondition = errors.New("precondition violation")
)

// Mould is an ordered center-relative neighborhood. Offsets are stored in
// parallel primitive arrays; the dimensionality is fixed at construction so
// gathering never tests it per neighbor.
type Mould struct {
	dx, dy, dz []int
	dist       []float64
	is3D       bool
}

type candidate struct {
	dx, dy, dz int
	dist       float64
}

func sortCandidates(cands []candidate) {
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		if a.dx != b.dx {
			return a.dx < b.dx
		}
		if a.dy != b.dy {
			return a.dy < b.dy
		}
		return a.dz < b.dz
	})
}

// ByAnisotropicTopK builds a template of the K offsets closest to the
// center under the scaled distance sqrt((x/rx)^2 + (y/ry)^2 + (z/rz)^2).
// Candidates are enumerated in a growing axis-aligned box until at least K
// are available; the kept offsets are then multiplied by the multi-grid
// expansion 2^(g-1). The 2D form fixes dz to zero and ignores rz.
func ByAnisotropicTopK(k int, rx, ry, rz float64, g int, is3D bool) (*Mould, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: K must be > 0, got %d", ErrPrecondition, k)
	}
	if rx <= 0 || ry <= 0 || (is3D && rz <= 0) {
		return nil, fmt.Errorf("%w: template ratios must be > 0, got (%g, %g, %g)", ErrPrecondition, rx, ry, rz)
	}
	if g < 1 {
		return nil, fmt.Errorf("%w: multi-grid factor must be >= 1, got %d", ErrPrecondition, g)
	}

	var cands []candidate
	for r := 1; ; r++ {
		if r > maxTopKRadius {
			return nil, fmt.Errorf("%w: K=%d not reachable within radius %d", ErrPrecondition, k, maxTopKRadius)
		}
		cands = enumerateBox(r, rx, ry, rz, is3D)
		if len(cands) >= k {
			break
		}
	}
	sortCandidates(cands)
	cands = cands[:k]

	expand := 1 << (g - 1)
	m := &Mould{
		dx:   make([]int, k),
		dy:   make([]int, k),
		dz:   make([]int, k),
		dist: make([]float64, k),
		is3D: is3D,
	}
	for i, c := range cands {
		m.dx[i] = c.dx * expand
		m.dy[i] = c.dy * expand
		m.dz[i] = c.dz * expand
		m.dist[i] = c.dist * float64(expand)
	}
	return m, nil
}

func enumerateBox(r int, rx, ry, rz float64, is3D bool) []candidate {
	zr := 0
	if is3D {
		zr = r
	}
	cands := make([]candidate, 0, (2*r+1)*(2*r+1)*(2*zr+1)-1)
	for z := -zr; z <= zr; z++ {
		for y := -r; y <= r; y++ {
			for x := -r; x <= r; x++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				sx := float64(x) / rx
				sy := float64(y) / ry
				sz := 0.0
				if is3D {
					sz = float64(z) / rz
				}
				cands = append(cands, candidate{
					dx: x, dy: y, dz: z,
					dist: math.Sqrt(sx*sx + sy*sy + sz*sz),
				})
			}
		}
	}
	return cands
}

// ByLocations builds a template from explicit neighbor cells around a core.
// Offsets are neighbor minus core; duplicates and the zero offset are
// dropped, and the rest sort by Euclidean distance with offset-lex
// tie-break.
func ByLocations(core grid.SpatialIndex, neighbors []grid.SpatialIndex) (*Mould, error) {
	seen := make(map[[3]int]bool, len(neighbors))
	cands := make([]candidate, 0, len(neighbors))
	for _, n := range neighbors {
		off, err := n.Sub(core)
		if err != nil {
			return nil, err
		}
		if off.IX == 0 && off.IY == 0 && off.IZ == 0 {
			continue
		}
		key := [3]int{off.IX, off.IY, off.IZ}
		if seen[key] {
			continue
		}
		seen[key] = true
		d := math.Sqrt(float64(off.IX*off.IX + off.IY*off.IY + off.IZ*off.IZ))
		cands = append(cands, candidate{dx: off.IX, dy: off.IY, dz: off.IZ, dist: d})
	}
	if len(cands) == 0 {
		return nil, fmt.Errorf("%w: no usable neighbor offsets", ErrPrecondition)
	}
	sortCandidates(cands)

	m := &Mould{
		dx:   make([]int, len(cands)),
		dy:   make([]int, len(cands)),
		dz:   make([]int, len(cands)),
		dist: make([]float64, len(cands)),
		is3D: core.Dim == 3,
	}
	for i, c := range cands {
		m.dx[i] = c.dx
		m.dy[i] = c.dy
		m.dz[i] = c.dz
		m.dist[i] = c.dist
	}
	return m, nil
}

// Size returns the neighbor count K.
func (m *Mould) Size() int { return len(m.dx) }

// Is3D reports the template dimensionality.
func (m *Mould) Is3D() bool { return m.is3D }

// Offset returns the i-th neighbor offset.
func (m *Mould) Offset(i int) (dx, dy, dz int) {
	return m.dx[i], m.dy[i], m.dz[i]
}

// Distance returns the scaled distance of the i-th neighbor.
func (m *Mould) Distance(i int) float64 { return m.dist[i] }
