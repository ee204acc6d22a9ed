package grid

import "fmt"

// Property is a dense buffer of optional single-precision values paired
// with its grid structure. A cell either holds a value or is missing; the
// number of missing cells is maintained under every cellwise mutation.
// Properties are created all-missing and never resized.
type Property struct {
	structure *Structure
	values    []float32
	present   []bool
	undefined int
}

// NewProperty creates an all-missing property over the given structure.
func NewProperty(s *Structure) *Property {
	n := s.Count()
	return &Property{
		structure: s,
		values:    make([]float32, n),
		present:   make([]bool, n),
		undefined: n,
	}
}

// Structure returns the grid descriptor the buffer is laid out on.
func (p *Property) Structure() *Structure { return p.structure }

// Len returns the total cell count.
func (p *Property) Len() int { return len(p.values) }

// UndefinedCount returns the number of missing cells.
func (p *Property) UndefinedCount() int { return p.undefined }

// DefinedCount returns the number of informed cells.
func (p *Property) DefinedCount() int { return len(p.values) - p.undefined }

// Get returns the value at si and whether it is present.
// An out-of-bounds index yields a missing value, not an error.
func (p *Property) Get(si SpatialIndex) (float32, bool) {
	idx, err := p.structure.ArrayIndex(si)
	if err != nil {
		return 0, false
	}
	return p.values[idx], p.present[idx]
}

// GetAt returns the value at an array position and whether it is present.
func (p *Property) GetAt(idx int) (float32, bool, error) {
	if idx < 0 || idx >= len(p.values) {
		return 0, false, fmt.Errorf("%w: array index %d of %d", ErrOutOfRange, idx, len(p.values))
	}
	return p.values[idx], p.present[idx], nil
}

// Has reports whether the cell at si is informed.
func (p *Property) Has(si SpatialIndex) bool {
	_, ok := p.Get(si)
	return ok
}

// Set writes a value at si.
func (p *Property) Set(si SpatialIndex, v float32) error {
	idx, err := p.structure.ArrayIndex(si)
	if err != nil {
		return err
	}
	return p.SetAt(idx, v)
}

// SetAt writes a value at an array position.
func (p *Property) SetAt(idx int, v float32) error {
	if idx < 0 || idx >= len(p.values) {
		return fmt.Errorf("%w: array index %d of %d", ErrOutOfRange, idx, len(p.values))
	}
	if !p.present[idx] {
		p.present[idx] = true
		p.undefined--
	}
	p.values[idx] = v
	return nil
}

// Unset marks the cell at si missing again.
func (p *Property) Unset(si SpatialIndex) error {
	idx, err := p.structure.ArrayIndex(si)
	if err != nil {
		return err
	}
	if p.present[idx] {
		p.present[idx] = false
		p.values[idx] = 0
		p.undefined++
	}
	return nil
}

// Clone returns a deep copy sharing the (immutable) structure.
func (p *Property) Clone() *Property {
	out := &Property{
		structure: p.structure,
		values:    append([]float32(nil), p.values...),
		present:   append([]bool(nil), p.present...),
		undefined: p.undefined,
	}
	return out
}

// Equal reports cellwise equality of two properties on equal structures.
func (p *Property) Equal(o *Property) bool {
	if !p.structure.Equal(o.structure) {
		return false
	}
	for i := range p.values {
		if p.present[i] != o.present[i] {
			return false
		}
		if p.present[i] && p.values[i] != o.values[i] {
			return false
		}
	}
	return true
}
