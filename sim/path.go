package sim

import (
	"fmt"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/rng"
)

// progressClamp is the ceiling reported while any entry is unfrozen. The
// retrieval branch switches on progress crossing the forward/reverse
// threshold, so the final cell must not observe an early 100%.
const progressClamp = 99.99

// Path is a randomized visiting order over a grid. Entries freeze as they
// are visited (or when pre-informed cells are frozen up front); the frozen
// count only ever grows.
type Path struct {
	entries     []grid.SpatialIndex
	frozen      []bool
	pos         map[string]int
	frozenCount int
	cursor      int
	exhausted   bool
}

// NewPath enumerates every cell of the grid and shuffles the order with a
// Fisher-Yates pass on the supplied generator.
func NewPath(s *grid.Structure, r *rng.MT19937) *Path {
	return newPath(s, 1, r)
}

// NewStridedPath enumerates the multi-grid subset of cells whose indices
// are multiples of stride along every axis.
func NewStridedPath(s *grid.Structure, stride int, r *rng.MT19937) (*Path, error) {
	if stride < 1 {
		return nil, fmt.Errorf("%w: stride must be >= 1, got %d", ErrPrecondition, stride)
	}
	return newPath(s, stride, r), nil
}

func newPath(s *grid.Structure, stride int, r *rng.MT19937) *Path {
	var entries []grid.SpatialIndex
	for idx := 0; idx < s.Count(); idx++ {
		si, _ := s.SpatialIndexOf(idx)
		if si.IX%stride != 0 || si.IY%stride != 0 || si.IZ%stride != 0 {
			continue
		}
		entries = append(entries, si)
	}
	r.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})

	pos := make(map[string]int, len(entries))
	for i, si := range entries {
		pos[si.Key()] = i
	}
	return &Path{
		entries: entries,
		frozen:  make([]bool, len(entries)),
		pos:     pos,
	}
}

// Len returns the number of path entries.
func (p *Path) Len() int { return len(p.entries) }

// FrozenCount returns the number of frozen entries.
func (p *Path) FrozenCount() int { return p.frozenCount }

// Freeze marks the slot holding si frozen. Returns true when the call
// changed state; unknown indices and already-frozen slots are no-ops.
func (p *Path) Freeze(si grid.SpatialIndex) bool {
	i, ok := p.pos[si.Key()]
	if !ok || p.frozen[i] {
		return false
	}
	p.frozen[i] = true
	p.frozenCount++
	return true
}

// VisitNext advances past frozen entries and returns the next unfrozen
// index, freezing it as part of the transition. The second return is false
// once the path is exhausted.
func (p *Path) VisitNext() (grid.SpatialIndex, bool) {
	for p.cursor < len(p.entries) {
		i := p.cursor
		p.cursor++
		if p.frozen[i] {
			continue
		}
		p.frozen[i] = true
		p.frozenCount++
		return p.entries[i], true
	}
	p.exhausted = true
	return grid.SpatialIndex{}, false
}

// Progress reports the frozen percentage, clamped below 100 until the walk
// has actually exhausted the path.
func (p *Path) Progress() float64 {
	if len(p.entries) == 0 {
		return 100
	}
	if p.exhausted && p.frozenCount == len(p.entries) {
		return 100
	}
	pct := 100 * float64(p.frozenCount) / float64(len(p.entries))
	if pct > progressClamp {
		return progressClamp
	}
	return pct
}
