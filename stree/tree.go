// Package stree implements the pattern index at the heart of the
// simulation: a search tree over ordered neighborhood patterns extracted
// from a categorical training image, together with a reverse auxiliary
// structure of per-depth, per-category inverted node lists. The tree serves
// conditional category distributions for data events via forward (frontier)
// or reverse (inverted-list) retrieval.
package stree

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/mould"
	"github.com/mpslab/go-snesim/stats"
)

// MaxCategories is the largest category alphabet the tree accepts.
const MaxCategories = 10

// BuildOptions configures tree construction.
type BuildOptions struct {
	// Workers bounds the pattern extraction pool. Zero means GOMAXPROCS.
	Workers int
	// Logger receives construction progress. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultBuildOptions returns the construction defaults.
func DefaultBuildOptions() *BuildOptions {
	return &BuildOptions{Workers: 0, Logger: zerolog.Nop()}
}

// Tree is the search tree plus its reverse auxiliary structure. Immutable
// once built; concurrent reads need no synchronization.
type Tree struct {
	nodes      []node
	k          int
	categories []int
	// rars[d][c] lists the ids of nodes at tree depth d-1 whose own value
	// is c; slot 0 holds the root under the RootValue sentinel.
	rars []map[int][]nodeID
}

// pattern is one fully-informed neighborhood observed in the training
// image. The core may be missing; such patterns still shape the tree but
// contribute nothing to any core frequency.
type pattern struct {
	event   []int
	core    int
	hasCore bool
}

// Build constructs the tree and its reverse structure from a template and a
// categorical training image. The training image must hold at most
// MaxCategories distinct integral values; on failure no partial tree is
// returned.
func Build(m *mould.Mould, ti *grid.Property, opts *BuildOptions) (*Tree, error) {
	if opts == nil {
		opts = DefaultBuildOptions()
	}
	if m == nil || m.Size() == 0 {
		return nil, fmt.Errorf("%w: template with K > 0 required", ErrPrecondition)
	}
	if !stats.IsCategorical(ti) {
		return nil, ErrNotCategorical
	}
	freq := stats.Frequencies(ti)
	if len(freq) > MaxCategories {
		return nil, fmt.Errorf("%w: found %d, limit %d", ErrTooManyCategories, len(freq), MaxCategories)
	}
	categories := stats.Categories(freq)
	if len(categories) > 0 && categories[0] < 0 {
		return nil, fmt.Errorf("%w: negative category %d", ErrPrecondition, categories[0])
	}

	patterns, err := extractPatterns(m, ti, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug().
		Int("patterns", len(patterns)).
		Int("categories", len(categories)).
		Msg("pattern extraction complete")

	t := &Tree{
		k:          m.Size(),
		categories: categories,
	}
	t.nodes = append(t.nodes, node{
		value:    RootValue,
		depth:    -1,
		parent:   -1,
		children: make(map[int]nodeID),
		coreFreq: make(map[int]int),
	})
	for _, p := range patterns {
		t.insert(p)
	}
	t.buildReverse()

	opts.Logger.Debug().
		Int("nodes", len(t.nodes)).
		Int("depth", t.k+1).
		Msg("search tree built")
	return t, nil
}

// extractPatterns scans every cell of the training image and keeps the
// neighborhoods whose neighbor values are all informed. The scan is
// data-parallel over contiguous cell ranges; chunk results are concatenated
// in range order so tree construction order never depends on worker count.
func extractPatterns(m *mould.Mould, ti *grid.Property, opts *BuildOptions) ([]pattern, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := ti.Structure().Count()
	chunks := workers * 4
	if chunks > n {
		chunks = n
	}
	if chunks < 1 {
		chunks = 1
	}
	chunkSize := (n + chunks - 1) / chunks
	results := make([][]pattern, chunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for c := 0; c < chunks; c++ {
		lo := c * chunkSize
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			k := m.Size()
			values := make([]float32, k)
			present := make([]bool, k)
			local := make([]pattern, 0, hi-lo)
			for idx := lo; idx < hi; idx++ {
				si, err := ti.Structure().SpatialIndexOf(idx)
				if err != nil {
					return err
				}
				res := m.Gather(si, ti, values, present)
				if !res.AllValid {
					continue
				}
				ev := make([]int, k)
				for i := 0; i < k; i++ {
					ev[i] = int(values[i])
				}
				local = append(local, pattern{
					event:   ev,
					core:    int(res.Core),
					hasCore: res.CorePresent,
				})
			}
			results[c] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	patterns := make([]pattern, 0, total)
	for _, r := range results {
		patterns = append(patterns, r...)
	}
	return patterns, nil
}

// insert walks one pattern from the root, creating children lazily and
// incrementing the core frequency of every node visited.
func (t *Tree) insert(p pattern) {
	cur := nodeID(0)
	if p.hasCore {
		t.nodes[cur].coreFreq[p.core]++
	}
	for _, v := range p.event {
		child, ok := t.nodes[cur].children[v]
		if !ok {
			child = t.newChild(cur, v)
		}
		cur = child
		if p.hasCore {
			t.nodes[cur].coreFreq[p.core]++
		}
	}
}

// buildReverse groups nodes per depth by their own value. Slot 0 is the
// synthetic root entry; slot d+1 holds the nodes at neighbor depth d.
func (t *Tree) buildReverse() {
	t.rars = make([]map[int][]nodeID, t.k+1)
	for d := range t.rars {
		t.rars[d] = make(map[int][]nodeID)
	}
	t.rars[0][RootValue] = []nodeID{0}
	for id := 1; id < len(t.nodes); id++ {
		n := &t.nodes[id]
		slot := n.depth + 1
		t.rars[slot][n.value] = append(t.rars[slot][n.value], nodeID(id))
	}
}

// K returns the template size the tree was built for.
func (t *Tree) K() int { return t.k }

// Categories returns the sorted category alphabet of the training image.
func (t *Tree) Categories() []int { return t.categories }

// NodeCount returns the total node count including the root.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// NodesAtDepth counts nodes at a neighbor depth d in [0, K).
func (t *Tree) NodesAtDepth(d int) int {
	count := 0
	for id := 1; id < len(t.nodes); id++ {
		if t.nodes[id].depth == d {
			count++
		}
	}
	return count
}

// ReverseBucketSize returns the number of nodes at neighbor depth d whose
// own value is category c.
func (t *Tree) ReverseBucketSize(d, c int) int {
	if d < 0 || d >= t.k {
		return 0
	}
	return len(t.rars[d+1][c])
}

// RootFrequencies returns a copy of the root's per-category core counts,
// i.e. the marginal distribution of pattern cores.
func (t *Tree) RootFrequencies() map[int]int {
	out := make(map[int]int, len(t.nodes[0].coreFreq))
	for k, v := range t.nodes[0].coreFreq {
		out[k] = v
	}
	return out
}
