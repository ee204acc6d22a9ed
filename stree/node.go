package stree

// RootValue is the sentinel category carried by the root node and by the
// synthetic depth-0 slot of the reverse retrieval structure.
const RootValue = -1

// NoValue marks a missing entry in a data event.
const NoValue = -1

// nodeID indexes the tree's node arena. The root is always id 0.
type nodeID = int32

// node is one arena-allocated tree node. Depth -1 is the root; depth d >= 0
// fixes the categories at template positions 0..d. The path slice holds the
// root-to-node category labels (length depth+1, nil for the root) so
// reverse retrieval can test ancestor categories without walking parents.
type node struct {
	value    int
	depth    int
	parent   nodeID
	children map[int]nodeID
	coreFreq map[int]int
	path     []int
}

// newChild appends a child of parent keyed by value and returns its id.
// Node ids increase monotonically in construction order.
func (t *Tree) newChild(parent nodeID, value int) nodeID {
	p := &t.nodes[parent]
	id := nodeID(len(t.nodes))
	path := make([]int, len(p.path)+1)
	copy(path, p.path)
	path[len(p.path)] = value
	t.nodes = append(t.nodes, node{
		value:    value,
		depth:    p.depth + 1,
		parent:   parent,
		children: make(map[int]nodeID),
		coreFreq: make(map[int]int),
		path:     path,
	})
	p = &t.nodes[parent] // re-resolve: append may have moved the arena
	p.children[value] = id
	return id
}
