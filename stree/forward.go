package stree

// RetrieveForward looks up the conditional category aggregate for a data
// event by extending a frontier of nodes from the root through the event's
// levels in near-to-far order. A missing level widens the frontier to every
// child (wildcard); an informed level narrows each frontier node to its
// matching child and records the per-category aggregate over the surviving
// frontier. The deepest informed aggregate whose replicate total exceeds
// cdMin wins; nil means no level qualified.
//
// Event entries are categories or NoValue for missing; the event length
// must equal K.
func (t *Tree) RetrieveForward(event []int, cdMin int) map[int]int {
	frontier := []nodeID{0}
	next := make([]nodeID, 0, len(frontier))

	type level struct {
		agg   map[int]int
		total int
	}
	informed := make([]level, 0, len(event))

	for _, e := range event {
		if len(frontier) == 0 {
			break
		}
		next = next[:0]
		if e == NoValue {
			// Wildcard: every child of every frontier node survives.
			for _, id := range frontier {
				for _, c := range t.categories {
					if child, ok := t.nodes[id].children[c]; ok {
						next = append(next, child)
					}
				}
			}
		} else {
			for _, id := range frontier {
				if child, ok := t.nodes[id].children[e]; ok {
					next = append(next, child)
				}
			}
		}
		frontier, next = next, frontier

		if e == NoValue {
			continue
		}
		agg := make(map[int]int, len(t.categories))
		total := 0
		for _, id := range frontier {
			for k, v := range t.nodes[id].coreFreq {
				agg[k] += v
				total += v
			}
		}
		informed = append(informed, level{agg: agg, total: total})
	}

	// Deepest informed level first; weaker matches only when the stronger
	// one under-supports the distribution.
	for i := len(informed) - 1; i >= 0; i-- {
		if informed[i].total > cdMin {
			return informed[i].agg
		}
	}
	return nil
}
