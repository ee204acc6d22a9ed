package stree

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// filterParallelThreshold is the candidate count above which ancestor
// filtering fans out to the worker pool.
const filterParallelThreshold = 64

// RetrieveReverse looks up the conditional category aggregate for a data
// event starting from the farthest informed level. For each informed depth
// d, far to near, the candidate set is the inverted list (slot d+1) of nodes
// at neighbor depth d carrying category event[d]; candidates are then filtered to
// those whose root-to-node path matches the event at every informed depth
// strictly closer to the core. The first depth whose filtered aggregate
// exceeds cdMin wins; nil means no depth qualified.
func (t *Tree) RetrieveReverse(event []int, cdMin, workers int) map[int]int {
	informed := make([]int, 0, len(event))
	for i, e := range event {
		if e != NoValue {
			informed = append(informed, i)
		}
	}
	if len(informed) == 0 {
		return nil
	}
	// Far-to-near: descending template order.
	reversed := make([]int, len(informed))
	for i, d := range informed {
		reversed[len(informed)-1-i] = d
	}

	for idx, d := range reversed {
		cand := t.rars[d+1][event[d]]
		// Candidates carry category event[d] by bucket construction; they
		// must still agree with every informed depth strictly closer to
		// the core, or the aggregate would marginalize over evidence.
		if closer := reversed[idx+1:]; len(closer) > 0 {
			cand = t.filterByAncestors(cand, event, closer, workers)
		}
		if len(cand) == 0 {
			continue
		}
		agg := make(map[int]int, len(t.categories))
		total := 0
		for _, id := range cand {
			for k, v := range t.nodes[id].coreFreq {
				agg[k] += v
				total += v
			}
		}
		if total > cdMin {
			return agg
		}
	}
	return nil
}

// filterByAncestors keeps the candidates whose path carries event[j] at
// every depth j in closer. Each check is independent, so large candidate
// sets are split across the worker pool.
func (t *Tree) filterByAncestors(cand []nodeID, event []int, closer []int, workers int) []nodeID {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if len(cand) < filterParallelThreshold || workers == 1 {
		out := make([]nodeID, 0, len(cand))
		for _, id := range cand {
			if t.pathMatches(id, event, closer) {
				out = append(out, id)
			}
		}
		return out
	}

	chunkSize := (len(cand) + workers - 1) / workers
	parts := make([][]nodeID, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		if lo >= len(cand) {
			break
		}
		hi := lo + chunkSize
		if hi > len(cand) {
			hi = len(cand)
		}
		part := w
		g.Go(func() error {
			kept := make([]nodeID, 0, hi-lo)
			for _, id := range cand[lo:hi] {
				if t.pathMatches(id, event, closer) {
					kept = append(kept, id)
				}
			}
			parts[part] = kept
			return nil
		})
	}
	// Workers only filter; no error path.
	_ = g.Wait()

	out := make([]nodeID, 0, len(cand))
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// pathMatches tests the candidate's root-to-node labels at the given
// template depths.
func (t *Tree) pathMatches(id nodeID, event []int, depths []int) bool {
	path := t.nodes[id].path
	for _, j := range depths {
		if path[j] != event[j] {
			return false
		}
	}
	return true
}
