// Package distpath implements the per-agent distance-to-path index (C5):
// a lazy BFS seeded by the agent's current trajectory answering
// "distance to nearest path cell + remaining path length from there".
//
// Grounded on the original source's default_planner/heuristics.cpp
// (init_dist_2_path, get_dist_2_path): a label-tagged table so a whole
// agent's index can be invalidated in O(1) by bumping the label instead
// of clearing the map.
package distpath

import "github.com/bkhnk48/gridflow/grid"

const unreachable = 1 << 30

// Unreachable is the sentinel value meaning a cell cannot reach the path.
const Unreachable = unreachable

type entry struct {
	label     int32
	distance  int32
	remaining int32
}

// Index is one agent's distance-to-path lookup. Re-used across
// trajectory installs via Relabel rather than reallocated.
type Index struct {
	g      *grid.Grid
	label  int32
	table  map[int]entry
	open   []int
	head   int
	nbrBuf []int
}

// New builds an empty index over g. Call Relabel once a trajectory is
// known before querying.
func New(g *grid.Grid) *Index {
	return &Index{g: g, table: make(map[int]entry, 64)}
}

// Relabel re-seeds the index for a newly-installed trajectory: every
// path cell is inserted at distance 0, with "remaining" computed by
// walking the path backward from the goal (last cell has remaining 0,
// each predecessor one more).
func (idx *Index) Relabel(trajectory []int) {
	idx.label++
	idx.open = idx.open[:0]
	idx.head = 0

	n := len(trajectory)
	for i := n - 1; i >= 0; i-- {
		cell := trajectory[i]
		remaining := int32(n - 1 - i)
		idx.table[cell] = entry{label: idx.label, distance: 0, remaining: remaining}
		idx.open = append(idx.open, cell)
	}
}

// Get returns distance_to_path + remaining_along_path for source, or
// Unreachable. Pulls from the open queue (lazy BFS) until source is
// assigned or the queue empties.
func (idx *Index) Get(source int) int {
	if e, ok := idx.table[source]; ok && e.label == idx.label {
		return int(e.distance + e.remaining)
	}

	for idx.head < len(idx.open) {
		curr := idx.open[idx.head]
		idx.head++
		ce := idx.table[curr]
		if ce.label != idx.label {
			continue
		}

		idx.nbrBuf = idx.g.NeighborsInto(curr, idx.nbrBuf[:0])
		for _, n := range idx.nbrBuf {
			if ne, ok := idx.table[n]; !ok || ne.label != idx.label {
				idx.table[n] = entry{label: idx.label, distance: ce.distance + 1, remaining: ce.remaining}
				idx.open = append(idx.open, n)
			}
		}

		if curr == source {
			e := idx.table[curr]
			return int(e.distance + e.remaining)
		}
	}
	return Unreachable
}

// DistanceAndRemaining returns the two components separately, for
// callers that need them distinctly (e.g. diagnostics).
func (idx *Index) DistanceAndRemaining(source int) (distance, remaining int) {
	idx.Get(source) // ensure expansion has reached source if reachable
	if e, ok := idx.table[source]; ok && e.label == idx.label {
		return int(e.distance), int(e.remaining)
	}
	return Unreachable, 0
}
