// Package guidepath builds single-agent shortest paths under a
// congestion-weighted edge cost (C4).
//
// Grounded on navigation/flowfield.go's two-phase Dijkstra-with-heap
// shape, generalized from an 8-directional unweighted flood fill to a
// 4-connected A* search with a congestion-aware edge cost. The node
// pool is an arena: nodes live in a flat slice indexed by u32-sized
// int, parent links are indices into that same slice, and reset just
// truncates the slice, with no cyclic pointer ownership.
package guidepath

import (
	"container/heap"

	"github.com/bkhnk48/gridflow/flow"
	"github.com/bkhnk48/gridflow/grid"
	"github.com/bkhnk48/gridflow/heuristic"
)

// Node is one arena-resident A* search node.
type Node struct {
	Cell   int
	G      int
	F      int
	Depth  int
	Parent int // index into Builder.nodes, or -1 for the root
}

// Result is the outcome of a single Build call.
type Result struct {
	Trajectory []int // s..t inclusive; nil if unreachable
	GoalNode   Node  // the terminal node; zero value if unreachable
	Reachable  bool
	Cost       int // trajectory cost under current flow, i.e. GoalNode.G
}

// Builder runs congestion-weighted A* over a shared grid, reusing an
// arena of nodes across Build calls to avoid per-call allocation.
type Builder struct {
	g     *grid.Grid
	cache *heuristic.Cache
	flow  *flow.Table

	alpha float64
	beta  float64

	nodes []Node
	open  nodeHeap
	// bestIndex maps a cell to its arena index for the in-progress
	// search, so a cheaper path to an already-open cell can be detected.
	bestIndex map[int]int
	nbrBuf    []int
}

// New constructs a Builder. alpha weights congestion against the
// opposing flow direction; beta weights all flow not moving in the
// direction of travel (perpendicular and opposing alike). Both are
// exposed as config overrides.
func New(g *grid.Grid, cache *heuristic.Cache, flowTable *flow.Table, alpha, beta float64) *Builder {
	return &Builder{
		g:         g,
		cache:     cache,
		flow:      flowTable,
		alpha:     alpha,
		beta:      beta,
		nodes:     make([]Node, 0, 256),
		bestIndex: make(map[int]int, 256),
	}
}

// reset truncates the arena and search bookkeeping for a fresh Build
// call, without releasing the backing storage.
func (b *Builder) reset() {
	b.nodes = b.nodes[:0]
	b.open = b.open[:0]
	for k := range b.bestIndex {
		delete(b.bestIndex, k)
	}
}

// edgeCost computes the cost of the edge entering v from u in direction
// d: 1 + alpha*opposing-flow + beta*(flow entering v in any direction
// other than d). The beta sum includes the opposing count, so one unit
// of opposing flow costs alpha+beta and one unit of perpendicular flow
// costs beta.
func (b *Builder) edgeCost(u, v int, d grid.Direction) float64 {
	counters := b.flow.At(v)
	opposing := float64(counters[d.Opposite()])
	perp := 0.0
	for k := grid.Direction(0); k < 4; k++ {
		if k != d {
			perp += float64(counters[k])
		}
	}
	return 1.0 + b.alpha*opposing + b.beta*perp
}

// Build runs A* from s to t and returns the resulting trajectory and
// goal node. Unreachable goals are reported via Result.Reachable=false,
// not an error: an unreachable goal is a non-fatal diagnostic, not a
// bug.
func (b *Builder) Build(s, t int) Result {
	b.reset()

	root := Node{Cell: s, G: 0, F: b.cache.H(s, t), Depth: 0, Parent: -1}
	b.nodes = append(b.nodes, root)
	b.bestIndex[s] = 0
	heap.Push(&b.open, heapItem{index: 0, f: root.F, depth: root.Depth})

	for b.open.Len() > 0 {
		item := heap.Pop(&b.open).(heapItem)
		curIdx := item.index
		cur := b.nodes[curIdx]
		if b.bestIndex[cur.Cell] != curIdx {
			continue // stale entry superseded by a cheaper one
		}
		if cur.Cell == t {
			return b.reconstruct(curIdx)
		}

		b.nbrBuf = b.g.NeighborsInto(cur.Cell, b.nbrBuf[:0])
		for _, n := range b.nbrBuf {
			d := b.g.DirectionTo(cur.Cell, n)
			cost := b.edgeCost(cur.Cell, n, d)
			g := cur.G + int(cost+0.5)

			if bi, ok := b.bestIndex[n]; ok && b.nodes[bi].G <= g {
				continue
			}

			child := Node{Cell: n, G: g, F: g + b.cache.H(n, t), Depth: cur.Depth + 1, Parent: curIdx}
			idx := len(b.nodes)
			b.nodes = append(b.nodes, child)
			b.bestIndex[n] = idx
			heap.Push(&b.open, heapItem{index: idx, f: child.F, depth: child.Depth})
		}
	}

	return Result{Reachable: false}
}

// reconstruct walks the parent chain of the node at idx back to the
// root, producing the trajectory in s..t order.
func (b *Builder) reconstruct(idx int) Result {
	var rev []int
	for i := idx; i != -1; i = b.nodes[i].Parent {
		rev = append(rev, b.nodes[i].Cell)
	}
	traj := make([]int, len(rev))
	for i, c := range rev {
		traj[len(rev)-1-i] = c
	}
	goal := b.nodes[idx]
	return Result{Trajectory: traj, GoalNode: goal, Reachable: true, Cost: goal.G}
}

// heapItem is the open-set entry: arena index plus the ordering keys.
// Tie-break favors larger depth (deeper nodes explored first).
type heapItem struct {
	index int
	f     int
	depth int
}

type nodeHeap []heapItem

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].depth > h[j].depth
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(heapItem)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
