// Package flow tallies per-cell directional trajectory usage (C3).
//
// Grounded on the original source's TrajLNS.h flow vector<Int4> field,
// generalized from a fixed array of structs to a map of per-cell counter
// records sized to the cells actually touched by an installed trajectory.
package flow

import "github.com/bkhnk48/gridflow/grid"

// Counters holds the four directional tallies for a single cell: the
// number of currently-installed trajectories whose edge enters the cell
// from each direction.
type Counters [4]int32

// Total sums all four directional counts.
func (c Counters) Total() int32 {
	return c[0] + c[1] + c[2] + c[3]
}

// Table is the process-wide flow record, keyed by cell. Cells with no
// recorded traffic are absent (equivalent to a zero Counters).
type Table struct {
	g        *grid.Grid
	counters map[int]*Counters
}

// NewTable builds an empty flow table over g.
func NewTable(g *grid.Grid) *Table {
	return &Table{g: g, counters: make(map[int]*Counters)}
}

// At returns the counters for loc, or a zero value if untouched. The
// returned value is a copy; use Add/Remove to mutate.
func (t *Table) At(loc int) Counters {
	if c, ok := t.counters[loc]; ok {
		return *c
	}
	return Counters{}
}

func (t *Table) entry(loc int) *Counters {
	c, ok := t.counters[loc]
	if !ok {
		c = &Counters{}
		t.counters[loc] = c
	}
	return c
}

// Add increments the flow counters for every edge in trajectory: for
// each consecutive (u, v), the component of flow[v] matching the
// direction from u to v is incremented.
func (t *Table) Add(trajectory []int) {
	for i := 1; i < len(trajectory); i++ {
		u, v := trajectory[i-1], trajectory[i]
		d := t.g.DirectionTo(u, v)
		t.entry(v)[d]++
	}
}

// Remove decrements the flow counters for trajectory's edges, the
// symmetric inverse of Add. Panics if a counter would underflow: every
// Remove must be paired with a prior Add for the same edges, so
// underflow means a bookkeeping bug, not a recoverable condition.
func (t *Table) Remove(trajectory []int) {
	for i := 1; i < len(trajectory); i++ {
		u, v := trajectory[i-1], trajectory[i]
		d := t.g.DirectionTo(u, v)
		c := t.entry(v)
		if c[d] <= 0 {
			panic("flow: counter underflow on remove, internal invariant broken")
		}
		c[d]--
	}
}

// MostCongested returns the cell with the highest total flow among the
// given candidate cells, used by C6's CONGESTION selection mode. Returns
// -1 if candidates is empty.
func (t *Table) MostCongested(candidates []int) int {
	best, bestTotal := -1, int32(-1)
	for _, c := range candidates {
		total := t.At(c).Total()
		if total > bestTotal {
			best, bestTotal = c, total
		}
	}
	return best
}
