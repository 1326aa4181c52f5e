// Package pibt implements the one-step priority-inheritance-with-
// backtracking joint planner (C7).
//
// Grounded on the original source's default_planner/pibt.h/pibt.cpp
// shape (causalPIBT, moveCheck) and planner.cpp's priority-sorted outer
// loop, re-expressed as an explicit recursive solver. Recursion depth is
// capped at one more than the agent count; a worklist/loop variant would be the
// straightforward next step if stack depth ever became a concern.
package pibt

import (
	"math/rand"
	"sort"

	"github.com/bkhnk48/gridflow/grid"
)

// CostFunc returns the cost-to-goal of a candidate cell for a given
// agent: distance-to-path plus remaining when a guide trajectory
// exists, else Manhattan distance to the goal.
type CostFunc func(agentID, cell int) int

// Solver runs one timestep's joint-action selection over a fixed set of
// agents sharing a grid.
type Solver struct {
	g   *grid.Grid
	n   int
	rng *rand.Rand

	current []int
	cost    CostFunc

	next      []int
	decided   []bool
	occupied  map[int]int // cell -> agent that has provisionally or finally claimed it as a target
	locToAgt  map[int]int // current cell -> agent physically there
	callDepth int
}

// NewSolver builds a Solver for n agents at the given current locations.
// cost must be stable for the duration of one Solve call.
func NewSolver(g *grid.Grid, current []int, cost CostFunc, rng *rand.Rand) *Solver {
	s := &Solver{
		g:        g,
		n:        len(current),
		rng:      rng,
		current:  current,
		cost:     cost,
		next:     make([]int, len(current)),
		decided:  make([]bool, len(current)),
		occupied: make(map[int]int, len(current)*2),
		locToAgt: make(map[int]int, len(current)),
	}
	for i, loc := range current {
		s.locToAgt[loc] = i
	}
	return s
}

// Solve runs PIBT for every agent in order, the order being the caller-
// supplied priority order (highest priority first). Returns the chosen
// next cell per agent, indexed by agent id (not by priority order).
func (s *Solver) Solve(order []int) []int {
	for _, agentID := range order {
		if !s.decided[agentID] {
			s.pibt(agentID, -1)
		}
	}
	return s.next
}

// pibt is the recursive causalPIBT-equivalent procedure: try candidate
// cells in cost order, inheriting priority to whichever occupant blocks
// the best one. higherID is the agent that invoked this call via
// inheritance, or -1 at the top level; its current cell is excluded
// from agentID's candidates to prevent a two-agent swap.
func (s *Solver) pibt(agentID, higherID int) bool {
	if s.decided[agentID] {
		return true
	}
	s.callDepth++
	defer func() { s.callDepth-- }()
	if s.callDepth > s.n+1 {
		// Recursion cannot legitimately exceed the agent count;
		// exceeding it indicates a cycle bug, not a valid deep chain.
		return false
	}

	higherLoc := -1
	if higherID >= 0 {
		higherLoc = s.current[higherID]
	}

	candidates := s.candidates(agentID, higherLoc)

	for _, c := range candidates {
		if owner, ok := s.occupied[c]; ok && owner != agentID {
			continue
		}
		s.occupied[c] = agentID

		if occupant, ok := s.locToAgt[c]; ok && occupant != agentID {
			if !s.decided[occupant] {
				if s.pibt(occupant, agentID) {
					s.finalize(agentID, c)
					return true
				}
				delete(s.occupied, c)
				continue
			}
			// occupant already decided: if its own next differs from c,
			// c is safe to take (occupant is vacating it); if its next
			// equals c, c would already be in s.occupied under occupant's
			// ownership and excluded above.
		}

		s.finalize(agentID, c)
		return true
	}

	return false
}

func (s *Solver) finalize(agentID, cell int) {
	s.next[agentID] = cell
	s.decided[agentID] = true
}

// candidates returns {current} ∪ neighbors(current), excluding
// higherLoc (swap prevention), sorted by cost ascending with a
// deterministic-then-random tie-break.
func (s *Solver) candidates(agentID, higherLoc int) []int {
	current := s.current[agentID]
	var buf [5]int
	raw := buf[:0]
	raw = append(raw, current)
	raw = s.g.NeighborsInto(current, raw)

	out := raw[:0:0]
	for _, c := range raw {
		if c == higherLoc {
			continue
		}
		out = append(out, c)
	}

	tieBreak := make(map[int]float64, len(out))
	for _, c := range out {
		tieBreak[c] = s.rng.Float64()
	}

	sort.Slice(out, func(i, j int) bool {
		ci, cj := s.cost(agentID, out[i]), s.cost(agentID, out[j])
		if ci != cj {
			return ci < cj
		}
		if out[i] != out[j] {
			return out[i] < out[j]
		}
		return tieBreak[out[i]] < tieBreak[out[j]]
	})
	return out
}
