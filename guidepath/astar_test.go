package guidepath

import (
	"testing"

	"github.com/bkhnk48/gridflow/flow"
	"github.com/bkhnk48/gridflow/grid"
	"github.com/bkhnk48/gridflow/heuristic"
)

func TestBuildZeroFlowMatchesShortestPath(t *testing.T) {
	g := grid.New(1, 5, make([]bool, 5))
	cache := heuristic.NewCache(g)
	flowTable := flow.NewTable(g)
	b := New(g, cache, flowTable, 1.0, 0.5)

	res := b.Build(0, 4)
	if !res.Reachable {
		t.Fatalf("expected reachable result")
	}
	if res.Cost != 4 {
		t.Errorf("Cost = %d, want 4 (unit edge cost, no congestion)", res.Cost)
	}
	want := []int{0, 1, 2, 3, 4}
	if len(res.Trajectory) != len(want) {
		t.Fatalf("Trajectory = %v, want %v", res.Trajectory, want)
	}
	for i, c := range want {
		if res.Trajectory[i] != c {
			t.Errorf("Trajectory[%d] = %d, want %d", i, res.Trajectory[i], c)
		}
	}
}

func TestBuildUnreachable(t *testing.T) {
	obstacle := []bool{false, true, false}
	g := grid.New(1, 3, obstacle)
	cache := heuristic.NewCache(g)
	flowTable := flow.NewTable(g)
	b := New(g, cache, flowTable, 1.0, 0.5)

	res := b.Build(0, 2)
	if res.Reachable {
		t.Errorf("expected unreachable result across obstacle, got trajectory %v", res.Trajectory)
	}
}

func TestBuildCongestionRaisesCost(t *testing.T) {
	// 2x3 grid: two routes from cell 0 to cell 2 exist (straight along
	// the top row, or down, across the bottom row and back up). Saturate
	// the top row with opposing flow so the congestion-weighted search
	// avoids it.
	g := grid.New(2, 3, make([]bool, 6))
	cache := heuristic.NewCache(g)
	flowTable := flow.NewTable(g)

	// Seed heavy opposing flow along cells 0,1,2 (row 0) by adding many
	// trajectories that travel east-to-west through them.
	for i := 0; i < 10; i++ {
		flowTable.Add([]int{2, 1, 0})
	}

	b := New(g, cache, flowTable, 1.0, 0.5)
	res := b.Build(0, 2)
	if !res.Reachable {
		t.Fatalf("expected reachable result")
	}
	// Without congestion the direct row-0 path costs 2. With heavy
	// opposing flow baked into row 0, the congestion-weighted cost must
	// exceed the unweighted Manhattan distance.
	if res.Cost <= 2 {
		t.Errorf("Cost = %d, want > 2 under heavy opposing congestion", res.Cost)
	}
}

func TestBuildSameCellIsZeroCost(t *testing.T) {
	g := grid.New(3, 3, make([]bool, 9))
	cache := heuristic.NewCache(g)
	flowTable := flow.NewTable(g)
	b := New(g, cache, flowTable, 1.0, 0.5)

	res := b.Build(4, 4)
	if !res.Reachable || res.Cost != 0 {
		t.Errorf("Build(s,s) = reachable=%v cost=%d, want reachable=true cost=0", res.Reachable, res.Cost)
	}
}
