package grid

import "testing"

func empty3x3() *Grid {
	return New(3, 3, make([]bool, 9))
}

func TestNeighborsCardinal(t *testing.T) {
	g := empty3x3()
	// center cell (1,1) = index 4 has all four neighbors
	n := g.Neighbors(g.Index(1, 1))
	if len(n) != 4 {
		t.Errorf("center cell neighbors = %d, want 4", len(n))
	}

	// corner cell (0,0) = index 0 has two neighbors
	n = g.Neighbors(g.Index(0, 0))
	if len(n) != 2 {
		t.Errorf("corner cell neighbors = %d, want 2", len(n))
	}
}

func TestNeighborExcludesObstacle(t *testing.T) {
	obstacle := make([]bool, 9)
	obstacle[g3Index(0, 1)] = true // block north of center
	g := New(3, 3, obstacle)

	center := g.Index(1, 1)
	n := g.Neighbors(center)
	for _, c := range n {
		if c == g.Index(0, 1) {
			t.Errorf("Neighbors included obstacle cell")
		}
	}
	if len(n) != 3 {
		t.Errorf("neighbors with one obstacle = %d, want 3", len(n))
	}
}

func TestDirectionToRoundTrip(t *testing.T) {
	g := empty3x3()
	center := g.Index(1, 1)
	for d := Direction(0); d < 4; d++ {
		n, ok := g.Neighbor(center, d)
		if !ok {
			t.Fatalf("expected neighbor in direction %v", d)
		}
		if got := g.DirectionTo(center, n); got != d {
			t.Errorf("DirectionTo(center, neighbor) = %v, want %v", got, d)
		}
	}
}

func TestDeadEnd(t *testing.T) {
	// 1x3 row: corners are dead ends, middle is not.
	g := New(1, 3, make([]bool, 3))
	if !g.DeadEnd(0) {
		t.Errorf("cell 0 of 1x3 row should be a dead end")
	}
	if g.DeadEnd(1) {
		t.Errorf("middle cell of 1x3 row should not be a dead end")
	}
	if !g.DeadEnd(2) {
		t.Errorf("cell 2 of 1x3 row should be a dead end")
	}
}

func TestManhattanDistance(t *testing.T) {
	g := New(5, 5, make([]bool, 25))
	d := g.ManhattanDistance(g.Index(0, 0), g.Index(4, 4))
	if d != 8 {
		t.Errorf("ManhattanDistance = %d, want 8", d)
	}
}

func g3Index(row, col int) int { return row*3 + col }
