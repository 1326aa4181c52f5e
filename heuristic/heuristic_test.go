package heuristic

import (
	"testing"

	"github.com/bkhnk48/gridflow/grid"
)

func TestDistanceStraightRow(t *testing.T) {
	// 1x5 row; h(0,4) must be 4, per spec scenario S2.
	g := grid.New(1, 5, make([]bool, 5))
	cache := NewCache(g)

	if d := cache.H(0, 4); d != 4 {
		t.Errorf("h(0,4) = %d, want 4", d)
	}
}

func TestDistanceSameCellIsZero(t *testing.T) {
	g := grid.New(3, 3, make([]bool, 9))
	cache := NewCache(g)
	if d := cache.H(4, 4); d != 0 {
		t.Errorf("h(goal,goal) = %d, want 0", d)
	}
}

func TestDistanceUnreachable(t *testing.T) {
	// two 1x1 rooms separated by an obstacle column, no connection.
	obstacle := []bool{false, true, false}
	g := grid.New(1, 3, obstacle)
	cache := NewCache(g)
	if d := cache.H(0, 2); d != Unreachable {
		t.Errorf("h(0,2) across obstacle = %d, want Unreachable", d)
	}
}

func TestDistanceMonotoneAcrossQueries(t *testing.T) {
	g := grid.New(1, 5, make([]bool, 5))
	cache := NewCache(g)

	first := cache.H(3, 4)
	second := cache.H(3, 4)
	if first != second {
		t.Errorf("repeated query for same (source,goal) changed: %d -> %d", first, second)
	}

	// Querying a farther source after a closer one must still resume
	// correctly from the persisted open queue.
	if d := cache.H(0, 4); d != 4 {
		t.Errorf("h(0,4) after prior nearer query = %d, want 4", d)
	}
}

func TestDistanceMatchesGridDistance(t *testing.T) {
	g := grid.New(4, 4, make([]bool, 16))
	cache := NewCache(g)
	d := cache.H(g.Index(0, 0), g.Index(3, 3))
	if d != 6 {
		t.Errorf("h(corner,corner) on empty 4x4 = %d, want 6", d)
	}
}
