package distpath

import (
	"testing"

	"github.com/bkhnk48/gridflow/grid"
)

func TestOnPathCellsAreZeroPlusRemaining(t *testing.T) {
	g := grid.New(1, 5, make([]bool, 5))
	idx := New(g)
	idx.Relabel([]int{0, 1, 2, 3, 4})

	if got := idx.Get(4); got != 0 {
		t.Errorf("goal cell get = %d, want 0", got)
	}
	if got := idx.Get(0); got != 4 {
		t.Errorf("path-start cell get = %d, want remaining 4", got)
	}
}

func TestOffPathCellAddsDetour(t *testing.T) {
	// 3x3 grid, path runs along row 0: 0,1,2. Cell 4 (center, row1 col1)
	// is distance 1 from cell 1 and has remaining(1) == 1, so total 2.
	g := grid.New(3, 3, make([]bool, 9))
	idx := New(g)
	idx.Relabel([]int{0, 1, 2})

	got := idx.Get(4)
	if got != 2 {
		t.Errorf("Get(center) = %d, want 2 (1 detour + 1 remaining)", got)
	}
}

func TestRelabelInvalidatesPriorEntries(t *testing.T) {
	g := grid.New(1, 5, make([]bool, 5))
	idx := New(g)
	idx.Relabel([]int{0, 1, 2})
	_ = idx.Get(2)

	idx.Relabel([]int{2, 3, 4})
	if got := idx.Get(0); got == 0 {
		t.Errorf("cell 0 should no longer be on-path after relabel")
	}
	if got := idx.Get(4); got != 0 {
		t.Errorf("new goal cell get = %d, want 0", got)
	}
}

func TestUnreachableOnDisconnectedGrid(t *testing.T) {
	obstacle := []bool{false, true, false}
	g := grid.New(1, 3, obstacle)
	idx := New(g)
	idx.Relabel([]int{0})

	if got := idx.Get(2); got != Unreachable {
		t.Errorf("Get(2) across obstacle = %d, want Unreachable", got)
	}
}
