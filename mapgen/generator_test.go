package mapgen

import "testing"

func TestGenerateRoundsDimensionsOdd(t *testing.T) {
	res := Generate(Config{Rows: 10, Cols: 10, Seed: 1})
	rows, cols := res.Grid.Rows(), res.Grid.Cols()
	if rows%2 == 0 {
		t.Errorf("Rows = %d, want odd", rows)
	}
	if cols%2 == 0 {
		t.Errorf("Cols = %d, want odd", cols)
	}
}

func TestGenerateProducesSpawnCells(t *testing.T) {
	res := Generate(Config{Rows: 15, Cols: 15, Seed: 2})
	if len(res.SpawnCells) == 0 {
		t.Fatalf("expected at least one passable spawn cell")
	}
	for _, cell := range res.SpawnCells {
		if !res.Grid.Passable(cell) {
			t.Errorf("spawn cell %d is not passable", cell)
		}
	}
}

func TestGenerateIsDeterministicForSameSeed(t *testing.T) {
	a := Generate(Config{Rows: 11, Cols: 11, Seed: 5, Braiding: 0.3})
	b := Generate(Config{Rows: 11, Cols: 11, Seed: 5, Braiding: 0.3})
	if len(a.SpawnCells) != len(b.SpawnCells) {
		t.Fatalf("same seed produced different spawn counts: %d vs %d", len(a.SpawnCells), len(b.SpawnCells))
	}
	for i := range a.SpawnCells {
		if a.SpawnCells[i] != b.SpawnCells[i] {
			t.Errorf("same seed produced different spawn cell at %d: %d vs %d", i, a.SpawnCells[i], b.SpawnCells[i])
		}
	}
}

func TestGenerateWithRoomsStaysConnectedToSpawnPool(t *testing.T) {
	res := Generate(Config{Rows: 21, Cols: 21, Seed: 9, RoomCount: 2, RoomWidth: 5, RoomHeight: 5})
	if len(res.SpawnCells) == 0 {
		t.Fatalf("expected spawn cells with rooms enabled")
	}
}
