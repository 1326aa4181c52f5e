// Package mapgen synthesizes benchmark grids for the planner: open rooms
// (congestion sources) connected by braided corridors (bottlenecks),
// exactly the topology that exercises C4's congestion-weighted A* and
// C6's LNS rerouting.
//
// Adapted from the teacher's maze/generator.go recursive-backtracker
// maze generator, rewritten to emit a grid.Grid (instead of a raw
// [][]bool paired with a single Start/End pair) and a pool of spawn
// cells for benchmark agent placement, dropping the single-path
// Start/End/SolutionPath shape that doesn't apply to a multi-agent
// planner.
package mapgen

import (
	"math/rand"

	"github.com/bkhnk48/gridflow/grid"
)

const (
	wall    = true
	passage = false
)

// Config describes a benchmark grid to synthesize.
type Config struct {
	// Rows and Cols are the requested dimensions; each is rounded down
	// to the nearest odd value (minimum 3) to align with the passage
	// lattice.
	Rows, Cols int

	// Braiding in [0,1] adds cycles to the otherwise tree-shaped maze;
	// 0 yields a perfect maze (every corridor a dead end or junction),
	// higher values open more loops, raising achievable throughput.
	Braiding float64

	// RoomCount is how many open rooms to carve and connect into the
	// corridor network; 0 disables rooms entirely.
	RoomCount int

	// RoomWidth/RoomHeight size each room; 0 picks a default scaled to
	// the grid.
	RoomWidth, RoomHeight int

	// Seed seeds the generator; 0 is treated as the planner's default
	// seed (deterministic), not as "random": benchmark runs should be
	// reproducible by default.
	Seed int64
}

// Result is a synthesized benchmark map.
type Result struct {
	Grid       *grid.Grid
	SpawnCells []int // every passable cell, eligible as an agent spawn or goal
}

type room struct {
	x, y, w, h int
}

// Generate builds a Config into a Result.
func Generate(cfg Config) Result {
	rows := ensureOdd(cfg.Rows)
	cols := ensureOdd(cfg.Cols)
	rng := rand.New(rand.NewSource(cfg.Seed))

	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = make([]bool, cols)
		for j := range cells[i] {
			cells[i][j] = wall
		}
	}

	rooms := placeRooms(cfg, cols, rows, rng)
	reserveRooms(cells, rooms)

	recursiveBacktracker(cells, 1, 1, rng)

	if cfg.Braiding > 0 {
		applyBraiding(cells, cfg.Braiding, rng)
	}

	connectRooms(cells, rooms, rng)

	return toResult(cells, rows, cols)
}

func toResult(cells [][]bool, rows, cols int) Result {
	mask := make([]bool, rows*cols)
	spawn := make([]int, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			loc := r*cols + c
			mask[loc] = cells[r][c]
			if cells[r][c] == passage {
				spawn = append(spawn, loc)
			}
		}
	}
	return Result{Grid: grid.New(rows, cols, mask), SpawnCells: spawn}
}

func placeRooms(cfg Config, cols, rows int, rng *rand.Rand) []room {
	if cfg.RoomCount <= 0 {
		return nil
	}
	w := ensureOdd(cfg.RoomWidth)
	h := ensureOdd(cfg.RoomHeight)
	if cfg.RoomWidth <= 0 {
		w = ensureOdd(cols / 6)
	}
	if cfg.RoomHeight <= 0 {
		h = ensureOdd(rows / 6)
	}
	if w < 3 {
		w = 3
	}
	if h < 3 {
		h = 3
	}

	var placed []room
	for i := 0; i < cfg.RoomCount; i++ {
		for attempt := 0; attempt < 50; attempt++ {
			maxX, maxY := cols-3-w, rows-3-h
			if maxX < 3 || maxY < 3 {
				break
			}
			x := 3 + rng.Intn((maxX-3)/2+1)*2
			y := 3 + rng.Intn((maxY-3)/2+1)*2
			r := room{x: x, y: y, w: w, h: h}
			if !overlaps(r, placed) {
				placed = append(placed, r)
				break
			}
		}
	}
	return placed
}

func overlaps(r room, existing []room) bool {
	const gap = 3
	for _, o := range existing {
		if r.x < o.x+o.w+gap && r.x+r.w+gap > o.x &&
			r.y < o.y+o.h+gap && r.y+r.h+gap > o.y {
			return true
		}
	}
	return false
}

func reserveRooms(cells [][]bool, rooms []room) {
	for _, r := range rooms {
		for y := r.y; y < r.y+r.h; y++ {
			for x := r.x; x < r.x+r.w; x++ {
				cells[y][x] = passage
			}
		}
	}
}

// recursiveBacktracker carves a perfect maze into cells via depth-first
// wall removal, starting from (startX, startY).
func recursiveBacktracker(cells [][]bool, startX, startY int, rng *rand.Rand) {
	rows, cols := len(cells), len(cells[0])
	type point struct{ x, y int }

	stack := []point{{startX, startY}}
	cells[startY][startX] = passage
	dirs := []point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		var candidates []point
		for _, d := range dirs {
			nx, ny := curr.x+d.x, curr.y+d.y
			if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 && cells[ny][nx] == wall {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		d := candidates[rng.Intn(len(candidates))]
		wx, wy := curr.x+d.x/2, curr.y+d.y/2
		nx, ny := curr.x+d.x, curr.y+d.y
		cells[wy][wx] = passage
		cells[ny][nx] = passage
		stack = append(stack, point{nx, ny})
	}
}

// applyBraiding opens extra connections at dead ends with probability p,
// raising cyclicity (and thus achievable multi-agent throughput) without
// creating 2x2 open plazas. Isolated wall pillars are not checked for.
func applyBraiding(cells [][]bool, p float64, rng *rand.Rand) {
	rows, cols := len(cells), len(cells[0])
	type point struct{ x, y int }
	orthogonal := []point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	jumps := []point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if cells[y][x] == wall {
				continue
			}
			exits := 0
			for _, d := range orthogonal {
				if cells[y+d.y][x+d.x] == passage {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= p {
				continue
			}

			var candidates []point
			for _, jd := range jumps {
				nx, ny := x+jd.x, y+jd.y
				wx, wy := x+jd.x/2, y+jd.y/2
				if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
					continue
				}
				if cells[ny][nx] == passage && cells[wy][wx] == wall && safeToOpen(cells, wx, wy) {
					candidates = append(candidates, point{wx, wy})
				}
			}
			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				cells[c.y][c.x] = passage
			}
		}
	}
}

// safeToOpen reports whether opening cells[y][x] avoids a 2x2 open plaza.
// It does not check whether a wall pillar would be left isolated.
func safeToOpen(cells [][]bool, x, y int) bool {
	rows, cols := len(cells), len(cells[0])
	isPassage := func(tx, ty int) bool {
		if tx < 0 || tx >= cols || ty < 0 || ty >= rows {
			return false
		}
		return cells[ty][tx] == passage
	}
	if isPassage(x-1, y-1) && isPassage(x, y-1) && isPassage(x-1, y) {
		return false
	}
	if isPassage(x, y-1) && isPassage(x+1, y-1) && isPassage(x+1, y) {
		return false
	}
	if isPassage(x-1, y) && isPassage(x-1, y+1) && isPassage(x, y+1) {
		return false
	}
	if isPassage(x+1, y) && isPassage(x, y+1) && isPassage(x+1, y+1) {
		return false
	}
	return true
}

// connectRooms carves one to four entries per room from its boundary
// into the adjacent corridor network, chosen among boundary walls that
// have a corridor cell directly behind them. A room with no such wall
// gets no entry.
func connectRooms(cells [][]bool, rooms []room, rng *rand.Rand) {
	rows, cols := len(cells), len(cells[0])
	type candidate struct{ wx, wy, cx, cy int }

	for _, r := range rooms {
		var candidates []candidate
		for x := r.x; x < r.x+r.w; x++ {
			if wy, cy := r.y-1, r.y-2; wy > 0 && cy >= 0 && cells[wy][x] == wall && cells[cy][x] == passage {
				candidates = append(candidates, candidate{x, wy, x, cy})
			}
			if wy, cy := r.y+r.h, r.y+r.h+1; wy < rows && cy < rows && cells[wy][x] == wall && cells[cy][x] == passage {
				candidates = append(candidates, candidate{x, wy, x, cy})
			}
		}
		for y := r.y; y < r.y+r.h; y++ {
			if wx, cx := r.x-1, r.x-2; wx > 0 && cx >= 0 && cells[y][wx] == wall && cells[y][cx] == passage {
				candidates = append(candidates, candidate{wx, y, cx, y})
			}
			if wx, cx := r.x+r.w, r.x+r.w+1; wx < cols && cx < cols && cells[y][wx] == wall && cells[y][cx] == passage {
				candidates = append(candidates, candidate{wx, y, cx, y})
			}
		}
		if len(candidates) == 0 {
			continue
		}
		rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
		n := 1 + rng.Intn(min(4, len(candidates)))
		for i := 0; i < n; i++ {
			cells[candidates[i].wy][candidates[i].wx] = passage
		}
	}
}

func ensureOdd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
