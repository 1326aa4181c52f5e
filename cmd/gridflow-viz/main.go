// Command gridflow-viz renders one planner run frame-by-frame in a
// terminal, a debug aid for watching C6/C7/C8 interact on a generated
// map.
//
// Grounded on the teacher's cmd/vi-fighter/main.go tcell screen setup
// and its 16ms-ticker render loop shape (render/buffer.go's SetContent
// usage for turning logical cells into styled terminal glyphs).
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/bkhnk48/gridflow/action"
	"github.com/bkhnk48/gridflow/config"
	"github.com/bkhnk48/gridflow/grid"
	"github.com/bkhnk48/gridflow/mapgen"
	"github.com/bkhnk48/gridflow/metricsx"
	"github.com/bkhnk48/gridflow/planner"
)

var agentGlyphs = []rune{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}

func main() {
	rows := flag.Int("rows", 31, "grid rows")
	cols := flag.Int("cols", 61, "grid cols")
	agents := flag.Int("agents", 12, "number of agents")
	seed := flag.Int64("seed", 1, "random seed")
	braiding := flag.Float64("braiding", 0.15, "maze braiding factor")
	flag.Parse()

	if err := run(*rows, *cols, *agents, *seed, *braiding); err != nil {
		fmt.Fprintln(os.Stderr, "gridflow-viz:", err)
		os.Exit(1)
	}
}

func run(rows, cols, numAgents int, seed int64, braiding float64) error {
	result := mapgen.Generate(mapgen.Config{Rows: rows, Cols: cols, Braiding: braiding, Seed: seed})
	if len(result.SpawnCells) < numAgents {
		return fmt.Errorf("map has only %d passable cells, need %d", len(result.SpawnCells), numAgents)
	}

	mask := make([]bool, result.Grid.Size())
	for i := range mask {
		mask[i] = !result.Grid.Passable(i)
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	cfg.Seed = seed

	p, err := planner.Initialize(result.Grid.Rows(), result.Grid.Cols(), mask, numAgents, 0, cfg, nil, metricsx.NewRegistry())
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(result.SpawnCells))
	locations := make([]int, numAgents)
	orientations := make([]grid.Direction, numAgents)
	goals := make([]int, numAgents)
	for i := 0; i < numAgents; i++ {
		locations[i] = result.SpawnCells[perm[i]]
		orientations[i] = grid.Direction(rng.Intn(4))
		goals[i] = result.SpawnCells[rng.Intn(len(result.SpawnCells))]
	}

	eventChan := make(chan tcell.Event, 16)
	go func() {
		for {
			eventChan <- screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(150 * time.Millisecond)
	defer ticker.Stop()

	timestep := 0
	quit := false
	for !quit {
		select {
		case ev := <-eventChan:
			switch e := ev.(type) {
			case *tcell.EventKey:
				if e.Key() == tcell.KeyEscape || e.Rune() == 'q' {
					quit = true
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			inputs := make([]planner.AgentInput, numAgents)
			for i := range inputs {
				var newGoals []int
				if timestep == 0 {
					newGoals = []int{goals[i]}
				}
				inputs[i] = planner.AgentInput{Location: locations[i], Orientation: orientations[i], Goals: newGoals}
			}

			actions, err := p.Plan(inputs, timestep, 100)
			if err != nil {
				return err
			}
			for i, act := range actions {
				if act == action.Forward {
					if n, ok := result.Grid.Neighbor(locations[i], orientations[i]); ok {
						locations[i] = n
					}
				}
				orientations[i] = action.NextOrientation(orientations[i], act)
				if locations[i] == goals[i] {
					goals[i] = result.SpawnCells[rng.Intn(len(result.SpawnCells))]
				}
			}

			draw(screen, result.Grid, locations, goals, timestep)
			timestep++
		}
	}
	return nil
}

func draw(screen tcell.Screen, g *grid.Grid, locations, goals []int, timestep int) {
	screen.Clear()

	wallStyle := tcell.StyleDefault.Foreground(tcell.NewRGBColor(90, 90, 100))
	floorStyle := tcell.StyleDefault.Foreground(tcell.NewRGBColor(40, 40, 46))
	goalStyle := tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 210, 80))
	agentStyle := tcell.StyleDefault.Foreground(tcell.NewRGBColor(90, 200, 255)).Bold(true)

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			loc := g.Index(r, c)
			if g.Passable(loc) {
				screen.SetContent(c, r, '.', nil, floorStyle)
			} else {
				screen.SetContent(c, r, '#', nil, wallStyle)
			}
		}
	}
	for _, goal := range goals {
		r, c := g.RowCol(goal)
		screen.SetContent(c, r, '*', nil, goalStyle)
	}
	for i, loc := range locations {
		r, c := g.RowCol(loc)
		glyph := '@'
		if i < len(agentGlyphs) {
			glyph = agentGlyphs[i]
		}
		screen.SetContent(c, r, glyph, nil, agentStyle)
	}

	status := fmt.Sprintf("timestep %d, press q to quit", timestep)
	for i, ch := range status {
		screen.SetContent(i, g.Rows(), ch, nil, tcell.StyleDefault)
	}

	screen.Show()
}
