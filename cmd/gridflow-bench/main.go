// Command gridflow-bench runs a synthetic multi-agent simulation over a
// generated benchmark map, driving planner.Initialize/Plan once per
// timestep and reporting aggregate throughput.
//
// Grounded on upside-down-research-agentic's cmd/agentic/main.go for the
// kong CLI shape (named struct fields, kong.Parse with Name/Description)
// and on fight-club-go's internal/api/observability.go for the optional
// /metrics debug server (promhttp.Handler on a dedicated mux).
package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bkhnk48/gridflow/action"
	"github.com/bkhnk48/gridflow/config"
	"github.com/bkhnk48/gridflow/grid"
	"github.com/bkhnk48/gridflow/logx"
	"github.com/bkhnk48/gridflow/mapgen"
	"github.com/bkhnk48/gridflow/metricsx"
	"github.com/bkhnk48/gridflow/planner"
)

// CLI is gridflow-bench's full flag surface; kong derives parsing and
// --help text from the struct tags.
var CLI struct {
	Rows      int    `help:"Grid rows." default:"41"`
	Cols      int    `help:"Grid columns." default:"41"`
	Braiding  float64 `help:"Maze braiding factor in [0,1]." default:"0.15"`
	RoomCount int    `help:"Number of open rooms to carve." default:"3"`
	Agents    int    `help:"Number of agents to simulate." default:"40"`
	Timesteps int    `help:"Number of timesteps to run." default:"200"`
	TimeLimit float64 `help:"Per-timestep planning budget in ms." default:"100"`
	Seed      int64  `help:"Random seed." default:"1"`
	Debug     bool   `help:"Enable file logging under ./logs."`
	Config    string `help:"Optional TOML tunables file." type:"existingfile"`
	Metrics   string `help:"Address to serve /metrics on, e.g. 127.0.0.1:9090 (disabled if empty)."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("gridflow-bench"),
		kong.Description("Synthesize a benchmark map and run a multi-agent planning simulation against it."),
		kong.UsageOnError(),
	)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gridflow-bench:", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	tunables, err := config.Load(CLI.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	tunables.Seed = CLI.Seed

	result := mapgen.Generate(mapgen.Config{
		Rows:      CLI.Rows,
		Cols:      CLI.Cols,
		Braiding:  CLI.Braiding,
		RoomCount: CLI.RoomCount,
		Seed:      CLI.Seed,
	})
	if len(result.SpawnCells) < CLI.Agents {
		return fmt.Errorf("map has only %d passable cells, need at least %d for %d agents", len(result.SpawnCells), CLI.Agents, CLI.Agents)
	}

	metrics := metricsx.NewRegistry()
	if CLI.Metrics != "" {
		promReg := prometheus.NewRegistry()
		exporter := metricsx.NewPrometheusExporter(metrics, promReg)
		go serveMetrics(CLI.Metrics, promReg, exporter, logger)
	}

	mask := obstacleMask(result.Grid)
	p, err := planner.Initialize(result.Grid.Rows(), result.Grid.Cols(), mask, CLI.Agents, 0, tunables, logger, metrics)
	if err != nil {
		return fmt.Errorf("initializing planner: %w", err)
	}

	sim := newSimulation(result, CLI.Agents, CLI.Seed)

	started := time.Now()
	completions := 0
	for t := 0; t < CLI.Timesteps; t++ {
		inputs := sim.inputs()
		actions, err := p.Plan(inputs, t, CLI.TimeLimit)
		if err != nil {
			return fmt.Errorf("plan at timestep %d: %w", t, err)
		}
		completions += sim.apply(actions)
	}
	elapsed := time.Since(started)

	fmt.Printf("agents=%d timesteps=%d map=%dx%d goal_completions=%d elapsed=%s\n",
		CLI.Agents, CLI.Timesteps, result.Grid.Rows(), result.Grid.Cols(), completions, elapsed)
	return nil
}

func newLogger() (*log.Logger, error) {
	return logx.New(logx.Options{Debug: CLI.Debug})
}

func serveMetrics(addr string, reg *prometheus.Registry, exporter *metricsx.PrometheusExporter, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			exporter.Sync()
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", "error", err)
	}
}

func obstacleMask(g *grid.Grid) []bool {
	mask := make([]bool, g.Size())
	for i := range mask {
		mask[i] = !g.Passable(i)
	}
	return mask
}

// simulation tracks each agent's current position/orientation and a
// standing single-goal task, reassigning a fresh random goal from the
// spawn pool whenever an agent arrives: a continuous-task benchmark
// loop, not a one-shot delivery run.
type simulation struct {
	result mapgen.Result
	rng    *rand.Rand

	locations    []int
	orientations []grid.Direction
	goals        []int
	freshGoal    []bool // true on the tick a new goal was just assigned
}

func newSimulation(result mapgen.Result, numAgents int, seed int64) *simulation {
	rng := rand.New(rand.NewSource(seed))
	s := &simulation{
		result:       result,
		rng:          rng,
		locations:    make([]int, numAgents),
		orientations: make([]grid.Direction, numAgents),
		goals:        make([]int, numAgents),
		freshGoal:    make([]bool, numAgents),
	}
	perm := rng.Perm(len(result.SpawnCells))
	for i := 0; i < numAgents; i++ {
		s.locations[i] = result.SpawnCells[perm[i]]
		s.orientations[i] = grid.Direction(rng.Intn(4))
		s.goals[i] = s.randomGoal()
		s.freshGoal[i] = true
	}
	return s
}

func (s *simulation) randomGoal() int {
	return s.result.SpawnCells[s.rng.Intn(len(s.result.SpawnCells))]
}

// inputs builds this tick's AgentInput vector, carrying a new Goals
// assignment only for agents that just completed their prior goal (or
// are starting for the first time).
func (s *simulation) inputs() []planner.AgentInput {
	inputs := make([]planner.AgentInput, len(s.locations))
	for i := range inputs {
		var goals []int
		if s.freshGoal[i] {
			goals = []int{s.goals[i]}
			s.freshGoal[i] = false
		}
		inputs[i] = planner.AgentInput{
			Location:    s.locations[i],
			Orientation: s.orientations[i],
			Goals:       goals,
		}
	}
	return inputs
}

// apply advances every agent one step per its chosen action and returns
// how many agents reached their goal this tick, assigning each a fresh
// random goal immediately.
func (s *simulation) apply(actions []action.Action) int {
	completions := 0
	for i, act := range actions {
		if act == action.Forward {
			n, ok := s.result.Grid.Neighbor(s.locations[i], s.orientations[i])
			if ok {
				s.locations[i] = n
			}
		}
		s.orientations[i] = action.NextOrientation(s.orientations[i], act)

		if s.locations[i] == s.goals[i] {
			s.goals[i] = s.randomGoal()
			s.freshGoal[i] = true
			completions++
		}
	}
	return completions
}
