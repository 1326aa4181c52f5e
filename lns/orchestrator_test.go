package lns

import (
	"math/rand"
	"testing"
	"time"

	"github.com/bkhnk48/gridflow/distpath"
	"github.com/bkhnk48/gridflow/flow"
	"github.com/bkhnk48/gridflow/grid"
	"github.com/bkhnk48/gridflow/guidepath"
	"github.com/bkhnk48/gridflow/heuristic"
)

func TestRunBuildsInitialPathsForEveryAgent(t *testing.T) {
	g := grid.New(5, 5, make([]bool, 25))
	cache := heuristic.NewCache(g)
	flowTable := flow.NewTable(g)
	builder := guidepath.New(g, cache, flowTable, 1.0, 0.5)
	bandit := NewBandit(1, 0.3, 0.10, 0.02)
	orch := NewOrchestrator(g, flowTable, builder, bandit, 1, 4)

	agents := []*AgentState{
		{Current: 0, Goal: 24, DistPath: distpath.New(g)},
		{Current: 4, Goal: 20, DistPath: distpath.New(g)},
	}

	stats := orch.Run(agents, time.Now().Add(200*time.Millisecond))
	if stats.InitialBuilds != 2 {
		t.Errorf("InitialBuilds = %d, want 2", stats.InitialBuilds)
	}
	for i, a := range agents {
		if !a.HasPath {
			t.Errorf("agent %d has no path after Run", i)
		}
	}
}

// S6 (LNS convergence): on a 10x10 grid with 20 agents with crossing
// goals, C6 must converge to a fully reachable, finite-cost joint
// solution within its deadline, with every agent holding a path and the
// adaptive loop having actually iterated (not just performed the
// initial builds).
func TestRunConvergesOnCrossingGoals(t *testing.T) {
	const n = 10
	g := grid.New(n, n, make([]bool, n*n))
	cache := heuristic.NewCache(g)

	rng := rand.New(rand.NewSource(11))
	numAgents := 20
	starts := make([]int, numAgents)
	goals := make([]int, numAgents)
	for i := 0; i < numAgents; i++ {
		starts[i] = rng.Intn(n * n)
		goals[i] = rng.Intn(n * n)
	}

	flowTable := flow.NewTable(g)
	builder := guidepath.New(g, cache, flowTable, 1.0, 0.5)
	bandit := NewBandit(2, 0.3, 0.10, 0.02)
	orch := NewOrchestrator(g, flowTable, builder, bandit, 2, 8)

	agents := make([]*AgentState, numAgents)
	for i := range agents {
		agents[i] = &AgentState{Current: starts[i], Goal: goals[i], DistPath: distpath.New(g)}
	}

	stats := orch.Run(agents, time.Now().Add(500*time.Millisecond))

	if stats.UnreachableCount != 0 {
		t.Errorf("UnreachableCount = %d, want 0 on a fully open grid", stats.UnreachableCount)
	}
	for i, a := range agents {
		if !a.HasPath {
			t.Errorf("agent %d has no path after convergence", i)
		}
	}
	if stats.SumOfCosts <= 0 {
		t.Errorf("SumOfCosts = %f, want > 0 for 20 agents with real goals", stats.SumOfCosts)
	}
	if stats.Iterations == 0 {
		t.Errorf("Iterations = 0, want at least one adaptive reroute pass within a 500ms budget")
	}
}
