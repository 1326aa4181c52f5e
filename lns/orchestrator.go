package lns

import (
	"math/rand"
	"time"

	"github.com/bkhnk48/gridflow/distpath"
	"github.com/bkhnk48/gridflow/flow"
	"github.com/bkhnk48/gridflow/grid"
	"github.com/bkhnk48/gridflow/guidepath"
)

// AgentState is the orchestrator's view of one agent: its current cell,
// its goal, and the per-agent structures it owns across Plan calls.
type AgentState struct {
	Current    int
	Goal       int
	Trajectory []int
	GoalNode   guidepath.Node
	HasPath    bool
	DistPath   *distpath.Index
}

// Orchestrator runs the large-neighborhood-search loop: initial builds
// for agents lacking a path, then repeated neighborhood reroutes until
// the deadline, driven by an adaptive Bandit. The loop has no
// stability-based stop: a pass that brings no improvement does not end it.
type Orchestrator struct {
	g       *grid.Grid
	flow    *flow.Table
	builder *guidepath.Builder
	bandit  *Bandit
	rng     *rand.Rand

	neighborhoodSize int
}

// Stats summarizes one Run call, exposed to metricsx.
type Stats struct {
	Iterations        int
	InitialBuilds     int
	Reroutes          int
	UnreachableCount  int
	SumOfCosts        float64
	DeadlineTruncated bool
}

// NewOrchestrator builds an Orchestrator. neighborhoodSize is the
// number of agents rerouted together per iteration (e.g. 8-32).
func NewOrchestrator(g *grid.Grid, flowTable *flow.Table, builder *guidepath.Builder, bandit *Bandit, seed int64, neighborhoodSize int) *Orchestrator {
	return &Orchestrator{
		g:                g,
		flow:             flowTable,
		builder:          builder,
		bandit:           bandit,
		rng:              rand.New(rand.NewSource(seed)),
		neighborhoodSize: neighborhoodSize,
	}
}

// Run executes the full C6 responsibility: build missing/stale paths,
// then iterate neighborhood reroutes until the deadline, checking it at
// every loop iteration. Besides the deadline, the loop ends only when the
// neighborhood is empty (no agents, or a neighborhood size of 0); it does
// not stop when a pass leaves the sum-of-costs unchanged.
func (o *Orchestrator) Run(agents []*AgentState, deadline time.Time) Stats {
	var stats Stats

	for i, a := range agents {
		if !deadline.IsZero() && time.Now().After(deadline) {
			stats.DeadlineTruncated = true
			return o.finalize(agents, stats)
		}
		if !a.HasPath || (len(a.Trajectory) > 0 && a.Trajectory[len(a.Trajectory)-1] != a.Goal) {
			o.rebuild(agents, i, &stats)
			stats.InitialBuilds++
		}
	}

	for {
		if time.Now().After(deadline) {
			stats.DeadlineTruncated = true
			break
		}
		stats.Iterations++

		mode := o.bandit.Select()
		neighborhood := o.selectNeighborhood(agents, mode)
		if len(neighborhood) == 0 {
			break
		}

		before := o.sumOfCosts(agents)
		for _, i := range neighborhood {
			if time.Now().After(deadline) {
				stats.DeadlineTruncated = true
				return o.finalize(agents, stats)
			}
			o.rebuild(agents, i, &stats)
			stats.Reroutes++
		}
		after := o.sumOfCosts(agents)

		o.bandit.Update(mode, before-after)
	}

	return o.finalize(agents, stats)
}

func (o *Orchestrator) finalize(agents []*AgentState, stats Stats) Stats {
	stats.SumOfCosts = o.sumOfCosts(agents)
	for _, a := range agents {
		if !a.HasPath {
			stats.UnreachableCount++
		}
	}
	return stats
}

func (o *Orchestrator) sumOfCosts(agents []*AgentState) float64 {
	total := 0.0
	for _, a := range agents {
		if a.HasPath {
			total += float64(a.GoalNode.G)
		}
	}
	return total
}

// rebuild removes agent i's current trajectory from flow (if any),
// builds a fresh one under the now-updated congestion, installs it, and
// relabels its distance-to-path index, the remove/build/add cycle of
// one Frank-Wolfe descent step.
func (o *Orchestrator) rebuild(agents []*AgentState, i int, stats *Stats) {
	a := agents[i]
	if len(a.Trajectory) > 0 {
		o.flow.Remove(a.Trajectory)
	}

	result := o.builder.Build(a.Current, a.Goal)
	if !result.Reachable {
		a.HasPath = false
		a.Trajectory = nil
		return
	}

	a.Trajectory = result.Trajectory
	a.GoalNode = result.GoalNode
	a.HasPath = true
	o.flow.Add(a.Trajectory)
	if a.DistPath != nil {
		a.DistPath.Relabel(a.Trajectory)
	}
}

// selectNeighborhood picks up to neighborhoodSize agent indices per
// the mode's selection rule.
func (o *Orchestrator) selectNeighborhood(agents []*AgentState, mode Mode) []int {
	n := o.neighborhoodSize
	if n > len(agents) {
		n = len(agents)
	}
	if n == 0 {
		return nil
	}

	switch mode {
	case Congestion:
		return o.selectByCongestion(agents, n)
	case Deviation:
		return o.selectByDeviation(agents, n)
	default:
		return o.selectRandom(agents, n)
	}
}

func (o *Orchestrator) selectRandom(agents []*AgentState, n int) []int {
	perm := o.rng.Perm(len(agents))
	return perm[:n]
}

func (o *Orchestrator) selectByCongestion(agents []*AgentState, n int) []int {
	type scored = struct {
		idx   int
		score int32
	}
	scores := make([]scored, 0, len(agents))
	for i, a := range agents {
		best := int32(0)
		for _, c := range a.Trajectory {
			if t := o.flow.At(c).Total(); t > best {
				best = t
			}
		}
		scores = append(scores, scored{idx: i, score: best})
	}
	sortDescByScore(scores)
	out := make([]int, 0, n)
	for i := 0; i < n && i < len(scores); i++ {
		out = append(out, scores[i].idx)
	}
	return out
}

func (o *Orchestrator) selectByDeviation(agents []*AgentState, n int) []int {
	type scored = struct {
		idx   int
		score int
	}
	scores := make([]scored, 0, len(agents))
	for i, a := range agents {
		dev := 0
		if a.DistPath != nil {
			dev = a.DistPath.Get(a.Current)
		}
		scores = append(scores, scored{idx: i, score: dev})
	}
	sortDescByDeviation(scores)
	out := make([]int, 0, n)
	for i := 0; i < n && i < len(scores); i++ {
		out = append(out, scores[i].idx)
	}
	return out
}

func sortDescByScore(s []struct {
	idx   int
	score int32
}) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].score < s[j].score; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortDescByDeviation(s []struct {
	idx   int
	score int
}) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].score < s[j].score; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
