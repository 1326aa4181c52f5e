// Package planner wires components C1-C8 into the public lifecycle:
// Initialize once, then Plan once per simulator timestep.
//
// Grounded on the original source's default_planner/planner.cpp
// (initialize, plan): the rolling PIBT-runtime budget window, the
// dummy-goal-at-timestep-0 fallback, and the priority shuffle/update
// loop are ported from there almost directly.
package planner

import (
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bkhnk48/gridflow/action"
	"github.com/bkhnk48/gridflow/config"
	"github.com/bkhnk48/gridflow/distpath"
	"github.com/bkhnk48/gridflow/flow"
	"github.com/bkhnk48/gridflow/grid"
	"github.com/bkhnk48/gridflow/guidepath"
	"github.com/bkhnk48/gridflow/heuristic"
	"github.com/bkhnk48/gridflow/lns"
	"github.com/bkhnk48/gridflow/metricsx"
	"github.com/bkhnk48/gridflow/pibt"
)

// AgentInput is one agent's state for a single Plan call.
type AgentInput struct {
	Location    int
	Orientation grid.Direction
	Goals       []int // nil means "no new assignment", keep existing pending list
}

// agentRuntime is one agent's persistent state across Plan calls:
// trajectory, distance-to-path index, goal, and priority, reused across
// calls and reset/relabeled on trajectory change.
type agentRuntime struct {
	tasks    *TaskQueue
	priority *pibt.Priority
	lastGoal int
	state    *lns.AgentState
}

// Planner is the top-level planning core. The zero value is not usable;
// construct with Initialize.
type Planner struct {
	g         *grid.Grid
	cache     *heuristic.Cache
	flowTable *flow.Table
	builder   *guidepath.Builder
	bandit    *lns.Bandit
	orch      *lns.Orchestrator
	rng       *rand.Rand

	numAgents int
	agents    []agentRuntime

	pibtHistory   []float64
	historyNext   int
	historyFilled int

	cfg     config.Tunables
	metrics *metricsx.Registry
	logger  *log.Logger

	sawTimestepZero bool
}

// Initialize builds a Planner over a fixed map and agent count.
// preprocessTimeMs is accepted for interface fidelity; this planner does
// no preprocessing beyond copying the map and allocating per-agent
// slots (all per-goal heuristic tables are built lazily), so it is not
// otherwise consumed.
func Initialize(rows, cols int, obstacleMask []bool, numAgents int, preprocessTimeMs float64, cfg config.Tunables, logger *log.Logger, metrics *metricsx.Registry) (*Planner, error) {
	if numAgents <= 0 {
		return nil, newFatal(InvalidInput, "num_agents must be > 0")
	}
	if len(obstacleMask) != rows*cols {
		return nil, newFatal(InvalidInput, "obstacle_mask length does not match rows*cols")
	}

	g := grid.New(rows, cols, obstacleMask)
	cache := heuristic.NewCache(g)
	flowTable := flow.NewTable(g)
	builder := guidepath.New(g, cache, flowTable, cfg.FlowAlpha, cfg.FlowBeta)
	bandit := lns.NewBandit(cfg.Seed, cfg.BanditLearningRate, cfg.BanditScoutRate, cfg.BanditMinWeight)
	orch := lns.NewOrchestrator(g, flowTable, builder, bandit, cfg.Seed, cfg.NeighborhoodSize)
	rng := rand.New(rand.NewSource(cfg.Seed))

	p := &Planner{
		g:           g,
		cache:       cache,
		flowTable:   flowTable,
		builder:     builder,
		bandit:      bandit,
		orch:        orch,
		rng:         rng,
		numAgents:   numAgents,
		agents:      make([]agentRuntime, numAgents),
		pibtHistory: make([]float64, cfg.PIBTHistoryWindow),
		cfg:         cfg,
		metrics:     metrics,
		logger:      logger,
	}
	return p, nil
}

// Plan selects one action per agent for the current timestep. Returns
// an error only for InvalidInput (an agent count that differs from
// Initialize's); a broken internal invariant such as flow underflow
// panics rather than returning an error. Otherwise it always returns a
// complete action vector, even when the deadline truncated LNS early:
// PIBT always runs to completion.
func (p *Planner) Plan(agents []AgentInput, currTimestep int, timeLimitMs float64) ([]action.Action, error) {
	if len(agents) != p.numAgents {
		return nil, newFatal(InvalidInput, "agents length does not match num_agents from Initialize")
	}
	start := time.Now()

	if currTimestep == 0 && !p.sawTimestepZero {
		p.setupAgents(agents)
		p.sawTimestepZero = true
	}

	pibtBudgetMs := p.estimatePIBTBudget()
	remainingForLNS := timeLimitMs - pibtBudgetMs - p.cfg.DeadlineToleranceMs
	if remainingForLNS < 0 {
		remainingForLNS = 0
	}
	lnsDeadline := start.Add(time.Duration(remainingForLNS * float64(time.Millisecond)))

	p.updateTaskAndPriority(agents)

	agentStates := make([]*lns.AgentState, p.numAgents)
	for i := range p.agents {
		p.agents[i].state.Current = agents[i].Location
		p.agents[i].state.Goal = p.agents[i].tasks.Current()
		agentStates[i] = p.agents[i].state
	}

	lnsStats := p.orch.Run(agentStates, lnsDeadline)
	p.recordLNSStats(lnsStats)

	pibtStart := time.Now()
	actions := p.runPIBT(agents)
	pibtElapsed := time.Since(pibtStart).Seconds() * 1000.0
	p.recordPIBTRuntime(pibtElapsed)

	if p.metrics != nil {
		p.metrics.Floats.Get(metricsx.KeyPIBTRuntimeMs).Set(pibtElapsed)
	}
	if p.logger != nil {
		p.logger.Debug("plan", "timestep", currTimestep, "pibt_ms", pibtElapsed, "lns_iterations", lnsStats.Iterations, "soc", lnsStats.SumOfCosts)
		if time.Since(start).Seconds()*1000.0 > timeLimitMs {
			p.logger.Warn("plan exceeded time_limit_ms", "timestep", currTimestep)
		}
	}

	return actions, nil
}

// setupAgents records each agent's timestep-0 location as its dummy
// goal fallback and seeds its priority from a random shuffle, per
// planner.cpp's dummy_goals and priority-shuffle setup.
func (p *Planner) setupAgents(agents []AgentInput) {
	for i := range agents {
		p.agents[i] = agentRuntime{
			tasks:    NewTaskQueue(agents[i].Location),
			priority: pibt.NewPriority(p.rng),
			lastGoal: agents[i].Location,
			state: &lns.AgentState{
				Current:  agents[i].Location,
				Goal:     agents[i].Location,
				DistPath: distpath.New(p.g),
			},
		}
	}
}

// updateTaskAndPriority applies new goal assignments, detects task
// completion (agent's location matches its previously active goal), and
// ticks each agent's priority, including the dead-end bonus.
func (p *Planner) updateTaskAndPriority(agents []AgentInput) {
	for i := range p.agents {
		rt := &p.agents[i]
		if agents[i].Goals != nil {
			rt.tasks.SetGoals(agents[i].Goals)
		}

		finished := agents[i].Location == rt.lastGoal && rt.tasks.HasRealGoal() && agents[i].Location == rt.tasks.Current()
		if finished {
			rt.tasks.Advance()
		}

		newGoal := rt.tasks.Current()
		taskFinishedThisTick := newGoal != rt.lastGoal
		isDeadEnd := p.g.DeadEnd(agents[i].Location)
		rt.priority.Tick(taskFinishedThisTick, isDeadEnd)
		rt.lastGoal = newGoal
	}
}

// costFunc computes a candidate cell's cost-to-goal: distance to path
// plus remaining when a guide trajectory exists, else Manhattan.
func (p *Planner) costFunc(agentID, cell int) int {
	rt := &p.agents[agentID]
	if rt.state.HasPath {
		return rt.state.DistPath.Get(cell)
	}
	return p.cache.Manhattan(cell, rt.state.Goal)
}

// runPIBT runs C7 for one timestep then projects the result through C8,
// including the follow-safety cascade.
func (p *Planner) runPIBT(agents []AgentInput) []action.Action {
	current := make([]int, p.numAgents)
	for i := range agents {
		current[i] = agents[i].Location
	}

	order := p.priorityOrder()
	solver := pibt.NewSolver(p.g, current, p.costFunc, p.rng)
	next := solver.Solve(order)

	decisions := make([]action.Decision, p.numAgents)
	for i := range agents {
		act := action.Project(p.g, agents[i].Location, next[i], agents[i].Orientation)
		decisions[i] = action.Decision{
			PrevLocation: agents[i].Location,
			NextLocation: next[i],
			Action:       act,
		}
	}

	return action.ResolveFollowSafety(decisions)
}

// priorityOrder returns agent indices sorted by descending priority
// score, the order PIBT visits agents in.
func (p *Planner) priorityOrder() []int {
	order := make([]int, p.numAgents)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return p.agents[order[i]].priority.Score() > p.agents[order[j]].priority.Score()
	})
	return order
}

// estimatePIBTBudget returns the rolling-window budget estimate: the
// max of the last PIBTHistoryWindow runtimes, or a per-100-agents
// estimate if no history exists yet.
func (p *Planner) estimatePIBTBudget() float64 {
	if p.historyFilled == 0 {
		return p.cfg.PIBTRuntimePer100Agents * float64(p.numAgents) / 100.0
	}
	max := 0.0
	for i := 0; i < p.historyFilled; i++ {
		if p.pibtHistory[i] > max {
			max = p.pibtHistory[i]
		}
	}
	return max
}

func (p *Planner) recordPIBTRuntime(ms float64) {
	if len(p.pibtHistory) == 0 {
		return
	}
	p.pibtHistory[p.historyNext] = ms
	p.historyNext = (p.historyNext + 1) % len(p.pibtHistory)
	if p.historyFilled < len(p.pibtHistory) {
		p.historyFilled++
	}
}

func (p *Planner) recordLNSStats(stats lns.Stats) {
	if p.metrics == nil {
		return
	}
	p.metrics.Ints.Get(metricsx.KeyLNSIterations).Store(int64(stats.Iterations))
	p.metrics.Ints.Get(metricsx.KeyLNSReroutes).Store(int64(stats.Reroutes))
	p.metrics.Floats.Get(metricsx.KeySumOfCosts).Set(stats.SumOfCosts)
	p.metrics.Ints.Get(metricsx.KeyUnreachableGoals).Store(int64(stats.UnreachableCount))
	if stats.DeadlineTruncated {
		p.metrics.Ints.Get(metricsx.KeyDeadlineTruncations).Add(1)
	}
	p.metrics.Ints.Get(metricsx.KeyHeuristicTables).Store(int64(p.cache.TableCount()))
}
