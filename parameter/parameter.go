// Package parameter holds the planner's tunable constants, grouped by
// concern, following the teacher's parameter package convention of
// grouped const blocks with one doc comment per constant.
package parameter

// PIBT Budget Estimation
const (
	// PIBTRuntimePer100Agents estimates milliseconds of PIBT runtime per
	// 100 agents, used when no runtime history exists yet.
	PIBTRuntimePer100Agents = 5.0

	// PIBTHistoryWindow is the number of past PIBT runtimes kept in the
	// rolling budget-estimation window.
	PIBTHistoryWindow = 10

	// DeadlineToleranceMs is subtracted from the remaining time budget
	// before handing the rest to the LNS orchestrator, guarding against
	// scheduling jitter around the deadline.
	DeadlineToleranceMs = 2.0
)

// LNS Orchestrator
const (
	// NeighborhoodSize is the number of agents replanned together in
	// each LNS iteration (8-32 typical).
	NeighborhoodSize = 16

	// BanditLearningRate is the EXP3 multiplicative-weight learning rate.
	BanditLearningRate = 0.3

	// BanditScoutRate is the epsilon-greedy exploration probability.
	BanditScoutRate = 0.10

	// BanditMinWeight is the floor applied to any mode's weight so no
	// mode is ever starved to zero selection probability.
	BanditMinWeight = 0.02
)

// Guide-Path Congestion Cost (C4)
const (
	// FlowAlpha weights the penalty for entering a cell against
	// existing opposing flow.
	FlowAlpha = 1.0

	// FlowBeta weights the penalty for perpendicular flow through a
	// cell, kept smaller than the opposing-flow penalty: entering
	// against flow should cost more than merely crossing it.
	FlowBeta = 0.5
)

// Randomness
const (
	// DefaultSeed is the planner's default random seed.
	DefaultSeed = 0
)
