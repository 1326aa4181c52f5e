// Package action translates chosen target cells into rotate/forward/wait
// actions and resolves transitive follow-dependencies (C8).
//
// Orientation encoding follows the original source's inc/States.h
// exactly: 0 east, 1 south, 2 west, 3 north.
package action

import "github.com/bkhnk48/gridflow/grid"

// Action is one of the four per-timestep moves an agent can take.
type Action int

const (
	Wait Action = iota
	Forward
	ClockwiseRotate
	CounterClockwiseRotate
)

func (a Action) String() string {
	switch a {
	case Wait:
		return "Wait"
	case Forward:
		return "Forward"
	case ClockwiseRotate:
		return "ClockwiseRotate"
	case CounterClockwiseRotate:
		return "CounterClockwiseRotate"
	default:
		return "?"
	}
}

// Orientation is an agent's facing direction; numerically identical to
// grid.Direction (0 east, 1 south, 2 west, 3 north) so the two can be
// converted directly.
type Orientation = grid.Direction

// Project computes the single action that moves an agent facing
// orientation from prevLocation toward nextTarget. g is used only to
// derive the direction between adjacent cells.
func Project(g *grid.Grid, prevLocation, nextTarget int, orientation Orientation) Action {
	if prevLocation == nextTarget {
		return Wait
	}
	targetDir := g.DirectionTo(prevLocation, nextTarget)

	switch targetDir {
	case orientation:
		return Forward
	case clockwiseOf(orientation):
		return ClockwiseRotate
	case counterClockwiseOf(orientation):
		return CounterClockwiseRotate
	default:
		// 180 degrees: deterministic tie-break, always turn clockwise.
		return ClockwiseRotate
	}
}

func clockwiseOf(o Orientation) Orientation {
	return (o + 1) % 4
}

func counterClockwiseOf(o Orientation) Orientation {
	return (o + 3) % 4
}

// NextOrientation returns the orientation an agent ends the timestep
// facing, given the action it took. Forward leaves orientation
// unchanged; the rotations turn 90 degrees; Wait is unchanged.
func NextOrientation(o Orientation, a Action) Orientation {
	switch a {
	case ClockwiseRotate:
		return clockwiseOf(o)
	case CounterClockwiseRotate:
		return counterClockwiseOf(o)
	default:
		return o
	}
}

// Decision is one agent's chosen action for the follow-check cascade:
// where it currently stands, where it is headed, and its projected
// action before the cascade is applied.
type Decision struct {
	PrevLocation int
	NextLocation int
	Action       Action
}

// ResolveFollowSafety demotes a trailing agent's Forward to Wait when
// the agent ahead of it (the one currently occupying the trailing
// agent's target cell) is not itself moving Forward. Processed via
// memoized DFS keyed by prev_location -> agent, so a long convoy
// resolves in one pass instead of one demotion propagating a timestep
// late.
func ResolveFollowSafety(decisions []Decision) []Action {
	resolved := make([]Action, len(decisions))
	for i := range decisions {
		resolved[i] = decisions[i].Action
	}

	locationToAgent := make(map[int]int, len(decisions))
	for i, d := range decisions {
		locationToAgent[d.PrevLocation] = i
	}

	memo := make(map[int]bool, len(decisions))
	visiting := make(map[int]bool, len(decisions))

	var isSafeForward func(agentID int) bool
	isSafeForward = func(agentID int) bool {
		if v, ok := memo[agentID]; ok {
			return v
		}
		if visiting[agentID] {
			// Cycle (e.g. a rotating convoy): unsafe, breaks recursion.
			memo[agentID] = false
			return false
		}
		d := decisions[agentID]
		if d.Action != Forward {
			memo[agentID] = false
			return false
		}

		leadAgent, occupied := locationToAgent[d.NextLocation]
		if !occupied {
			memo[agentID] = true
			return true
		}

		visiting[agentID] = true
		safe := isSafeForward(leadAgent)
		visiting[agentID] = false

		memo[agentID] = safe
		return safe
	}

	for i := range decisions {
		if decisions[i].Action == Forward && !isSafeForward(i) {
			resolved[i] = Wait
		}
	}
	return resolved
}
