package planner

// TaskQueue is one agent's ordered goal list plus the spawn-cell dummy
// goal fallback, with explicit advancement semantics grounded on the
// original source's Simulator/Executor task-completion bookkeeping.
type TaskQueue struct {
	spawn   int
	pending []int
}

// NewTaskQueue creates a queue for an agent whose timestep-0 location
// is spawn, used as the dummy goal when pending is ever empty.
func NewTaskQueue(spawn int) *TaskQueue {
	return &TaskQueue{spawn: spawn}
}

// SetGoals replaces the pending goal list (the caller's
// goal_locations[i] for this planning call).
func (q *TaskQueue) SetGoals(goals []int) {
	q.pending = goals
}

// Current returns the goal this agent should plan toward this
// timestep: the head of pending, or the dummy spawn-cell goal if
// pending is empty.
func (q *TaskQueue) Current() int {
	if len(q.pending) == 0 {
		return q.spawn
	}
	return q.pending[0]
}

// Advance reports that the agent has reached its current goal,
// dropping it from the pending list.
func (q *TaskQueue) Advance() {
	if len(q.pending) > 0 {
		q.pending = q.pending[1:]
	}
}

// HasRealGoal reports whether the queue has a genuine pending goal
// (as opposed to falling back to the dummy spawn cell).
func (q *TaskQueue) HasRealGoal() bool {
	return len(q.pending) > 0
}
