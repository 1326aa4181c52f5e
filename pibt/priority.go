package pibt

import "math/rand"

// DeadEndBonus is added to an agent's priority when it occupies a
// single-neighbor cell, to break it out of contested corridors faster.
const DeadEndBonus = 10.0

// Priority tracks one agent's floating priority score across timesteps:
// a random shuffle base, +1 per tick without task completion, reset to
// base on completion, plus the dead-end bonus.
type Priority struct {
	base    float64
	current float64
}

// NewPriority seeds a priority with a uniform-random base in [0,1).
func NewPriority(rng *rand.Rand) *Priority {
	base := rng.Float64()
	return &Priority{base: base, current: base}
}

// Tick advances the priority by one timestep: +1 if the task is not yet
// finished, reset to base if it just finished, plus the dead-end bonus
// if isDeadEnd.
func (p *Priority) Tick(taskFinished, isDeadEnd bool) {
	if taskFinished {
		p.current = p.base
	} else {
		p.current++
	}
	if isDeadEnd {
		p.current += DeadEndBonus
	}
}

// Score returns the current priority value used to sort agents for the
// outer PIBT iteration.
func (p *Priority) Score() float64 { return p.current }

// ShuffleBases assigns n priorities fresh random bases from rng, used
// at planner initialization.
func ShuffleBases(rng *rand.Rand, n int) []*Priority {
	out := make([]*Priority, n)
	for i := range out {
		out[i] = NewPriority(rng)
	}
	return out
}
