// Package lns implements the Frank-Wolfe congestion-descent orchestrator
// (C6), including its adaptive neighborhood-selection mode chooser.
package lns

import (
	"math"
	"math/rand"
)

// Mode is one of the three neighborhood-selection strategies the
// orchestrator alternates between.
type Mode int

const (
	Random Mode = iota
	Congestion
	Deviation
	modeCount
)

func (m Mode) String() string {
	switch m {
	case Random:
		return "random"
	case Congestion:
		return "congestion"
	case Deviation:
		return "deviation"
	default:
		return "?"
	}
}

// Bandit chooses a selection Mode adaptively by past improvement yield,
// an EXP3 multiplicative-weights scheme.
//
// Grounded directly on the teacher's system/adaptation.go AdaptationSystem:
// applyEXP3's multiplicative weight update and minimum-weight floor, and
// samplePool's epsilon-greedy scout-vs-exploit CDF sampling, ported from
// "route populations per enemy subtype" to "selection modes over
// {RANDOM, CONGESTION, DEVIATION}" with fitness defined as sum-of-costs
// improvement per LNS pass instead of death-distance.
type Bandit struct {
	weights      [modeCount]float64
	learningRate float64
	scoutRate    float64
	minWeight    float64
	rng          *rand.Rand
}

// NewBandit builds a Bandit with uniform initial weights.
func NewBandit(seed int64, learningRate, scoutRate, minWeight float64) *Bandit {
	b := &Bandit{
		learningRate: learningRate,
		scoutRate:    scoutRate,
		minWeight:    minWeight,
		rng:          rand.New(rand.NewSource(seed)),
	}
	for i := range b.weights {
		b.weights[i] = 1.0 / float64(modeCount)
	}
	return b
}

// Select picks a mode: with probability scoutRate, uniformly at random
// (exploration); otherwise by sampling the weight distribution
// (exploitation), by a linear scan of the cumulative weights.
func (b *Bandit) Select() Mode {
	if b.rng.Float64() < b.scoutRate {
		return Mode(b.rng.Intn(int(modeCount)))
	}

	r := b.rng.Float64()
	cumulative := 0.0
	for i, w := range b.weights {
		cumulative += w
		if r <= cumulative {
			return Mode(i)
		}
	}
	return Mode(modeCount - 1)
}

// Update applies the EXP3 multiplicative-weight rule for the mode just
// tried, using improvement (reduction in sum-of-costs; may be negative)
// as the reward signal, mirroring applyEXP3's
// `pop.Weights[i] *= math.Exp(learningRate * avgFitness)` step.
func (b *Bandit) Update(m Mode, improvement float64) {
	b.weights[m] *= math.Exp(b.learningRate * improvement)
	b.normalize()
}

func (b *Bandit) normalize() {
	sum := 0.0
	for _, w := range b.weights {
		sum += w
	}
	if sum <= 0 {
		for i := range b.weights {
			b.weights[i] = 1.0 / float64(modeCount)
		}
		return
	}
	floored := false
	for i := range b.weights {
		b.weights[i] /= sum
		if b.weights[i] < b.minWeight {
			b.weights[i] = b.minWeight
			floored = true
		}
	}
	if floored {
		// Keep floored weights at the floor and rescale the others so
		// the total stays 1.
		free, rest := 1.0, 0.0
		for _, w := range b.weights {
			if w <= b.minWeight {
				free -= b.minWeight
			} else {
				rest += w
			}
		}
		for i := range b.weights {
			if b.weights[i] > b.minWeight {
				b.weights[i] *= free / rest
			}
		}
	}
}

// Weights returns a snapshot of the current mode weights, for metrics.
func (b *Bandit) Weights() [3]float64 {
	return [3]float64{b.weights[0], b.weights[1], b.weights[2]}
}
