// Package accept implements the acceptance criteria names:
// whether a candidate solution's cost should replace the search's current
// incumbent. Ported from original_source/pyvrp/accept/*.py.
package accept

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Criterion decides whether to accept candidate as the new current
// solution, given the best and current costs observed so far. All costs
// are penalized costs (see costeval.CostEvaluator.PenalisedCost).
type Criterion interface {
	Accept(best, current, candidate int64) bool
}

// MovingBestAverageThreshold accepts a candidate if its cost is at most a
// convex combination of the recent best and recent average observed
// candidate cost, with the averaging weight decaying to zero as the search
// approaches its runtime or iteration budget. Ported 1:1 from
// original_source/pyvrp/accept/MovingBestAverageThreshold.py (Máximo &
// Nascimento 2021).
type MovingBestAverageThreshold struct {
	initialWeight float64
	historyLength int
	maxRuntime    time.Duration // 0 means unlimited
	maxIterations int           // 0 means unlimited
	history       []float64
	startTime     time.Time
	iters         int
}

// NewMovingBestAverageThreshold returns a criterion with the given initial
// weight (must be in [0, 1]) and history length (must be positive).
// maxRuntime==0 or maxIterations==0 means that budget is ignored when
// computing the decay weight, matching the Python default of None.
func NewMovingBestAverageThreshold(initialWeight float64, historyLength int, maxRuntime time.Duration, maxIterations int) *MovingBestAverageThreshold {
	if initialWeight < 0 || initialWeight > 1 {
		panic("accept: initialWeight must be in [0, 1]")
	}
	if historyLength <= 0 {
		panic("accept: historyLength must be positive")
	}
	return &MovingBestAverageThreshold{
		initialWeight: initialWeight,
		historyLength: historyLength,
		maxRuntime:    maxRuntime,
		maxIterations: maxIterations,
		history:       make([]float64, historyLength),
		startTime:     time.Now(),
	}
}

func (c *MovingBestAverageThreshold) runtimeBudget() float64 {
	if c.maxRuntime == 0 {
		return 1
	}
	elapsed := time.Since(c.startTime)
	if elapsed > c.maxRuntime {
		return 0
	}
	return 1 - float64(elapsed)/float64(c.maxRuntime)
}

func (c *MovingBestAverageThreshold) iterationBudget() float64 {
	if c.maxIterations == 0 {
		return 1
	}
	if c.iters > c.maxIterations {
		return 0
	}
	return 1 - float64(c.iters)/float64(c.maxIterations)
}

// Accept implements Criterion.
func (c *MovingBestAverageThreshold) Accept(best, current, candidate int64) bool {
	idx := c.iters % c.historyLength
	c.history[idx] = float64(candidate)

	observed := c.history
	if c.iters < c.historyLength {
		observed = c.history[:c.iters+1]
	}

	recentBest := floats.Min(observed)
	recentAvg := stat.Mean(observed, nil)

	budget := c.runtimeBudget()
	if ib := c.iterationBudget(); ib < budget {
		budget = ib
	}
	weight := c.initialWeight * budget

	c.iters++

	threshold := (1-weight)*recentBest + weight*recentAvg
	return float64(candidate) <= threshold
}
