package perturb

import "time"

// ConvergenceParams tunes how aggressively ConvergenceManager adjusts the
// destroy size; defaults match original_source's ConvergenceManager.py.
type ConvergenceParams struct {
	SolutionsBetweenUpdates int
	DestroyIncrease         int
	DestroyDecrease         int
	TargetPairsMax          float64
	TargetPairsMin          float64
}

// DefaultConvergenceParams matches PyVRP's ConvergenceParams defaults.
func DefaultConvergenceParams() ConvergenceParams {
	return ConvergenceParams{
		SolutionsBetweenUpdates: 100,
		DestroyIncrease:         1,
		DestroyDecrease:         5,
		TargetPairsMax:          20,
		TargetPairsMin:          10,
	}
}

const (
	minDestroy = 1
	maxDestroy = 1000
)

// ConvergenceManager adapts the number of clients each destroy call
// removes (num_destroy) so that the mean number of "broken pairs" (edges
// cut by a destroy call) tracks a target that shrinks linearly over the
// course of the solve's runtime budget — ported 1:1 from
// original_source/pyvrp/ConvergenceManager.py.
type ConvergenceManager struct {
	numDestroy int
	params     ConvergenceParams
	maxRuntime time.Duration

	history   []int
	startedAt time.Time
}

// NewConvergenceManager returns a manager starting from initialNumDestroy,
// tracking elapsed time against maxRuntime.
func NewConvergenceManager(initialNumDestroy int, maxRuntime time.Duration, params ConvergenceParams) *ConvergenceManager {
	return &ConvergenceManager{numDestroy: initialNumDestroy, params: params, maxRuntime: maxRuntime}
}

// NumDestroy returns the current destroy-call size.
func (cm *ConvergenceManager) NumDestroy() int { return cm.numDestroy }

// targetPairs returns the current target mean broken-pairs count, which
// decays linearly from TargetPairsMax to TargetPairsMin over maxRuntime.
func (cm *ConvergenceManager) targetPairs() float64 {
	if cm.startedAt.IsZero() {
		cm.startedAt = time.Now()
	}
	pctTime := float64(time.Since(cm.startedAt)) / float64(cm.maxRuntime)
	delta := cm.params.TargetPairsMax - cm.params.TargetPairsMin
	return cm.params.TargetPairsMin + delta*(1-pctTime)
}

func (cm *ConvergenceManager) compute(mean float64) int {
	diff := cm.targetPairs() - mean
	if diff > -1 && diff < 1 {
		return cm.numDestroy
	}

	next := cm.numDestroy
	if diff > 0 {
		next += cm.params.DestroyIncrease
	} else {
		next -= cm.params.DestroyDecrease
	}
	return clampInt(next, minDestroy, maxDestroy)
}

// Register records the number of broken pairs from the most recent
// destroy call, recomputing NumDestroy once SolutionsBetweenUpdates
// observations have accumulated.
func (cm *ConvergenceManager) Register(brokenPairs int) {
	cm.history = append(cm.history, brokenPairs)
	if len(cm.history) < cm.params.SolutionsBetweenUpdates {
		return
	}

	var sum int
	for _, h := range cm.history {
		sum += h
	}
	mean := float64(sum) / float64(len(cm.history))

	cm.numDestroy = cm.compute(mean)
	cm.history = cm.history[:0]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
