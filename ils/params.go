// Package ils implements the top-level Iterated Local Search driver: it
// tracks the best and current incumbent, triggers restarts after stagnation,
// feeds the acceptance criterion a moving history of candidate costs, and
// stops once the supplied stop.Criterion says so. Ported from
// original_source/pyvrp/IteratedLocalSearch.py.
package ils

// Params configures an IteratedLocalSearch run. Ported from
// IteratedLocalSearchParams in the Python original.
type Params struct {
	// NumItersNoImprovement is how many consecutive non-improving
	// iterations trigger a restart from the best-known solution.
	NumItersNoImprovement int
	// InitialAcceptWeight is the starting weight fed into the acceptance
	// criterion's moving-average/best blend.
	InitialAcceptWeight float64
	// HistoryLength is the size of the candidate-cost moving window.
	HistoryLength int
	// Budget is the number of iterations over which InitialAcceptWeight
	// decays linearly to zero, then resets.
	Budget int
}

// DefaultParams mirrors the Python dataclass defaults.
func DefaultParams() Params {
	return Params{
		NumItersNoImprovement: 20_000,
		InitialAcceptWeight:   1,
		HistoryLength:         500,
		Budget:                20_000,
	}
}

// Validate panics on out-of-range fields, matching the established
// fail-fast-in-the-constructor idiom (costeval.New, penalty.New,
// accept.New*, stop.New*).
func (p Params) Validate() {
	if p.NumItersNoImprovement < 0 {
		panic("ils: numItersNoImprovement must be >= 0")
	}
	if p.InitialAcceptWeight < 0 || p.InitialAcceptWeight > 1 {
		panic("ils: initialAcceptWeight must be in [0, 1]")
	}
	if p.HistoryLength <= 0 {
		panic("ils: historyLength must be positive")
	}
	if p.Budget < 0 {
		panic("ils: budget must be >= 0")
	}
}
