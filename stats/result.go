package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// Result stores the outcome of a single ILS run. Ported from
// original_source/pyvrp/Result.py.
type Result struct {
	RunID         uuid.UUID
	Best          *vrpsolution.Solution
	Stats         *Statistics
	NumIterations int
	Runtime       time.Duration
}

// NewResult returns a Result stamped with a fresh RunID, validating that
// numIterations/runtime are non-negative (a negative value can only mean a
// caller bug, so this panics rather than returning an error).
func NewResult(best *vrpsolution.Solution, statistics *Statistics, numIterations int, runtime time.Duration) *Result {
	if numIterations < 0 {
		panic("stats: negative number of iterations not understood")
	}
	if runtime < 0 {
		panic("stats: negative runtime not understood")
	}
	return &Result{
		RunID:         uuid.New(),
		Best:          best,
		Stats:         statistics,
		NumIterations: numIterations,
		Runtime:       runtime,
	}
}

// Cost returns the best solution's feasible objective value, or +Inf if it
// is infeasible — an unpenalized cost (zero penalty weights), matching the
// Python original's "fresh CostEvaluator([0]*dims, 0, 0)" construction.
func (r *Result) Cost(pd *vrpcore.ProblemData) float64 {
	if !r.Best.IsFeasible() {
		return math.Inf(1)
	}
	ce := costeval.New(vrpcore.NewVector(pd.NumLoadDimensions()), 0, 0, 0, 0)
	return float64(ce.Cost(pd, r.Best))
}

// IsFeasible reports whether the best solution is feasible.
func (r *Result) IsFeasible() bool { return r.Best.IsFeasible() }

// Summary returns a short human-readable result summary.
func (r *Result) Summary(pd *vrpcore.ProblemData) string {
	objStr := "INFEASIBLE"
	if r.IsFeasible() {
		objStr = fmt.Sprintf("%v", r.Cost(pd))
	}

	lines := []string{
		"Solution results",
		"================",
		fmt.Sprintf("      run ID: %s", r.RunID),
		fmt.Sprintf("    # routes: %d", r.Best.NumRoutes()),
		fmt.Sprintf("   # clients: %d", r.Best.NumClients()-len(r.Best.Unvisited)),
		fmt.Sprintf("   objective: %s", objStr),
		fmt.Sprintf("    distance: %d", r.Best.Distance()),
		fmt.Sprintf("    duration: %d", r.Best.Duration()),
		fmt.Sprintf("# iterations: %d", r.NumIterations),
		fmt.Sprintf("    run-time: %.2f seconds", r.Runtime.Seconds()),
	}
	return strings.Join(lines, "\n")
}

// String returns the same text as Summary (Result cannot satisfy
// fmt.Stringer directly since pricing the best solution needs pd;
// route-by-route detail is left to the vrplib solution writer, which
// already knows the VRPLIB output format).
func (r *Result) String(pd *vrpcore.ProblemData) string {
	return r.Summary(pd)
}
