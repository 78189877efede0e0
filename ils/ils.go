package ils

import (
	"time"

	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/penalty"
	"github.com/katalvlaran/vrpsolve/stats"
	"github.com/katalvlaran/vrpsolve/stop"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// SearchMethod produces a candidate solution from the current incumbent.
// Typically a destroy/repair perturbation followed by LocalSearch (see
// PerturbedLocalSearch), but any pluggable strategy can satisfy this.
type SearchMethod interface {
	Search(current *vrpsolution.Solution, ce costeval.CostEvaluator) (*vrpsolution.Solution, error)
}

// fractionRemainer is implemented by stop criteria that can report how
// much of their own budget is left (stop.MaxIterations and
// stop.MultipleCriteria).
// Criteria that don't implement it are treated as unlimited (fraction 1),
// matching the Python original's "omitted if its limit is None".
type fractionRemainer interface {
	FractionRemaining() float64
}

// IteratedLocalSearch is the top-level driver: it owns the current/best
// incumbents, the candidate-cost History, and the iteration/budget
// counters, and repeatedly calls a SearchMethod until the stop criterion
// fires. Ported from original_source/pyvrp/IteratedLocalSearch.py.
type IteratedLocalSearch struct {
	data    *vrpcore.ProblemData
	pm      *penalty.Manager
	search  SearchMethod
	initial *vrpsolution.Solution
	params  Params
}

// New constructs an IteratedLocalSearch. Panics if params is invalid.
func New(data *vrpcore.ProblemData, pm *penalty.Manager, search SearchMethod, initial *vrpsolution.Solution, params Params) *IteratedLocalSearch {
	params.Validate()
	return &IteratedLocalSearch{data: data, pm: pm, search: search, initial: initial, params: params}
}

// registerSolution feeds a candidate's feasibility signals back into the
// penalty manager, translating vrpsolution.Solution's accessors into the
// (loadExcess, timeWarp, excessDistance, excessDuration, coverageViolations)
// shape penalty.Manager.Register expects.
func registerSolution(pm *penalty.Manager, data *vrpcore.ProblemData, s *vrpsolution.Solution) {
	pm.Register(
		s.ExcessLoad(data.NumLoadDimensions()),
		s.TimeWarp(),
		s.ExcessDistance(),
		s.ExcessDuration(),
		len(s.UncoveredGroups)+len(s.OverCoveredGroups)+len(s.MissingRequired),
	)
}

// Run executes the ILS loop until stop fires, returning a stats.Result.
func (ils *IteratedLocalSearch) Run(stopCriterion stop.Criterion, collectStats bool) (*stats.Result, error) {
	hist := newHistory(ils.params.HistoryLength)
	collector := stats.NewStatistics(collectStats)

	start := time.Now()
	iters, itersNoImprovement, itersBudget := 0, 0, 0
	best := ils.initial
	current := ils.initial

	ce := ils.pm.CostEvaluator()
	for !stopCriterion.Stop(ce.Cost(ils.data, best)) {
		iters++
		itersNoImprovement++
		itersBudget++

		if ils.params.NumItersNoImprovement > 0 && itersNoImprovement == ils.params.NumItersNoImprovement {
			hist.clear()
			hist.append(float64(ce.PenalisedCost(ils.data, best)))
			current = best
			itersNoImprovement = 0
		}

		ce = ils.pm.CostEvaluator()
		candidate, err := ils.search.Search(current, ce)
		if err != nil {
			return nil, err
		}
		registerSolution(ils.pm, ils.data, candidate)

		if ce.Cost(ils.data, candidate) < ce.Cost(ils.data, best) {
			best = candidate
			itersNoImprovement = 0
		}

		candCost := ce.PenalisedCost(ils.data, candidate)
		hist.append(float64(candCost))

		weight := ils.params.InitialAcceptWeight * ils.fractionRemaining(stopCriterion)
		if ils.params.Budget > 0 {
			weight *= 1 - float64(itersBudget)/float64(ils.params.Budget)
		}
		threshold := (1-weight)*hist.min() + weight*hist.mean()

		if float64(candCost) <= threshold || !best.IsFeasible() {
			current = candidate
		}

		if ils.params.Budget > 0 && itersBudget >= ils.params.Budget {
			itersBudget = 0
		}

		collector.Collect(
			ce.PenalisedCost(ils.data, current), current.IsFeasible(),
			candCost, candidate.IsFeasible(),
			ce.PenalisedCost(ils.data, best), best.IsFeasible(),
			threshold,
		)
	}

	runtime := time.Since(start)
	return stats.NewResult(best, collector, iters, runtime), nil
}

func (ils *IteratedLocalSearch) fractionRemaining(c stop.Criterion) float64 {
	if fr, ok := c.(fractionRemainer); ok {
		return fr.FractionRemaining()
	}
	return 1
}
