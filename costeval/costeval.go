// Package costeval turns a Solution (or an incremental move delta) into a
// scalar penalized cost under a set of per-constraint penalty weights.
//
// Design:
//   - Feasible-cost and penalized-cost agree on feasible solutions.
//   - All arithmetic is int64; there is no rounding or floating-point drift
//     across platforms (the cost domain is integer).
//   - Strict sentinels: no fmt.Errorf where a direct comparison suffices.
package costeval

import (
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// COST_INFEAS is the sentinel returned by Cost for an infeasible solution:
// larger than any realistic feasible cost, but still an ordinary int64 so
// callers may compare and sort by it safely.
const COST_INFEAS int64 = 1 << 60

// CostEvaluator prices solutions under the current penalty weights. Penalty
// weights are mutated between construction (see penalty.Manager), never
// concurrently with an in-flight Cost/PenalisedCost/DeltaCost call — one
// CostEvaluator snapshot belongs to one evaluation pass.
type CostEvaluator struct {
	LoadPenalty     vrpcore.Vector // per load dimension
	TimeWarpPenalty int64
	DistancePenalty int64
	DurationPenalty int64

	// GroupPenalty prices every coverage violation: an uncovered required
	// ClientGroup, an over-visited MutuallyExclusive ClientGroup, or an
	// individually required client left unvisited. See
	// vrpsolution.Solution.UncoveredGroups/OverCoveredGroups/MissingRequired.
	GroupPenalty int64
}

// New returns a CostEvaluator with the given penalty weights. Negative
// weights are a programmer error (penalties are never negative by
// construction elsewhere in the solver) and panic rather than silently
// clamping — see its invariant that penalties are non-negative.
func New(loadPenalty vrpcore.Vector, timeWarpPenalty, distancePenalty, durationPenalty, groupPenalty int64) CostEvaluator {
	for _, p := range loadPenalty {
		if p < 0 {
			panic("costeval: load penalty must be non-negative")
		}
	}
	if timeWarpPenalty < 0 || distancePenalty < 0 || durationPenalty < 0 || groupPenalty < 0 {
		panic("costeval: penalty weights must be non-negative")
	}
	return CostEvaluator{
		LoadPenalty:     loadPenalty.Clone(),
		TimeWarpPenalty: timeWarpPenalty,
		DistancePenalty: distancePenalty,
		DurationPenalty: durationPenalty,
		GroupPenalty:    groupPenalty,
	}
}

// Cost returns the feasible objective: fixed_cost + unit costs - prizes. If
// s is infeasible, returns COST_INFEAS; use PenalisedCost for search.
func (ce CostEvaluator) Cost(pd *vrpcore.ProblemData, s *vrpsolution.Solution) int64 {
	if !s.IsFeasible() {
		return COST_INFEAS
	}
	return ce.feasibleCost(pd, s)
}

// feasibleCost computes the objective term without checking feasibility,
// shared by Cost and PenalisedCost.
func (ce CostEvaluator) feasibleCost(pd *vrpcore.ProblemData, s *vrpsolution.Solution) int64 {
	var total int64
	for _, r := range s.Routes {
		vt := pd.VehicleType(r.VehicleType)
		total += vt.FixedCost
		total += vt.UnitDistanceCost * r.Distance
		total += vt.UnitDurationCost * r.Duration
	}
	total -= s.Prize()
	return total
}

// PenalisedCost returns the feasible-cost term plus Σ penalty·excess over
// every violated soft constraint: load, time warp, excess distance/duration,
// uncovered required groups, over-visited exclusive groups, and unvisited
// required clients. Always finite; never COST_INFEAS.
func (ce CostEvaluator) PenalisedCost(pd *vrpcore.ProblemData, s *vrpsolution.Solution) int64 {
	total := ce.feasibleCost(pd, s)

	excessLoad := s.ExcessLoad(pd.NumLoadDimensions())
	for i, excess := range excessLoad {
		total += ce.LoadPenalty[i] * excess
	}
	total += ce.TimeWarpPenalty * s.TimeWarp()
	total += ce.DistancePenalty * s.ExcessDistance()
	total += ce.DurationPenalty * s.ExcessDuration()
	total += ce.GroupPenalty * int64(len(s.UncoveredGroups)+len(s.OverCoveredGroups)+len(s.MissingRequired))

	return total
}

// RouteCost returns one route's contribution to PenalisedCost: its fixed
// and unit distance/duration costs, prize collected (subtracted), and
// excess-load/time-warp/excess-distance/duration penalties. Excludes the
// group-coverage term, which is a whole-solution aggregate, not a
// per-route one. Summing RouteCost over every route in a Solution and
// adding GroupPenalty*(len(UncoveredGroups)+len(OverCoveredGroups)+
// len(MissingRequired)) reproduces PenalisedCost exactly — used by
// localsearch to score a single-route or two-route candidate move without
// rebuilding the full Solution.
func (ce CostEvaluator) RouteCost(pd *vrpcore.ProblemData, r vrpsolution.Route) int64 {
	vt := pd.VehicleType(r.VehicleType)
	total := vt.FixedCost
	total += vt.UnitDistanceCost * r.Distance
	total += vt.UnitDurationCost * r.Duration
	total -= r.Prize

	for i, excess := range r.ExcessLoad {
		total += ce.LoadPenalty[i] * excess
	}
	total += ce.TimeWarpPenalty * r.TimeWarp
	total += ce.DistancePenalty * r.ExcessDistance
	total += ce.DurationPenalty * r.ExcessDuration

	return total
}

// MoveDelta captures the net change a candidate move would make to a
// route's aggregates, without materialising a new Solution. Values may be
// negative (an improving move reduces cost/excess).
type MoveDelta struct {
	DistanceDelta int64
	DurationDelta int64
	TimeWarpDelta int64
	LoadDelta     vrpcore.Vector // delta to excess load, per dimension

	FixedCostDelta int64
	PrizeDelta     int64

	UnitDistanceCost int64
	UnitDurationCost int64
}

// DeltaCost evaluates a proposed move's penalized cost delta without
// requiring a materialised Solution. localsearch does not call it; its
// operators price moves by rebuilding the touched routes with RouteCost.
func (ce CostEvaluator) DeltaCost(d MoveDelta) int64 {
	delta := d.FixedCostDelta - d.PrizeDelta
	delta += d.UnitDistanceCost * d.DistanceDelta
	delta += d.UnitDurationCost * d.DurationDelta
	delta += ce.TimeWarpPenalty * d.TimeWarpDelta
	for i, ld := range d.LoadDelta {
		delta += ce.LoadPenalty[i] * ld
	}
	return delta
}
