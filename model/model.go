// Package model is the assembly façade: it wires ProblemData + parameters
// into a runnable solve —
// granular neighbourhoods, a penalty manager, a local search engine, a
// destroy/repair perturbation stage, and the ILS driver — so callers (the
// CLI, the fleet-minimization loop, tests) never have to hand-assemble the
// core components themselves.
//
// Grounded on the builder/impl_*.go functional constructors
// (NewStar, NewGrid, ...), which assemble a finished core.Graph from a
// handful of named parameters rather than exposing every intermediate
// step to the caller.
package model

import (
	"time"

	"github.com/katalvlaran/vrpsolve/accept"
	"github.com/katalvlaran/vrpsolve/ils"
	"github.com/katalvlaran/vrpsolve/localsearch"
	"github.com/katalvlaran/vrpsolve/neighborhood"
	"github.com/katalvlaran/vrpsolve/penalty"
	"github.com/katalvlaran/vrpsolve/perturb"
	"github.com/katalvlaran/vrpsolve/randstream"
	"github.com/katalvlaran/vrpsolve/stats"
	"github.com/katalvlaran/vrpsolve/stop"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// Params bundles every tunable the solve pipeline needs, each defaulted
// from its owning package's own published defaults.
type Params struct {
	Neighborhood neighborhood.Params
	Penalty      penalty.Params
	Convergence  perturb.ConvergenceParams
	ILS          ils.Params
	MaxRuntime   time.Duration // used to seed ConvergenceManager's decay horizon
}

// DefaultParams returns Params seeded entirely from each subsystem's own
// defaults, for a problem with loadDims load dimensions.
func DefaultParams(loadDims int) Params {
	return Params{
		Neighborhood: neighborhood.DefaultParams(),
		Penalty: penalty.DefaultParams(
			loadDims, vrpcore.NewVector(loadDims),
			1, 1, 1, 1,
		),
		Convergence: perturb.DefaultConvergenceParams(),
		ILS:         ils.DefaultParams(),
		MaxRuntime:  time.Minute,
	}
}

// InitialSolution builds a starting Solution for pd by running GreedyRepair
// from the fully-unassigned state — every client pending insertion, no
// routes yet — matching the Python original's "construct an initial
// solution via the repair operator" bootstrap.
func InitialSolution(pd *vrpcore.ProblemData, ce costEvaluator, neighbours [][]int) (*vrpsolution.Solution, error) {
	allClients := make([]int, 0, pd.NumClients())
	for c := pd.NumDepots(); c < pd.NumLocations(); c++ {
		allClients = append(allClients, c)
	}
	empty, err := vrpsolution.NewSolution(pd, nil, allClients)
	if err != nil {
		return nil, err
	}
	return perturb.GreedyRepair{}.Repair(pd, empty, ce, neighbours)
}

// costEvaluator is the minimal slice of costeval.CostEvaluator's method set
// InitialSolution needs, named locally so this file doesn't have to import
// costeval just to spell the concrete type out in full.
type costEvaluator interface {
	RouteCost(pd *vrpcore.ProblemData, r vrpsolution.Route) int64
}

// Solve assembles a full ILS pipeline for pd and runs it to stopCriterion,
// seeded deterministically from seed. Satisfies fleet.SolverFunc's shape,
// so it can be passed directly to fleet.MinimiseFleet.
func Solve(pd *vrpcore.ProblemData, params Params, stopCriterion stop.Criterion, seed int64, collectStats bool) (*stats.Result, error) {
	rng := randstream.New(seed)
	neighbours := neighborhood.Build(pd, 0, params.Neighborhood)

	pm := penalty.New(params.Penalty)
	ce := pm.CostEvaluator()

	initial, err := InitialSolution(pd, ce, neighbours)
	if err != nil {
		return nil, err
	}

	ls := localsearch.New(pd, neighbours, rng)

	dr := perturb.New()
	dr.AddDestroyOperator(perturb.NeighbourRemoval{})
	dr.AddDestroyOperator(perturb.Concentric{})
	dr.AddRepairOperator(perturb.GreedyRepair{})

	conv := perturb.NewConvergenceManager(1, params.MaxRuntime, params.Convergence)
	search := ils.NewPerturbedLocalSearch(pd, dr, conv, ls, rng, neighbours)

	driver := ils.New(pd, pm, search, initial, params.ILS)
	return driver.Run(stopCriterion, collectStats)
}

// NewAcceptanceOnlyParams is a convenience constructor for callers that
// want MovingBestAverageThreshold's standalone acceptance semantics
// reported alongside a run, independent of ils's own inline
// threshold bookkeeping — e.g. for offline analysis of a completed
// Statistics trace.
func NewAcceptanceOnlyParams(initialWeight float64, historyLength int, maxRuntime time.Duration, maxIterations int) *accept.MovingBestAverageThreshold {
	return accept.NewMovingBestAverageThreshold(initialWeight, historyLength, maxRuntime, maxIterations)
}
