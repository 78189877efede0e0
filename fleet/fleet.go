// Package fleet implements fleet-size minimization: repeatedly shrinking a
// problem's vehicle fleet one vehicle at a time while re-solving and
// checking feasibility, ported from original_source/pyvrp/minimise_fleet.py.
package fleet

import (
	"time"

	"github.com/katalvlaran/vrpsolve/stats"
	"github.com/katalvlaran/vrpsolve/stop"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// SolverFunc solves data under the given stop criterion and seed, the same
// shape any of this project's concrete solve assemblies (e.g. the model
// package's Solve) exposes. MinimiseFleet is deliberately solver-agnostic —
// it takes this as an injected dependency rather than importing ils
// directly, the same dependency-inversion shape builder
// package uses for its functional-option constructors.
type SolverFunc func(data *vrpcore.ProblemData, stopCriterion stop.Criterion, seed int64) (*stats.Result, error)

// MinimiseFleet attempts to reduce the number of available vehicles while
// keeping the instance feasibly solvable, spending up to maxRuntime.
// Returns the smallest feasible fleet found; if the very first trial is
// already infeasible, returns the original fleet unchanged.
//
// Policy for which vehicle to remove (a deliberate design resolution):
// drop one vehicle from the vehicle type with the largest NumAvailable
// (per-type used counts are not consulted), tie-broken by highest type
// index.
func MinimiseFleet(data *vrpcore.ProblemData, maxRuntime time.Duration, seed int64, solve SolverFunc) ([]vrpcore.VehicleType, error) {
	deadline := time.Now().Add(maxRuntime)
	feasibleFleet := data.VehicleTypes()

	for {
		remaining := time.Until(deadline)
		if remaining < 0 {
			break
		}

		trialFleet := dropOneVehicle(feasibleFleet)
		if trialFleet == nil {
			// No vehicle left to drop (every type already at zero).
			break
		}

		trialData, err := data.Replace(trialFleet)
		if err != nil {
			return nil, err
		}

		stopCriterion := stop.NewMultipleCriteria(stop.NewMaxRuntime(remaining), stop.FirstFeasible{})
		res, err := solve(trialData, stopCriterion, seed)
		if err != nil {
			return nil, err
		}

		if !res.IsFeasible() {
			return feasibleFleet, nil
		}

		feasibleFleet = trialFleet
		if res.Best.NumRoutes() < totalVehicles(trialFleet) {
			// More than one vehicle of the trial fleet went unused; collapse
			// to the types actually used so the next iteration can make a
			// bigger jump instead of removing one vehicle at a time.
			feasibleFleet = collapseToUsed(res.Best, trialFleet)
		}
	}

	return feasibleFleet, nil
}

func totalVehicles(fleet []vrpcore.VehicleType) int {
	total := 0
	for _, vt := range fleet {
		total += vt.NumAvailable
	}
	return total
}

// dropOneVehicle returns a copy of fleet with one vehicle removed from the
// type with the largest surplus capacity slot, or nil if every type is
// already down to zero available vehicles. "Surplus" here is simply
// NumAvailable, since at this point every vehicle in feasibleFleet is
// presumed usable; ties go to the highest index.
func dropOneVehicle(fleet []vrpcore.VehicleType) []vrpcore.VehicleType {
	victim := -1
	for i, vt := range fleet {
		if vt.NumAvailable <= 0 {
			continue
		}
		if victim == -1 || vt.NumAvailable >= fleet[victim].NumAvailable {
			victim = i
		}
	}
	if victim == -1 {
		return nil
	}

	out := append([]vrpcore.VehicleType(nil), fleet...)
	out[victim].NumAvailable--
	return filterZero(out)
}

// collapseToUsed rebuilds the fleet using only as many vehicles per type as
// best actually routed, dropping any type left at zero.
func collapseToUsed(best *vrpsolution.Solution, fleet []vrpcore.VehicleType) []vrpcore.VehicleType {
	used := make(map[int]int, len(fleet))
	for _, r := range best.Routes {
		used[r.VehicleType]++
	}

	out := make([]vrpcore.VehicleType, len(fleet))
	copy(out, fleet)
	for i := range out {
		out[i].NumAvailable = used[i]
	}
	return filterZero(out)
}

func filterZero(fleet []vrpcore.VehicleType) []vrpcore.VehicleType {
	out := make([]vrpcore.VehicleType, 0, len(fleet))
	for _, vt := range fleet {
		if vt.NumAvailable > 0 {
			out = append(out, vt)
		}
	}
	return out
}
