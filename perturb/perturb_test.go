package perturb_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/perturb"
	"github.com/katalvlaran/vrpsolve/randstream"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// fourClientInstance: depot 0, clients 1..4 (distances below), a
// single vehicle type with two available vehicles so GreedyRepair has a
// real choice between inserting into an existing route and opening a
// fresh one.
func fourClientInstance(t *testing.T) *vrpcore.ProblemData {
	t.Helper()

	loc := func() vrpcore.Location {
		return vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	}
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 1000}

	// Clients 1-3 sit in a tight cluster reachable from the depot; client 4
	// sits close to the depot but far from that cluster, so detouring an
	// existing 1-2-3 route through it costs much more than a direct
	// depot-4-depot round trip.
	dist := [][]int64{
		{0, 10, 14, 10, 5},
		{10, 0, 10, 14, 50},
		{14, 10, 0, 10, 50},
		{10, 14, 10, 0, 50},
		{5, 50, 50, 50, 0},
	}
	vt := vrpcore.VehicleType{NumAvailable: 2, Capacity: vrpcore.Vector{10}, StartDepot: 0, EndDepot: 0, TWLate: 1000, Profile: 0, UnitDistanceCost: 1}

	pd, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{loc(), loc(), loc(), loc()},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		nil,
	)
	require.NoError(t, err)
	return pd
}

func oneRouteSolution(t *testing.T, pd *vrpcore.ProblemData, visits []int, unvisited []int) *vrpsolution.Solution {
	t.Helper()
	r, err := vrpsolution.NewRoute(pd, 0, visits)
	require.NoError(t, err)
	sol, err := vrpsolution.NewSolution(pd, []vrpsolution.Route{r}, unvisited)
	require.NoError(t, err)
	return sol
}

func TestNeighbourRemoval_RemovesSeedAndNeighboursUpToCount(t *testing.T) {
	pd := fourClientInstance(t)
	sol := oneRouteSolution(t, pd, []int{1, 2, 3, 4}, nil)

	neighbours := [][]int{nil, {2, 3, 4}, {1, 3, 4}, {2, 4, 1}, {3, 2, 1}}
	rng := randstream.New(1)

	destroyed, err := perturb.NeighbourRemoval{}.Destroy(pd, sol, rng, neighbours, 2)
	require.NoError(t, err)
	require.Len(t, destroyed.Unvisited, 2)
}

func TestNeighbourRemoval_RemovesJustSeedWhenNoNeighbours(t *testing.T) {
	pd := fourClientInstance(t)
	sol := oneRouteSolution(t, pd, []int{1, 2, 3, 4}, nil)

	neighbours := [][]int{nil, nil, nil, nil, nil}
	rng := randstream.New(7)

	destroyed, err := perturb.NeighbourRemoval{}.Destroy(pd, sol, rng, neighbours, 3)
	require.NoError(t, err)
	require.Len(t, destroyed.Unvisited, 1)
}

func TestNeighbourRemoval_ZeroRemovalsIsNoOp(t *testing.T) {
	pd := fourClientInstance(t)
	sol := oneRouteSolution(t, pd, []int{1, 2, 3, 4}, nil)
	rng := randstream.New(1)

	destroyed, err := perturb.NeighbourRemoval{}.Destroy(pd, sol, rng, nil, 0)
	require.NoError(t, err)
	require.Same(t, sol, destroyed)
}

func TestConcentric_RemovesKNearestExcludingSeed(t *testing.T) {
	pd := fourClientInstance(t)
	sol := oneRouteSolution(t, pd, []int{1, 2, 3, 4}, nil)
	rng := randstream.New(3)

	destroyed, err := perturb.Concentric{}.Destroy(pd, sol, rng, nil, 2)
	require.NoError(t, err)
	require.Len(t, destroyed.Unvisited, 2)
}

func TestGreedyRepair_InsertsAllUnvisitedClients(t *testing.T) {
	pd := fourClientInstance(t)
	sol, err := vrpsolution.NewSolution(pd, nil, []int{1, 2, 3, 4})
	require.NoError(t, err)

	ce := costeval.New(vrpcore.Vector{1000}, 1000, 0, 0, 0)
	neighbours := [][]int{nil, {2, 3, 4}, {1, 3, 4}, {2, 4, 1}, {3, 2, 1}}

	repaired, err := perturb.GreedyRepair{}.Repair(pd, sol, ce, neighbours)
	require.NoError(t, err)
	require.Empty(t, repaired.Unvisited)
	require.Equal(t, 4, repaired.NumClients()-len(repaired.Unvisited))
}

func TestGreedyRepair_PrefersNewRouteWhenCheaper(t *testing.T) {
	pd := fourClientInstance(t)
	// Existing route carries clients 1,2,3; client 4 is unvisited. No load
	// or time window is violated either way; on distance alone, the cheapest
	// insertion into the existing route adds 45, while a fresh depot-4-depot
	// route costs 10.
	sol := oneRouteSolution(t, pd, []int{1, 2, 3}, []int{4})

	ce := costeval.New(vrpcore.Vector{1000}, 1000, 0, 0, 0)
	neighbours := [][]int{nil, {2, 3, 4}, {1, 3, 4}, {2, 4, 1}, {3, 2, 1}}

	repaired, err := perturb.GreedyRepair{}.Repair(pd, sol, ce, neighbours)
	require.NoError(t, err)
	require.Empty(t, repaired.Unvisited)
	require.Len(t, repaired.Routes, 2)
}

func TestGreedyRepair_LeavesSecondExclusiveGroupMemberUnvisited(t *testing.T) {
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c1 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c2 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}

	dist := [][]int64{
		{0, 10, 10},
		{10, 0, 5},
		{10, 5, 0},
	}
	vt := vrpcore.VehicleType{NumAvailable: 2, Capacity: vrpcore.Vector{10}, StartDepot: 0, EndDepot: 0, TWLate: 1000, Profile: 0, UnitDistanceCost: 1}
	groups := []vrpcore.ClientGroup{{Members: []int{1, 2}, MutuallyExclusive: true}}

	pd, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{c1, c2},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		groups,
	)
	require.NoError(t, err)

	// Client 1 already routed; client 2 (the other exclusive-group member)
	// is pending. GreedyRepair must not place it even though an empty
	// vehicle slot and a structurally cheap insertion both exist.
	sol := oneRouteSolution(t, pd, []int{1}, []int{2})

	ce := costeval.New(vrpcore.Vector{1000}, 1000, 0, 0, 0)
	neighbours := [][]int{nil, {2}, {1}}

	repaired, err := perturb.GreedyRepair{}.Repair(pd, sol, ce, neighbours)
	require.NoError(t, err)
	require.Equal(t, []int{2}, repaired.Unvisited)
	require.Empty(t, repaired.OverCoveredGroups)
}

func TestDestroyRepair_NoOpWithNoOperators(t *testing.T) {
	pd := fourClientInstance(t)
	sol := oneRouteSolution(t, pd, []int{1, 2, 3, 4}, nil)
	ce := costeval.New(vrpcore.Vector{1}, 1, 1, 1, 0)
	rng := randstream.New(1)

	dr := perturb.New()
	out, err := dr.Call(pd, sol, ce, rng, nil, 2)
	require.NoError(t, err)
	require.Same(t, sol, out)
}

func TestDestroyRepair_AppliesDestroyAndRepair(t *testing.T) {
	pd := fourClientInstance(t)
	sol := oneRouteSolution(t, pd, []int{1, 2, 3, 4}, nil)
	ce := costeval.New(vrpcore.Vector{1}, 1, 1, 1, 0)
	rng := randstream.New(1)
	neighbours := [][]int{nil, {2, 3, 4}, {1, 3, 4}, {2, 4, 1}, {3, 2, 1}}

	dr := perturb.New()
	dr.AddDestroyOperator(perturb.NeighbourRemoval{})
	dr.AddRepairOperator(perturb.GreedyRepair{})
	require.True(t, dr.HasRepairOperator())

	out, err := dr.Call(pd, sol, ce, rng, neighbours, 2)
	require.NoError(t, err)
	require.Empty(t, out.Unvisited)
}

func TestConvergenceManager_HoldsSteadyWithinTolerance(t *testing.T) {
	cm := perturb.NewConvergenceManager(15, time.Hour, perturb.ConvergenceParams{
		SolutionsBetweenUpdates: 2,
		DestroyIncrease:         1,
		DestroyDecrease:         5,
		TargetPairsMax:          20,
		TargetPairsMin:          20,
	})
	cm.Register(20)
	cm.Register(20)
	require.Equal(t, 15, cm.NumDestroy())
}

func TestConvergenceManager_DecreasesWhenMeanExceedsTarget(t *testing.T) {
	cm := perturb.NewConvergenceManager(15, time.Hour, perturb.ConvergenceParams{
		SolutionsBetweenUpdates: 2,
		DestroyIncrease:         1,
		DestroyDecrease:         5,
		TargetPairsMax:          10,
		TargetPairsMin:          10,
	})
	cm.Register(30)
	cm.Register(30)
	require.Equal(t, 10, cm.NumDestroy())
}
