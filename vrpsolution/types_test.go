package vrpsolution_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

func smallInstance(t *testing.T) *vrpcore.ProblemData {
	t.Helper()

	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c1 := vrpcore.Location{Delivery: vrpcore.Vector{3}, Pickup: vrpcore.Vector{0}, TWLate: 1000, Required: true}
	c2 := vrpcore.Location{Delivery: vrpcore.Vector{4}, Pickup: vrpcore.Vector{0}, TWLate: 1000}

	dist := [][]int64{
		{0, 1, 2},
		{1, 0, 1},
		{2, 1, 0},
	}

	vt := vrpcore.VehicleType{
		NumAvailable: 1,
		Capacity:     vrpcore.Vector{10},
		StartDepot:   0,
		EndDepot:     0,
		TWLate:       1000,
		Profile:      0,
	}

	pd, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{c1, c2},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		nil,
	)
	require.NoError(t, err)
	return pd
}

func TestNewRoute_SimulatesScheduleAndAggregates(t *testing.T) {
	pd := smallInstance(t)

	r, err := vrpsolution.NewRoute(pd, 0, []int{1, 2})
	require.NoError(t, err)

	require.Equal(t, int64(1+1+2), r.Distance) // depot->1 (1) + 1->2 (1) + 2->depot (2)
	require.True(t, r.IsFeasible())
	require.Equal(t, int64(0), r.TimeWarp)
	require.True(t, r.ExcessLoad.IsZero())
}

func TestNewRoute_RejectsEmptyVisits(t *testing.T) {
	pd := smallInstance(t)

	_, err := vrpsolution.NewRoute(pd, 0, nil)
	require.ErrorIs(t, err, vrpsolution.ErrEmptyRoute)
}

func TestNewRoute_DetectsOverCapacity(t *testing.T) {
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c1 := vrpcore.Location{Delivery: vrpcore.Vector{8}, Pickup: vrpcore.Vector{0}, TWLate: 1000, Required: true}

	dist := [][]int64{
		{0, 1},
		{1, 0},
	}
	vt := vrpcore.VehicleType{
		NumAvailable: 1,
		Capacity:     vrpcore.Vector{5},
		StartDepot:   0,
		EndDepot:     0,
		TWLate:       1000,
		Profile:      0,
	}
	pd, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{c1},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		nil,
	)
	require.NoError(t, err)

	r, err := vrpsolution.NewRoute(pd, 0, []int{1})
	require.NoError(t, err)
	require.Equal(t, int64(3), r.ExcessLoad[0])
	require.False(t, r.IsFeasible())
}

func TestNewRoute_DetectsTimeWarp(t *testing.T) {
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c1 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWEarly: 0, TWLate: 0, Required: true}

	dist := [][]int64{
		{0, 5},
		{5, 0},
	}
	vt := vrpcore.VehicleType{
		NumAvailable: 1,
		Capacity:     vrpcore.Vector{10},
		StartDepot:   0,
		EndDepot:     0,
		TWLate:       1000,
		Profile:      0,
	}
	pd, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{c1},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		nil,
	)
	require.NoError(t, err)

	r, err := vrpsolution.NewRoute(pd, 0, []int{1})
	require.NoError(t, err)
	require.Equal(t, int64(5), r.TimeWarp)
	require.False(t, r.IsFeasible())
}

func TestNewSolution_RejectsClientVisitedTwice(t *testing.T) {
	pd := smallInstance(t)

	r1, err := vrpsolution.NewRoute(pd, 0, []int{1})
	require.NoError(t, err)
	r2, err := vrpsolution.NewRoute(pd, 0, []int{1})
	require.NoError(t, err)

	_, err = vrpsolution.NewSolution(pd, []vrpsolution.Route{r1, r2}, nil)
	require.ErrorIs(t, err, vrpsolution.ErrClientVisitedTwice)
}

func TestNewSolution_Aggregates(t *testing.T) {
	pd := smallInstance(t)

	r, err := vrpsolution.NewRoute(pd, 0, []int{1, 2})
	require.NoError(t, err)

	sol, err := vrpsolution.NewSolution(pd, []vrpsolution.Route{r}, nil)
	require.NoError(t, err)

	require.Equal(t, 1, sol.NumRoutes())
	require.Equal(t, r.Distance, sol.Distance())
	require.True(t, sol.IsFeasible())
	require.Empty(t, sol.UncoveredGroups)
}

func TestNewSolution_TracksUncoveredRequiredGroup(t *testing.T) {
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c1 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c2 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}

	dist := [][]int64{
		{0, 1, 2},
		{1, 0, 1},
		{2, 1, 0},
	}
	vt := vrpcore.VehicleType{
		NumAvailable: 1,
		Capacity:     vrpcore.Vector{10},
		StartDepot:   0,
		EndDepot:     0,
		TWLate:       1000,
		Profile:      0,
	}
	groups := []vrpcore.ClientGroup{{Members: []int{1, 2}, Required: true}}

	pd, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{c1, c2},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		groups,
	)
	require.NoError(t, err)

	sol, err := vrpsolution.NewSolution(pd, nil, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, []int{0}, sol.UncoveredGroups)
	require.False(t, sol.IsFeasible())
}

func TestNewSolution_TracksOverCoveredExclusiveGroup(t *testing.T) {
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c1 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c2 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}

	dist := [][]int64{
		{0, 1, 2},
		{1, 0, 1},
		{2, 1, 0},
	}
	vt := vrpcore.VehicleType{
		NumAvailable: 1,
		Capacity:     vrpcore.Vector{10},
		StartDepot:   0,
		EndDepot:     0,
		TWLate:       1000,
		Profile:      0,
	}
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

	// Both exclusive-group members visited in the same route: a hard
	// violation, not just an unpriced preference.
	r, err := vrpsolution.NewRoute(pd, 0, []int{1, 2})
	require.NoError(t, err)

	sol, err := vrpsolution.NewSolution(pd, []vrpsolution.Route{r}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0}, sol.OverCoveredGroups)
	require.False(t, sol.IsFeasible())
}

func TestNewSolution_TracksMissingRequiredClient(t *testing.T) {
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c1 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000, Required: true}
	c2 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}

	dist := [][]int64{
		{0, 1, 2},
		{1, 0, 1},
		{2, 1, 0},
	}
	vt := vrpcore.VehicleType{
		NumAvailable: 1,
		Capacity:     vrpcore.Vector{10},
		StartDepot:   0,
		EndDepot:     0,
		TWLate:       1000,
		Profile:      0,
	}

	pd, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{c1, c2},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		nil,
	)
	require.NoError(t, err)

	r, err := vrpsolution.NewRoute(pd, 0, []int{2})
	require.NoError(t, err)

	// c1 (Required) is left unvisited rather than routed.
	sol, err := vrpsolution.NewSolution(pd, []vrpsolution.Route{r}, []int{1})
	require.NoError(t, err)
	require.Equal(t, []int{1}, sol.MissingRequired)
	require.False(t, sol.IsFeasible())
}
