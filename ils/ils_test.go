package ils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/ils"
	"github.com/katalvlaran/vrpsolve/localsearch"
	"github.com/katalvlaran/vrpsolve/penalty"
	"github.com/katalvlaran/vrpsolve/perturb"
	"github.com/katalvlaran/vrpsolve/randstream"
	"github.com/katalvlaran/vrpsolve/stop"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// fiveClientInstance builds a small CVRP instance with four clients in two
// clusters, {1,2} and {3,4}, starting every client on the single route
// 1-2-3-4 (cost 128). With no fixed cost that route is already cheaper than
// the split into 1-2 and 3-4 (26+106=132), so the tests check that the ILS
// loop never returns a worse best, not that it finds a different one.
func fiveClientInstance(t *testing.T) (*vrpcore.ProblemData, [][]int, *vrpsolution.Solution) {
	t.Helper()
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	clients := []vrpcore.Location{
		{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000},
		{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000},
		{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000},
		{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000},
	}
	// depot=0, clients 1-4; cluster {1,2} near each other, cluster {3,4}
	// near each other, clusters far apart.
	dist := [][]int64{
		{0, 10, 12, 50, 52},
		{10, 0, 4, 60, 58},
		{12, 4, 0, 58, 60},
		{50, 60, 58, 0, 4},
		{52, 58, 60, 4, 0},
	}
	vt := vrpcore.VehicleType{NumAvailable: 3, Capacity: vrpcore.Vector{4}, StartDepot: 0, EndDepot: 0, TWLate: 1000, Profile: 0, UnitDistanceCost: 1}
	pd, err := vrpcore.NewProblemData([]vrpcore.Location{depot}, clients, []vrpcore.VehicleType{vt}, [][][]int64{dist}, [][][]int64{dist}, nil)
	require.NoError(t, err)

	r, err := vrpsolution.NewRoute(pd, 0, []int{1, 2, 3, 4})
	require.NoError(t, err)
	sol, err := vrpsolution.NewSolution(pd, []vrpsolution.Route{r}, nil)
	require.NoError(t, err)

	neighbours := [][]int{
		{}, // depot, unused
		{2, 3, 4},
		{1, 3, 4},
		{4, 1, 2},
		{3, 1, 2},
	}
	return pd, neighbours, sol
}

func newDriver(t *testing.T, pd *vrpcore.ProblemData, neighbours [][]int, initial *vrpsolution.Solution) *ils.IteratedLocalSearch {
	t.Helper()
	pm := penalty.New(penalty.DefaultParams(pd.NumLoadDimensions(), vrpcore.NewVector(pd.NumLoadDimensions()), 1, 1, 1, 1))
	rng := randstream.New(42)

	ls := localsearch.New(pd, neighbours, rng)

	dr := perturb.New()
	dr.AddDestroyOperator(perturb.Concentric{})
	dr.AddDestroyOperator(perturb.NeighbourRemoval{})
	dr.AddRepairOperator(perturb.GreedyRepair{})

	conv := perturb.NewConvergenceManager(1, time.Second, perturb.DefaultConvergenceParams())
	search := ils.NewPerturbedLocalSearch(pd, dr, conv, ls, rng, neighbours)

	return ils.New(pd, pm, search, initial, ils.Params{
		NumItersNoImprovement: 50,
		InitialAcceptWeight:   0.5,
		HistoryLength:         10,
		Budget:                50,
	})
}

func TestIteratedLocalSearch_ImprovesOverInitialSolution(t *testing.T) {
	pd, neighbours, initial := fiveClientInstance(t)
	driver := newDriver(t, pd, neighbours, initial)

	res, err := driver.Run(stop.NewMaxIterations(30), true)
	require.NoError(t, err)
	require.NotNil(t, res.Best)

	ce := costeval.New(vrpcore.NewVector(pd.NumLoadDimensions()), 1, 1, 1, 1)
	initialCost := ce.PenalisedCost(pd, initial)
	bestCost := ce.PenalisedCost(pd, res.Best)
	require.LessOrEqual(t, bestCost, initialCost)
	require.Greater(t, res.NumIterations, 0)
	require.True(t, res.Stats.IsCollecting())
	require.Len(t, res.Stats.Data, res.NumIterations)
}

func TestIteratedLocalSearch_StopsAtMaxIterations(t *testing.T) {
	pd, neighbours, initial := fiveClientInstance(t)
	driver := newDriver(t, pd, neighbours, initial)

	res, err := driver.Run(stop.NewMaxIterations(5), false)
	require.NoError(t, err)
	require.Equal(t, 5, res.NumIterations)
	require.False(t, res.Stats.IsCollecting())
}

func TestParams_PanicsOnInvalidFields(t *testing.T) {
	require.Panics(t, func() {
		p := ils.DefaultParams()
		p.InitialAcceptWeight = 2
		p.Validate()
	})
	require.Panics(t, func() {
		p := ils.DefaultParams()
		p.HistoryLength = 0
		p.Validate()
	})
	require.Panics(t, func() {
		p := ils.DefaultParams()
		p.NumItersNoImprovement = -1
		p.Validate()
	})
}
