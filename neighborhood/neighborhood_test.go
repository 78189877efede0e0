package neighborhood_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/neighborhood"
	"github.com/katalvlaran/vrpsolve/vrpcore"
)

func lineInstance(t *testing.T) *vrpcore.ProblemData {
	t.Helper()

	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c1 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c2 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}
	c3 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 1000}

	// depot=0, clients 1,2,3 laid out on a line: 1 near 2, 3 far from both.
	dist := [][]int64{
		{0, 1, 2, 100},
		{1, 0, 1, 100},
		{2, 1, 0, 100},
		{100, 100, 100, 0},
	}
	vt := vrpcore.VehicleType{NumAvailable: 1, Capacity: vrpcore.Vector{10}, StartDepot: 0, EndDepot: 0, TWLate: 1000, Profile: 0}

	pd, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{c1, c2, c3},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		nil,
	)
	require.NoError(t, err)
	return pd
}

func TestBuild_ExcludesDepotsAndSelf(t *testing.T) {
	pd := lineInstance(t)
	lists := neighborhood.Build(pd, 0, neighborhood.DefaultParams())

	require.Empty(t, lists[0]) // depot

	for _, nb := range lists[1] {
		require.NotEqual(t, 1, nb)
		require.False(t, pd.IsDepot(nb))
	}
}

func TestBuild_PrefersCloserClients(t *testing.T) {
	pd := lineInstance(t)
	params := neighborhood.DefaultParams()
	params.NBGranular = 1
	lists := neighborhood.Build(pd, 0, params)

	require.Equal(t, []int{2}, lists[1]) // client 2 is closer to 1 than client 3
}

func TestManager_RestrictsToModifiedClients(t *testing.T) {
	pd := lineInstance(t)
	full := neighborhood.Build(pd, 0, neighborhood.Params{NBGranular: 10, SymmetricProximity: true, SymmetricNeighbours: true})
	mgr := neighborhood.NewManager(pd, full, full)

	a := make([]neighborhood.RouteNeighbours, pd.NumLocations())
	b := make([]neighborhood.RouteNeighbours, pd.NumLocations())
	a[1] = neighborhood.RouteNeighbours{Pred: 0, Succ: 2}
	b[1] = neighborhood.RouteNeighbours{Pred: 0, Succ: 2}
	a[2] = neighborhood.RouteNeighbours{Pred: 1, Succ: 0}
	b[2] = neighborhood.RouteNeighbours{Pred: 1, Succ: 0}
	a[3] = neighborhood.RouteNeighbours{Pred: 0, Succ: 0}
	b[3] = neighborhood.RouteNeighbours{Pred: 0, Succ: 3} // changed, unrelated to clients 1/2

	cands := mgr.Candidates(a, b)
	require.NotEmpty(t, cands[3])
	require.Empty(t, cands[1])
	require.Empty(t, cands[2])
}
