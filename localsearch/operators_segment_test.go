package localsearch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/localsearch"
	"github.com/katalvlaran/vrpsolve/randstream"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// twoClusterInstance places two tight two-client clusters far from each
// other, one per route, on two identical vehicles with no fixed cost. The
// split start costs 204+13=217, more than the single route 1-2-3-4 (205),
// so the search can improve it by moving clients across routes.
func twoClusterInstance(t *testing.T) (*vrpcore.ProblemData, *vrpsolution.Solution, [][]int) {
	t.Helper()

	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, TWLate: 1000}
	near := func() vrpcore.Location {
		return vrpcore.Location{Delivery: vrpcore.Vector{1}, TWLate: 1000, Required: true}
	}
	clients := []vrpcore.Location{near(), near(), near(), near()} // 1,2 near depot; 3,4 far

	dist := [][]int64{
		{0, 5, 6, 100, 101},
		{5, 0, 2, 95, 96},
		{6, 2, 0, 94, 95},
		{100, 95, 94, 0, 3},
		{101, 96, 95, 3, 0},
	}
	vt := vrpcore.VehicleType{NumAvailable: 2, Capacity: vrpcore.Vector{4}, StartDepot: 0, EndDepot: 0, TWLate: 1000, Profile: 0, UnitDistanceCost: 1}

	pd, err := vrpcore.NewProblemData([]vrpcore.Location{depot}, clients, []vrpcore.VehicleType{vt}, [][][]int64{dist}, [][][]int64{dist}, nil)
	require.NoError(t, err)

	// Route 1 has the far pair, route 2 has the near pair.
	r1, err := vrpsolution.NewRoute(pd, 0, []int{3, 4})
	require.NoError(t, err)
	r2, err := vrpsolution.NewRoute(pd, 0, []int{1, 2})
	require.NoError(t, err)
	start, err := vrpsolution.NewSolution(pd, []vrpsolution.Route{r1, r2}, nil)
	require.NoError(t, err)

	neighbours := [][]int{nil, {2, 3, 4}, {1, 3, 4}, {4, 1, 2}, {3, 1, 2}}
	return pd, start, neighbours
}

func TestSearch_RelocatesClusterAcrossRoutes(t *testing.T) {
	pd, start, neighbours := twoClusterInstance(t)
	ce := costeval.New(vrpcore.Vector{0}, 0, 0, 0, 0)

	ls := localsearch.New(pd, neighbours, randstream.New(7))
	improved, err := ls.Search(start, ce, false)
	require.NoError(t, err)

	require.LessOrEqual(t, ce.Cost(pd, improved), ce.Cost(pd, start))
	total := 0
	for _, r := range improved.Routes {
		total += len(r.Visits)
	}
	require.Equal(t, pd.NumClients(), total)
}
