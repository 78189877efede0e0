package vrplib_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/vrplib"
)

const tinyCVRP = `
NAME: tiny
TYPE: CVRP
DIMENSION: 4
VEHICLES: 2
CAPACITY: 10
EDGE_WEIGHT_TYPE: EUC_2D
ROUND_FUNC: round
NODE_COORD_SECTION
1 0 0
2 10 0
3 0 10
4 10 10
DEMAND_SECTION
1 0
2 5
3 5
4 5
DEPOT_SECTION
1
-1
EOF
`

func TestReadInstance_ParsesHeaderAndSections(t *testing.T) {
	inst, err := vrplib.ReadInstance(strings.NewReader(tinyCVRP))
	require.NoError(t, err)
	require.Equal(t, "tiny", inst.Name)
	require.Equal(t, 4, inst.Dimension)
	require.Equal(t, int64(10), inst.Capacity)
	require.Equal(t, "round", inst.RoundingPolicy)
	require.Equal(t, []int{0}, inst.DepotIndices)
	require.Len(t, inst.Coords, 4)
	require.Equal(t, int64(10), inst.Coords[1].X)
	require.Len(t, inst.Delivery, 4)
	require.Equal(t, []int64{5}, inst.Delivery[1])
}

func TestAssemble_BuildsValidProblemData(t *testing.T) {
	inst, err := vrplib.ReadInstance(strings.NewReader(tinyCVRP))
	require.NoError(t, err)

	pd, err := vrplib.Assemble(inst)
	require.NoError(t, err)
	require.Equal(t, 1, pd.NumDepots())
	require.Equal(t, 3, pd.NumClients())
	require.Equal(t, 1, pd.NumVehicleTypes())
	require.Equal(t, 2, pd.VehicleType(0).NumAvailable)
	// distance from depot (0,0) to client at (10,0) is 10, rounded.
	require.Equal(t, int64(10), pd.Distance(0, 0, 1))
}

func TestReadInstance_RejectsUnknownRoundFunc(t *testing.T) {
	bad := "NAME: x\nROUND_FUNC: bogus\nDIMENSION: 1\n"
	_, err := vrplib.ReadInstance(strings.NewReader(bad))
	require.Error(t, err)
}

func TestSolutionRoundTrip(t *testing.T) {
	inst, err := vrplib.ReadInstance(strings.NewReader(tinyCVRP))
	require.NoError(t, err)
	pd, err := vrplib.Assemble(inst)
	require.NoError(t, err)

	routeText := "Route #1 : 2 3\nRoute #2 : 4\nCost 999\n"
	routes, err := vrplib.ReadSolutionRoutes(strings.NewReader(routeText))
	require.NoError(t, err)
	require.Equal(t, [][]int{{1, 2}, {3}}, routes)

	sol, err := vrplib.AssembleSolution(pd, routes, []int{0, 0})
	require.NoError(t, err)
	require.Len(t, sol.Routes, 2)
	require.Empty(t, sol.Unvisited)

	var buf strings.Builder
	require.NoError(t, vrplib.WriteSolution(&buf, sol, 123))
	out := buf.String()
	require.Contains(t, out, "Route #1 : 2 3")
	require.Contains(t, out, "Route #2 : 4")
	require.Contains(t, out, "Cost 123")
}

func TestReadSolutionRoutes_SkipsEmptyRoutes(t *testing.T) {
	routes, err := vrplib.ReadSolutionRoutes(strings.NewReader("Route #1 :\nRoute #2 : 1\n"))
	require.NoError(t, err)
	require.Equal(t, [][]int{{0}}, routes)
}
