package vrpcore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/vrpcore"
)

func smallInstance(t *testing.T) *vrpcore.ProblemData {
	t.Helper()

	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, Pickup: vrpcore.Vector{0}, TWLate: 100}
	c1 := vrpcore.Location{Delivery: vrpcore.Vector{1}, Pickup: vrpcore.Vector{0}, TWLate: 100, Required: true, Group: -1}
	c2 := vrpcore.Location{Delivery: vrpcore.Vector{2}, Pickup: vrpcore.Vector{0}, TWLate: 100, Group: -1}

	dist := [][]int64{
		{0, 1, 2},
		{1, 0, 1},
		{2, 1, 0},
	}
	dur := dist

	vt := vrpcore.VehicleType{
		NumAvailable: 2,
		Capacity:     vrpcore.Vector{10},
		StartDepot:   0,
		EndDepot:     0,
		TWLate:       100,
		Profile:      0,
	}

	pd, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{c1, c2},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dur},
		nil,
	)
	require.NoError(t, err)
	return pd
}

func TestNewProblemData_IndexSpace(t *testing.T) {
	pd := smallInstance(t)

	require.Equal(t, 1, pd.NumDepots())
	require.Equal(t, 2, pd.NumClients())
	require.Equal(t, 3, pd.NumLocations())
	require.True(t, pd.IsDepot(0))
	require.True(t, pd.IsClient(1))
	require.True(t, pd.IsClient(2))
	require.Equal(t, 2, pd.NumVehicles())
}

func TestNewProblemData_RejectsBadTimeWindow(t *testing.T) {
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, TWLate: 10}
	bad := vrpcore.Location{Delivery: vrpcore.Vector{1}, TWEarly: 50, TWLate: 10}
	vt := vrpcore.VehicleType{NumAvailable: 1, Capacity: vrpcore.Vector{5}, TWLate: 10, Profile: 0}
	dist := [][]int64{{0, 1}, {1, 0}}

	_, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{bad},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		nil,
	)
	require.ErrorIs(t, err, vrpcore.ErrInvalidTimeWindow)
}

func TestNewProblemData_RejectsNegativeDemand(t *testing.T) {
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, TWLate: 10}
	bad := vrpcore.Location{Delivery: vrpcore.Vector{-1}, TWLate: 10}
	vt := vrpcore.VehicleType{NumAvailable: 1, Capacity: vrpcore.Vector{5}, TWLate: 10, Profile: 0}
	dist := [][]int64{{0, 1}, {1, 0}}

	_, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{bad},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		nil,
	)
	require.ErrorIs(t, err, vrpcore.ErrNegativeVector)
}

func TestNewProblemData_RejectsMutuallyExclusiveRequired(t *testing.T) {
	depot := vrpcore.Location{Delivery: vrpcore.Vector{0}, TWLate: 10}
	c1 := vrpcore.Location{Delivery: vrpcore.Vector{1}, TWLate: 10, Required: true}
	vt := vrpcore.VehicleType{NumAvailable: 1, Capacity: vrpcore.Vector{5}, TWLate: 10, Profile: 0}
	dist := [][]int64{{0, 1}, {1, 0}}

	_, err := vrpcore.NewProblemData(
		[]vrpcore.Location{depot},
		[]vrpcore.Location{c1},
		[]vrpcore.VehicleType{vt},
		[][][]int64{dist},
		[][][]int64{dist},
		[]vrpcore.ClientGroup{{Members: []int{1}, MutuallyExclusive: true}},
	)
	require.ErrorIs(t, err, vrpcore.ErrGroupRequiredMember)
}

func TestVector_Arithmetic(t *testing.T) {
	a := vrpcore.Vector{3, 5}
	b := vrpcore.Vector{1, 8}

	require.Equal(t, vrpcore.Vector{4, 13}, a.Add(b))
	require.Equal(t, vrpcore.Vector{2, -3}, a.Sub(b))
	require.Equal(t, vrpcore.Vector{0, 3}, b.ExcessOver(a))
	require.False(t, a.IsZero())
	require.True(t, vrpcore.NewVector(2).IsZero())
}

func TestProblemData_Replace(t *testing.T) {
	pd := smallInstance(t)
	newVT := vrpcore.VehicleType{NumAvailable: 1, Capacity: vrpcore.Vector{10}, TWLate: 100, Profile: 0}

	replaced, err := pd.Replace([]vrpcore.VehicleType{newVT})
	require.NoError(t, err)
	require.Equal(t, 1, replaced.NumVehicles())
	require.Equal(t, 2, pd.NumVehicles(), "original must be untouched")
}
