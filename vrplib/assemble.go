package vrplib

import (
	"fmt"
	"math"

	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpmatrix"
)

// Assemble turns a parsed Instance into a vrpcore.ProblemData, computing
// distance/duration matrices from coordinates (EUC_2D) or taking them
// verbatim (EXPLICIT), applying the declared rounding policy, forcing
// linehaul/backhaul ordering edges to vrpcore.MaxValue, and splitting off
// one extra routing profile per distinct ALLOWED_CLIENTS_SECTION
// restriction.
func Assemble(inst *Instance) (*vrpcore.ProblemData, error) {
	n := inst.Dimension
	if n <= 0 {
		n = len(inst.Coords)
	}
	if n == 0 {
		return nil, fmt.Errorf("vrplib: instance has no locations")
	}

	numDepots := len(inst.DepotIndices)
	loadDims := maxDemandDims(inst)

	locations := make([]vrpcore.Location, n)
	for i := 0; i < n; i++ {
		loc := vrpcore.Location{}
		if i < len(inst.Coords) {
			loc.X, loc.Y = inst.Coords[i].X, inst.Coords[i].Y
		}
		loc.Delivery = demandVector(inst.Delivery, i, loadDims)
		loc.Pickup = demandVector(inst.Pickup, i, loadDims)
		if i < len(inst.ServiceTime) {
			loc.ServiceDuration = inst.ServiceTime[i]
		}
		if i < len(inst.TimeWindows) {
			loc.TWEarly, loc.TWLate = inst.TimeWindows[i].Early, inst.TimeWindows[i].Late
		} else {
			loc.TWLate = math.MaxInt32 // unbounded window when none is given
		}
		if i < len(inst.ReleaseTimes) {
			loc.ReleaseTime = inst.ReleaseTimes[i]
		}
		if i < len(inst.Prizes) {
			loc.Prize = inst.Prizes[i]
		}
		loc.Required = i >= numDepots // depots are never "required clients"
		loc.Group = -1
		locations[i] = loc
	}

	baseDist, err := buildMatrix(inst, n)
	if err != nil {
		return nil, err
	}
	applyBackhaulOrdering(baseDist, inst, numDepots, n)

	distanceMatrices := [][][]int64{baseDist}
	durationMatrices := [][][]int64{cloneMatrix(baseDist)}
	profileOf := map[int]int{} // ALLOWED_CLIENTS_SECTION vehicle-type row -> profile index

	for rowIdx := range inst.VehicleTypes {
		allowed, ok := inst.AllowedClients[rowIdx]
		if !ok {
			profileOf[rowIdx] = 0
			continue
		}
		restricted := restrictMatrix(baseDist, allowed, numDepots, n)
		distanceMatrices = append(distanceMatrices, restricted)
		durationMatrices = append(durationMatrices, cloneMatrix(restricted))
		profileOf[rowIdx] = len(distanceMatrices) - 1
	}

	vehicleTypes := make([]vrpcore.VehicleType, len(inst.VehicleTypes))
	for i, row := range inst.VehicleTypes {
		depot := row.Depot
		if depot < 0 || depot >= numDepots {
			depot = 0
		}
		vehicleTypes[i] = vrpcore.VehicleType{
			NumAvailable:     row.NumAvailable,
			Capacity:         fixedVector(row.Capacity, loadDims),
			StartDepot:       depot,
			EndDepot:         depot,
			FixedCost:        row.FixedCost,
			TWEarly:          row.TWEarly,
			TWLate:           row.TWLate,
			MaxDuration:      row.MaxDuration,
			MaxDistance:      row.MaxDistance,
			UnitDistanceCost: row.UnitDistanceCost,
			UnitDurationCost: row.UnitDurationCost,
			Profile:          profileOf[i],
		}
	}
	if len(vehicleTypes) == 0 {
		vehicleTypes = []vrpcore.VehicleType{{
			NumAvailable: inst.Vehicles,
			Capacity:     fixedVector(inst.Capacity, loadDims),
			StartDepot:   0, EndDepot: 0,
			TWLate:           locations[0].TWLate,
			UnitDistanceCost: 1,
		}}
	}

	groups := make([]vrpcore.ClientGroup, len(inst.Groups))
	for i, members := range inst.Groups {
		groups[i] = vrpcore.ClientGroup{Members: members, Required: true}
	}

	return vrpcore.NewProblemData(
		locations[:numDepots], locations[numDepots:], vehicleTypes,
		distanceMatrices, durationMatrices, groups,
	)
}

func maxDemandDims(inst *Instance) int {
	dims := 1
	for _, row := range inst.Delivery {
		if len(row) > dims {
			dims = len(row)
		}
	}
	for _, row := range inst.Pickup {
		if len(row) > dims {
			dims = len(row)
		}
	}
	return dims
}

func demandVector(rows [][]int64, i, dims int) vrpcore.Vector {
	v := vrpcore.NewVector(dims)
	if i < len(rows) {
		copy(v, rows[i])
	}
	return v
}

func fixedVector(scalar int64, dims int) vrpcore.Vector {
	v := vrpcore.NewVector(dims)
	for i := range v {
		v[i] = scalar
	}
	return v
}

// buildMatrix derives the distance matrix either verbatim from an
// EDGE_WEIGHT_SECTION or, for EUC_2D-style instances, from coordinates
// under the declared rounding policy — delegating the actual rounding
// arithmetic to vrpmatrix.RoundingPolicy so the policy table is defined
// exactly once (vrplib.Roundings stays only as the header-validation set
// of recognized names; see ReadInstance's parseHeaderLine).
func buildMatrix(inst *Instance, n int) ([][]int64, error) {
	policy, err := vrpmatrix.ParseRoundingPolicy(inst.RoundingPolicy)
	if err != nil {
		policy = vrpmatrix.RoundNone
	}

	if len(inst.EdgeWeights) > 0 {
		if len(inst.EdgeWeights) != n {
			return nil, fmt.Errorf("vrplib: EDGE_WEIGHT_SECTION has %d rows, want %d", len(inst.EdgeWeights), n)
		}
		out := make([][]int64, n)
		for i, row := range inst.EdgeWeights {
			if len(row) != n {
				return nil, fmt.Errorf("vrplib: EDGE_WEIGHT_SECTION row %d has %d entries, want %d", i, len(row), n)
			}
			out[i] = append([]int64(nil), row...)
		}
		return out, nil
	}

	xs := make([]int64, n)
	ys := make([]int64, n)
	for i := 0; i < n && i < len(inst.Coords); i++ {
		xs[i], ys[i] = inst.Coords[i].X, inst.Coords[i].Y
	}
	return vrpmatrix.EuclideanMatrix(xs, ys, policy), nil
}

func cloneMatrix(m [][]int64) [][]int64 {
	out := make([][]int64, len(m))
	for i, row := range m {
		out[i] = append([]int64(nil), row...)
	}
	return out
}

// applyBackhaulOrdering forces depot-to-backhaul and backhaul-to-linehaul
// edges to vrpcore.MaxValue, so local search can never visit a backhaul
// client before every linehaul client on the same route.
// A client is "backhaul-only" when it has pickup but no delivery demand;
// "linehaul" clients are those with nonzero delivery demand.
func applyBackhaulOrdering(dist [][]int64, inst *Instance, numDepots, n int) {
	isBackhaulOnly := func(i int) bool {
		return !demandVector(inst.Pickup, i, 1).IsZero() && demandVector(inst.Delivery, i, 1).IsZero()
	}
	isLinehaul := func(i int) bool { return !demandVector(inst.Delivery, i, 1).IsZero() }

	for c := numDepots; c < n; c++ {
		if !isBackhaulOnly(c) {
			continue
		}
		for d := 0; d < numDepots; d++ {
			dist[d][c] = vrpcore.MaxValue
		}
		for other := numDepots; other < n; other++ {
			if isLinehaul(other) {
				dist[c][other] = vrpcore.MaxValue
			}
		}
	}
}

// restrictMatrix returns a copy of base with every edge touching a
// disallowed client set to vrpcore.MaxValue, implementing a per-vehicle-
// type ALLOWED_CLIENTS_SECTION whitelist via a distinct routing profile.
func restrictMatrix(base [][]int64, allowed []int, numDepots, n int) [][]int64 {
	allowedSet := make(map[int]bool, len(allowed))
	for _, c := range allowed {
		allowedSet[c] = true
	}
	out := cloneMatrix(base)
	for c := numDepots; c < n; c++ {
		if allowedSet[c] {
			continue
		}
		for other := 0; other < n; other++ {
			out[c][other] = vrpcore.MaxValue
			out[other][c] = vrpcore.MaxValue
		}
	}
	return out
}
