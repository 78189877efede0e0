// Package vrpcore defines the immutable problem instance for the vehicle
// routing solver: locations, vehicle types, routing profiles (distance and
// duration matrices), and mutually-exclusive client groups.
//
// A ProblemData value is constructed once via NewProblemData and shared by
// reference with every component of a solve (cost evaluation, local search,
// the ILS driver, ...). It exposes read-only queries only; nothing in this
// package mutates a ProblemData after construction.
//
// Errors:
//
//	ErrNoDepots           - depots slice is empty.
//	ErrInvalidTimeWindow  - tw_early > tw_late for some location.
//	ErrNegativeVector     - a delivery/pickup/capacity component is negative.
//	ErrInvalidDepotIndex  - a vehicle type references an out-of-range depot.
//	ErrInvalidProfile     - a vehicle type references an out-of-range profile.
//	ErrNoVehicleTypes     - no vehicle types were supplied.
//	ErrGroupRequiredMember - a required client was placed in a mutually
//	                         exclusive group (forbidden by spec).
//	ErrGroupEmpty          - a client group has no members.
package vrpcore

import (
	"errors"
	"fmt"
)

// MaxValue is the prohibitive sentinel distance/duration used for forbidden
// edges (vehicle-client incompatibility, linehaul/backhaul ordering, ...).
// Chosen so arithmetic on a handful of such values cannot overflow int64.
const MaxValue int64 = 1 << 52

// MaxUserValue bounds legitimate (non-sentinel) input magnitudes; an edge
// weight or capacity above it makes vrplib.ReadInstance log a non-fatal
// warning.
const MaxUserValue int64 = 1 << 40

// Sentinel errors for ProblemData construction.
var (
	ErrNoDepots            = errors.New("vrpcore: at least one depot is required")
	ErrNoVehicleTypes      = errors.New("vrpcore: at least one vehicle type is required")
	ErrInvalidTimeWindow   = errors.New("vrpcore: tw_early must be <= tw_late")
	ErrNegativeVector      = errors.New("vrpcore: delivery/pickup/capacity component must be >= 0")
	ErrInvalidDepotIndex   = errors.New("vrpcore: depot index out of range")
	ErrInvalidProfile      = errors.New("vrpcore: routing profile index out of range")
	ErrGroupEmpty          = errors.New("vrpcore: client group has no members")
	ErrGroupRequiredMember = errors.New("vrpcore: required client cannot belong to a mutually-exclusive group")
	ErrGroupBadMember      = errors.New("vrpcore: group member index is not a client")
	ErrMatrixNotSquare     = errors.New("vrpcore: distance/duration matrix must be square")
	ErrMatrixWrongSize     = errors.New("vrpcore: distance/duration matrix size must equal num_locations")
	ErrMatrixNegative      = errors.New("vrpcore: distance/duration matrix entries must be >= 0")
)

// Vector is a per-load-dimension quantity (delivery, pickup, capacity, or
// accumulated excess load). All components are non-negative by convention
// except where explicitly noted (e.g. excess-load deltas during search).
type Vector []int64

// NewVector returns a zero Vector with n dimensions.
func NewVector(n int) Vector { return make(Vector, n) }

// Add returns a fresh Vector equal to the elementwise sum of v and other.
// Panics if the dimensions differ — a dimension mismatch is a programmer
// error, not a runtime condition to recover from.
func (v Vector) Add(other Vector) Vector {
	if len(v) != len(other) {
		panic("vrpcore: Vector.Add dimension mismatch")
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + other[i]
	}
	return out
}

// Sub returns a fresh Vector equal to the elementwise difference v - other.
func (v Vector) Sub(other Vector) Vector {
	if len(v) != len(other) {
		panic("vrpcore: Vector.Sub dimension mismatch")
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - other[i]
	}
	return out
}

// ExcessOver returns, per dimension, max(0, v[i]-capacity[i]).
func (v Vector) ExcessOver(capacity Vector) Vector {
	if len(v) != len(capacity) {
		panic("vrpcore: Vector.ExcessOver dimension mismatch")
	}
	out := make(Vector, len(v))
	for i := range v {
		if d := v[i] - capacity[i]; d > 0 {
			out[i] = d
		}
	}
	return out
}

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Location is a depot or client in the flat [depots..., clients...] index
// space described by ProblemData.
type Location struct {
	// X, Y are planar coordinates (used by vrplib's EUC_2D rounding policy
	// and by the neighborhood's proximity heuristics' callers).
	X, Y int64

	// Delivery is the per-dimension amount dropped off at this client.
	// Zero-valued (empty) for depots.
	Delivery Vector

	// Pickup is the per-dimension amount picked up at this client
	// (simultaneous pickup-and-delivery; also used to model backhauls).
	Pickup Vector

	// ServiceDuration is the time spent serving this client.
	ServiceDuration int64

	// TWEarly, TWLate bound the feasible arrival/service window.
	TWEarly, TWLate int64

	// ReleaseTime is the earliest time this client's demand is available
	// for pickup; tightens the effective TWEarly.
	ReleaseTime int64

	// Prize is the reward collected for visiting an optional client.
	Prize int64

	// Required indicates the client must appear in some route.
	Required bool

	// Group, if >= 0, indexes into ProblemData.Groups.
	Group int

	// Name is an optional human-readable label (from VRPLIB NODE names,
	// or assigned by the model façade).
	Name string
}

// ClientGroup is a set of client indices with two independent coverage
// constraints:
//
//   - MutuallyExclusive: at most one member may be visited.
//   - Required: at least one member must be visited (an "OR" requirement
//     over the group, as opposed to each member's own Required flag, which
//     mandates that specific client individually).
//
// Both flags may be set together to express "visit exactly one of these".
type ClientGroup struct {
	Members           []int
	MutuallyExclusive bool
	Required          bool
}

// VehicleType describes a homogeneous fleet segment.
type VehicleType struct {
	NumAvailable int
	Capacity     Vector

	StartDepot, EndDepot int

	FixedCost int64

	TWEarly, TWLate int64

	MaxDuration int64 // 0 means unbounded
	MaxDistance int64 // 0 means unbounded

	UnitDistanceCost int64
	UnitDurationCost int64

	// Profile indexes the (distance, duration) matrix pair this vehicle
	// type uses; distinct profiles encode vehicle-client compatibility via
	// MaxValue sentinel edges.
	Profile int

	Name string
}

// profilePair bundles the distance and duration matrices for one routing
// profile. Both matrices are square, size NumLocations x NumLocations.
type profilePair struct {
	Distance [][]int64
	Duration [][]int64
}

// ProblemData is the immutable VRP instance shared by every solver
// component. Locations are stored as depots followed by clients in a
// single contiguous index space: depot indices occupy [0, NumDepots) and
// client indices occupy [NumDepots, NumLocations).
type ProblemData struct {
	locations []Location
	numDepots int

	vehicleTypes []VehicleType
	profiles     []profilePair

	groups []ClientGroup

	loadDimensions int
}

// NewProblemData validates and constructs a ProblemData instance. depots
// and clients are concatenated (depots first) into the single location
// index space described above. profiles[i] supplies the distance/duration
// matrices referenced by VehicleType.Profile == i.
func NewProblemData(
	depots []Location,
	clients []Location,
	vehicleTypes []VehicleType,
	distanceMatrices [][][]int64,
	durationMatrices [][][]int64,
	groups []ClientGroup,
) (*ProblemData, error) {
	if len(depots) == 0 {
		return nil, ErrNoDepots
	}
	if len(vehicleTypes) == 0 {
		return nil, ErrNoVehicleTypes
	}
	if len(distanceMatrices) != len(durationMatrices) {
		return nil, fmt.Errorf("vrpcore: %w: distance/duration profile count mismatch", ErrMatrixWrongSize)
	}

	locations := make([]Location, 0, len(depots)+len(clients))
	locations = append(locations, depots...)
	locations = append(locations, clients...)
	numLocations := len(locations)

	loadDims := 0
	if len(locations) > 0 {
		loadDims = len(locations[0].Delivery)
	}

	for i, loc := range locations {
		if loc.TWEarly > loc.TWLate {
			return nil, fmt.Errorf("vrpcore: location %d: %w", i, ErrInvalidTimeWindow)
		}
		if hasNegative(loc.Delivery) || hasNegative(loc.Pickup) {
			return nil, fmt.Errorf("vrpcore: location %d: %w", i, ErrNegativeVector)
		}
		if len(loc.Delivery) != loadDims || len(loc.Pickup) != loadDims {
			return nil, fmt.Errorf("vrpcore: location %d: inconsistent load dimensions", i)
		}
	}

	profiles := make([]profilePair, len(distanceMatrices))
	for p := range distanceMatrices {
		dist, err := validateMatrix(distanceMatrices[p], numLocations)
		if err != nil {
			return nil, fmt.Errorf("vrpcore: profile %d distance matrix: %w", p, err)
		}
		dur, err := validateMatrix(durationMatrices[p], numLocations)
		if err != nil {
			return nil, fmt.Errorf("vrpcore: profile %d duration matrix: %w", p, err)
		}
		profiles[p] = profilePair{Distance: dist, Duration: dur}
	}

	for i, vt := range vehicleTypes {
		if vt.StartDepot < 0 || vt.StartDepot >= len(depots) || vt.EndDepot < 0 || vt.EndDepot >= len(depots) {
			return nil, fmt.Errorf("vrpcore: vehicle type %d: %w", i, ErrInvalidDepotIndex)
		}
		if vt.Profile < 0 || vt.Profile >= len(profiles) {
			return nil, fmt.Errorf("vrpcore: vehicle type %d: %w", i, ErrInvalidProfile)
		}
		if hasNegative(vt.Capacity) {
			return nil, fmt.Errorf("vrpcore: vehicle type %d: %w", i, ErrNegativeVector)
		}
		if vt.TWEarly > vt.TWLate {
			return nil, fmt.Errorf("vrpcore: vehicle type %d: %w", i, ErrInvalidTimeWindow)
		}
	}

	numDepots := len(depots)
	for gi, grp := range groups {
		if len(grp.Members) == 0 {
			return nil, fmt.Errorf("vrpcore: group %d: %w", gi, ErrGroupEmpty)
		}
		for _, m := range grp.Members {
			if m < numDepots || m >= numLocations {
				return nil, fmt.Errorf("vrpcore: group %d: %w", gi, ErrGroupBadMember)
			}
			if grp.MutuallyExclusive && locations[m].Required {
				return nil, fmt.Errorf("vrpcore: group %d: %w", gi, ErrGroupRequiredMember)
			}
		}
	}

	// Stamp each client's Group field from the groups slice so Location
	// carries its own membership without a reverse lookup at query time.
	// -1 means "not a member of any group".
	for i := range locations {
		locations[i].Group = -1
	}
	for gi, grp := range groups {
		for _, m := range grp.Members {
			locations[m].Group = gi
		}
	}

	return &ProblemData{
		locations:      locations,
		numDepots:      numDepots,
		vehicleTypes:   append([]VehicleType(nil), vehicleTypes...),
		profiles:       profiles,
		groups:         append([]ClientGroup(nil), groups...),
		loadDimensions: loadDims,
	}, nil
}

func hasNegative(v Vector) bool {
	for _, x := range v {
		if x < 0 {
			return true
		}
	}
	return false
}

func validateMatrix(m [][]int64, n int) ([][]int64, error) {
	if len(m) != n {
		return nil, ErrMatrixWrongSize
	}
	out := make([][]int64, n)
	for i, row := range m {
		if len(row) != n {
			return nil, ErrMatrixNotSquare
		}
		out[i] = append([]int64(nil), row...)
		for _, x := range out[i] {
			if x < 0 {
				return nil, ErrMatrixNegative
			}
		}
	}
	return out, nil
}

// NumDepots returns the number of depot locations.
func (pd *ProblemData) NumDepots() int { return pd.numDepots }

// NumClients returns the number of client locations.
func (pd *ProblemData) NumClients() int { return len(pd.locations) - pd.numDepots }

// NumLocations returns NumDepots()+NumClients().
func (pd *ProblemData) NumLocations() int { return len(pd.locations) }

// NumLoadDimensions returns the number of capacity/demand dimensions.
func (pd *ProblemData) NumLoadDimensions() int { return pd.loadDimensions }

// NumProfiles returns the number of distinct routing profiles.
func (pd *ProblemData) NumProfiles() int { return len(pd.profiles) }

// NumVehicleTypes returns the number of distinct vehicle types.
func (pd *ProblemData) NumVehicleTypes() int { return len(pd.vehicleTypes) }

// NumVehicles returns the total fleet size across all vehicle types.
func (pd *ProblemData) NumVehicles() int {
	total := 0
	for _, vt := range pd.vehicleTypes {
		total += vt.NumAvailable
	}
	return total
}

// IsDepot reports whether idx refers to a depot.
func (pd *ProblemData) IsDepot(idx int) bool { return idx >= 0 && idx < pd.numDepots }

// IsClient reports whether idx refers to a client.
func (pd *ProblemData) IsClient(idx int) bool {
	return idx >= pd.numDepots && idx < len(pd.locations)
}

// Location returns the location at idx (depot or client), by value.
func (pd *ProblemData) Location(idx int) Location { return pd.locations[idx] }

// VehicleType returns the vehicle type at idx, by value.
func (pd *ProblemData) VehicleType(idx int) VehicleType { return pd.vehicleTypes[idx] }

// VehicleTypes returns a copy of the vehicle type slice.
func (pd *ProblemData) VehicleTypes() []VehicleType {
	return append([]VehicleType(nil), pd.vehicleTypes...)
}

// Groups returns a copy of the client groups.
func (pd *ProblemData) Groups() []ClientGroup {
	return append([]ClientGroup(nil), pd.groups...)
}

// Distance returns the distance from i to j under the given routing profile.
func (pd *ProblemData) Distance(profile, i, j int) int64 {
	return pd.profiles[profile].Distance[i][j]
}

// Duration returns the duration from i to j under the given routing profile.
func (pd *ProblemData) Duration(profile, i, j int) int64 {
	return pd.profiles[profile].Duration[i][j]
}

// DistanceMatrix returns the raw distance matrix for profile p (read-only by
// convention; callers must not mutate the returned slices).
func (pd *ProblemData) DistanceMatrix(p int) [][]int64 { return pd.profiles[p].Distance }

// DurationMatrix returns the raw duration matrix for profile p (read-only by
// convention; callers must not mutate the returned slices).
func (pd *ProblemData) DurationMatrix(p int) [][]int64 { return pd.profiles[p].Duration }

// Replace returns a new ProblemData with the given vehicle types substituted
// in place of the current fleet, leaving locations/profiles/groups intact.
// Used by fleet minimization to re-solve under a shrunk fleet without
// re-validating locations or matrices.
func (pd *ProblemData) Replace(vehicleTypes []VehicleType) (*ProblemData, error) {
	for i, vt := range vehicleTypes {
		if vt.Profile < 0 || vt.Profile >= len(pd.profiles) {
			return nil, fmt.Errorf("vrpcore: vehicle type %d: %w", i, ErrInvalidProfile)
		}
	}
	clone := *pd
	clone.vehicleTypes = append([]VehicleType(nil), vehicleTypes...)
	return &clone, nil
}
