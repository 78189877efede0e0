// Package vrpsolution represents a candidate solution: a partition of
// clients into routes (plus an unvisited remainder), together with the
// derived aggregates needed for cost evaluation and feasibility reporting.
//
// A Solution is built once, from a complete route layout, via NewSolution
// and is immutable afterwards (its mutable route graph lives in
// localsearch; it exports a finished layout through NewSolution rather than
// exposing its own working state here).
//
// Errors:
//
//	ErrEmptyRoute        - a route with zero visits was passed to NewRoute.
//	ErrUnknownVehicleType - a route references an out-of-range vehicle type.
//	ErrClientNotFound     - a visit index is not a client in the instance.
//	ErrClientVisitedTwice - a client index appears in more than one route
//	                        (or twice within the same route).
package vrpsolution

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/vrpsolve/vrpcore"
)

// Sentinel errors for Solution/Route construction.
var (
	ErrEmptyRoute         = errors.New("vrpsolution: route has no visits")
	ErrUnknownVehicleType = errors.New("vrpsolution: vehicle type index out of range")
	ErrClientNotFound     = errors.New("vrpsolution: visit index is not a client")
	ErrClientVisitedTwice = errors.New("vrpsolution: client appears in more than one route")
)

// Route is one vehicle's ordered sequence of client visits, together with
// every aggregate costeval needs: realised distance/duration, the time
// warp absorbed instead of rejecting late arrivals, excess load/distance/
// duration beyond the vehicle type's limits, and per-client arrival/
// departure times for reporting.
type Route struct {
	VehicleType int
	Visits      []int // client indices, depot excluded, in visiting order

	StartDepot, EndDepot int

	Distance int64
	Duration int64
	TimeWarp int64

	ExcessLoad     vrpcore.Vector
	ExcessDistance int64
	ExcessDuration int64

	ReleaseTime int64 // max release time over visited clients
	FixedCost   int64
	Prize       int64 // sum of prizes collected on this route

	// Arrival/Departure give, per visit (same indexing as Visits), the
	// simulated arrival time at and departure time from that client,
	// after absorbing any time warp.
	Arrival   []int64
	Departure []int64
}

// IsFeasible reports whether this route violates no hard-turned-soft
// constraint: zero time warp, zero excess load/distance/duration.
func (r Route) IsFeasible() bool {
	return r.TimeWarp == 0 && r.ExcessLoad.IsZero() && r.ExcessDistance == 0 && r.ExcessDuration == 0
}

// Empty reports whether the route serves no clients.
func (r Route) Empty() bool { return len(r.Visits) == 0 }

// NewRoute simulates a route's schedule against pd and returns its derived
// aggregates. visits must be non-empty client indices; vehicleType indexes
// pd.VehicleTypes().
func NewRoute(pd *vrpcore.ProblemData, vehicleType int, visits []int) (Route, error) {
	if len(visits) == 0 {
		return Route{}, ErrEmptyRoute
	}
	if vehicleType < 0 || vehicleType >= pd.NumVehicleTypes() {
		return Route{}, ErrUnknownVehicleType
	}
	for _, c := range visits {
		if !pd.IsClient(c) {
			return Route{}, fmt.Errorf("%w: index %d", ErrClientNotFound, c)
		}
	}

	vt := pd.VehicleType(vehicleType)
	loadDims := pd.NumLoadDimensions()

	r := Route{
		VehicleType: vehicleType,
		Visits:      append([]int(nil), visits...),
		StartDepot:  vt.StartDepot,
		EndDepot:    vt.EndDepot,
		FixedCost:   vt.FixedCost,
		ExcessLoad:  vrpcore.NewVector(loadDims),
		Arrival:     make([]int64, len(visits)),
		Departure:   make([]int64, len(visits)),
	}

	delivery := vrpcore.NewVector(loadDims)
	pickup := vrpcore.NewVector(loadDims)

	prev := vt.StartDepot
	clock := vt.TWEarly
	var timeWarp int64

	for i, c := range visits {
		loc := pd.Location(c)
		travel := pd.Duration(vt.Profile, prev, c)
		clock += travel
		r.Distance += pd.Distance(vt.Profile, prev, c)

		if loc.ReleaseTime > clock {
			clock = loc.ReleaseTime
		}
		if clock > loc.TWLate {
			timeWarp += clock - loc.TWLate
			clock = loc.TWLate
		}
		if clock < loc.TWEarly {
			clock = loc.TWEarly
		}
		r.Arrival[i] = clock
		clock += loc.ServiceDuration
		r.Departure[i] = clock

		delivery = delivery.Add(loc.Delivery)
		pickup = pickup.Add(loc.Pickup)
		r.Prize += loc.Prize
		if loc.ReleaseTime > r.ReleaseTime {
			r.ReleaseTime = loc.ReleaseTime
		}

		prev = c
	}

	travelHome := pd.Duration(vt.Profile, prev, vt.EndDepot)
	clock += travelHome
	r.Distance += pd.Distance(vt.Profile, prev, vt.EndDepot)

	endLoc := pd.Location(vt.EndDepot)
	if clock > endLoc.TWLate {
		timeWarp += clock - endLoc.TWLate
		clock = endLoc.TWLate
	}
	if clock > vt.TWLate {
		timeWarp += clock - vt.TWLate
		clock = vt.TWLate
	}

	r.Duration = clock - vt.TWEarly
	r.TimeWarp = timeWarp

	// Simultaneous pickup-and-delivery: the load carried on any leg is the
	// running delivery remaining plus pickups already collected. Peak load
	// per dimension is bounded by the larger of total delivery and total
	// pickup, which is exact for the common case where a vehicle departs
	// loaded with all deliveries and returns loaded with all pickups.
	peak := delivery
	for i := range peak {
		if pickup[i] > peak[i] {
			peak[i] = pickup[i]
		}
	}
	r.ExcessLoad = peak.ExcessOver(vt.Capacity)

	if vt.MaxDistance > 0 && r.Distance > vt.MaxDistance {
		r.ExcessDistance = r.Distance - vt.MaxDistance
	}
	if vt.MaxDuration > 0 && r.Duration > vt.MaxDuration {
		r.ExcessDuration = r.Duration - vt.MaxDuration
	}

	return r, nil
}

// Solution is a complete assignment of clients to routes (plus an
// unvisited remainder for optional clients), with every aggregate
// required by the cost evaluator and acceptance criterion cached at
// construction time.
type Solution struct {
	Routes    []Route
	Unvisited []int // optional clients (Required == false) left out

	// UncoveredGroups lists the indices into pd.Groups() of Required
	// groups (see vrpcore.ClientGroup) with zero visited members. Priced by
	// costeval's group penalty term, and a hard constraint: IsFeasible
	// returns false whenever this is non-empty.
	UncoveredGroups []int

	// OverCoveredGroups lists the indices into pd.Groups() of
	// MutuallyExclusive groups with more than one visited member. A hard
	// constraint: IsFeasible returns false whenever this is non-empty.
	OverCoveredGroups []int

	// MissingRequired lists the client indices with Location.Required ==
	// true that appear in Unvisited instead of some route. A hard
	// constraint: IsFeasible returns false whenever this is non-empty.
	MissingRequired []int

	numClients int
}

// NewSolution builds a Solution from a complete route layout. Every client
// in pd must appear in exactly one route's Visits or in unvisited; passing
// a Required client in unvisited is accepted here (feasibility, not
// construction, is where that is penalised) but every client must be
// accounted for exactly once.
func NewSolution(pd *vrpcore.ProblemData, routes []Route, unvisited []int) (*Solution, error) {
	seen := make(map[int]bool, pd.NumClients())
	for ri, r := range routes {
		for _, c := range r.Visits {
			if seen[c] {
				return nil, fmt.Errorf("%w: client %d (route %d)", ErrClientVisitedTwice, c, ri)
			}
			seen[c] = true
		}
	}
	for _, c := range unvisited {
		if !pd.IsClient(c) {
			return nil, fmt.Errorf("%w: index %d", ErrClientNotFound, c)
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: client %d", ErrClientVisitedTwice, c)
		}
		seen[c] = true
	}

	s := &Solution{
		Routes:     append([]Route(nil), routes...),
		Unvisited:  append([]int(nil), unvisited...),
		numClients: pd.NumClients(),
	}

	groups := pd.Groups()
	for gi, grp := range groups {
		visitedCount := 0
		for _, m := range grp.Members {
			if seen[m] && !contains(unvisited, m) {
				visitedCount++
			}
		}
		if grp.Required && visitedCount == 0 {
			s.UncoveredGroups = append(s.UncoveredGroups, gi)
		}
		if grp.MutuallyExclusive && visitedCount > 1 {
			s.OverCoveredGroups = append(s.OverCoveredGroups, gi)
		}
	}

	for _, c := range unvisited {
		if pd.Location(c).Required {
			s.MissingRequired = append(s.MissingRequired, c)
		}
	}

	return s, nil
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// NumRoutes returns the number of non-empty routes.
func (s *Solution) NumRoutes() int { return len(s.Routes) }

// Distance returns the solution's total distance across all routes.
func (s *Solution) Distance() int64 {
	var total int64
	for _, r := range s.Routes {
		total += r.Distance
	}
	return total
}

// Duration returns the solution's total duration across all routes.
func (s *Solution) Duration() int64 {
	var total int64
	for _, r := range s.Routes {
		total += r.Duration
	}
	return total
}

// TimeWarp returns the solution's total absorbed time warp.
func (s *Solution) TimeWarp() int64 {
	var total int64
	for _, r := range s.Routes {
		total += r.TimeWarp
	}
	return total
}

// ExcessDistance returns the solution's total excess distance.
func (s *Solution) ExcessDistance() int64 {
	var total int64
	for _, r := range s.Routes {
		total += r.ExcessDistance
	}
	return total
}

// ExcessDuration returns the solution's total excess duration.
func (s *Solution) ExcessDuration() int64 {
	var total int64
	for _, r := range s.Routes {
		total += r.ExcessDuration
	}
	return total
}

// ExcessLoad returns the elementwise sum of every route's excess load.
func (s *Solution) ExcessLoad(loadDims int) vrpcore.Vector {
	total := vrpcore.NewVector(loadDims)
	for _, r := range s.Routes {
		total = total.Add(r.ExcessLoad)
	}
	return total
}

// FixedCost returns the sum of fixed costs for every used vehicle.
func (s *Solution) FixedCost() int64 {
	var total int64
	for _, r := range s.Routes {
		total += r.FixedCost
	}
	return total
}

// Prize returns the total prize collected across all routes.
func (s *Solution) Prize() int64 {
	var total int64
	for _, r := range s.Routes {
		total += r.Prize
	}
	return total
}

// IsFeasible reports whether every route is feasible, every required group
// is covered, no mutually-exclusive group has more than one visited member,
// and no individually required client was left unvisited. Optional-client
// non-visitation never makes a solution infeasible.
func (s *Solution) IsFeasible() bool {
	if len(s.UncoveredGroups) != 0 || len(s.OverCoveredGroups) != 0 || len(s.MissingRequired) != 0 {
		return false
	}
	for _, r := range s.Routes {
		if !r.IsFeasible() {
			return false
		}
	}
	return true
}

// NumClients returns the number of clients in the originating instance.
func (s *Solution) NumClients() int { return s.numClients }
