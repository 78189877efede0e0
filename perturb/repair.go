package perturb

import (
	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// RepairOperator turns a partial Solution (with a non-empty Unvisited list)
// into a complete one.
type RepairOperator interface {
	Name() string
	Repair(pd *vrpcore.ProblemData, sol *vrpsolution.Solution, ce costeval.CostEvaluator, neighbours [][]int) (*vrpsolution.Solution, error)
}

// insertionCandidate is one place client c could go: either spliced into an
// existing route after anchor, or placed alone into a brand-new route of
// vehicleType. tieKey is the lowest-index tiebreaker names
// ("ties broken by lowest index").
type insertionCandidate struct {
	delta       int64
	tieKey      int
	routeIndex  int // -1 means "open a new route"
	afterIndex  int // position within routeIndex's Visits to insert after (-1 = at front)
	vehicleType int // only meaningful when routeIndex == -1
}

// GreedyRepair inserts each unassigned client at the cheapest feasible
// position, considering every open route plus one fresh empty route per
// unused vehicle-type slot, ties broken by lowest index.
// original_source's repair/granular_greedy.py is an unimplemented stub
// ("pass"); this is built directly from the intended behavior, reusing
// the insert-after-anchor scoring localsearch.Relocate already uses.
type GreedyRepair struct{}

func (GreedyRepair) Name() string { return "GreedyRepair" }

func (GreedyRepair) Repair(pd *vrpcore.ProblemData, sol *vrpsolution.Solution, ce costeval.CostEvaluator, neighbours [][]int) (*vrpsolution.Solution, error) {
	routes := make([][]int, len(sol.Routes))
	vehicleTypeOf := make([]int, len(sol.Routes))
	for i, r := range sol.Routes {
		routes[i] = append([]int(nil), r.Visits...)
		vehicleTypeOf[i] = r.VehicleType
	}
	usedByType := make(map[int]int, pd.NumVehicleTypes())
	for _, vt := range vehicleTypeOf {
		usedByType[vt]++
	}

	// exclusiveGroupUsed tracks, per MutuallyExclusive group index, whether
	// some member is already assigned — seeded from the routes already in
	// sol, then kept current as repair places pending clients, so GreedyRepair
	// never inserts a second member of the same exclusive group.
	groups := pd.Groups()
	exclusiveGroupUsed := make(map[int]bool, len(groups))
	for _, visits := range routes {
		for _, c := range visits {
			if g := pd.Location(c).Group; g >= 0 && groups[g].MutuallyExclusive {
				exclusiveGroupUsed[g] = true
			}
		}
	}

	pending := append([]int(nil), sol.Unvisited...)

	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]

		group := pd.Location(c).Group
		exclusive := group >= 0 && groups[group].MutuallyExclusive
		if exclusive && exclusiveGroupUsed[group] {
			// Another member of c's exclusive group is already assigned;
			// leave c unvisited rather than violating the constraint.
			continue
		}

		best, err := bestInsertion(pd, ce, routes, vehicleTypeOf, usedByType, neighbours, c)
		if err != nil {
			return nil, err
		}
		if best == nil {
			// No vehicle-type capacity and no existing route accepted it;
			// leave it unvisited rather than erroring out.
			continue
		}

		if exclusive {
			exclusiveGroupUsed[group] = true
		}

		if best.routeIndex == -1 {
			routes = append(routes, []int{c})
			vehicleTypeOf = append(vehicleTypeOf, best.vehicleType)
			usedByType[best.vehicleType]++
			continue
		}

		visits := routes[best.routeIndex]
		inserted := make([]int, 0, len(visits)+1)
		if best.afterIndex < 0 {
			inserted = append(inserted, c)
			inserted = append(inserted, visits...)
		} else {
			inserted = append(inserted, visits[:best.afterIndex+1]...)
			inserted = append(inserted, c)
			inserted = append(inserted, visits[best.afterIndex+1:]...)
		}
		routes[best.routeIndex] = inserted
	}

	finalRoutes := make([]vrpsolution.Route, 0, len(routes))
	var stillUnvisited []int
	for i, visits := range routes {
		if len(visits) == 0 {
			continue
		}
		r, err := vrpsolution.NewRoute(pd, vehicleTypeOf[i], visits)
		if err != nil {
			return nil, err
		}
		finalRoutes = append(finalRoutes, r)
	}
	// Any client neither placed nor originally assigned stays unvisited.
	assigned := make(map[int]bool)
	for _, r := range finalRoutes {
		for _, c := range r.Visits {
			assigned[c] = true
		}
	}
	for _, c := range sol.Unvisited {
		if !assigned[c] {
			stillUnvisited = append(stillUnvisited, c)
		}
	}

	return vrpsolution.NewSolution(pd, finalRoutes, stillUnvisited)
}

// bestInsertion finds the cheapest place for client c: every candidate
// anchor position in every existing route (restricted to c's granular
// neighbours when that list is non-empty, exhaustive otherwise — an empty
// granular list most often means the instance is tiny or the solution has
// no routes at all yet) plus, for every vehicle type with an unused slot,
// a brand-new single-client route.
func bestInsertion(pd *vrpcore.ProblemData, ce costeval.CostEvaluator, routes [][]int, vehicleTypeOf []int, usedByType map[int]int, neighbours [][]int, c int) (*insertionCandidate, error) {
	var best *insertionCandidate

	consider := func(cand insertionCandidate) {
		if best == nil || cand.delta < best.delta || (cand.delta == best.delta && cand.tieKey < best.tieKey) {
			b := cand
			best = &b
		}
	}

	anchors := func(visits []int) []int {
		if c < len(neighbours) && len(neighbours[c]) > 0 {
			return neighbours[c]
		}
		return visits
	}

	for ri, visits := range routes {
		before, err := routeCostOf(pd, ce, vehicleTypeOf[ri], visits)
		if err != nil {
			return nil, err
		}

		tryAfter := func(afterIdx int) error {
			candidate := make([]int, 0, len(visits)+1)
			if afterIdx < 0 {
				candidate = append(candidate, c)
				candidate = append(candidate, visits...)
			} else {
				candidate = append(candidate, visits[:afterIdx+1]...)
				candidate = append(candidate, c)
				candidate = append(candidate, visits[afterIdx+1:]...)
			}
			after, err := routeCostOf(pd, ce, vehicleTypeOf[ri], candidate)
			if err != nil {
				return err
			}
			tieKey := c
			if afterIdx >= 0 {
				tieKey = visits[afterIdx]
			}
			consider(insertionCandidate{delta: after - before, tieKey: tieKey, routeIndex: ri, afterIndex: afterIdx})
			return nil
		}

		seenAnchor := make(map[int]bool)
		for _, anchor := range anchors(visits) {
			idx := indexOfInt(visits, anchor)
			if idx < 0 || seenAnchor[idx] {
				continue
			}
			seenAnchor[idx] = true
			if err := tryAfter(idx); err != nil {
				return nil, err
			}
		}
		if len(visits) > 0 {
			// Always also consider inserting at the very front, so a
			// route's first position is reachable even when c's granular
			// neighbours all sit further down the route.
			if err := tryAfter(-1); err != nil {
				return nil, err
			}
		}
	}

	for vti := 0; vti < pd.NumVehicleTypes(); vti++ {
		vt := pd.VehicleType(vti)
		if usedByType[vti] >= vt.NumAvailable {
			continue
		}
		r, err := vrpsolution.NewRoute(pd, vti, []int{c})
		if err != nil {
			continue
		}
		consider(insertionCandidate{delta: ce.RouteCost(pd, r), tieKey: vti, routeIndex: -1, vehicleType: vti})
	}

	return best, nil
}

func routeCostOf(pd *vrpcore.ProblemData, ce costeval.CostEvaluator, vehicleType int, visits []int) (int64, error) {
	if len(visits) == 0 {
		return 0, nil
	}
	r, err := vrpsolution.NewRoute(pd, vehicleType, visits)
	if err != nil {
		return 0, err
	}
	return ce.RouteCost(pd, r), nil
}

func indexOfInt(visits []int, c int) int {
	for i, v := range visits {
		if v == c {
			return i
		}
	}
	return -1
}
