// Package localsearch implements the granular descent over node and route
// moves described by : a mutable linked-route graph on which
// node/route operators evaluate and apply moves in place, committed back
// to an immutable vrpsolution.Solution once no operator improves further.
//
// Grounded on tsp/two_opt.go (first-improvement scanning,
// in-place segment reversal, successor-array rewiring for non-reversing
// moves) generalized from a single Hamiltonian cycle to many routes
// sharing one client index space.
package localsearch

import (
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// noClient marks a pred/succ slot that is not set: the location is a depot
// or a client not on any route. A route boundary is stored as the actual
// start/end depot index instead, so noClient never collides with it.
const noClient = -1

// graph is the mutable working representation local search operates on.
// pred/succ/route are indexed by client location index (depots excluded);
// route bounds, vehicle type, and cached aggregates live in routes.
type graph struct {
	pd *vrpcore.ProblemData

	pred, succ []int // client -> client, or start/end depot index
	routeOf    []int // client -> owning route index, or -1 if unvisited

	routes []*routeState
}

// routeState mirrors vrpsolution.Route but is rebuilt from pred/succ
// lazily (recompute) whenever an operator needs current aggregates; local
// search does not attempt incremental prefix/suffix caching beyond what a
// straightforward recompute-on-touch discipline gives, trading peak
// performance for a graph simple enough to keep correct under many
// operator families.
type routeState struct {
	vehicleType int
	startDepot  int
	endDepot    int
	visits      []int
}

// newGraph imports sol into a mutable working graph for pd.
func newGraph(pd *vrpcore.ProblemData, sol *vrpsolution.Solution) *graph {
	n := pd.NumLocations()
	g := &graph{
		pd:      pd,
		pred:    make([]int, n),
		succ:    make([]int, n),
		routeOf: make([]int, n),
	}
	for i := range g.routeOf {
		g.routeOf[i] = -1
		g.pred[i] = noClient
		g.succ[i] = noClient
	}

	for ri, r := range sol.Routes {
		vt := pd.VehicleType(r.VehicleType)
		rs := &routeState{vehicleType: r.VehicleType, startDepot: vt.StartDepot, endDepot: vt.EndDepot, visits: append([]int(nil), r.Visits...)}
		g.routes = append(g.routes, rs)

		prev := vt.StartDepot
		for _, c := range r.Visits {
			g.pred[c] = prev
			g.routeOf[c] = ri
			if prevIsClient(pd, prev) {
				g.succ[prev] = c
			}
			prev = c
		}
		if len(r.Visits) > 0 {
			g.succ[r.Visits[len(r.Visits)-1]] = vt.EndDepot
		}
	}
	return g
}

func prevIsClient(pd *vrpcore.ProblemData, idx int) bool { return pd.IsClient(idx) }

// export rebuilds an immutable Solution from the current graph state.
func (g *graph) export(unvisited []int) (*vrpsolution.Solution, error) {
	routes := make([]vrpsolution.Route, 0, len(g.routes))
	for _, rs := range g.routes {
		if len(rs.visits) == 0 {
			continue
		}
		r, err := vrpsolution.NewRoute(g.pd, rs.vehicleType, rs.visits)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return vrpsolution.NewSolution(g.pd, routes, unvisited)
}

// removeClient detaches c from its route, rewiring pred/succ around it.
// Does not alter routeOf[c]; callers must set its new placement themselves.
func (g *graph) removeClient(c int) {
	ri := g.routeOf[c]
	rs := g.routes[ri]
	p, s := g.pred[c], g.succ[c]

	if prevIsClient(g.pd, p) {
		g.succ[p] = s
	}
	if g.pd.IsClient(s) {
		g.pred[s] = p
	}

	for i, v := range rs.visits {
		if v == c {
			rs.visits = append(rs.visits[:i], rs.visits[i+1:]...)
			break
		}
	}
}

// insertAfter places client c into route ri immediately after afterClient
// (or at the route's start, if afterClient equals the route's start
// depot), rewiring pred/succ and routeOf accordingly.
func (g *graph) insertAfter(c, ri, afterClient int) {
	rs := g.routes[ri]
	g.routeOf[c] = ri

	var insertAt int // position in rs.visits to insert before
	var before, after int

	if afterClient == rs.startDepot {
		insertAt = 0
		before = rs.startDepot
	} else {
		idx := -1
		for i, v := range rs.visits {
			if v == afterClient {
				idx = i
				break
			}
		}
		if idx == -1 {
			panic("localsearch: insertAfter: afterClient not found in route")
		}
		insertAt = idx + 1
		before = afterClient
	}

	if insertAt < len(rs.visits) {
		after = rs.visits[insertAt]
	} else {
		after = rs.endDepot
	}

	tail := append([]int(nil), rs.visits[insertAt:]...)
	rs.visits = append(append(rs.visits[:insertAt:insertAt], c), tail...)

	g.pred[c] = before
	g.succ[c] = after
	if g.pd.IsClient(before) {
		g.succ[before] = c
	}
	if g.pd.IsClient(after) {
		g.pred[after] = c
	}
}

// assignedClients returns every client index currently assigned to some route, in
// routeOf order, used by Search to build the shuffled scan order.
func (g *graph) assignedClients() []int {
	out := make([]int, 0, len(g.routeOf))
	for c, ri := range g.routeOf {
		if ri >= 0 {
			out = append(out, c)
		}
	}
	return out
}
