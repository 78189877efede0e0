package localsearch

import (
	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// NodeOperator evaluates and applies a candidate move placing client u next
// to client v (the exact relationship — "after v", "swap with v", ... — is
// operator-specific). Returning ok==false means the move is not applicable
// (e.g. u and v already adjacent in the required way) and Apply must not
// be called for it.
type NodeOperator interface {
	Name() string
	// Evaluate returns the penalized-cost delta of applying this move, and
	// whether the move is structurally applicable at all.
	Evaluate(g *graph, ce costeval.CostEvaluator, u, v int) (delta int64, ok bool)
	Apply(g *graph, u, v int)
}

// RouteOperator evaluates and applies a candidate move between two whole
// routes (e.g. a best reciprocal relocation), rather than a single client
// pair.
type RouteOperator interface {
	Name() string
	Evaluate(g *graph, ce costeval.CostEvaluator, r1, r2 int) (delta int64, ok bool)
	Apply(g *graph, ce costeval.CostEvaluator, r1, r2 int)
}

// routeCostAfter scores a hypothetical visits list for route ri without
// mutating the graph, by constructing a throwaway vrpsolution.Route.
func routeCostAfter(g *graph, ce costeval.CostEvaluator, ri int, visits []int) (int64, error) {
	if len(visits) == 0 {
		return 0, nil
	}
	r, err := vrpsolution.NewRoute(g.pd, g.routes[ri].vehicleType, visits)
	if err != nil {
		return 0, err
	}
	return ce.RouteCost(g.pd, r), nil
}

func currentRouteCost(g *graph, ce costeval.CostEvaluator, ri int) int64 {
	c, err := routeCostAfter(g, ce, ri, g.routes[ri].visits)
	if err != nil {
		return 0
	}
	return c
}

func without(visits []int, c int) []int {
	out := make([]int, 0, len(visits))
	for _, v := range visits {
		if v != c {
			out = append(out, v)
		}
	}
	return out
}

func insertAfterSlice(visits []int, c, after int) []int {
	out := make([]int, 0, len(visits)+1)
	for _, v := range visits {
		out = append(out, v)
		if v == after {
			out = append(out, c)
		}
	}
	return out
}

func indexOf(visits []int, c int) int {
	for i, v := range visits {
		if v == c {
			return i
		}
	}
	return -1
}

func reverseSegment(visits []int, i, j int) {
	for i < j {
		visits[i], visits[j] = visits[j], visits[i]
		i++
		j--
	}
}

// Relocate is Exchange1-0: remove client u from its current position and
// reinsert it immediately after client v (in v's route, which may be u's
// own route).
type Relocate struct{}

func (Relocate) Name() string { return "Relocate" }

func (Relocate) Evaluate(g *graph, ce costeval.CostEvaluator, u, v int) (int64, bool) {
	if u == v || g.pred[u] == v {
		return 0, false // already positioned right after v
	}
	ru, rv := g.routeOf[u], g.routeOf[v]
	if ru < 0 || rv < 0 {
		return 0, false // one side is currently unvisited, not a route member
	}

	before := currentRouteCost(g, ce, ru)
	if ru != rv {
		before += currentRouteCost(g, ce, rv)
	}

	withoutU := without(g.routes[ru].visits, u)
	var newVRoute []int
	if ru == rv {
		newVRoute = insertAfterSlice(withoutU, u, v)
	} else {
		newVRoute = insertAfterSlice(g.routes[rv].visits, u, v)
	}

	if ru == rv {
		after, err := routeCostAfter(g, ce, rv, newVRoute)
		if err != nil {
			return 0, false
		}
		return after - before, true
	}

	afterU, err := routeCostAfter(g, ce, ru, withoutU)
	if err != nil {
		return 0, false
	}
	afterV, err := routeCostAfter(g, ce, rv, newVRoute)
	if err != nil {
		return 0, false
	}
	return (afterU + afterV) - before, true
}

func (Relocate) Apply(g *graph, u, v int) {
	g.removeClient(u)
	rv := g.routeOf[v]
	g.insertAfter(u, rv, v)
}

// Swap is Exchange1-1: exchange the positions of clients u and v (which may
// belong to the same or different routes).
type Swap struct{}

func (Swap) Name() string { return "Swap" }

func (Swap) Evaluate(g *graph, ce costeval.CostEvaluator, u, v int) (int64, bool) {
	if u == v {
		return 0, false
	}
	ru, rv := g.routeOf[u], g.routeOf[v]
	if ru < 0 || rv < 0 {
		return 0, false // one side is currently unvisited, not a route member
	}

	before := currentRouteCost(g, ce, ru)
	if ru != rv {
		before += currentRouteCost(g, ce, rv)
	}

	if ru == rv {
		swapped := swapWithin(g.routes[ru].visits, u, v)
		after, err := routeCostAfter(g, ce, ru, swapped)
		if err != nil {
			return 0, false
		}
		return after - before, true
	}

	swappedU := replaceAt(g.routes[ru].visits, u, v)
	swappedV := replaceAt(g.routes[rv].visits, v, u)
	afterU, err := routeCostAfter(g, ce, ru, swappedU)
	if err != nil {
		return 0, false
	}
	afterV, err := routeCostAfter(g, ce, rv, swappedV)
	if err != nil {
		return 0, false
	}
	return (afterU + afterV) - before, true
}

func (Swap) Apply(g *graph, u, v int) {
	ru, rv := g.routeOf[u], g.routeOf[v]
	if ru == rv {
		commitRoute(g, ru, swapWithin(g.routes[ru].visits, u, v))
		return
	}
	pu, pv := g.pred[u], g.pred[v]

	g.removeClient(u)
	g.removeClient(v)

	g.insertAfter(v, ru, pu)
	g.insertAfter(u, rv, pv)
}

func replaceAt(visits []int, old, new int) []int {
	out := append([]int(nil), visits...)
	for i, v := range out {
		if v == old {
			out[i] = new
		}
	}
	return out
}

func swapWithin(visits []int, a, b int) []int {
	out := append([]int(nil), visits...)
	ia, ib := indexOf(out, a), indexOf(out, b)
	if ia >= 0 && ib >= 0 {
		out[ia], out[ib] = out[ib], out[ia]
	}
	return out
}

// TwoOpt reverses the route segment between two clients u and v in the
// same route (classic 2-opt; the between-route case is covered by
// SwapTails, not this operator).
type TwoOpt struct{}

func (TwoOpt) Name() string { return "2-Opt" }

func (TwoOpt) Evaluate(g *graph, ce costeval.CostEvaluator, u, v int) (int64, bool) {
	ru, rv := g.routeOf[u], g.routeOf[v]
	if ru != rv || u == v {
		return 0, false
	}
	visits := g.routes[ru].visits
	iu, iv := indexOf(visits, u), indexOf(visits, v)
	if iu < 0 || iv < 0 || iu >= iv {
		return 0, false
	}

	before := currentRouteCost(g, ce, ru)
	reversed := append([]int(nil), visits...)
	reverseSegment(reversed, iu, iv)

	after, err := routeCostAfter(g, ce, ru, reversed)
	if err != nil {
		return 0, false
	}
	return after - before, true
}

func (TwoOpt) Apply(g *graph, u, v int) {
	ru := g.routeOf[u]
	rs := g.routes[ru]
	iu, iv := indexOf(rs.visits, u), indexOf(rs.visits, v)
	reverseSegment(rs.visits, iu, iv)

	before := rs.startDepot
	if iu > 0 {
		before = rs.visits[iu-1]
	}
	after := rs.endDepot
	if iv+1 < len(rs.visits) {
		after = rs.visits[iv+1]
	}

	prev := before
	for i := iu; i <= iv; i++ {
		c := rs.visits[i]
		g.pred[c] = prev
		if g.pd.IsClient(prev) {
			g.succ[prev] = c
		}
		prev = c
	}
	g.succ[prev] = after
	if g.pd.IsClient(after) {
		g.pred[after] = prev
	}
}

// SwapTails is a route operator: for routes r1 and r2 it tries every split
// point i in r1 and j in r2, exchanging the suffix of r1 after position i
// with the suffix of r2 after position j (the between-route analogue of
// 2-opt*), and keeps the cheapest such exchange.
type SwapTails struct{}

func (SwapTails) Name() string { return "SwapTails" }

func (SwapTails) Evaluate(g *graph, ce costeval.CostEvaluator, r1, r2 int) (int64, bool) {
	if r1 == r2 {
		return 0, false
	}
	v1, v2 := g.routes[r1].visits, g.routes[r2].visits
	if len(v1) == 0 || len(v2) == 0 {
		return 0, false
	}

	before := currentRouteCost(g, ce, r1) + currentRouteCost(g, ce, r2)

	bestDelta := int64(0)
	found := false
	for i := 0; i < len(v1); i++ {
		for j := 0; j < len(v2); j++ {
			newV1 := append(append([]int(nil), v1[:i+1]...), v2[j+1:]...)
			newV2 := append(append([]int(nil), v2[:j+1]...), v1[i+1:]...)
			c1, err1 := routeCostAfter(g, ce, r1, newV1)
			c2, err2 := routeCostAfter(g, ce, r2, newV2)
			if err1 != nil || err2 != nil {
				continue
			}
			delta := (c1 + c2) - before
			if !found || delta < bestDelta {
				bestDelta, found = delta, true
			}
		}
	}
	return bestDelta, found
}

// Apply re-derives the same best split Evaluate scored (Evaluate and Apply
// are always called as a pair on an unmodified graph, so re-deriving here
// is exact, not approximate) and commits it.
func (SwapTails) Apply(g *graph, ce costeval.CostEvaluator, r1, r2 int) {
	rs1, rs2 := g.routes[r1], g.routes[r2]
	v1, v2 := append([]int(nil), rs1.visits...), append([]int(nil), rs2.visits...)

	bestI, bestJ := -1, -1
	var bestDelta int64
	before := currentRouteCost(g, ce, r1) + currentRouteCost(g, ce, r2)
	for i := 0; i < len(v1); i++ {
		for j := 0; j < len(v2); j++ {
			newV1 := append(append([]int(nil), v1[:i+1]...), v2[j+1:]...)
			newV2 := append(append([]int(nil), v2[:j+1]...), v1[i+1:]...)
			c1, err1 := routeCostAfter(g, ce, r1, newV1)
			c2, err2 := routeCostAfter(g, ce, r2, newV2)
			if err1 != nil || err2 != nil {
				continue
			}
			delta := (c1 + c2) - before
			if bestI == -1 || delta < bestDelta {
				bestI, bestJ, bestDelta = i, j, delta
			}
		}
	}
	if bestI == -1 {
		return
	}

	newV1 := append(append([]int(nil), v1[:bestI+1]...), v2[bestJ+1:]...)
	newV2 := append(append([]int(nil), v2[:bestJ+1]...), v1[bestI+1:]...)

	commitRoute(g, r1, newV1)
	commitRoute(g, r2, newV2)
}

// commitRoute replaces route ri's visits wholesale and rebuilds pred/succ/
// routeOf for every client now in it.
func commitRoute(g *graph, ri int, visits []int) {
	rs := g.routes[ri]
	rs.visits = append([]int(nil), visits...)

	prev := rs.startDepot
	for _, c := range rs.visits {
		g.routeOf[c] = ri
		g.pred[c] = prev
		if g.pd.IsClient(prev) {
			g.succ[prev] = c
		}
		prev = c
	}
	if len(rs.visits) > 0 {
		g.succ[rs.visits[len(rs.visits)-1]] = rs.endDepot
	}
}
