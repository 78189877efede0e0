package localsearch

import "github.com/katalvlaran/vrpsolve/costeval"

// This file generalizes Relocate/Swap (operators.go) to the multi-client
// segment moves: Exchange2-0, Exchange3-0 (relocate a
// segment of 2 or 3 consecutive clients), MoveTwoClientsReversed (the
// reversed-insertion variant of Exchange2-0), and Exchange2-1/Exchange2-2
// (swap a segment against a single client or another segment). Each is a
// thin configuration of one of the two generic move shapes below rather
// than a hand-duplicated operator, matching how operators.go's Relocate
// and Swap already share routeCostAfter/currentRouteCost as their pricing
// core.

// segmentOf returns the length-n run of clients starting at (and
// including) u, in visit order within u's own route, or ok==false if that
// many clients don't exist starting there (u too close to the route's
// end).
func segmentOf(g *graph, u, length int) (seg []int, ok bool) {
	ru := g.routeOf[u]
	if ru < 0 {
		return nil, false // u is currently unvisited, not a route member
	}
	visits := g.routes[ru].visits
	iu := indexOf(visits, u)
	if iu < 0 || iu+length > len(visits) {
		return nil, false
	}
	return append([]int(nil), visits[iu:iu+length]...), true
}

func reversedCopy(s []int) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

func containsInt(s []int, c int) bool {
	for _, v := range s {
		if v == c {
			return true
		}
	}
	return false
}

func removeSegment(visits []int, start, length int) []int {
	out := make([]int, 0, len(visits)-length)
	out = append(out, visits[:start]...)
	out = append(out, visits[start+length:]...)
	return out
}

func insertSegmentAfter(visits []int, seg []int, after int) []int {
	out := make([]int, 0, len(visits)+len(seg))
	for _, v := range visits {
		out = append(out, v)
		if v == after {
			out = append(out, seg...)
		}
	}
	return out
}

// relocateSegment moves a contiguous run of `length` clients starting at u
// to immediately after v, optionally reversing the run's internal order
// (MoveTwoClientsReversed). The single-client case (length==1) is
// Relocate/Exchange1-0, implemented separately in operators.go because it
// needs no segment bookkeeping at all.
type relocateSegment struct {
	length   int
	reversed bool
	name     string
}

// Exchange2_0 relocates (u, succ(u)) to immediately after v.
var Exchange2_0 NodeOperator = relocateSegment{length: 2, name: "Exchange2-0"}

// Exchange3_0 relocates (u, succ(u), succ(succ(u))) to immediately after v.
var Exchange3_0 NodeOperator = relocateSegment{length: 3, name: "Exchange3-0"}

// MoveTwoClientsReversed relocates (u, succ(u)) to immediately after v,
// with the pair's internal order reversed.
var MoveTwoClientsReversed NodeOperator = relocateSegment{length: 2, reversed: true, name: "MoveTwoClientsReversed"}

func (op relocateSegment) Name() string { return op.name }

func (op relocateSegment) Evaluate(g *graph, ce costeval.CostEvaluator, u, v int) (int64, bool) {
	seg, ok := segmentOf(g, u, op.length)
	if !ok || containsInt(seg, v) {
		return 0, false
	}
	ru, rv := g.routeOf[u], g.routeOf[v]
	if rv < 0 {
		return 0, false // v is currently unvisited, not a route member
	}
	if ru == rv && g.pred[seg[0]] == v && !op.reversed {
		return 0, false // already positioned right after v
	}

	before := currentRouteCost(g, ce, ru)
	if ru != rv {
		before += currentRouteCost(g, ce, rv)
	}

	ordered := seg
	if op.reversed {
		ordered = reversedCopy(seg)
	}

	iu := indexOf(g.routes[ru].visits, u)
	withoutSeg := removeSegment(g.routes[ru].visits, iu, op.length)

	if ru == rv {
		newRoute := insertSegmentAfter(withoutSeg, ordered, v)
		after, err := routeCostAfter(g, ce, ru, newRoute)
		if err != nil {
			return 0, false
		}
		return after - before, true
	}

	newVRoute := insertSegmentAfter(g.routes[rv].visits, ordered, v)
	afterU, err := routeCostAfter(g, ce, ru, withoutSeg)
	if err != nil {
		return 0, false
	}
	afterV, err := routeCostAfter(g, ce, rv, newVRoute)
	if err != nil {
		return 0, false
	}
	return (afterU + afterV) - before, true
}

func (op relocateSegment) Apply(g *graph, u, v int) {
	seg, ok := segmentOf(g, u, op.length)
	if !ok {
		return
	}
	ordered := seg
	if op.reversed {
		ordered = reversedCopy(seg)
	}
	rv := g.routeOf[v]
	for _, c := range seg {
		g.removeClient(c)
	}
	prev := v
	for _, c := range ordered {
		g.insertAfter(c, rv, prev)
		prev = c
	}
}

// exchangeSegments swaps a run of lenU clients starting at u with a run of
// lenV clients starting at v (Exchange2-1 when one side is length 1,
// Exchange2-2 when both sides are length 2).
type exchangeSegments struct {
	lenU, lenV int
	name       string
}

// Exchange2_1 swaps (u, succ(u)) with the single client v.
var Exchange2_1 NodeOperator = exchangeSegments{lenU: 2, lenV: 1, name: "Exchange2-1"}

// Exchange2_2 swaps (u, succ(u)) with (v, succ(v)).
var Exchange2_2 NodeOperator = exchangeSegments{lenU: 2, lenV: 2, name: "Exchange2-2"}

func (op exchangeSegments) Name() string { return op.name }

func rangesOverlap(a, la, b, lb int) bool { return a < b+lb && b < a+la }

func (op exchangeSegments) Evaluate(g *graph, ce costeval.CostEvaluator, u, v int) (int64, bool) {
	segU, ok := segmentOf(g, u, op.lenU)
	if !ok {
		return 0, false
	}
	segV, ok := segmentOf(g, v, op.lenV)
	if !ok {
		return 0, false
	}
	for _, c := range segU {
		if containsInt(segV, c) {
			return 0, false
		}
	}

	ru, rv := g.routeOf[u], g.routeOf[v]
	before := currentRouteCost(g, ce, ru)
	if ru != rv {
		before += currentRouteCost(g, ce, rv)
	}

	if ru != rv {
		iu := indexOf(g.routes[ru].visits, u)
		iv := indexOf(g.routes[rv].visits, v)
		newURoute := spliceReplace(g.routes[ru].visits, iu, op.lenU, segV)
		newVRoute := spliceReplace(g.routes[rv].visits, iv, op.lenV, segU)
		afterU, err := routeCostAfter(g, ce, ru, newURoute)
		if err != nil {
			return 0, false
		}
		afterV, err := routeCostAfter(g, ce, rv, newVRoute)
		if err != nil {
			return 0, false
		}
		return (afterU + afterV) - before, true
	}

	visits := g.routes[ru].visits
	iu, iv := indexOf(visits, u), indexOf(visits, v)
	if rangesOverlap(iu, op.lenU, iv, op.lenV) {
		return 0, false
	}
	newRoute := spliceSwapSameRoute(visits, iu, op.lenU, segU, iv, op.lenV, segV)
	after, err := routeCostAfter(g, ce, ru, newRoute)
	if err != nil {
		return 0, false
	}
	return after - before, true
}

func (op exchangeSegments) Apply(g *graph, u, v int) {
	segU, ok := segmentOf(g, u, op.lenU)
	if !ok {
		return
	}
	segV, ok := segmentOf(g, v, op.lenV)
	if !ok {
		return
	}
	ru, rv := g.routeOf[u], g.routeOf[v]

	if ru == rv {
		visits := g.routes[ru].visits
		iu, iv := indexOf(visits, u), indexOf(visits, v)
		newRoute := spliceSwapSameRoute(visits, iu, op.lenU, segU, iv, op.lenV, segV)
		commitRoute(g, ru, newRoute)
		return
	}

	predU, predV := predecessorOf(g, ru, u), predecessorOf(g, rv, v)
	for _, c := range segU {
		g.removeClient(c)
	}
	for _, c := range segV {
		g.removeClient(c)
	}
	prev := predU
	for _, c := range segV {
		g.insertAfter(c, ru, prev)
		prev = c
	}
	prev = predV
	for _, c := range segU {
		g.insertAfter(c, rv, prev)
		prev = c
	}
}

// predecessorOf returns ri's route-relative predecessor of client c, i.e.
// the depot or client Apply should re-anchor its replacement segment
// after, captured before any removal mutates the route.
func predecessorOf(g *graph, ri, c int) int {
	rs := g.routes[ri]
	idx := indexOf(rs.visits, c)
	if idx == 0 {
		return rs.startDepot
	}
	return rs.visits[idx-1]
}

// spliceReplace removes the length-n run starting at start and splices in
// replacement at the same position, for the across-routes case where no
// index-ordering ambiguity arises.
func spliceReplace(visits []int, start, length int, replacement []int) []int {
	out := make([]int, 0, len(visits)-length+len(replacement))
	out = append(out, visits[:start]...)
	out = append(out, replacement...)
	out = append(out, visits[start+length:]...)
	return out
}

// spliceSwapSameRoute exchanges two disjoint, non-overlapping runs within
// one route's visit list: [a,a+la) <- segB, [b,b+lb) <- segA, preserving
// whichever run comes first in index order.
func spliceSwapSameRoute(visits []int, a, la int, segA []int, b, lb int, segB []int) []int {
	out := make([]int, 0, len(visits)-la-lb+len(segA)+len(segB))
	if a < b {
		out = append(out, visits[:a]...)
		out = append(out, segB...)
		out = append(out, visits[a+la:b]...)
		out = append(out, segA...)
		out = append(out, visits[b+lb:]...)
	} else {
		out = append(out, visits[:b]...)
		out = append(out, segA...)
		out = append(out, visits[b+lb:a]...)
		out = append(out, segB...)
		out = append(out, visits[a+la:]...)
	}
	return out
}
