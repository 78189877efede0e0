package localsearch

import "github.com/katalvlaran/vrpsolve/costeval"

// RelocateStar considers relocating the single best client from r1 into
// its best position in r2, and the single best client from r2 into its
// best position in r1, and applies whichever direction is most improving
// ("Relocate the best client from r1 into r2 (and vice
// versa) in its best position.").
//
// Grounded on the same recompute-don't-cache pricing core SwapTails uses
// (operators.go): Evaluate and Apply both call bestRelocation fresh
// against the unmodified graph, so Apply's re-derivation of the winning
// candidate is exact.
type RelocateStar struct{}

func (RelocateStar) Name() string { return "RelocateStar" }

type relocateCandidate struct {
	client      int
	toRoute     int
	insertAfter int // location id to insert client immediately after
	delta       int64
}

// bestRelocation finds the cheapest (client, insertion position) pair for
// moving one client out of `from` and into `to`, or ok==false if `from`
// is empty.
func bestRelocation(g *graph, ce costeval.CostEvaluator, from, to int) (relocateCandidate, bool) {
	fromVisits := g.routes[from].visits
	toVisits := g.routes[to].visits
	if len(fromVisits) == 0 {
		return relocateCandidate{}, false
	}

	before := currentRouteCost(g, ce, from) + currentRouteCost(g, ce, to)

	var best relocateCandidate
	found := false
	for _, c := range fromVisits {
		withoutC := without(fromVisits, c)
		afterFrom, err := routeCostAfter(g, ce, from, withoutC)
		if err != nil {
			continue
		}

		positions := make([]int, 0, len(toVisits)+1)
		positions = append(positions, g.routes[to].startDepot)
		positions = append(positions, toVisits...)

		for _, afterLoc := range positions {
			newTo := insertClientAt(toVisits, c, afterLoc, g.routes[to].startDepot)
			afterTo, err := routeCostAfter(g, ce, to, newTo)
			if err != nil {
				continue
			}
			delta := (afterFrom + afterTo) - before
			if !found || delta < best.delta {
				best = relocateCandidate{client: c, toRoute: to, insertAfter: afterLoc, delta: delta}
				found = true
			}
		}
	}
	return best, found
}

func insertClientAt(visits []int, c, afterLoc, startDepot int) []int {
	if afterLoc == startDepot {
		out := make([]int, 0, len(visits)+1)
		out = append(out, c)
		out = append(out, visits...)
		return out
	}
	return insertAfterSlice(visits, c, afterLoc)
}

func (RelocateStar) Evaluate(g *graph, ce costeval.CostEvaluator, r1, r2 int) (int64, bool) {
	if r1 == r2 {
		return 0, false
	}
	c1, ok1 := bestRelocation(g, ce, r1, r2)
	c2, ok2 := bestRelocation(g, ce, r2, r1)
	return pickBestRelocation(c1, ok1, c2, ok2)
}

func pickBestRelocation(c1 relocateCandidate, ok1 bool, c2 relocateCandidate, ok2 bool) (int64, bool) {
	switch {
	case ok1 && ok2:
		if c1.delta <= c2.delta {
			return c1.delta, true
		}
		return c2.delta, true
	case ok1:
		return c1.delta, true
	case ok2:
		return c2.delta, true
	default:
		return 0, false
	}
}

func (RelocateStar) Apply(g *graph, ce costeval.CostEvaluator, r1, r2 int) {
	c1, ok1 := bestRelocation(g, ce, r1, r2)
	c2, ok2 := bestRelocation(g, ce, r2, r1)

	var best relocateCandidate
	switch {
	case ok1 && ok2:
		best = c1
		if c2.delta < c1.delta {
			best = c2
		}
	case ok1:
		best = c1
	case ok2:
		best = c2
	default:
		return
	}

	g.removeClient(best.client)
	g.insertAfter(best.client, best.toRoute, best.insertAfter)
}
