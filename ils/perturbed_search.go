package ils

import (
	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/localsearch"
	"github.com/katalvlaran/vrpsolve/perturb"
	"github.com/katalvlaran/vrpsolve/randstream"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// PerturbedLocalSearch is the SearchMethod the wiring below composes:
// "perturb -> LocalSearch(current, CostEvaluator) -> candidate". It wires
// perturb.DestroyRepair (with its ConvergenceManager-adapted removal size)
// into a localsearch.LocalSearch that polishes the perturbed solution.
// Clients the perturbation leaves unvisited stay unvisited (see Search).
type PerturbedLocalSearch struct {
	pd         *vrpcore.ProblemData
	dr         *perturb.DestroyRepair
	conv       *perturb.ConvergenceManager
	ls         *localsearch.LocalSearch
	rng        *randstream.Stream
	neighbours [][]int
}

// NewPerturbedLocalSearch wires a destroy/repair perturbation stage to a
// local search repair/polish stage.
func NewPerturbedLocalSearch(pd *vrpcore.ProblemData, dr *perturb.DestroyRepair, conv *perturb.ConvergenceManager, ls *localsearch.LocalSearch, rng *randstream.Stream, neighbours [][]int) *PerturbedLocalSearch {
	return &PerturbedLocalSearch{pd: pd, dr: dr, conv: conv, ls: ls, rng: rng, neighbours: neighbours}
}

// Search implements SearchMethod.
func (p *PerturbedLocalSearch) Search(current *vrpsolution.Solution, ce costeval.CostEvaluator) (*vrpsolution.Solution, error) {
	destroyed, err := p.dr.Call(p.pd, current, ce, p.rng, p.neighbours, p.conv.NumDestroy())
	if err != nil {
		return nil, err
	}
	p.conv.Register(brokenPairs(current, destroyed))

	// When DestroyRepair had no repair operator registered, destroyed keeps
	// a non-empty Unvisited alongside its Routes. LocalSearch never reads
	// Unvisited and never reassigns those clients itself: its node/route
	// operators skip any candidate pair touching one (see
	// localsearch.segmentOf and the routeOf<0 guards in Relocate/Swap), and
	// export carries the same Unvisited list straight through unchanged. A
	// registered RepairOperator, not this fallback, is what actually places
	// them.
	return p.ls.Search(destroyed, ce, false)
}

// brokenPairs counts consecutive-visit edges present in before's routes
// that no longer appear in after's routes — the "broken pairs" metric
// ConvergenceManager.Register expects (original_source's destroy
// operators report this as the number of adjacency edges a removal cut).
func brokenPairs(before, after *vrpsolution.Solution) int {
	afterEdges := edgeSet(after)
	broken := 0
	for edge := range edgeSet(before) {
		if !afterEdges[edge] {
			broken++
		}
	}
	return broken
}

type edge struct{ u, v int }

func edgeSet(s *vrpsolution.Solution) map[edge]bool {
	edges := make(map[edge]bool)
	for _, r := range s.Routes {
		prev := r.StartDepot
		for _, c := range r.Visits {
			edges[edge{prev, c}] = true
			prev = c
		}
		edges[edge{prev, r.EndDepot}] = true
	}
	return edges
}
