// Package localsearch: engine driving the granular descent itself (see
// graph.go for the mutable working representation and operators.go for
// the move families).
package localsearch

import (
	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/randstream"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// LocalSearch holds the installed operator set and the precomputed
// granular neighbourhoods it scans candidates from.
type LocalSearch struct {
	pd         *vrpcore.ProblemData
	neighbours [][]int // client -> candidate partner clients
	rng        *randstream.Stream
	nodeOps    []NodeOperator
	routeOps   []RouteOperator
	perturbOps []PerturbationOperator
}

// PerturbationOperator is the extension point names
// (add_perturbation_operator); LocalSearch itself never invokes these —
// they are registered here so callers configuring a LocalSearch instance
// have one place to assemble the full operator set, which the perturb
// package's DestroyRepair composition then drives.
type PerturbationOperator interface {
	Name() string
}

// New returns a LocalSearch over pd's granular neighbourhood lists, with
// the full canonical node/route operator set installed (// Relocate, Swap, 2-Opt, Exchange2-0/3-0, MoveTwoClientsReversed,
// Exchange2-1/2-2, SwapTails, RelocateStar). Use AddNodeOperator/
// AddRouteOperator to extend it further.
func New(pd *vrpcore.ProblemData, neighbours [][]int, rng *randstream.Stream) *LocalSearch {
	ls := &LocalSearch{pd: pd, neighbours: neighbours, rng: rng}
	ls.AddNodeOperator(Relocate{})
	ls.AddNodeOperator(Swap{})
	ls.AddNodeOperator(TwoOpt{})
	ls.AddNodeOperator(Exchange2_0)
	ls.AddNodeOperator(Exchange3_0)
	ls.AddNodeOperator(MoveTwoClientsReversed)
	ls.AddNodeOperator(Exchange2_1)
	ls.AddNodeOperator(Exchange2_2)
	ls.AddRouteOperator(SwapTails{})
	ls.AddRouteOperator(RelocateStar{})
	return ls
}

// AddNodeOperator registers an additional node move family.
func (ls *LocalSearch) AddNodeOperator(op NodeOperator) { ls.nodeOps = append(ls.nodeOps, op) }

// AddRouteOperator registers an additional route move family.
func (ls *LocalSearch) AddRouteOperator(op RouteOperator) { ls.routeOps = append(ls.routeOps, op) }

// AddPerturbationOperator registers a perturbation operator for later
// retrieval by the perturb package; see PerturbationOperator.
func (ls *LocalSearch) AddPerturbationOperator(op PerturbationOperator) {
	ls.perturbOps = append(ls.perturbOps, op)
}

// PerturbationOperators returns the registered perturbation operators.
func (ls *LocalSearch) PerturbationOperators() []PerturbationOperator { return ls.perturbOps }

const improvementEpsilon int64 = 0

// Search imports current into a mutable working graph and iterates node
// passes (shuffled client order, first strictly-improving move applied
// immediately) followed by route passes (every route pair, every
// installed route operator), repeating until both converge. Exports the
// result as a new Solution. When exhaustive is true, every client's full
// (non-granular) candidate list is scanned instead of just its granular
// neighbours — used for Intensify on new incumbents.
func (ls *LocalSearch) Search(current *vrpsolution.Solution, ce costeval.CostEvaluator, exhaustive bool) (*vrpsolution.Solution, error) {
	g := newGraph(ls.pd, current)

	for {
		nodeImproved := ls.nodePass(g, ce, exhaustive)
		routeImproved := ls.routePass(g, ce)
		if !nodeImproved && !routeImproved {
			break
		}
	}

	return g.export(current.Unvisited)
}

// Intensify is Search with exhaustive==true, the enlarged-candidate-set
// pass reserves for new incumbent solutions.
func (ls *LocalSearch) Intensify(current *vrpsolution.Solution, ce costeval.CostEvaluator) (*vrpsolution.Solution, error) {
	return ls.Search(current, ce, true)
}

// nodePass performs one full shuffled scan over assigned clients, applying
// the first strictly improving node-operator move found for each client
// against its candidate partners, restarting the scan after every applied
// move (first-improvement discipline, matching tsp/two_opt.go
// restart-after-accept policy). Returns whether any move was applied.
func (ls *LocalSearch) nodePass(g *graph, ce costeval.CostEvaluator, exhaustive bool) bool {
	anyImproved := false
	for {
		order := g.assignedClients()
		ls.rng.ShuffleInts(order)

		improved := false
		for _, u := range order {
			candidates := ls.candidatesFor(g, u, exhaustive)
			for _, v := range candidates {
				if ls.tryNodeMoves(g, ce, u, v) {
					improved = true
					anyImproved = true
					break
				}
			}
			if improved {
				break
			}
		}
		if !improved {
			break
		}
	}
	return anyImproved
}

// candidatesFor returns u's granular neighbour list, or every other
// assigned client when exhaustive is requested.
func (ls *LocalSearch) candidatesFor(g *graph, u int, exhaustive bool) []int {
	if !exhaustive {
		if u < len(ls.neighbours) {
			return ls.neighbours[u]
		}
		return nil
	}
	all := g.assignedClients()
	out := make([]int, 0, len(all))
	for _, c := range all {
		if c != u {
			out = append(out, c)
		}
	}
	return out
}

// tryNodeMoves evaluates every installed node operator for the pair (u, v)
// and applies the first strictly improving one found.
func (ls *LocalSearch) tryNodeMoves(g *graph, ce costeval.CostEvaluator, u, v int) bool {
	for _, op := range ls.nodeOps {
		delta, ok := op.Evaluate(g, ce, u, v)
		if ok && delta < -improvementEpsilon {
			op.Apply(g, u, v)
			return true
		}
	}
	return false
}

// routePass evaluates every installed route operator over every pair of
// routes, applying the first strictly improving move found. Returns
// whether any move was applied.
func (ls *LocalSearch) routePass(g *graph, ce costeval.CostEvaluator) bool {
	anyImproved := false
	for {
		improved := false
		n := len(g.routes)
		for r1 := 0; r1 < n && !improved; r1++ {
			for r2 := r1 + 1; r2 < n && !improved; r2++ {
				for _, op := range ls.routeOps {
					delta, ok := op.Evaluate(g, ce, r1, r2)
					if ok && delta < -improvementEpsilon {
						op.Apply(g, ce, r1, r2)
						improved = true
						anyImproved = true
						break
					}
				}
			}
		}
		if !improved {
			break
		}
	}
	return anyImproved
}
