// Package perturb implements the destroy/repair perturbation operators
// names, plus the composition ("DestroyRepair") that applies
// them between local search calls, and the ConvergenceManager that adapts
// how many clients each destroy call removes over the course of a solve.
package perturb

import (
	"sort"

	"github.com/katalvlaran/vrpsolve/randstream"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// DestroyOperator removes up to numRemovals clients from sol, returning a
// Solution whose Unvisited list has grown accordingly (routes are rebuilt
// without the removed clients; any route left empty is dropped).
type DestroyOperator interface {
	Name() string
	Destroy(pd *vrpcore.ProblemData, sol *vrpsolution.Solution, rng *randstream.Stream, neighbours [][]int, numRemovals int) (*vrpsolution.Solution, error)
}

// rebuildWithout reconstructs sol, omitting every client in removed from
// whichever route currently holds it; routes left with no visits are
// dropped (matching original_source's destroy/concentric.py, which
// rebuilds the route list with list-comprehension skip semantics rather
// than keeping an empty Route placeholder).
func rebuildWithout(pd *vrpcore.ProblemData, sol *vrpsolution.Solution, removed map[int]bool) (*vrpsolution.Solution, error) {
	routes := make([]vrpsolution.Route, 0, len(sol.Routes))
	for _, r := range sol.Routes {
		kept := make([]int, 0, len(r.Visits))
		for _, c := range r.Visits {
			if !removed[c] {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			continue
		}
		nr, err := vrpsolution.NewRoute(pd, r.VehicleType, kept)
		if err != nil {
			return nil, err
		}
		routes = append(routes, nr)
	}

	unvisited := append([]int(nil), sol.Unvisited...)
	for c := range removed {
		unvisited = append(unvisited, c)
	}
	sort.Ints(unvisited)

	return vrpsolution.NewSolution(pd, routes, unvisited)
}

// visitedSet returns the set of clients that currently appear in some
// route of sol.
func visitedSet(sol *vrpsolution.Solution) map[int]bool {
	seen := make(map[int]bool)
	for _, r := range sol.Routes {
		for _, c := range r.Visits {
			seen[c] = true
		}
	}
	return seen
}

// NeighbourRemoval picks a random currently-visited seed client and removes
// it together with its closest unassigned (i.e. still-visited, about to be
// unassigned) granular neighbours, up to numRemovals clients total —
// : "pick a seed client, remove itself and its closest
// unassigned neighbors up to num_removals".
type NeighbourRemoval struct{}

func (NeighbourRemoval) Name() string { return "NeighbourRemoval" }

func (NeighbourRemoval) Destroy(pd *vrpcore.ProblemData, sol *vrpsolution.Solution, rng *randstream.Stream, neighbours [][]int, numRemovals int) (*vrpsolution.Solution, error) {
	if numRemovals <= 0 {
		return sol, nil
	}

	visited := visitedSet(sol)
	if len(visited) == 0 {
		return sol, nil
	}

	clients := make([]int, 0, len(visited))
	for c := range visited {
		clients = append(clients, c)
	}
	sort.Ints(clients)
	seed := clients[rng.Intn(len(clients))]

	removed := map[int]bool{seed: true}
	count := 1
	if seed < len(neighbours) {
		for _, n := range neighbours[seed] {
			if count >= numRemovals {
				break
			}
			if removed[n] || !visited[n] {
				continue
			}
			removed[n] = true
			count++
		}
	}

	return rebuildWithout(pd, sol, removed)
}

// Concentric picks a random currently-visited seed client and removes its
// numRemovals nearest clients by raw distance (profile 0), excluding the
// seed itself — : "pick a seed client, remove its k nearest by
// distance". Grounded 1:1 on original_source's destroy/concentric.py.
type Concentric struct{}

func (Concentric) Name() string { return "Concentric" }

func (Concentric) Destroy(pd *vrpcore.ProblemData, sol *vrpsolution.Solution, rng *randstream.Stream, neighbours [][]int, numRemovals int) (*vrpsolution.Solution, error) {
	if numRemovals <= 0 {
		return sol, nil
	}

	visited := visitedSet(sol)
	if len(visited) == 0 {
		return sol, nil
	}

	clients := make([]int, 0, len(visited))
	for c := range visited {
		clients = append(clients, c)
	}
	sort.Ints(clients)
	seed := clients[rng.Intn(len(clients))]

	row := pd.DistanceMatrix(0)[seed]
	type distClient struct {
		client int
		dist   int64
	}
	candidates := make([]distClient, 0, len(clients))
	for _, c := range clients {
		if c == seed {
			continue
		}
		candidates = append(candidates, distClient{c, row[c]})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })

	removed := map[int]bool{}
	for i := 0; i < len(candidates) && i < numRemovals; i++ {
		removed[candidates[i].client] = true
	}
	if len(removed) == 0 {
		return sol, nil
	}

	return rebuildWithout(pd, sol, removed)
}
