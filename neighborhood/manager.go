package neighborhood

import "github.com/katalvlaran/vrpsolve/vrpcore"

// RouteNeighbours describes, per client location, which client precedes
// and follows it in the solution that produced it — the minimal shape a
// Solution needs to expose for Manager to detect changed neighbourhoods.
type RouteNeighbours struct {
	Pred, Succ int
}

// Manager restricts the candidate set handed to localsearch between two
// successive solutions to clients whose predecessor/successor pair
// changed, plus their old and new neighbours — everywhere else, the
// solution already converged under the granular neighborhood and a full
// re-scan would be wasted work.
//
// Grounded on original_source's NeighbourhoodManager (search package):
// the __call__ contract is preserved, Update is a deliberate no-op (the
// base granular neighborhood never changes mid-solve; only per-solution
// restriction does).
type Manager struct {
	pd       *vrpcore.ProblemData
	full     [][]int
	granular [][]int
}

// NewManager builds a Manager over pd's full (unrestricted) neighbourhood
// lists — typically built with NBGranular == NumClients()-1 — and the
// ordinary granular lists from Build.
func NewManager(pd *vrpcore.ProblemData, full, granular [][]int) *Manager {
	return &Manager{pd: pd, full: full, granular: granular}
}

// Granular returns the base granular neighbourhood lists, unrestricted.
func (m *Manager) Granular() [][]int { return m.granular }

// Candidates returns, for every location index, the full neighbourhood
// list if that client's route position differs between a and b, or an
// empty list otherwise. Depot entries are always empty.
func (m *Manager) Candidates(a, b []RouteNeighbours) [][]int {
	n := m.pd.NumLocations()
	numDepots := m.pd.NumDepots()

	modified := make(map[int]bool, n)
	for idx := numDepots; idx < n; idx++ {
		if a[idx] != b[idx] {
			modified[idx] = true
			modified[a[idx].Pred] = true
			modified[a[idx].Succ] = true
			modified[b[idx].Pred] = true
			modified[b[idx].Succ] = true
		}
	}

	out := make([][]int, n)
	for idx := 0; idx < n; idx++ {
		if modified[idx] {
			out[idx] = m.full[idx]
		} else {
			out[idx] = nil
		}
	}
	return out
}

// Update is a deliberate no-op: the base neighbourhood lists are fixed
// for the lifetime of a solve (computes them once from
// ProblemData); only the per-call restriction in Candidates varies.
func (m *Manager) Update() {}
