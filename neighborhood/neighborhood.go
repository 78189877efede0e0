// Package neighborhood precomputes, per client, a short list of
// "plausible" partner clients for local search move enumeration,
// restricting move evaluation from O(n^2) to O(n*k).
//
// Grounded on tsp/mst.go nearest-neighbor candidate list
// construction, re-expressed over gonum's dense matrix and elementwise
// vector helpers since the proximity metric itself (unlike vrpcore's
// integer load vectors) is naturally float-valued.
package neighborhood

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/vrpsolve/vrpcore"
)

// Params configures proximity-matrix construction and candidate-list size.
type Params struct {
	WeightWaitTime      float64
	WeightTimeWarp      float64
	NBGranular          int
	SymmetricProximity  bool
	SymmetricNeighbours bool
}

// DefaultParams returns the default granular-neighborhood parameters: no
// wait-time weighting, unit time-warp weighting, 40 candidates, symmetrized
// proximity, and neighbour lists that are not OR-symmetrized (so no list
// exceeds NBGranular).
func DefaultParams() Params {
	return Params{
		WeightWaitTime:      0,
		WeightTimeWarp:      1,
		NBGranular:          40,
		SymmetricProximity:  true,
		SymmetricNeighbours: false,
	}
}

// Build computes the granular neighborhood for a single routing profile:
// for every client, the NBGranular closest other clients by proximity,
// excluding depots and self. Depots get an empty neighbourhood. The
// returned slice is indexed by location index (0..NumLocations-1); only
// client entries are populated.
func Build(pd *vrpcore.ProblemData, profile int, params Params) [][]int {
	n := pd.NumLocations()
	numDepots := pd.NumDepots()

	proximity := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || pd.IsDepot(i) || pd.IsDepot(j) {
				proximity.Set(i, j, math.Inf(1))
				continue
			}
			proximity.Set(i, j, clientProximity(pd, profile, params, i, j))
		}
	}

	if params.SymmetricProximity {
		symmetrize(proximity, n)
	}

	lists := make([][]int, n)
	k := params.NBGranular
	if maxK := n - numDepots - 1; k > maxK {
		k = maxK
	}
	if k < 0 {
		k = 0
	}

	for i := numDepots; i < n; i++ {
		row := mat.Row(nil, i, proximity)
		lists[i] = nearestK(row, i, numDepots, k)
	}

	if params.SymmetricNeighbours {
		orSymmetrize(lists, numDepots, n)
	}

	return lists
}

func clientProximity(pd *vrpcore.ProblemData, profile int, params Params, i, j int) float64 {
	d := float64(pd.Duration(profile, i, j))
	li, lj := pd.Location(i), pd.Location(j)

	waitTerm := float64(lj.TWEarly) - d - float64(li.ServiceDuration) - float64(li.TWLate)
	if waitTerm < 0 {
		waitTerm = 0
	}
	twTerm := float64(li.TWEarly) + float64(li.ServiceDuration) + d - float64(lj.TWLate)
	if twTerm < 0 {
		twTerm = 0
	}

	return d + params.WeightWaitTime*waitTerm + params.WeightTimeWarp*twTerm - float64(lj.Prize)
}

func symmetrize(m *mat.Dense, n int) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := m.At(i, j)
			if o := m.At(j, i); o < v {
				v = o
			}
			m.Set(i, j, v)
			m.Set(j, i, v)
		}
	}
}

// nearestK returns the indices of the k smallest-proximity clients in row,
// excluding depots and self, stable under ties (lower index wins).
//
// Uses gonum/floats.ArgsortStable, a stable sort over the permutation
// indices: equal-proximity candidates keep their original (index) order,
// which gives the lower-index tie-break.
func nearestK(row []float64, self, numDepots, k int) []int {
	candProx := make([]float64, 0, len(row))
	candIdx := make([]int, 0, len(row))
	for idx, p := range row {
		if idx == self || idx < numDepots {
			continue
		}
		candProx = append(candProx, p)
		candIdx = append(candIdx, idx)
	}

	order := make([]int, len(candIdx))
	for i := range order {
		order[i] = i
	}
	floats.ArgsortStable(candProx, order)

	if k > len(candIdx) {
		k = len(candIdx)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = candIdx[order[i]]
	}
	return out
}

// orSymmetrize adds j to i's list whenever i is in j's list, so the
// "neighbour of" relation is symmetric even if proximity itself is not.
func orSymmetrize(lists [][]int, numDepots, n int) {
	has := make(map[[2]int]bool)
	for i := numDepots; i < n; i++ {
		for _, j := range lists[i] {
			has[[2]int{i, j}] = true
		}
	}
	for i := numDepots; i < n; i++ {
		for j := numDepots; j < n; j++ {
			if i == j {
				continue
			}
			if has[[2]int{j, i}] && !has[[2]int{i, j}] {
				lists[i] = append(lists[i], j)
				has[[2]int{i, j}] = true
			}
		}
	}
}

