package vrpmatrix

import (
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// MetricClosure replaces missing edges (entries equal to maxValue) in a
// partially specified matrix with the shortest-path distance implied by the
// edges that are specified, using an all-pairs shortest path sweep. Entries
// that remain unreachable stay at maxValue.
//
// This lets a vehicle-client-compatibility profile (built by zeroing out
// disallowed edges to maxValue) still support indirect routing through
// intermediate clients when the caller applies it to that profile's matrix
// before passing the matrix to vrpcore.NewProblemData (which does not call
// it itself).
func MetricClosure(matrix [][]int64, maxValue int64) [][]int64 {
	n := len(matrix)
	g := simple.NewWeightedDirectedGraph(0, float64(maxValue))
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if matrix[i][j] >= maxValue {
				continue
			}
			g.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(int64(i)),
				T: simple.Node(int64(j)),
				W: float64(matrix[i][j]),
			})
		}
	}

	shortest := path.DijkstraAllPaths(g)

	out := make([][]int64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			w := shortest.Weight(int64(i), int64(j))
			if w >= float64(maxValue) {
				out[i][j] = maxValue
				continue
			}
			out[i][j] = int64(w)
		}
	}
	return out
}
