// Package vrpmatrix builds the distance/duration matrices that back a
// vrpcore.ProblemData routing profile: Euclidean distance from coordinates
// under a rounding policy, explicit full-matrix ingestion, and metric
// closure (shortest paths) over a partially specified matrix.
//
// Forbidden edges are represented by vrpcore.MaxValue, never by a negative
// sentinel or NaN — this keeps every matrix entry a valid non-negative
// int64 that downstream cost arithmetic can sum without special-casing.
package vrpmatrix

import (
	"errors"
	"math"
)

// RoundingPolicy selects how fractional input coordinates/weights are
// converted to the integer domain the solver works in.
type RoundingPolicy int

const (
	// RoundNone performs no scaling; converts to the nearest int64 via
	// standard rounding (ties away from zero), matching math.Round.
	RoundNone RoundingPolicy = iota
	// RoundNearest rounds to the nearest integer.
	RoundNearest
	// RoundTrunc truncates toward zero.
	RoundTrunc
	// RoundDimacs multiplies by 10, then rounds to the nearest integer.
	RoundDimacs
	// RoundExact multiplies by 1000, then rounds to the nearest integer.
	RoundExact
)

// ErrUnknownRoundingPolicy is returned by ParseRoundingPolicy for an
// unrecognized VRPLIB round-function name.
var ErrUnknownRoundingPolicy = errors.New("vrpmatrix: unknown rounding policy")

// ParseRoundingPolicy maps a VRPLIB-style round-function name to a
// RoundingPolicy. Recognized names: "none", "round", "trunc", "dimacs",
// "exact".
func ParseRoundingPolicy(name string) (RoundingPolicy, error) {
	switch name {
	case "none":
		return RoundNone, nil
	case "round":
		return RoundNearest, nil
	case "trunc":
		return RoundTrunc, nil
	case "dimacs":
		return RoundDimacs, nil
	case "exact":
		return RoundExact, nil
	default:
		return 0, ErrUnknownRoundingPolicy
	}
}

// Apply rounds x according to the policy and returns an int64.
func (p RoundingPolicy) Apply(x float64) int64 {
	switch p {
	case RoundNearest:
		return int64(math.Round(x))
	case RoundTrunc:
		return int64(math.Trunc(x))
	case RoundDimacs:
		return int64(math.Round(x * 10))
	case RoundExact:
		return int64(math.Round(x * 1000))
	default: // RoundNone
		return int64(math.Round(x))
	}
}

// EuclideanMatrix builds an n x n distance matrix from planar coordinates
// using the given rounding policy (VRPLIB EDGE_WEIGHT_TYPE=EUC_2D).
func EuclideanMatrix(xs, ys []int64, policy RoundingPolicy) [][]int64 {
	n := len(xs)
	out := make([][]int64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dx := float64(xs[i] - xs[j])
			dy := float64(ys[i] - ys[j])
			out[i][j] = policy.Apply(math.Sqrt(dx*dx + dy*dy))
		}
	}
	return out
}
