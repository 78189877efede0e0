package perturb

import (
	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/randstream"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// DestroyRepair composes a randomly-chosen destroy operator with an
// optional randomly-chosen repair operator. When no repair operator is
// registered, Call returns the destroyed solution with the removed clients
// in Unvisited; LocalSearch does not reinsert them. Calling with no destroy
// operators registered is a no-op (returns sol unchanged), matching
// original_source's DestroyRepair default-empty-operator-list behaviour.
type DestroyRepair struct {
	destroyOps []DestroyOperator
	repairOps  []RepairOperator
}

// New returns an empty DestroyRepair; register operators with
// AddDestroyOperator/AddRepairOperator before calling Call.
func New() *DestroyRepair { return &DestroyRepair{} }

func (dr *DestroyRepair) AddDestroyOperator(op DestroyOperator) { dr.destroyOps = append(dr.destroyOps, op) }
func (dr *DestroyRepair) AddRepairOperator(op RepairOperator)   { dr.repairOps = append(dr.repairOps, op) }

// HasRepairOperator reports whether a repair operator is registered, i.e.
// whether Call returns a repaired solution rather than the destroyed one.
func (dr *DestroyRepair) HasRepairOperator() bool { return len(dr.repairOps) > 0 }

// Call picks one destroy operator uniformly at random, applies it with
// numRemovals, then — if any repair operator is registered — picks one of
// those uniformly at random and applies it to the destroyed solution.
func (dr *DestroyRepair) Call(pd *vrpcore.ProblemData, sol *vrpsolution.Solution, ce costeval.CostEvaluator, rng *randstream.Stream, neighbours [][]int, numRemovals int) (*vrpsolution.Solution, error) {
	if len(dr.destroyOps) == 0 {
		return sol, nil
	}

	op := dr.destroyOps[rng.Intn(len(dr.destroyOps))]
	destroyed, err := op.Destroy(pd, sol, rng, neighbours, numRemovals)
	if err != nil {
		return nil, err
	}

	if len(dr.repairOps) == 0 {
		return destroyed, nil
	}
	rop := dr.repairOps[rng.Intn(len(dr.repairOps))]
	return rop.Repair(pd, destroyed, ce, neighbours)
}
