package penalty_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/penalty"
	"github.com/katalvlaran/vrpsolve/vrpcore"
)

func newTestManager(solutionsBetween int) *penalty.Manager {
	params := penalty.DefaultParams(1, vrpcore.Vector{10}, 10, 10, 10, 10)
	params.SolutionsBetweenUpdates = solutionsBetween
	return penalty.New(params)
}

func TestManager_BoostsWhenTooFewFeasible(t *testing.T) {
	m := newTestManager(4)
	before := m.CostEvaluator().TimeWarpPenalty

	for i := 0; i < 4; i++ {
		m.Register(vrpcore.Vector{1}, 1, 0, 0, 0) // always infeasible
	}

	after := m.CostEvaluator().TimeWarpPenalty
	require.Greater(t, after, before)
}

func TestManager_DecaysWhenMostlyFeasible(t *testing.T) {
	m := newTestManager(4)
	before := m.CostEvaluator().TimeWarpPenalty

	for i := 0; i < 4; i++ {
		m.Register(vrpcore.Vector{0}, 0, 0, 0, 0) // always feasible
	}

	after := m.CostEvaluator().TimeWarpPenalty
	require.Less(t, after, before)
}

func TestManager_ClampsToMinPenalty(t *testing.T) {
	params := penalty.DefaultParams(1, vrpcore.Vector{1}, 1, 1, 1, 1)
	params.SolutionsBetweenUpdates = 2
	m := penalty.New(params)

	for round := 0; round < 50; round++ {
		m.Register(vrpcore.Vector{0}, 0, 0, 0, 0)
		m.Register(vrpcore.Vector{0}, 0, 0, 0, 0)
	}

	ce := m.CostEvaluator()
	require.GreaterOrEqual(t, ce.TimeWarpPenalty, int64(penalty.MinPenalty))
}

func TestManager_BoostReleaseRestoresWeights(t *testing.T) {
	m := newTestManager(1000)
	before := m.CostEvaluator().TimeWarpPenalty

	func() {
		release := m.Boost()
		defer release()
		require.Greater(t, m.CostEvaluator().TimeWarpPenalty, before)
	}()

	require.Equal(t, before, m.CostEvaluator().TimeWarpPenalty)
}

func TestNew_PanicsOnInvalidParams(t *testing.T) {
	require.Panics(t, func() {
		params := penalty.DefaultParams(1, vrpcore.Vector{1}, 1, 1, 1, 1)
		params.SolutionsBetweenUpdates = 0
		penalty.New(params)
	})
}
