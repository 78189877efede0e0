package accept_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/accept"
)

func TestMovingBestAverageThreshold_AcceptsBelowThreshold(t *testing.T) {
	c := accept.NewMovingBestAverageThreshold(0.5, 3, 0, 0)
	// First observation: history=[100], recentBest=recentAvg=100, weight=0.5
	// (no runtime/iteration budget => budget=1). threshold=100.
	require.True(t, c.Accept(100, 100, 100))
	require.False(t, c.Accept(100, 100, 200))
}

func TestMovingBestAverageThreshold_PanicsOnInvalidWeight(t *testing.T) {
	require.Panics(t, func() { accept.NewMovingBestAverageThreshold(1.5, 3, 0, 0) })
}

func TestMovingBestAverageThreshold_PanicsOnNonPositiveHistory(t *testing.T) {
	require.Panics(t, func() { accept.NewMovingBestAverageThreshold(0.5, 0, 0, 0) })
}

func TestMovingBestAverageThreshold_WeightDecaysToZeroAtIterationLimit(t *testing.T) {
	c := accept.NewMovingBestAverageThreshold(1.0, 2, 0, 1)
	c.Accept(100, 100, 100) // iters becomes 1 after this call
	// Second call: iters==1 >= maxIterations(1) so iterationBudget==0, so
	// weight==0 and threshold collapses to recentBest regardless of avg.
	require.False(t, c.Accept(100, 100, 150))
}

func TestRecordToRecordThreshold_AcceptsWithinStartPct(t *testing.T) {
	c := accept.NewRecordToRecordThreshold(50, 0, time.Hour)
	require.True(t, c.Accept(100, 100, 140))
	require.False(t, c.Accept(100, 100, 400))
}
