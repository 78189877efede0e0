// Package config loads solver run parameters (neighbourhood size, penalty
// adaptation bands, ILS acceptance weight/history/budget, runtime limits)
// from a config file, environment variables, or flags, the same layered
// precedence comparable sibling services use for their own
// service configuration.
//
// Grounded on a viper-based service config (config/config.go style, as
// widely used for Go services): a typed struct,
// SetDefault for every field, then one Unmarshal call.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/katalvlaran/vrpsolve/ils"
	"github.com/katalvlaran/vrpsolve/model"
	"github.com/katalvlaran/vrpsolve/neighborhood"
	"github.com/katalvlaran/vrpsolve/penalty"
	"github.com/katalvlaran/vrpsolve/perturb"
	"github.com/katalvlaran/vrpsolve/vrpcore"
)

// Solver is the file/env/flag-loadable shape of model.Params. Durations
// are plain seconds (float64) rather than time.Duration so they round-trip
// cleanly through YAML/JSON/env without a custom unmarshaler.
type Solver struct {
	Neighborhood struct {
		WeightWaitTime      float64 `mapstructure:"weight_wait_time"`
		WeightTimeWarp      float64 `mapstructure:"weight_time_warp"`
		NBGranular          int     `mapstructure:"nb_granular"`
		SymmetricProximity  bool    `mapstructure:"symmetric_proximity"`
		SymmetricNeighbours bool    `mapstructure:"symmetric_neighbours"`
	} `mapstructure:"neighborhood"`

	Penalty struct {
		SolutionsBetweenUpdates int     `mapstructure:"solutions_between_updates"`
		TargetFeasibleLower     float64 `mapstructure:"target_feasible_lower"`
		TargetFeasibleUpper     float64 `mapstructure:"target_feasible_upper"`
		RepairBooster           float64 `mapstructure:"repair_booster"`
	} `mapstructure:"penalty"`

	Convergence struct {
		SolutionsBetweenUpdates int     `mapstructure:"solutions_between_updates"`
		DestroyIncrease         int     `mapstructure:"destroy_increase"`
		DestroyDecrease         int     `mapstructure:"destroy_decrease"`
		TargetPairsMax          float64 `mapstructure:"target_pairs_max"`
		TargetPairsMin          float64 `mapstructure:"target_pairs_min"`
	} `mapstructure:"convergence"`

	ILS struct {
		NumItersNoImprovement int     `mapstructure:"num_iters_no_improvement"`
		InitialAcceptWeight   float64 `mapstructure:"initial_accept_weight"`
		HistoryLength         int     `mapstructure:"history_length"`
		Budget                int     `mapstructure:"budget"`
	} `mapstructure:"ils"`

	MaxRuntimeSeconds float64 `mapstructure:"max_runtime_seconds"`
	Seed              int64   `mapstructure:"seed"`
}

// defaults seeds v with every Solver field's zero-configuration value,
// sourced from the owning package's own DefaultParams/DefaultConvergenceParams
// so config.go never invents a number none of the domain packages agree on.
func defaults(v *viper.Viper, loadDims int) {
	np := neighborhood.DefaultParams()
	v.SetDefault("neighborhood.weight_wait_time", np.WeightWaitTime)
	v.SetDefault("neighborhood.weight_time_warp", np.WeightTimeWarp)
	v.SetDefault("neighborhood.nb_granular", np.NBGranular)
	v.SetDefault("neighborhood.symmetric_proximity", np.SymmetricProximity)
	v.SetDefault("neighborhood.symmetric_neighbours", np.SymmetricNeighbours)

	pp := penalty.DefaultParams(loadDims, nil, 1, 1, 1, 1)
	v.SetDefault("penalty.solutions_between_updates", pp.SolutionsBetweenUpdates)
	v.SetDefault("penalty.target_feasible_lower", pp.TargetFeasibleLower)
	v.SetDefault("penalty.target_feasible_upper", pp.TargetFeasibleUpper)
	v.SetDefault("penalty.repair_booster", pp.RepairBooster)

	cp := perturb.DefaultConvergenceParams()
	v.SetDefault("convergence.solutions_between_updates", cp.SolutionsBetweenUpdates)
	v.SetDefault("convergence.destroy_increase", cp.DestroyIncrease)
	v.SetDefault("convergence.destroy_decrease", cp.DestroyDecrease)
	v.SetDefault("convergence.target_pairs_max", cp.TargetPairsMax)
	v.SetDefault("convergence.target_pairs_min", cp.TargetPairsMin)

	ip := ils.DefaultParams()
	v.SetDefault("ils.num_iters_no_improvement", ip.NumItersNoImprovement)
	v.SetDefault("ils.initial_accept_weight", ip.InitialAcceptWeight)
	v.SetDefault("ils.history_length", ip.HistoryLength)
	v.SetDefault("ils.budget", ip.Budget)

	v.SetDefault("max_runtime_seconds", 60.0)
	v.SetDefault("seed", int64(0))
}

// Load reads solver configuration from path (if non-empty; any viper-
// supported format — YAML, JSON, TOML, ...), overlays VRPSOLVE_*
// environment variables, and fills every field the file/env omit with
// the domain packages' own published defaults.
func Load(path string, loadDims int) (Solver, error) {
	v := viper.New()
	defaults(v, loadDims)

	v.SetEnvPrefix("VRPSOLVE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Solver{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var s Solver
	if err := v.Unmarshal(&s); err != nil {
		return Solver{}, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return s, nil
}

// ModelParams converts a loaded Solver config into model.Params for a
// problem with loadDims load dimensions.
func (s Solver) ModelParams(loadDims int) model.Params {
	return model.Params{
		Neighborhood: neighborhood.Params{
			WeightWaitTime:      s.Neighborhood.WeightWaitTime,
			WeightTimeWarp:      s.Neighborhood.WeightTimeWarp,
			NBGranular:          s.Neighborhood.NBGranular,
			SymmetricProximity:  s.Neighborhood.SymmetricProximity,
			SymmetricNeighbours: s.Neighborhood.SymmetricNeighbours,
		},
		Penalty: penalty.Params{
			SolutionsBetweenUpdates: s.Penalty.SolutionsBetweenUpdates,
			TargetFeasibleLower:     s.Penalty.TargetFeasibleLower,
			TargetFeasibleUpper:     s.Penalty.TargetFeasibleUpper,
			RepairBooster:           s.Penalty.RepairBooster,
			InitLoadPenalty:         vrpcore.NewVector(loadDims),
			InitTimeWarpPenalty:     1,
			InitDistancePenalty:     1,
			InitDurationPenalty:     1,
			InitGroupPenalty:        1,
		},
		Convergence: perturb.ConvergenceParams{
			SolutionsBetweenUpdates: s.Convergence.SolutionsBetweenUpdates,
			DestroyIncrease:         s.Convergence.DestroyIncrease,
			DestroyDecrease:         s.Convergence.DestroyDecrease,
			TargetPairsMax:          s.Convergence.TargetPairsMax,
			TargetPairsMin:          s.Convergence.TargetPairsMin,
		},
		ILS: ils.Params{
			NumItersNoImprovement: s.ILS.NumItersNoImprovement,
			InitialAcceptWeight:   s.ILS.InitialAcceptWeight,
			HistoryLength:         s.ILS.HistoryLength,
			Budget:                s.ILS.Budget,
		},
		MaxRuntime: s.MaxRuntime(),
	}
}

// MaxRuntime converts the configured runtime budget to a time.Duration.
func (s Solver) MaxRuntime() time.Duration {
	return time.Duration(s.MaxRuntimeSeconds * float64(time.Second))
}
