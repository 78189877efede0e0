package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/vrpsolve/config"
	"github.com/katalvlaran/vrpsolve/fleet"
	"github.com/katalvlaran/vrpsolve/model"
	"github.com/katalvlaran/vrpsolve/stats"
	"github.com/katalvlaran/vrpsolve/stop"
	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrplib"
)

func newSolveCmd() *cobra.Command {
	var (
		configPath    string
		seed          int64
		maxIterations int
		maxRuntime    time.Duration
		solutionOut   string
		statsOut      string
		minimiseFleet bool
	)

	cmd := &cobra.Command{
		Use:   "solve <instance-file>",
		Short: "Solve a VRPLIB instance and report the best solution found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("vrpsolve: opening instance: %w", err)
			}
			defer f.Close()

			inst, err := vrplib.ReadInstance(f)
			if err != nil {
				return fmt.Errorf("vrpsolve: reading instance: %w", err)
			}
			pd, err := vrplib.Assemble(inst)
			if err != nil {
				return fmt.Errorf("vrpsolve: assembling problem data: %w", err)
			}

			cfg, err := config.Load(configPath, pd.NumLoadDimensions())
			if err != nil {
				return fmt.Errorf("vrpsolve: loading config: %w", err)
			}
			params := cfg.ModelParams(pd.NumLoadDimensions())
			if maxRuntime > 0 {
				params.MaxRuntime = maxRuntime
			}
			if seed == 0 {
				seed = cfg.Seed
			}

			criterion := stopCriterion(maxIterations, params.MaxRuntime)

			logrus.WithFields(logrus.Fields{
				"clients":  pd.NumClients(),
				"vehicles": pd.NumVehicles(),
				"seed":     seed,
			}).Info("vrpsolve: starting solve")

			if minimiseFleet {
				fleetTypes, err := fleet.MinimiseFleet(pd, params.MaxRuntime, seed,
					func(data *vrpcore.ProblemData, sc stop.Criterion, sd int64) (*stats.Result, error) {
						return model.Solve(data, params, sc, sd, statsOut != "")
					})
				if err != nil {
					return fmt.Errorf("vrpsolve: minimising fleet: %w", err)
				}
				pd, err = pd.Replace(fleetTypes)
				if err != nil {
					return fmt.Errorf("vrpsolve: applying minimised fleet: %w", err)
				}
			}

			res, err := model.Solve(pd, params, criterion, seed, statsOut != "")
			if err != nil {
				return fmt.Errorf("vrpsolve: solving: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Summary(pd))

			if solutionOut != "" {
				out, err := os.Create(solutionOut)
				if err != nil {
					return fmt.Errorf("vrpsolve: creating solution file: %w", err)
				}
				defer out.Close()
				if err := vrplib.WriteSolution(out, res.Best, int64(res.Cost(pd))); err != nil {
					return fmt.Errorf("vrpsolve: writing solution: %w", err)
				}
			}
			if statsOut != "" {
				if err := res.Stats.ToCSV(statsOut); err != nil {
					return fmt.Errorf("vrpsolve: writing statistics: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML/JSON/TOML config file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 defers to config)")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "stop after this many ILS iterations (0 disables)")
	cmd.Flags().DurationVar(&maxRuntime, "max-runtime", 0, "stop after this wall-clock duration (overrides config)")
	cmd.Flags().StringVar(&solutionOut, "out", "", "path to write the VRPLIB solution file")
	cmd.Flags().StringVar(&statsOut, "stats-out", "", "path to write a per-iteration statistics CSV")
	cmd.Flags().BoolVar(&minimiseFleet, "minimise-fleet", false, "search for the smallest feasible fleet before the final solve")

	return cmd
}

// stopCriterion combines a max-iteration bound (when set) with a runtime
// budget: the run stops as soon as either one fires.
func stopCriterion(maxIterations int, maxRuntime time.Duration) stop.Criterion {
	var criteria []stop.Criterion
	if maxIterations > 0 {
		criteria = append(criteria, stop.NewMaxIterations(maxIterations))
	}
	if maxRuntime > 0 {
		criteria = append(criteria, stop.NewMaxRuntime(maxRuntime))
	}
	if len(criteria) == 0 {
		return stop.NewMaxIterations(1000)
	}
	if len(criteria) == 1 {
		return criteria[0]
	}
	return stop.NewMultipleCriteria(criteria...)
}
