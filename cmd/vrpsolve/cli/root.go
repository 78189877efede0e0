// Package cli wires the vrpsolve command-line surface: a cobra root command
// plus a single "solve" subcommand, which reads its tunables through
// config.Load so a config file, VRPSOLVE_* environment variables, and flags
// all layer the same way spf13/viper lets comparable sibling
// services do it.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootCmd builds the vrpsolve root command and attaches its subcommands.
func RootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "vrpsolve",
		Short:         "Iterated local search solver for vehicle routing instances",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newSolveCmd())
	return root
}
