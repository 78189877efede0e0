// Command vrpsolve reads a VRPLIB instance, runs the iterated local search
// solver, and writes the resulting solution (and, optionally, a statistics
// CSV) to disk. cobra's
// Execute-from-main idiom is taken straight from the pack's own cobra-based
// CLI entrypoints.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/vrpsolve/cmd/vrpsolve/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("vrpsolve: fatal")
		os.Exit(1)
	}
}
