// Package cmd wires the spikenet core (network/trainer) up to a cobra CLI:
// one subcommand per mode of spec §6 (train, eval, scenario, logutil). Flag
// parsing, TOML config overlay, and JSON/exit-code handling live here; the
// core itself knows nothing about any of it.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// seed is the global RNG seed shared by every subcommand (spec §5: the
// trainer owns its RNG and is reseeded for reproducibility).
var seed int64

var rootCmd = &cobra.Command{
	Use:   "spikenet",
	Short: "spikenet: discrete-time spiking neural network trainer",
	Long: `spikenet simulates small-to-medium leaky-threshold spiking networks and
trains them with a reward-modulated, eligibility-trace based learning rule.
Use one of the subcommands to train, evaluate, run a built-in scenario, or
inspect a training-history log.`,
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main(); the process exit code is non-zero iff the selected
// operation could not complete (spec §6/§7).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "RNG seed for the trainer (0 uses the current time)")
}
