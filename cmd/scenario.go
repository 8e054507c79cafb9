package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hd220/spikenet/cli"
	"github.com/hd220/spikenet/config"
)

var scenarioName string

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Run one of the built-in crafted networks/datasets (spec §8) and report metrics",
	Long: fmt.Sprintf("Runs a built-in crafted network against its matching dataset.\nSupported scenarios: %s",
		strings.Join(config.SupportedScenarios, ", ")),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg := &config.AppConfig{
			Training: config.DefaultTrainingConfig(),
			Cli: config.CLIConfig{
				Mode:     config.ModeScenario,
				Scenario: scenarioName,
				Seed:     resolveSeed(),
			},
		}
		if err := appCfg.Validate(); err != nil {
			return err
		}
		return cli.NewOrchestrator(appCfg).Run()
	},
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
	scenarioCmd.Flags().StringVar(&scenarioName, "name", "xor-case-11", "scenario to run")
}
