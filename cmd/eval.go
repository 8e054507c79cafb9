package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hd220/spikenet/cli"
	"github.com/hd220/spikenet/config"
)

var (
	evalNetFile  string
	evalSeqFile  string
	evalTargetID string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a .net network against a .seq input sequence read-only",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg := &config.AppConfig{
			Training: config.DefaultTrainingConfig(),
			Cli: config.CLIConfig{
				Mode:     config.ModeEval,
				NetFile:  evalNetFile,
				SeqFile:  evalSeqFile,
				TargetID: evalTargetID,
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
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalNetFile, "net", "", "path to the .net network file (required)")
	evalCmd.Flags().StringVar(&evalSeqFile, "seq", "", "path to the .seq input sequence file (required)")
	evalCmd.Flags().StringVar(&evalTargetID, "target", "", "expected target output neuron id, for accuracy reporting")
	evalCmd.MarkFlagRequired("net")
	evalCmd.MarkFlagRequired("seq")
}
