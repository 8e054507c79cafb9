package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hd220/spikenet/cli"
	"github.com/hd220/spikenet/config"
)

// logutilCmd is the parent of logutil subcommands that inspect SQLite
// training-history databases produced by 'train --history-db' (spec §6).
var logutilCmd = &cobra.Command{
	Use:   "logutil",
	Short: "Inspect SQLite training-history databases produced by 'train --history-db'",
}

var (
	logutilDbPath string
	logutilTable  string
	logutilFormat string
	logutilOutput string
)

var logutilExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a table (EpochHistory or CheckpointEvents) to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg := &config.AppConfig{
			Training: config.DefaultTrainingConfig(),
			Cli: config.CLIConfig{
				Mode:          config.ModeLogUtil,
				LogUtilDbPath: logutilDbPath,
				LogUtilTable:  logutilTable,
				LogUtilFormat: logutilFormat,
				LogUtilOutput: logutilOutput,
			},
		}
		if err := appCfg.Validate(); err != nil {
			return err
		}
		return cli.NewOrchestrator(appCfg).Run()
	},
}

func init() {
	rootCmd.AddCommand(logutilCmd)
	logutilCmd.AddCommand(logutilExportCmd)

	logutilExportCmd.Flags().StringVar(&logutilDbPath, "db", "", "path to the SQLite history database (required)")
	logutilExportCmd.Flags().StringVar(&logutilTable, "table", "EpochHistory", "table to export: EpochHistory or CheckpointEvents")
	logutilExportCmd.Flags().StringVar(&logutilFormat, "format", "csv", "export format (only csv is supported)")
	logutilExportCmd.Flags().StringVar(&logutilOutput, "out", "", "output path (stdout if empty)")
	logutilExportCmd.MarkFlagRequired("db")
}
