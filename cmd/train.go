package cmd

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/hd220/spikenet/cli"
	"github.com/hd220/spikenet/config"
)

var (
	trainNetFile    string
	trainSeqFile    string
	trainTargetID   string
	trainEpochs     int
	trainOutNetFile string
	trainConfigFile string
	trainHistoryDB  string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a .net network against a .seq input sequence toward a target output",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg := &config.AppConfig{
			Training: config.DefaultTrainingConfig(),
			Cli: config.CLIConfig{
				Mode:          config.ModeTrain,
				NetFile:       trainNetFile,
				SeqFile:       trainSeqFile,
				TargetID:      trainTargetID,
				Seed:          resolveSeed(),
				Epochs:        trainEpochs,
				OutNetFile:    trainOutNetFile,
				HistoryDBPath: trainHistoryDB,
			},
		}
		if trainConfigFile != "" {
			if _, err := toml.DecodeFile(trainConfigFile, &appCfg.Training); err != nil {
				return err
			}
		}
		if err := appCfg.Validate(); err != nil {
			return err
		}
		return cli.NewOrchestrator(appCfg).Run()
	},
}

// resolveSeed returns the --seed flag value, or the current time if it was
// left at its zero default. Read once, here, never inside the trainer
// itself (spec §5: the trainer's RNG is explicit and never touches global
// entropy during train_*).
func resolveSeed() int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().StringVar(&trainNetFile, "net", "", "path to the .net network file (required)")
	trainCmd.Flags().StringVar(&trainSeqFile, "seq", "", "path to the .seq input sequence file (required)")
	trainCmd.Flags().StringVar(&trainTargetID, "target", "", "target output neuron id for every episode")
	trainCmd.Flags().IntVar(&trainEpochs, "epochs", 10, "number of training epochs")
	trainCmd.Flags().StringVar(&trainOutNetFile, "out", "", "path to write the trained .net file (optional)")
	trainCmd.Flags().StringVar(&trainConfigFile, "config", "", "path to a TOML file overlaying the default training config")
	trainCmd.Flags().StringVar(&trainHistoryDB, "history-db", "", "path to a SQLite database to log per-epoch history (optional)")
	trainCmd.MarkFlagRequired("net")
	trainCmd.MarkFlagRequired("seq")
}
