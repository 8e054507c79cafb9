package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hd220/spikenet/cli"
	"github.com/hd220/spikenet/config"
)

func TestRunTrainLogsHistoryToSQLite(t *testing.T) {
	dir := t.TempDir()
	netFile := writeFile(t, dir, "xor.net", xorNet)
	seqFile := writeFile(t, dir, "xor.seq", xorCase11Seq(20))
	dbPath := filepath.Join(dir, "history.db")

	cfg := config.DefaultTrainingConfig()
	cfg.Warmup = 1
	cfg.Window = 5
	cfg.BatchSize = 1

	appCfg := &config.AppConfig{
		Training: cfg,
		Cli: config.CLIConfig{
			Mode:          config.ModeTrain,
			NetFile:       netFile,
			SeqFile:       seqFile,
			TargetID:      "O0",
			Seed:          1,
			Epochs:        2,
			HistoryDBPath: dbPath,
		},
	}
	orch := cli.NewOrchestrator(appCfg)
	orch.Out = &bytes.Buffer{}
	if err := orch.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected history database at %s: %v", dbPath, err)
	}

	csvOut := filepath.Join(dir, "epochs.csv")
	logCfg := &config.AppConfig{
		Training: config.DefaultTrainingConfig(),
		Cli: config.CLIConfig{
			Mode:          config.ModeLogUtil,
			LogUtilDbPath: dbPath,
			LogUtilTable:  "EpochHistory",
			LogUtilFormat: "csv",
			LogUtilOutput: csvOut,
		},
	}
	if err := logCfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := cli.NewOrchestrator(logCfg).Run(); err != nil {
		t.Fatalf("logutil Run: %v", err)
	}
	data, err := os.ReadFile(csvOut)
	if err != nil {
		t.Fatalf("read exported CSV: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("exported CSV is empty")
	}
}

func TestRunLogUtilMissingDbPathFailsValidate(t *testing.T) {
	appCfg := &config.AppConfig{
		Training: config.DefaultTrainingConfig(),
		Cli:      config.CLIConfig{Mode: config.ModeLogUtil},
	}
	if err := appCfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject an empty logutil db path")
	}
}
