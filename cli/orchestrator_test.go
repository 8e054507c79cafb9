package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/hd220/spikenet/cli"
	"github.com/hd220/spikenet/config"
)

const xorNet = `
NEURON S0 1 1 0
NEURON S1 1 1 0
NEURON A 90 0 0
NEURON O1 50 1 0
NEURON O0 60 1 0
DEFAULT O0
CONNECTION S0 O1 60
CONNECTION S1 O1 60
CONNECTION S0 A 60
CONNECTION S1 A 60
CONNECTION A O1 -120
CONNECTION A O0 120
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func xorCase11Seq(ticks int) string {
	var b bytes.Buffer
	b.WriteString("LOOP false\n")
	for t := 0; t < ticks; t++ {
		b.WriteString("EVENT " + strconv.Itoa(t) + " S0 1\n")
		b.WriteString("EVENT " + strconv.Itoa(t) + " S1 1\n")
	}
	return b.String()
}

func newEvalConfig(netFile, seqFile, target string) *config.AppConfig {
	return &config.AppConfig{
		Training: config.DefaultTrainingConfig(),
		Cli: config.CLIConfig{
			Mode:     config.ModeEval,
			NetFile:  netFile,
			SeqFile:  seqFile,
			TargetID: target,
			Seed:     1,
		},
	}
}

func TestRunUnsupportedModeErrors(t *testing.T) {
	appCfg := &config.AppConfig{Training: config.DefaultTrainingConfig(), Cli: config.CLIConfig{Mode: "bogus"}}
	orch := cli.NewOrchestrator(appCfg)
	orch.Out = &bytes.Buffer{}
	if err := orch.Run(); err == nil {
		t.Fatal("expected error for unsupported mode")
	}
}

func TestRunEvalMissingNetFileErrors(t *testing.T) {
	dir := t.TempDir()
	appCfg := newEvalConfig(filepath.Join(dir, "missing.net"), filepath.Join(dir, "missing.seq"), "O0")
	orch := cli.NewOrchestrator(appCfg)
	orch.Out = &bytes.Buffer{}
	if err := orch.Run(); err == nil {
		t.Fatal("expected error for missing .net file")
	}
}

func TestRunEvalXORCase11WinsO0(t *testing.T) {
	dir := t.TempDir()
	netFile := writeFile(t, dir, "xor.net", xorNet)
	seqFile := writeFile(t, dir, "xor.seq", xorCase11Seq(100))

	appCfg := newEvalConfig(netFile, seqFile, "O0")
	var out bytes.Buffer
	orch := cli.NewOrchestrator(appCfg)
	orch.Out = &out
	if err := orch.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var report cli.MetricsReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal report: %v\n%s", err, out.String())
	}
	if report.Scenario != "eval" {
		t.Errorf("Scenario = %q, want eval", report.Scenario)
	}
	if len(report.Details) != 1 {
		t.Fatalf("len(Details) = %d, want 1", len(report.Details))
	}
	if report.Details[0].Winner != "O0" {
		t.Errorf("winner = %q, want O0", report.Details[0].Winner)
	}
	if report.Accuracy != 1.0 {
		t.Errorf("accuracy = %v, want 1.0", report.Accuracy)
	}
}

func TestRunScenarioXORCase10(t *testing.T) {
	appCfg := &config.AppConfig{
		Training: config.DefaultTrainingConfig(),
		Cli:      config.CLIConfig{Mode: config.ModeScenario, Scenario: "xor-case-10", Seed: 1},
	}
	var out bytes.Buffer
	orch := cli.NewOrchestrator(appCfg)
	orch.Out = &out
	if err := orch.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var report cli.MetricsReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal report: %v\n%s", err, out.String())
	}
	if report.Accuracy != 1.0 {
		t.Fatalf("accuracy = %v, want 1.0", report.Accuracy)
	}
	if report.Details[0].Winner != "O1" {
		t.Errorf("winner = %q, want O1", report.Details[0].Winner)
	}
}

func TestRunScenarioUnknownNameErrors(t *testing.T) {
	appCfg := &config.AppConfig{
		Training: config.DefaultTrainingConfig(),
		Cli:      config.CLIConfig{Mode: config.ModeScenario, Scenario: "does-not-exist", Seed: 1},
	}
	orch := cli.NewOrchestrator(appCfg)
	orch.Out = &bytes.Buffer{}
	if err := orch.Run(); err == nil {
		t.Fatal("expected error for unknown scenario name")
	}
}

func TestRunTrainProducesEpochHistoryAndOutFile(t *testing.T) {
	dir := t.TempDir()
	netFile := writeFile(t, dir, "xor.net", xorNet)
	seqFile := writeFile(t, dir, "xor.seq", xorCase11Seq(20))
	outFile := filepath.Join(dir, "trained.net")

	cfg := config.DefaultTrainingConfig()
	cfg.Warmup = 1
	cfg.Window = 5
	cfg.BatchSize = 1

	appCfg := &config.AppConfig{
		Training: cfg,
		Cli: config.CLIConfig{
			Mode:       config.ModeTrain,
			NetFile:    netFile,
			SeqFile:    seqFile,
			TargetID:   "O0",
			Seed:       1,
			Epochs:     3,
			OutNetFile: outFile,
		},
	}
	var out bytes.Buffer
	orch := cli.NewOrchestrator(appCfg)
	orch.Out = &out
	if err := orch.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var report cli.TrainingHistoryReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal report: %v\n%s", err, out.String())
	}
	if report.Epochs != 3 {
		t.Errorf("Epochs = %d, want 3", report.Epochs)
	}
	if len(report.Accuracy) != 3 || len(report.Margin) != 3 {
		t.Errorf("history lengths = %d/%d, want 3/3", len(report.Accuracy), len(report.Margin))
	}
	if _, err := os.Stat(outFile); err != nil {
		t.Errorf("expected trained .net file at %s: %v", outFile, err)
	}
}

func TestRunTrainMissingSeqFileErrors(t *testing.T) {
	dir := t.TempDir()
	netFile := writeFile(t, dir, "xor.net", xorNet)
	appCfg := &config.AppConfig{
		Training: config.DefaultTrainingConfig(),
		Cli: config.CLIConfig{
			Mode:    config.ModeTrain,
			NetFile: netFile,
			SeqFile: filepath.Join(dir, "missing.seq"),
			Epochs:  1,
		},
	}
	orch := cli.NewOrchestrator(appCfg)
	orch.Out = &bytes.Buffer{}
	if err := orch.Run(); err == nil {
		t.Fatal("expected error for missing .seq file")
	}
}
