package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

const xorNetFixture = `
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

func xorSeqFixture(ticks int) string {
	var b bytes.Buffer
	b.WriteString("LOOP false\n")
	for t := 0; t < ticks; t++ {
		b.WriteString("EVENT " + strconv.Itoa(t) + " S0 1\n")
		b.WriteString("EVENT " + strconv.Itoa(t) + " S1 1\n")
	}
	return b.String()
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// runCmd executes rootCmd with args and returns its combined stdout/stderr
// capture (cobra writes usage/errors there) alongside any execution error.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScenarioCommandRuns(t *testing.T) {
	_, err := runCmd(t, "scenario", "--name", "xor-case-11", "--seed", "1")
	if err != nil {
		t.Fatalf("scenario command: %v", err)
	}
}

func TestScenarioCommandRejectsUnknownName(t *testing.T) {
	_, err := runCmd(t, "scenario", "--name", "not-a-scenario", "--seed", "1")
	if err == nil {
		t.Fatal("expected error for unknown scenario name")
	}
}

func TestEvalCommandRequiresNetFlag(t *testing.T) {
	_, err := runCmd(t, "eval", "--seq", "x.seq")
	if err == nil {
		t.Fatal("expected error when --net is missing")
	}
}

func TestTrainCommandWritesOutputNet(t *testing.T) {
	dir := t.TempDir()
	netFile := writeFixture(t, dir, "xor.net", xorNetFixture)
	seqFile := writeFixture(t, dir, "xor.seq", xorSeqFixture(20))
	outFile := filepath.Join(dir, "out.net")

	_, err := runCmd(t, "train",
		"--net", netFile,
		"--seq", seqFile,
		"--target", "O0",
		"--epochs", "2",
		"--out", outFile,
		"--seed", "1",
	)
	if err != nil {
		t.Fatalf("train command: %v", err)
	}
	if _, statErr := os.Stat(outFile); statErr != nil {
		t.Errorf("expected trained .net file at %s: %v", outFile, statErr)
	}
}

func TestLogutilExportRequiresDbFlag(t *testing.T) {
	_, err := runCmd(t, "logutil", "export")
	if err == nil {
		t.Fatal("expected error when --db is missing")
	}
}
