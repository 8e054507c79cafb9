// Package cli provides the command-line orchestrator for the spikenet
// runtime. It interprets the resolved configuration and drives the
// trainer/evaluator core for each supported mode (train/eval/scenario/
// logutil); it is the external-collaborator layer named in spec §1/§6 and
// is kept thin so the core stays usable as a plain library.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/config"
	"github.com/hd220/spikenet/datagen"
	"github.com/hd220/spikenet/inputseq"
	"github.com/hd220/spikenet/network"
	"github.com/hd220/spikenet/storage"
	"github.com/hd220/spikenet/trainer"
)

// Orchestrator wires the resolved configuration to a network, a trainer,
// and (in train mode) an optional SQLite history logger. Out receives the
// JSON result of Run (os.Stdout by default); tests substitute a buffer.
type Orchestrator struct {
	AppCfg *config.AppConfig
	Out    io.Writer

	Net     *network.Network
	Trainer *trainer.Trainer

	// loadNetFn/buildScenarioFn allow tests to substitute network
	// construction without touching the filesystem, the same seam the
	// teacher's Orchestrator used for weight load/save.
	loadNetFn       func(path string) (*network.Network, error)
	buildScenarioFn func(name string) (*network.Network, []trainer.Episode, error)
}

// NewOrchestrator returns an orchestrator over appCfg, defaulting to real
// file-system network loading and stdout JSON output.
func NewOrchestrator(appCfg *config.AppConfig) *Orchestrator {
	return &Orchestrator{
		AppCfg: appCfg,
		Out:    os.Stdout,
		loadNetFn: func(path string) (*network.Network, error) {
			return network.LoadNetFile(path, nil)
		},
		buildScenarioFn: buildScenario,
	}
}

// EpisodeDetail is one entry of MetricsReport.Details (spec §6).
type EpisodeDetail struct {
	Index  int     `json:"index"`
	Winner string  `json:"winner"`
	Margin float64 `json:"margin"`
}

// MetricsReport is the JSON shape emitted by eval/scenario mode (spec §6).
type MetricsReport struct {
	Scenario string          `json:"scenario"`
	Accuracy float64         `json:"accuracy"`
	Details  []EpisodeDetail `json:"details"`
}

// TrainingHistoryReport is the JSON shape emitted by train mode (spec §6).
type TrainingHistoryReport struct {
	Epochs   int       `json:"epochs"`
	Accuracy []float64 `json:"accuracy"`
	Margin   []float64 `json:"margin"`
}

// Run dispatches on AppCfg.Cli.Mode. It returns a non-nil error whenever the
// operation could not complete at all (e.g. a required file could not be
// opened); the caller (cmd) maps that to a non-zero exit code, per spec §6.
func (o *Orchestrator) Run() error {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	switch o.AppCfg.Cli.Mode {
	case config.ModeTrain:
		return o.runTrain()
	case config.ModeEval:
		return o.runEval()
	case config.ModeScenario:
		return o.runScenario()
	case config.ModeLogUtil:
		return o.runLogUtil()
	default:
		return fmt.Errorf("unsupported mode %q", o.AppCfg.Cli.Mode)
	}
}

func (o *Orchestrator) newTrainer(net *network.Network) *trainer.Trainer {
	return trainer.New(net, o.AppCfg.Training, o.AppCfg.Cli.Seed)
}

// runTrain loads a .net network and a .seq input sequence, trains it for
// the configured number of epochs, optionally logs per-epoch history to
// SQLite, optionally writes the trained network back out, and emits the
// training-history JSON of spec §6.
func (o *Orchestrator) runTrain() error {
	cli := o.AppCfg.Cli
	net, err := o.loadNetFn(cli.NetFile)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	seq, err := inputseq.LoadSeqFile(cli.SeqFile, nil)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	o.Net = net
	o.Trainer = o.newTrainer(net)

	dataset := []trainer.Episode{{Sequence: seq, Target: common.NeuronID(cli.TargetID)}}

	var logger *storage.HistoryLogger
	if cli.HistoryDBPath != "" {
		logger, err = storage.NewHistoryLogger(cli.HistoryDBPath)
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}
		defer logger.Close()
	}

	history := o.Trainer.TrainEpoch(dataset, cli.Epochs, nil)
	if logger != nil {
		for epoch, acc := range history.Accuracy {
			if err := logger.LogEpoch(epoch, acc, history.Margin[epoch], history.Reverted[epoch]); err != nil {
				return fmt.Errorf("train: logging epoch %d: %w", epoch, err)
			}
		}
		for _, ev := range history.RevertEvents {
			if err := logger.LogCheckpointEvent(ev.Epoch, ev.Metric, ev.Drop); err != nil {
				return fmt.Errorf("train: logging checkpoint event at epoch %d: %w", ev.Epoch, err)
			}
		}
	}

	if cli.OutNetFile != "" {
		if err := network.SaveNetFile(o.Net, cli.OutNetFile); err != nil {
			return fmt.Errorf("train: %w", err)
		}
	}

	return o.writeJSON(TrainingHistoryReport{
		Epochs:   len(history.Accuracy),
		Accuracy: nonNilFloats(history.Accuracy),
		Margin:   nonNilFloats(history.Margin),
	})
}

// runEval loads a .net network and a .seq input sequence and evaluates it
// read-only (no weight changes), emitting the metrics JSON of spec §6 with
// a single detail entry.
func (o *Orchestrator) runEval() error {
	cli := o.AppCfg.Cli
	net, err := o.loadNetFn(cli.NetFile)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	seq, err := inputseq.LoadSeqFile(cli.SeqFile, nil)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	o.Net = net
	o.Trainer = o.newTrainer(net)

	metrics := o.Trainer.Evaluate(seq)
	accuracy := 0.0
	if string(metrics.WinnerID) == cli.TargetID && cli.TargetID != "" {
		accuracy = 1.0
	}
	return o.writeJSON(MetricsReport{
		Scenario: "eval",
		Accuracy: accuracy,
		Details: []EpisodeDetail{{
			Index:  0,
			Winner: string(metrics.WinnerID),
			Margin: metrics.Margin,
		}},
	})
}

// runScenario builds one of the crafted networks/datasets of spec §8 (by
// name) instead of loading a .net/.seq pair, evaluates every episode in the
// scenario's dataset read-only, and emits the metrics JSON of spec §6.
func (o *Orchestrator) runScenario() error {
	cli := o.AppCfg.Cli
	net, dataset, err := o.buildScenarioFn(cli.Scenario)
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	o.Net = net
	o.Trainer = o.newTrainer(net)

	details := make([]EpisodeDetail, len(dataset))
	correct := 0
	for i, ep := range dataset {
		metrics := o.Trainer.Evaluate(ep.Sequence)
		details[i] = EpisodeDetail{Index: i, Winner: string(metrics.WinnerID), Margin: metrics.Margin}
		if metrics.WinnerID == ep.Target {
			correct++
		}
	}
	accuracy := 0.0
	if len(dataset) > 0 {
		accuracy = float64(correct) / float64(len(dataset))
	}
	return o.writeJSON(MetricsReport{Scenario: cli.Scenario, Accuracy: accuracy, Details: details})
}

// runLogUtil exports a table of a training-history SQLite database to CSV
// (spec §6's logutil subcommand).
func (o *Orchestrator) runLogUtil() error {
	cli := o.AppCfg.Cli
	return storage.ExportLogData(cli.LogUtilDbPath, cli.LogUtilTable, cli.LogUtilFormat, cli.LogUtilOutput)
}

func (o *Orchestrator) writeJSON(v any) error {
	enc := json.NewEncoder(o.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// buildScenario constructs one of the crafted networks/datasets named in
// spec §8's end-to-end scenarios, by name.
func buildScenario(name string) (*network.Network, []trainer.Episode, error) {
	switch name {
	case "xor-case-11":
		net, err := datagen.BuildXORNetwork()
		if err != nil {
			return nil, nil, err
		}
		return net, []trainer.Episode{{Sequence: datagen.XORTrial(1, 1, 100), Target: "O0"}}, nil
	case "xor-case-10":
		net, err := datagen.BuildXORNetwork()
		if err != nil {
			return nil, nil, err
		}
		return net, []trainer.Episode{{Sequence: datagen.XORTrial(1, 0, 100), Target: "O1"}}, nil
	case "onehot-0", "onehot-1", "onehot-2":
		net, err := datagen.BuildOneHotNetwork()
		if err != nil {
			return nil, nil, err
		}
		class := int(name[len(name)-1] - '0')
		target := common.NeuronID(fmt.Sprintf("O%d", class))
		return net, []trainer.Episode{{Sequence: datagen.OneHotTrial(class, 100), Target: target}}, nil
	default:
		return nil, nil, fmt.Errorf("unknown scenario %q, supported: %v", name, config.SupportedScenarios)
	}
}

func nonNilFloats(fs []float64) []float64 {
	if fs == nil {
		return []float64{}
	}
	return fs
}
