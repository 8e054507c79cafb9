// Package config aggregates every tunable named in spec §3-§4.6 into a
// layered AppConfig: compiled-in defaults, optional TOML file overlay, then
// CLI flag overrides — the same three-layer precedence and
// SimulationParameters/CLIConfig/AppConfig shape the teacher uses, just with
// fields for a spiking-network trainer instead of a spatial CrowNet sim.
package config

import (
	"fmt"
	"strings"
)

// Mode selects what a CLI invocation does.
const (
	ModeTrain    = "train"
	ModeEval     = "eval"
	ModeScenario = "scenario"
	ModeLogUtil  = "logutil"
)

// SupportedModes lists every valid Mode value.
var SupportedModes = []string{ModeTrain, ModeEval, ModeScenario, ModeLogUtil}

// Reward shaping and update-gating identifiers (spec §4.6).
const (
	RewardBinary         = "binary"
	RewardMarginLinear   = "margin_linear"
	RewardSoftplusMargin = "softplus_margin"

	GateNone       = "none"
	GateWinnerOnly = "winner_only"
	GateTargetOnly = "target_only"
)

var supportedRewardModes = []string{RewardBinary, RewardMarginLinear, RewardSoftplusMargin}
var supportedGateModes = []string{GateNone, GateWinnerOnly, GateTargetOnly}

// DetectorConfig parameterizes the EMA output readout (spec §3, §4.4).
type DetectorConfig struct {
	Alpha     float64 `toml:"alpha"`
	Threshold float64 `toml:"threshold"`
	DefaultID string  `toml:"default_id"`
}

// CheckpointConfig parameterizes the three-level ring buffer and the
// revert-on-regression trigger (spec §4.6 step 2/3).
type CheckpointConfig struct {
	Enable      bool    `toml:"enable"`
	L0Size      int     `toml:"l0_size"`
	L1Size      int     `toml:"l1_size"`
	L2Size      int     `toml:"l2_size"`
	RevertEnable bool   `toml:"revert_enable"`
	RevertMetric string `toml:"revert_metric"` // "accuracy" or "margin"
	RevertWindow int     `toml:"revert_window"`
	RevertDrop   float64 `toml:"revert_drop"`
}

// TrainingConfig holds every tunable of spec §4.6's episode/batch/epoch
// algorithms, plus the detector and structural/intrinsic-plasticity
// parameters they depend on.
type TrainingConfig struct {
	// Episode evaluation
	Warmup int `toml:"warmup"`
	Window int `toml:"window"`
	Detector DetectorConfig `toml:"detector"`

	// Eligibility trace
	Lambda        float64 `toml:"lambda"`
	RateAlpha     float64 `toml:"rate_alpha"`
	EligPostUseRate bool  `toml:"elig_post_use_rate"`

	// Reward shaping
	RewardMode   string  `toml:"reward_mode"`
	RewardPos    float64 `toml:"reward_pos"`
	RewardNeg    float64 `toml:"reward_neg"`
	RewardGain   float64 `toml:"reward_gain"`
	RewardMin    float64 `toml:"reward_min"`
	RewardMax    float64 `toml:"reward_max"`
	MarginDelta  float64 `toml:"margin_delta"`

	// Advantage baseline
	BaselineEnable bool    `toml:"baseline_enable"`
	BaselineBeta   float64 `toml:"baseline_beta"`

	// Update gating
	GateMode string `toml:"gate_mode"`

	// Batch application
	LearningRate float64 `toml:"learning_rate"`
	WeightDecay  float64 `toml:"weight_decay"`
	WeightClip   float64 `toml:"weight_clip"`
	UsageBoostGain float64 `toml:"usage_boost_gain"`

	// Structural plasticity
	PruneEpsilon  float64 `toml:"prune_epsilon"`
	PrunePatience int     `toml:"prune_patience"`
	GrowEdges     int     `toml:"grow_edges"`
	InitWeight    float64 `toml:"init_weight"`

	// Intrinsic plasticity
	TargetRate    float64 `toml:"target_rate"`
	ThresholdGain float64 `toml:"threshold_gain"`
	LeakGain      float64 `toml:"leak_gain"`

	// Inactivity pruning
	InactiveRateThreshold float64 `toml:"inactive_rate_threshold"`
	InactiveRatePatience  int     `toml:"inactive_rate_patience"`
	PruneInactiveMax      int     `toml:"prune_inactive_max"`
	PruneInactiveOut      bool    `toml:"prune_inactive_out"`
	PruneInactiveIn       bool    `toml:"prune_inactive_in"`

	// Epoch-level
	BatchSize    int  `toml:"batch_size"`
	Shuffle      bool `toml:"shuffle"`
	Checkpoints  CheckpointConfig `toml:"checkpoints"`
	WeightJitterStd float64 `toml:"weight_jitter_std"`
	TimingJitter    int     `toml:"timing_jitter"`

	// Logging
	Verbose  bool `toml:"verbose"`
	LogEvery int  `toml:"log_every"`
}

// CLIConfig holds the flags common to every CLI subcommand (spec §6).
type CLIConfig struct {
	Mode        string `json:"mode"`
	NetFile     string `json:"net_file"`
	SeqFile     string `json:"seq_file"`
	TargetID    string `json:"target_id"`
	Seed        int64  `json:"seed"`
	Epochs      int    `json:"epochs"`
	OutNetFile  string `json:"out_net_file"`

	// HistoryDBPath, if set, enables per-epoch SQLite history logging
	// during 'train' mode (spec §4.6 step 1/3, §6).
	HistoryDBPath string `json:"history_db_path"`

	// 'logutil' subcommand configuration.
	LogUtilDbPath string `json:"logutil_dbpath"`
	LogUtilTable  string `json:"logutil_table"`
	LogUtilFormat string `json:"logutil_format"`
	LogUtilOutput string `json:"logutil_output"`

	// 'scenario' subcommand configuration: selects a crafted network +
	// input sequence instead of loading one from disk (spec §8).
	Scenario string `json:"scenario"`
}

// SupportedScenarios lists every crafted-scenario name the 'scenario' mode
// accepts.
var SupportedScenarios = []string{"xor-case-11", "xor-case-10", "onehot-0", "onehot-1", "onehot-2"}

// AppConfig is the fully resolved configuration: compiled-in defaults,
// overlaid by an optional TOML file, overlaid by CLI flags.
type AppConfig struct {
	Training TrainingConfig
	Cli      CLIConfig
}

// DefaultTrainingConfig returns the compiled-in defaults for every trainer
// tunable (spec §4.6).
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Warmup: 5,
		Window: 20,
		Detector: DetectorConfig{
			Alpha:     0.1,
			Threshold: 0.05,
			DefaultID: "",
		},
		Lambda:          0.9,
		RateAlpha:       0.1,
		EligPostUseRate: false,

		RewardMode:  RewardMarginLinear,
		RewardPos:   1.0,
		RewardNeg:   -1.0,
		RewardGain:  1.0,
		RewardMin:   -1.0,
		RewardMax:   1.0,
		MarginDelta: 0.05,

		BaselineEnable: false,
		BaselineBeta:   0.1,

		GateMode: GateNone,

		LearningRate:   0.01,
		WeightDecay:    0.0001,
		WeightClip:     5.0,
		UsageBoostGain: 0.0,

		PruneEpsilon:  0.001,
		PrunePatience: 5,
		GrowEdges:     0,
		InitWeight:    0.1,

		TargetRate:    0.1,
		ThresholdGain: 0.01,
		LeakGain:      0.001,

		InactiveRateThreshold: 0.01,
		InactiveRatePatience:  10,
		PruneInactiveMax:      0,
		PruneInactiveOut:      false,
		PruneInactiveIn:       false,

		BatchSize: 8,
		Shuffle:   true,
		Checkpoints: CheckpointConfig{
			Enable:       false,
			L0Size:       3,
			L1Size:       3,
			L2Size:       3,
			RevertEnable: false,
			RevertMetric: "accuracy",
			RevertWindow: 5,
			RevertDrop:   0.2,
		},
		WeightJitterStd: 0,
		TimingJitter:    0,

		Verbose:  false,
		LogEvery: 1,
	}
}

// Validate checks AppConfig for internally-consistent values, mirroring the
// teacher's mode-switch-then-field-range style in config.Validate.
func (ac *AppConfig) Validate() error {
	modeValid := false
	for _, m := range SupportedModes {
		if ac.Cli.Mode == m {
			modeValid = true
			break
		}
	}
	if !modeValid {
		return fmt.Errorf("invalid mode %q, supported modes are: %s", ac.Cli.Mode, strings.Join(SupportedModes, ", "))
	}

	switch ac.Cli.Mode {
	case ModeLogUtil:
		if strings.TrimSpace(ac.Cli.LogUtilDbPath) == "" {
			return fmt.Errorf("logutil_db_path must be specified for mode %q", ac.Cli.Mode)
		}
		if ac.Cli.LogUtilFormat != "" && ac.Cli.LogUtilFormat != "csv" {
			return fmt.Errorf("invalid logutil_format %q, only 'csv' is supported", ac.Cli.LogUtilFormat)
		}
		return nil
	case ModeTrain, ModeEval:
		if ac.Cli.NetFile == "" {
			return fmt.Errorf("net_file must be specified for mode %q", ac.Cli.Mode)
		}
	}

	if ac.Cli.Mode == ModeTrain && ac.Cli.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive for mode %q, got %d", ac.Cli.Mode, ac.Cli.Epochs)
	}

	t := ac.Training
	if t.Window <= 0 {
		return fmt.Errorf("window must be positive, got %d", t.Window)
	}
	if t.Warmup < 0 {
		return fmt.Errorf("warmup must be non-negative, got %d", t.Warmup)
	}
	if t.Detector.Alpha <= 0 || t.Detector.Alpha > 1 {
		return fmt.Errorf("detector.alpha must be in (0, 1], got %f", t.Detector.Alpha)
	}
	if t.Lambda < 0 || t.Lambda > 1 {
		return fmt.Errorf("lambda must be in [0, 1], got %f", t.Lambda)
	}
	if !contains(supportedRewardModes, t.RewardMode) {
		return fmt.Errorf("invalid reward_mode %q, supported: %s", t.RewardMode, strings.Join(supportedRewardModes, ", "))
	}
	if !contains(supportedGateModes, t.GateMode) {
		return fmt.Errorf("invalid gate_mode %q, supported: %s", t.GateMode, strings.Join(supportedGateModes, ", "))
	}
	if t.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", t.BatchSize)
	}
	if t.PrunePatience < 0 || t.InactiveRatePatience < 0 {
		return fmt.Errorf("patience counters must be non-negative")
	}
	if t.Checkpoints.Enable {
		if t.Checkpoints.L0Size <= 0 {
			return fmt.Errorf("checkpoints.l0_size must be positive when checkpoints are enabled, got %d", t.Checkpoints.L0Size)
		}
		if t.Checkpoints.RevertEnable && t.Checkpoints.RevertMetric != "accuracy" && t.Checkpoints.RevertMetric != "margin" {
			return fmt.Errorf("checkpoints.revert_metric must be 'accuracy' or 'margin', got %q", t.Checkpoints.RevertMetric)
		}
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
