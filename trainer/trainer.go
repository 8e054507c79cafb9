// Package trainer implements the reward-modulated, eligibility-trace based
// learning loop of spec §4.6: episode evaluation, eligibility accumulation,
// reward shaping, batch weight/structural/intrinsic updates, and
// checkpoint/revert across epochs. It is the hardest subsystem (spec §2
// gives it the largest share of the system) and the one with no direct
// teacher analogue — it is built by composing the teacher-derived pieces in
// `network`, `synaptic`, `homeostasis`, and `detector` the way the teacher's
// own `cli.Orchestrator` composes its subsystems into a run loop.
package trainer

import (
	"math/rand"

	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/config"
	"github.com/hd220/spikenet/detector"
	"github.com/hd220/spikenet/homeostasis"
	"github.com/hd220/spikenet/inputseq"
	"github.com/hd220/spikenet/network"
	"github.com/hd220/spikenet/synaptic"
)

// Trainer owns the network being trained plus all of the trial-to-trial
// state the spec requires to survive across episodes/batches/epochs: the
// trainer's own RNG (seedable, never global entropy — spec §5), per-edge
// prune-patience counters, and the inactivity tracker.
type Trainer struct {
	Net    *network.Network
	Config config.TrainingConfig

	rng *rand.Rand

	pruneCounters map[synaptic.EdgeID]int
	inactivity    *homeostasis.InactivityTracker

	Structural *StructuralPlasticity

	outputIDs []common.NeuronID

	baseline float64
}

// New returns a Trainer over net, seeded for reproducibility (spec §5).
func New(net *network.Network, cfg config.TrainingConfig, seed int64) *Trainer {
	return &Trainer{
		Net:           net,
		Config:        cfg,
		rng:           rand.New(rand.NewSource(seed)),
		pruneCounters: make(map[synaptic.EdgeID]int),
		inactivity:    homeostasis.NewInactivityTracker(cfg.InactiveRateThreshold, cfg.InactiveRatePatience),
		Structural:    NewDefaultStructuralPlasticity(),
		outputIDs:     net.OutputIDs(),
	}
}

// Reseed reinitializes the trainer's RNG, per spec §5.
func (tr *Trainer) Reseed(seed int64) {
	tr.rng = rand.New(rand.NewSource(seed))
}

// newDetector builds a fresh EMA detector from the trainer's configuration,
// used at the start of every episode (spec §4.6 "Episode evaluation" step 2).
// An empty configured DefaultID falls back to the network's DefaultOutputID.
func (tr *Trainer) newDetector() *detector.EMA {
	d := tr.Config.Detector
	def := common.NeuronID(d.DefaultID)
	if def == "" {
		def = tr.Net.DefaultOutputID
	}
	return detector.NewEMA(d.Alpha, d.Threshold, def)
}

// runEpisode drives sequence through warmup+window ticks, calling onTick
// (no arguments) after each network tick — shared by Evaluate (read-only)
// and ComputeEpisodeDelta (which also accumulates traces).
func (tr *Trainer) runEpisode(seq *inputseq.Sequence, det *detector.EMA, onTick func()) int {
	seq.Reset()
	ticks := tr.Config.Warmup + tr.Config.Window
	for t := 0; t < ticks; t++ {
		for id, v := range seq.CurrentInputs() {
			_ = tr.Net.InjectSensory(id, v)
		}
		tr.Net.Tick()
		for _, id := range tr.outputIDs {
			n := tr.Net.Neuron(id)
			det.Update(id, n != nil && n.DidFireThisTick)
		}
		if onTick != nil {
			onTick()
		}
		seq.Advance()
	}
	return ticks
}

// EpisodeMetrics is the result of one episode evaluation (spec §4.6
// "Episode evaluation").
type EpisodeMetrics struct {
	WinnerID common.NeuronID
	Margin   float64
	Rates    map[common.NeuronID]float64
	TicksRun int
}

// Evaluate runs sequence through the network read-only (no eligibility
// accumulation, no weight changes) and reports the detector's verdict.
func (tr *Trainer) Evaluate(seq *inputseq.Sequence) EpisodeMetrics {
	det := tr.newDetector()
	ticks := tr.runEpisode(seq, det, nil)
	return EpisodeMetrics{
		WinnerID: det.Predict(tr.outputIDs),
		Margin:   det.Margin(tr.outputIDs),
		Rates:    det.Rates(tr.outputIDs),
		TicksRun: ticks,
	}
}
