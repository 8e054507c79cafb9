package trainer

import (
	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/config"
	"github.com/hd220/spikenet/inputseq"
	"github.com/hd220/spikenet/network"
	"github.com/hd220/spikenet/synaptic"
)

// ComputeEpisodeDelta runs one episode while accumulating eligibility
// traces, then shapes a reward from the resulting metrics and apportions it
// across gated edges (spec §4.6 "Episode delta computation"). It returns
// the per-edge weight delta, the episode metrics, the per-edge usage
// magnitude (for usage-boost modulation in TrainBatch), and the final
// per-neuron EMA rates (consumed by intrinsic plasticity / inactivity
// pruning in TrainBatch).
func (tr *Trainer) ComputeEpisodeDelta(seq *inputseq.Sequence, targetID common.NeuronID) (synaptic.DeltaMap, EpisodeMetrics, synaptic.UsageMap, map[common.NeuronID]float64) {
	det := tr.newDetector()
	traces := synaptic.NewTraces(tr.Config.Lambda, tr.Config.RateAlpha, tr.Config.EligPostUseRate)
	edges := tr.Net.Edges()

	tr.runEpisode(seq, det, func() {
		for _, id := range tr.Net.Order() {
			n := tr.Net.Neuron(id)
			traces.UpdateNeuronRate(id, n != nil && n.DidFireThisTick)
		}
		for _, e := range edges {
			src := tr.Net.Neuron(e.From)
			dst := tr.Net.Neuron(e.To)
			srcFired := src != nil && src.DidFireThisTick
			dstFired := dst != nil && dst.DidFireThisTick
			traces.UpdateEdge(e.From, e.To, srcFired, dstFired)
		}
	})

	metrics := EpisodeMetrics{
		WinnerID: det.Predict(tr.outputIDs),
		Margin:   det.Margin(tr.outputIDs),
		Rates:    det.Rates(tr.outputIDs),
		TicksRun: tr.Config.Warmup + tr.Config.Window,
	}

	reward := rewardRaw(tr.Config, metrics, targetID)
	if tr.Config.BaselineEnable {
		raw := reward
		reward = raw - tr.baseline
		tr.baseline = (1-tr.Config.BaselineBeta)*tr.baseline + tr.Config.BaselineBeta*raw
	}
	if satisfied(tr.Config, metrics, targetID) {
		reward = 0
	}

	delta := make(synaptic.DeltaMap)
	usage := make(synaptic.UsageMap)
	for _, e := range edges {
		if !tr.updateGated(e, metrics, targetID) {
			continue
		}
		elig := traces.Edge(e.From, e.To)
		id := synaptic.EdgeID{From: e.From, To: e.To}
		delta[id] += tr.Config.LearningRate * reward * elig
		usage[id] += absFloat(elig)
	}
	return delta, metrics, usage, traces.NeuronRates()
}

// updateGated applies the update-gating modes of spec §4.6: none updates
// every edge, winner_only restricts to edges into the predicted winner,
// target_only restricts to edges into the episode's target.
func (tr *Trainer) updateGated(e network.EdgeRef, metrics EpisodeMetrics, targetID common.NeuronID) bool {
	switch tr.Config.GateMode {
	case config.GateWinnerOnly:
		return e.To == metrics.WinnerID
	case config.GateTargetOnly:
		return e.To == targetID
	default:
		return true
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
