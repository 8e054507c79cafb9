package trainer

import (
	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/inputseq"
	"github.com/hd220/spikenet/synaptic"
)

// Episode pairs an input sequence with the label it should drive the
// network toward, the unit of work for TrainBatch/TrainEpoch.
type Episode struct {
	Sequence *inputseq.Sequence
	Target   common.NeuronID
}

// BatchMetrics summarizes one train_batch call (spec §4.6 "Batch and
// epoch").
type BatchMetrics struct {
	Accuracy   float64
	MeanMargin float64
	MeanReward float64
	Pruned     []synaptic.EdgeID
	Grown      []synaptic.EdgeID
}

// TrainBatch runs every episode in batch, sums deltas/usage, applies them
// to the live weights, then runs structural and intrinsic plasticity (spec
// §4.6 "Batch and epoch" steps 1-8). An empty batch is a no-op (step
// "Empty batch or empty dataset").
func (tr *Trainer) TrainBatch(batch []Episode) BatchMetrics {
	if len(batch) == 0 {
		return BatchMetrics{}
	}

	sumDelta := make(synaptic.DeltaMap)
	sumUsage := make(synaptic.UsageMap)
	rateSum := make(map[common.NeuronID]float64)
	var correct int
	var marginSum, rewardSum float64

	for _, ep := range batch {
		delta, metrics, usage, rates := tr.ComputeEpisodeDelta(ep.Sequence, ep.Target)
		for id, d := range delta {
			sumDelta[id] += d
		}
		for id, u := range usage {
			sumUsage[id] += u
		}
		for id, r := range rates {
			rateSum[id] += r
		}
		if metrics.WinnerID == ep.Target {
			correct++
		}
		marginSum += metrics.Margin
		rewardSum += rewardRaw(tr.Config, metrics, ep.Target)
	}

	n := len(batch)
	meanReward := rewardSum / float64(n)

	edgeRefs := tr.Net.Edges()
	allEdges := make([]synaptic.EdgeID, len(edgeRefs))
	for i, e := range edgeRefs {
		allEdges[i] = synaptic.EdgeID{From: e.From, To: e.To}
	}

	synaptic.ApplyDeltas(tr.Net, sumDelta, allEdges, n, tr.Config.WeightDecay, tr.Config.WeightClip)
	synaptic.ApplyUsageBoost(tr.Net, sumUsage, n, tr.Config.UsageBoostGain, meanReward)

	pruned, grown := tr.Structural.Apply(tr.Net, tr.pruneCounters, tr.Config, tr.rng)

	meanRates := make(map[common.NeuronID]float64, len(rateSum))
	for id, sum := range rateSum {
		meanRates[id] = sum / float64(n)
	}
	tr.applyIntrinsicAndInactivity(meanRates)

	if tr.Config.Verbose && tr.Config.LogEvery > 0 {
		// No per-batch log line is emitted here, and neither the epoch loop
		// nor the cli layer logs one from the returned metrics.
		_ = meanRates
	}

	return BatchMetrics{
		Accuracy:   float64(correct) / float64(n),
		MeanMargin: marginSum / float64(n),
		MeanReward: meanReward,
		Pruned:     pruned,
		Grown:      grown,
	}
}

// applyIntrinsicAndInactivity runs intrinsic plasticity (spec §4.6 step 7)
// and inactivity pruning (step 8) from this batch's mean per-neuron rates.
func (tr *Trainer) applyIntrinsicAndInactivity(meanRates map[common.NeuronID]float64) {
	cfg := tr.Config
	homeoCfg := intrinsicConfig(cfg)
	for id, r := range meanRates {
		applyIntrinsic(tr.Net, id, r, homeoCfg)
	}

	if cfg.InactiveRatePatience <= 0 && cfg.PruneInactiveMax <= 0 {
		return
	}
	for _, id := range tr.Net.Order() {
		rate := meanRates[id]
		if !tr.inactivity.Observe(id, rate) {
			continue
		}
		tr.pruneInactiveEdges(id)
	}
}

// pruneInactiveEdges removes up to PruneInactiveMax of id's weakest
// outgoing and/or incoming edges (spec §4.6 step 8).
func (tr *Trainer) pruneInactiveEdges(id common.NeuronID) {
	cfg := tr.Config
	if cfg.PruneInactiveMax <= 0 {
		return
	}
	if cfg.PruneInactiveOut {
		tr.pruneWeakest(id, true)
	}
	if cfg.PruneInactiveIn {
		tr.pruneWeakest(id, false)
	}
}

func (tr *Trainer) pruneWeakest(id common.NeuronID, outgoing bool) {
	type candidate struct {
		from, to common.NeuronID
		mag      float64
	}
	var candidates []candidate
	for _, e := range tr.Net.Edges() {
		if outgoing && e.From == id {
			candidates = append(candidates, candidate{e.From, e.To, absFloat(float64(tr.Net.EdgeWeight(e.From, e.To)))})
		} else if !outgoing && e.To == id {
			candidates = append(candidates, candidate{e.From, e.To, absFloat(float64(tr.Net.EdgeWeight(e.From, e.To)))})
		}
	}
	// Partial selection sort for the weakest PruneInactiveMax: these lists
	// are small (a single neuron's fan-in/fan-out), so O(n*k) is fine.
	limit := tr.Config.PruneInactiveMax
	if limit > len(candidates) {
		limit = len(candidates)
	}
	for i := 0; i < limit; i++ {
		minIdx := i
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].mag < candidates[minIdx].mag {
				minIdx = j
			}
		}
		candidates[i], candidates[minIdx] = candidates[minIdx], candidates[i]
		_ = tr.Net.RemoveEdge(candidates[i].from, candidates[i].to)
	}
}
