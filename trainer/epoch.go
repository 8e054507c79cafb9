package trainer

import (
	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/synaptic"
)

// EpochHistory accumulates the per-epoch metrics of a TrainEpoch run (spec
// §4.6 "Batch and epoch" step 1).
type EpochHistory struct {
	Accuracy     []float64
	Margin       []float64
	Reverted     []bool
	RevertEvents []RevertEvent
}

// RevertEvent records one checkpoint-revert trigger (spec §4.6 step 3): the
// index of the history entry that tripped it (after an earlier revert has
// truncated the history this is smaller than the epoch loop's counter),
// which metric tripped it, and the observed drop.
type RevertEvent struct {
	Epoch  int
	Metric string
	Drop   float64
}

// TrainEpoch shuffles (optionally) and batches dataset for epochs rounds,
// applies checkpointing/revert, and returns the accumulated per-epoch
// history (spec §4.6 "Batch and epoch"). An empty dataset is a no-op. cancel
// is polled at epoch boundaries (spec §5): if it returns true, the
// just-completed epoch's state is kept and no further epochs run.
func (tr *Trainer) TrainEpoch(dataset []Episode, epochs int, cancel func() bool) EpochHistory {
	var history EpochHistory
	if len(dataset) == 0 || epochs <= 0 {
		return history
	}

	cfg := tr.Config
	if cfg.WeightJitterStd > 0 {
		edgeRefs := tr.Net.Edges()
		ids := make([]synaptic.EdgeID, len(edgeRefs))
		for i, e := range edgeRefs {
			ids[i] = synaptic.EdgeID{From: e.From, To: e.To}
		}
		synaptic.Jitter(tr.Net, ids, cfg.WeightJitterStd, tr.rng)
	}
	if cfg.TimingJitter > 0 {
		jittered := make([]Episode, len(dataset))
		for i, ep := range dataset {
			delay := common.Tick(tr.rng.Intn(cfg.TimingJitter + 1))
			jittered[i] = Episode{Sequence: ep.Sequence.WithOnsetDelay(delay), Target: ep.Target}
		}
		dataset = jittered
	}

	var ring *checkpointRing
	if cfg.Checkpoints.Enable {
		ring = newCheckpointRing(cfg.Checkpoints.L0Size, cfg.Checkpoints.L1Size, cfg.Checkpoints.L2Size)
	}

	for epoch := 0; epoch < epochs; epoch++ {
		order := tr.epochOrder(dataset)
		var accSum, marginSum float64
		var batches int
		for start := 0; start < len(order); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(order) {
				end = len(order)
			}
			batch := make([]Episode, end-start)
			for i, idx := range order[start:end] {
				batch[i] = dataset[idx]
			}
			m := tr.TrainBatch(batch)
			accSum += m.Accuracy
			marginSum += m.MeanMargin
			batches++
		}
		if batches == 0 {
			continue
		}
		history.Accuracy = append(history.Accuracy, accSum/float64(batches))
		history.Margin = append(history.Margin, marginSum/float64(batches))
		reverted := false

		if ring != nil {
			ring.Push(tr.Net.Snapshot())
		}
		if cfg.Checkpoints.Enable && cfg.Checkpoints.RevertEnable {
			reverted = tr.maybeRevert(&history, ring)
		}
		history.Reverted = append(history.Reverted, reverted)

		if cancel != nil && cancel() {
			break
		}
	}
	return history
}

// epochOrder returns a (possibly shuffled) permutation of dataset indices.
func (tr *Trainer) epochOrder(dataset []Episode) []int {
	order := make([]int, len(dataset))
	for i := range order {
		order[i] = i
	}
	if tr.Config.Shuffle {
		tr.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return order
}

// maybeRevert implements spec §4.6 step 3: if the configured metric has
// dropped by at least RevertDrop over the last RevertWindow epochs, pop a
// checkpoint and restore it, discarding the history entries for the
// reverted epochs and resetting prune/inactivity counters.
func (tr *Trainer) maybeRevert(history *EpochHistory, ring *checkpointRing) bool {
	cfg := tr.Config.Checkpoints
	metric := history.Accuracy
	if cfg.RevertMetric == "margin" {
		metric = history.Margin
	}
	t := len(metric) - 1
	window := cfg.RevertWindow
	if t < window {
		return false
	}
	drop := metric[t-window] - metric[t]
	if drop < cfg.RevertDrop {
		return false
	}
	snap, ok := ring.Pop()
	if !ok {
		return false
	}
	tr.Net.Restore(snap)
	history.RevertEvents = append(history.RevertEvents, RevertEvent{Epoch: t, Metric: cfg.RevertMetric, Drop: drop})
	if t-window+1 >= 0 && t-window+1 <= len(history.Accuracy) {
		history.Accuracy = history.Accuracy[:t-window+1]
		history.Margin = history.Margin[:t-window+1]
		if len(history.Reverted) > t-window+1 {
			history.Reverted = history.Reverted[:t-window+1]
		}
	}
	tr.pruneCounters = make(map[synaptic.EdgeID]int)
	tr.inactivity.Reset()
	return true
}
