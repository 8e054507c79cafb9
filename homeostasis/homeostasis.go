// Package homeostasis applies intrinsic plasticity: per-neuron threshold and
// leak nudges driven by how far a neuron's EMA firing rate sits from a
// target rate (spec §4.6 step 7). It generalizes the teacher's
// neurochemical.Environment, which held a handful of global chemical levels
// and applied them multiplicatively to learning rate/synaptogenesis; here
// the "level" is per-neuron (the EMA rate) and the modulation targets each
// neuron's own threshold and leak instead of a single global factor.
package homeostasis

import (
	"github.com/hd220/spikenet/common"
)

// Config holds the intrinsic-plasticity tunables named in spec §4.6.
type Config struct {
	TargetRate    float64
	ThresholdGain float64 // η_θ
	LeakGain      float64 // η_leak
}

// NeuronSetter is the minimal surface intrinsic plasticity needs from a
// network: read/write a single neuron's threshold and leak.
type NeuronSetter interface {
	SetThreshold(id common.NeuronID, threshold common.Threshold) error
	SetLeak(id common.NeuronID, leak common.Leak) error
	ThresholdOf(id common.NeuronID) common.Threshold
	LeakOf(id common.NeuronID) common.Leak
}

// Apply nudges id's threshold and leak toward the point where its EMA
// firing rate would sit at cfg.TargetRate:
//
//	θ ← θ + η_θ·(r − r_target)
//	leak ← clamp(leak + η_leak·(r_target − r), 0, 1)
func Apply(net NeuronSetter, id common.NeuronID, rate float64, cfg Config) {
	newThreshold := float64(net.ThresholdOf(id)) + cfg.ThresholdGain*(rate-cfg.TargetRate)
	_ = net.SetThreshold(id, common.Threshold(newThreshold))

	newLeak := float64(net.LeakOf(id)) + cfg.LeakGain*(cfg.TargetRate-rate)
	if newLeak < 0 {
		newLeak = 0
	} else if newLeak > 1 {
		newLeak = 1
	}
	_ = net.SetLeak(id, common.Leak(newLeak))
}

// ApplyAll runs Apply for every id in rates.
func ApplyAll(net NeuronSetter, rates map[common.NeuronID]float64, cfg Config) {
	for id, r := range rates {
		Apply(net, id, r, cfg)
	}
}

// InactivityTracker counts, per neuron, how many consecutive batches its EMA
// rate has stayed below a threshold — the counter backing inactivity
// pruning (spec §4.6 step 8). Mirrors the teacher's per-gland counters in
// spirit: a small leaky/resettable piece of state tracked outside the
// neuron itself.
type InactivityTracker struct {
	Threshold float64
	Patience  int
	streak    map[common.NeuronID]int
}

// NewInactivityTracker returns a tracker with the given threshold/patience.
func NewInactivityTracker(threshold float64, patience int) *InactivityTracker {
	return &InactivityTracker{
		Threshold: threshold,
		Patience:  patience,
		streak:    make(map[common.NeuronID]int),
	}
}

// Observe records one batch's rate for id, returning true once its streak
// of below-threshold observations reaches Patience (at which point the
// streak resets, mirroring prune-counter semantics elsewhere in the spec).
func (it *InactivityTracker) Observe(id common.NeuronID, rate float64) bool {
	if rate < it.Threshold {
		it.streak[id]++
	} else {
		it.streak[id] = 0
		return false
	}
	if it.streak[id] >= it.Patience {
		it.streak[id] = 0
		return true
	}
	return false
}

// Reset clears every tracked streak (used on checkpoint revert).
func (it *InactivityTracker) Reset() {
	it.streak = make(map[common.NeuronID]int)
}
