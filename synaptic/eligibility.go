// Package synaptic tracks per-edge eligibility traces and applies the
// reward-modulated weight updates the trainer computes from them (spec
// §4.6 "Episode delta computation", "Batch and epoch"). It generalizes the
// teacher's NetworkWeights: where the teacher kept one flat Hebbian rule
// baked into the weight store, this package separates trace accumulation
// (Traces) from delta application (ApplyDeltas), because the trainer needs
// to inspect accumulated eligibility before deciding whether to apply it.
package synaptic

import (
	"math/rand"

	"github.com/hd220/spikenet/common"
)

// EdgeID identifies a directed synapse for trace/delta/usage bookkeeping.
type EdgeID struct {
	From common.NeuronID
	To   common.NeuronID
}

// Traces holds the per-edge eligibility accumulator e_{u->v} and the
// per-neuron EMA firing rate r_n used by rate-based post terms and by
// intrinsic plasticity.
type Traces struct {
	Lambda      float64
	PostUseRate bool
	RateAlpha   float64
	edge        map[EdgeID]float64
	neuronRate  map[common.NeuronID]float64
}

// NewTraces returns an empty trace accumulator. lambda is the eligibility
// leak factor; rateAlpha is the per-neuron EMA rate smoothing factor;
// postUseRate selects rate-based (vs. spike-based) post terms.
func NewTraces(lambda, rateAlpha float64, postUseRate bool) *Traces {
	return &Traces{
		Lambda:      lambda,
		PostUseRate: postUseRate,
		RateAlpha:   rateAlpha,
		edge:        make(map[EdgeID]float64),
		neuronRate:  make(map[common.NeuronID]float64),
	}
}

// Reset clears all accumulated traces and rates. The trainer does not call
// it; it builds a fresh Traces for every episode instead.
func (tr *Traces) Reset() {
	tr.edge = make(map[EdgeID]float64)
	tr.neuronRate = make(map[common.NeuronID]float64)
}

// UpdateNeuronRate applies one EMA step for n's firing rate.
func (tr *Traces) UpdateNeuronRate(n common.NeuronID, fired bool) {
	f := 0.0
	if fired {
		f = 1.0
	}
	tr.neuronRate[n] = (1-tr.RateAlpha)*tr.neuronRate[n] + tr.RateAlpha*f
}

// NeuronRate returns the current EMA firing rate for n (0 if untracked).
func (tr *Traces) NeuronRate(n common.NeuronID) float64 {
	return tr.neuronRate[n]
}

// NeuronRates returns a copy of the full per-neuron rate map.
func (tr *Traces) NeuronRates() map[common.NeuronID]float64 {
	out := make(map[common.NeuronID]float64, len(tr.neuronRate))
	for id, r := range tr.neuronRate {
		out[id] = r
	}
	return out
}

// UpdateEdge applies one leaky-eligibility step for edge u->v: e ← λ·e +
// pre·post, where pre is 1 iff u fired this tick and post is either 1 iff v
// fired this tick or v's EMA rate, depending on PostUseRate.
func (tr *Traces) UpdateEdge(u, v common.NeuronID, uFired, vFired bool) {
	id := EdgeID{From: u, To: v}
	pre := 0.0
	if uFired {
		pre = 1.0
	}
	post := 0.0
	if tr.PostUseRate {
		post = tr.neuronRate[v]
	} else if vFired {
		post = 1.0
	}
	tr.edge[id] = tr.Lambda*tr.edge[id] + pre*post
}

// Edge returns the current eligibility value for u->v (0 if untracked).
func (tr *Traces) Edge(u, v common.NeuronID) float64 {
	return tr.edge[EdgeID{From: u, To: v}]
}

// Edges returns a copy of the full edge eligibility map.
func (tr *Traces) Edges() map[EdgeID]float64 {
	out := make(map[EdgeID]float64, len(tr.edge))
	for id, e := range tr.edge {
		out[id] = e
	}
	return out
}

// DeltaMap accumulates per-edge weight deltas across an episode or batch.
type DeltaMap map[EdgeID]float64

// UsageMap accumulates per-edge absolute eligibility magnitude, used by
// usage-boost modulation in train_batch.
type UsageMap map[EdgeID]float64

// EdgeSetter is the minimal surface ApplyDeltas needs from a network: read
// and overwrite a single edge's weight. network.Network satisfies this.
type EdgeSetter interface {
	HasEdge(from, to common.NeuronID) bool
	EdgeWeight(from, to common.NeuronID) common.Weight
	SetWeight(from, to common.NeuronID, weight common.Weight) error
}

// ApplyDeltas applies sumDelta/batchSize to every still-existing gated edge
// (spec §4.6 step 2: "Attempts to update an edge that has been pruned
// mid-batch ... silently targets a no-longer-existing edge and is dropped at
// apply time"), then weight decay, then an optional symmetric clip. Decay and
// clip are unconditional on the live weights (spec §4.6 steps 3-4), so
// allEdges — the network's full edge list, independent of which edges
// sumDelta's update-gating mode populated — also gets decayed/clipped even
// when it never received a delta.
func ApplyDeltas(net EdgeSetter, sumDelta DeltaMap, allEdges []EdgeID, batchSize int, weightDecay, weightClip float64) {
	if batchSize <= 0 {
		return
	}
	scale := 1.0 / float64(batchSize)
	touched := make(map[EdgeID]bool, len(sumDelta))
	for id, d := range sumDelta {
		if !net.HasEdge(id.From, id.To) {
			continue
		}
		touched[id] = true
		w := float64(net.EdgeWeight(id.From, id.To))
		w += d * scale
		w = decayAndClip(w, weightDecay, weightClip)
		net.SetWeight(id.From, id.To, common.Weight(w))
	}
	for _, id := range allEdges {
		if touched[id] || !net.HasEdge(id.From, id.To) {
			continue
		}
		w := decayAndClip(float64(net.EdgeWeight(id.From, id.To)), weightDecay, weightClip)
		net.SetWeight(id.From, id.To, common.Weight(w))
	}
}

// decayAndClip applies weight decay (a proportional shrink toward zero) and
// then an optional symmetric clip to w.
func decayAndClip(w, weightDecay, weightClip float64) float64 {
	if weightDecay > 0 {
		w -= weightDecay * w
	}
	if weightClip > 0 {
		if w > weightClip {
			w = weightClip
		} else if w < -weightClip {
			w = -weightClip
		}
	}
	return w
}

// ApplyUsageBoost adds gain·meanReward·clamp(usage/batchSize, 0, 1) to every
// still-existing edge in usage (spec §4.6 step 5). The shift is signed, so a
// negative mean reward or a negative weight can shrink the magnitude.
func ApplyUsageBoost(net EdgeSetter, usage UsageMap, batchSize int, gain, meanReward float64) {
	if gain == 0 || batchSize <= 0 {
		return
	}
	for id, u := range usage {
		if !net.HasEdge(id.From, id.To) {
			continue
		}
		frac := u / float64(batchSize)
		if frac < 0 {
			frac = 0
		} else if frac > 1 {
			frac = 1
		}
		w := float64(net.EdgeWeight(id.From, id.To))
		w += gain * meanReward * frac
		net.SetWeight(id.From, id.To, common.Weight(w))
	}
}

// Jitter adds independent normal noise (std jitterStd) to every edge in
// edges, used once before the first training epoch (spec §4.6 step 4). The
// caller (trainer) supplies the current edge list since enumerating
// topology is the network's job, not this package's.
func Jitter(net EdgeSetter, edges []EdgeID, jitterStd float64, rng *rand.Rand) {
	if jitterStd <= 0 {
		return
	}
	for _, id := range edges {
		w := float64(net.EdgeWeight(id.From, id.To))
		w += rng.NormFloat64() * jitterStd
		net.SetWeight(id.From, id.To, common.Weight(w))
	}
}
