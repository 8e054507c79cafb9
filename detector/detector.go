// Package detector implements the rate-coded output readout: an EMA firing
// rate per output id, argmax prediction with an abstention threshold and a
// configurable default, plus a sticky-winner variant for live readouts that
// should not thrash between near-tied outputs (spec §3, §4.4).
package detector

import (
	"sort"

	"github.com/hd220/spikenet/common"
)

// EMA is the per-output-id exponential moving average firing rate.
type EMA struct {
	Alpha     float64
	Threshold float64
	DefaultID common.NeuronID
	MinMargin float64

	rates map[common.NeuronID]float64
}

// NewEMA returns a detector with the given smoothing factor, abstention
// threshold, and default id (may be empty, meaning abstain silently).
func NewEMA(alpha, threshold float64, defaultID common.NeuronID) *EMA {
	return &EMA{
		Alpha:     alpha,
		Threshold: threshold,
		DefaultID: defaultID,
		rates:     make(map[common.NeuronID]float64),
	}
}

// Reset sets every tracked rate back to 0.
func (d *EMA) Reset() {
	for id := range d.rates {
		d.rates[id] = 0
	}
}

// Update applies one EMA step for id: r ← (1-α)·r + α·(fired ? 1 : 0).
func (d *EMA) Update(id common.NeuronID, fired bool) {
	f := 0.0
	if fired {
		f = 1.0
	}
	d.rates[id] = (1-d.Alpha)*d.rates[id] + d.Alpha*f
}

// Rate returns the current EMA rate for id (0 if never updated).
func (d *EMA) Rate(id common.NeuronID) float64 {
	return d.rates[id]
}

// Rates returns a copy of the rate map restricted to ids.
func (d *EMA) Rates(ids []common.NeuronID) map[common.NeuronID]float64 {
	out := make(map[common.NeuronID]float64, len(ids))
	for _, id := range ids {
		out[id] = d.rates[id]
	}
	return out
}

// rankIDs returns ids sorted by (rate desc, id asc) — the latter breaking
// ties lexicographically, per spec §3.
func rankIDs(ids []common.NeuronID, rates map[common.NeuronID]float64) []common.NeuronID {
	ranked := make([]common.NeuronID, len(ids))
	copy(ranked, ids)
	sort.Slice(ranked, func(i, j int) bool {
		ri, rj := rates[ranked[i]], rates[ranked[j]]
		if ri != rj {
			return ri > rj
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}

// Predict returns the default id if the best rate among ids is below
// Threshold, else the argmax id (ties broken lexicographically).
func (d *EMA) Predict(ids []common.NeuronID) common.NeuronID {
	if len(ids) == 0 {
		return d.DefaultID
	}
	ranked := rankIDs(ids, d.rates)
	if d.rates[ranked[0]] < d.Threshold {
		return d.DefaultID
	}
	return ranked[0]
}

// Margin returns rate(best) - rate(second-best), or 0 if fewer than two ids.
func (d *EMA) Margin(ids []common.NeuronID) float64 {
	if len(ids) < 2 {
		return 0
	}
	ranked := rankIDs(ids, d.rates)
	return d.rates[ranked[0]] - d.rates[ranked[1]]
}

// Sticky is a readout that retains its current winner until another id's
// rate strictly exceeds it, preventing thrashing between near-tied outputs
// in a live/visualized readout (spec §4.4). It wraps an EMA detector but is
// never used by the trainer, which always reads plain Predict/Margin.
type Sticky struct {
	ema     *EMA
	current common.NeuronID
	hasPick bool
}

// NewSticky wraps ema in a sticky-winner policy.
func NewSticky(ema *EMA) *Sticky {
	return &Sticky{ema: ema}
}

// Update forwards to the wrapped EMA detector.
func (s *Sticky) Update(id common.NeuronID, fired bool) {
	s.ema.Update(id, fired)
}

// Reset clears the wrapped detector and the retained winner.
func (s *Sticky) Reset() {
	s.ema.Reset()
	s.hasPick = false
	s.current = ""
}

// Predict returns the retained winner unless some other id's rate now
// strictly exceeds it (or there is no winner yet), in which case it adopts
// the new plain-EMA winner.
func (s *Sticky) Predict(ids []common.NeuronID) common.NeuronID {
	candidate := s.ema.Predict(ids)
	if !s.hasPick {
		s.current = candidate
		s.hasPick = true
		return s.current
	}
	if candidate != "" && s.ema.Rate(candidate) > s.ema.Rate(s.current) {
		s.current = candidate
	}
	return s.current
}
