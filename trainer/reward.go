package trainer

import (
	"math"

	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/config"
)

// targetMargin computes r_target − max_{i != target} r_i. An unknown
// target id (spec §4.6 "Failure semantics") is treated as having rate 0,
// so targetMargin becomes −max(r) as the spec specifies.
func targetMargin(rates map[common.NeuronID]float64, targetID common.NeuronID) float64 {
	targetRate, known := rates[targetID]
	maxOther := math.Inf(-1)
	hasOther := false
	for id, r := range rates {
		if id == targetID {
			continue
		}
		hasOther = true
		if r > maxOther {
			maxOther = r
		}
	}
	if !hasOther {
		maxOther = 0
	}
	if !known {
		return -maxOther
	}
	return targetRate - maxOther
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// rewardRaw implements the three shaping modes of spec §4.6 "Reward shaping".
func rewardRaw(cfg config.TrainingConfig, metrics EpisodeMetrics, targetID common.NeuronID) float64 {
	tm := targetMargin(metrics.Rates, targetID)
	switch cfg.RewardMode {
	case config.RewardBinary:
		if metrics.WinnerID == targetID && metrics.Margin >= cfg.MarginDelta {
			return cfg.RewardPos
		}
		return cfg.RewardNeg
	case config.RewardSoftplusMargin:
		r := sigmoid(cfg.RewardGain * (cfg.MarginDelta - tm))
		if cfg.RewardMin != 0 || cfg.RewardMax != 0 {
			r = clamp(r, cfg.RewardMin, cfg.RewardMax)
		}
		return r
	default: // RewardMarginLinear
		return clamp(cfg.RewardGain*tm, cfg.RewardMin, cfg.RewardMax)
	}
}

// satisfied reports the no-update-if-satisfied gate of spec §4.6: the
// episode already hit the target confidently enough that no reward signal
// should be applied.
func satisfied(cfg config.TrainingConfig, metrics EpisodeMetrics, targetID common.NeuronID) bool {
	return metrics.WinnerID == targetID && metrics.Margin >= cfg.MarginDelta
}
