package trainer

import (
	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/config"
	"github.com/hd220/spikenet/homeostasis"
	"github.com/hd220/spikenet/network"
)

func intrinsicConfig(cfg config.TrainingConfig) homeostasis.Config {
	return homeostasis.Config{
		TargetRate:    cfg.TargetRate,
		ThresholdGain: cfg.ThresholdGain,
		LeakGain:      cfg.LeakGain,
	}
}

func applyIntrinsic(net *network.Network, id common.NeuronID, rate float64, cfg homeostasis.Config) {
	homeostasis.Apply(net, id, rate, cfg)
}
