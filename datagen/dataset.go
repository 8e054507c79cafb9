package datagen

import (
	"math/rand"

	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/inputseq"
	"github.com/hd220/spikenet/trainer"
)

// OneHotDataset generates a balanced multi-class dataset: for each class
// index c in [0, len(targets)), episodesPerClass episodes injecting Sc=1
// for ticks ticks, targeting targets[c]. noiseStd, if > 0, perturbs the
// injected value with Gaussian noise sampled from rng (spec §8 S3 is the
// noiseStd=0 case).
func OneHotDataset(targets []common.NeuronID, ticks, episodesPerClass int, noiseStd float64, rng *rand.Rand) []trainer.Episode {
	var out []trainer.Episode
	for c, target := range targets {
		sID := common.NeuronID("S" + string(rune('0'+c)))
		for i := 0; i < episodesPerClass; i++ {
			seq := inputseq.New()
			for t := 0; t < ticks; t++ {
				v := 1.0
				if noiseStd > 0 {
					v += rng.NormFloat64() * noiseStd
				}
				seq.Add(common.Tick(t), sID, v)
			}
			out = append(out, trainer.Episode{Sequence: seq, Target: target})
		}
	}
	return out
}

// XORDataset generates the two XOR scenario episodes (S1: S0=1,S1=1 ->
// O0; S2: S0=1,S1=0 -> O1), replicated episodesPerCase times.
func XORDataset(ticks, episodesPerCase int) []trainer.Episode {
	var out []trainer.Episode
	for i := 0; i < episodesPerCase; i++ {
		out = append(out,
			trainer.Episode{Sequence: XORTrial(1, 1, ticks), Target: "O0"},
			trainer.Episode{Sequence: XORTrial(1, 0, ticks), Target: "O1"},
		)
	}
	return out
}

// Shuffle returns a copy of episodes in a random order drawn from rng.
func Shuffle(episodes []trainer.Episode, rng *rand.Rand) []trainer.Episode {
	out := make([]trainer.Episode, len(episodes))
	copy(out, episodes)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
