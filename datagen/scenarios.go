// Package datagen builds crafted networks and input sequences for testing
// and demonstration: small hand-wired topologies with known expected
// outcomes, plus synthetic multi-class datasets for train_epoch.
package datagen

import (
	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/inputseq"
	"github.com/hd220/spikenet/network"
)

// BuildXORNetwork returns the crafted 5-neuron XOR network: S0, S1, A, O1,
// O0, wired so that O1 fires when exactly one of S0/S1 is driven and O0
// fires when both are (with neither driven nothing fires). TH[A]=90, TH[O1]=50, TH[O0]=60; W[S0→O1]=+60, W[S1→O1]=+60,
// W[S0→A]=+60, W[S1→A]=+60, W[A→O1]=−120, W[A→O0]=+120; leak[A]=0, all
// other neurons leak=1.
func BuildXORNetwork() (*network.Network, error) {
	net := network.New()
	specs := []network.NeuronSpec{
		{ID: "S0", Threshold: 1, Leak: 1, Resting: 0},
		{ID: "S1", Threshold: 1, Leak: 1, Resting: 0},
		{ID: "A", Threshold: 90, Leak: 0, Resting: 0},
		{ID: "O1", Threshold: 50, Leak: 1, Resting: 0},
		{ID: "O0", Threshold: 60, Leak: 1, Resting: 0},
	}
	for _, s := range specs {
		if err := net.AddNeuron(s); err != nil {
			return nil, err
		}
	}
	edges := []struct {
		from, to common.NeuronID
		w        common.Weight
	}{
		{"S0", "O1", 60}, {"S1", "O1", 60},
		{"S0", "A", 60}, {"S1", "A", 60},
		{"A", "O1", -120}, {"A", "O0", 120},
	}
	for _, e := range edges {
		if err := net.AddEdge(e.from, e.to, e.w, 1); err != nil {
			return nil, err
		}
	}
	net.DefaultOutputID = "O0"
	return net, nil
}

// BuildOneHotNetwork returns the crafted 7-neuron 3-class one-hot network:
// S0, S1, S2, I, O0, O1, O2. Feedforward W[Sc→Oc]=+60 per class, a shared
// inhibitory pool W[O*→I]=+35 / W[I→O*]=−45, TH[I]=40, TH[O*]=50,
// leak[I]=0.8, all other neurons leak=1.
func BuildOneHotNetwork() (*network.Network, error) {
	net := network.New()
	classes := []common.NeuronID{"0", "1", "2"}
	specs := []network.NeuronSpec{
		{ID: "S0", Threshold: 1, Leak: 1, Resting: 0},
		{ID: "S1", Threshold: 1, Leak: 1, Resting: 0},
		{ID: "S2", Threshold: 1, Leak: 1, Resting: 0},
		{ID: "I", Threshold: 40, Leak: 0.8, Resting: 0},
		{ID: "O0", Threshold: 50, Leak: 1, Resting: 0},
		{ID: "O1", Threshold: 50, Leak: 1, Resting: 0},
		{ID: "O2", Threshold: 50, Leak: 1, Resting: 0},
	}
	for _, s := range specs {
		if err := net.AddNeuron(s); err != nil {
			return nil, err
		}
	}
	for _, c := range classes {
		sID := common.NeuronID("S" + string(c))
		oID := common.NeuronID("O" + string(c))
		if err := net.AddEdge(sID, oID, 60, 1); err != nil {
			return nil, err
		}
		if err := net.AddEdge(oID, "I", 35, 1); err != nil {
			return nil, err
		}
		if err := net.AddEdge("I", oID, -45, 1); err != nil {
			return nil, err
		}
	}
	net.DefaultOutputID = "O0"
	return net, nil
}

// ConstantInjection returns a sequence injecting value at id on every tick
// in [0, ticks).
func ConstantInjection(id common.NeuronID, value float64, ticks int) *inputseq.Sequence {
	seq := inputseq.New()
	for t := 0; t < ticks; t++ {
		seq.Add(common.Tick(t), id, value)
	}
	return seq
}

// XORTrial returns the input sequence for one XOR scenario trial (S1/S2):
// s0 and s1 are injected as given on every tick when nonzero, for ticks
// ticks.
func XORTrial(s0, s1 float64, ticks int) *inputseq.Sequence {
	seq := inputseq.New()
	for t := 0; t < ticks; t++ {
		if s0 != 0 {
			seq.Add(common.Tick(t), "S0", s0)
		}
		if s1 != 0 {
			seq.Add(common.Tick(t), "S1", s1)
		}
	}
	return seq
}

// OneHotTrial returns the input sequence for one one-hot scenario trial
// (S3): class selects which of S0/S1/S2 receives a constant-1 injection
// for ticks ticks.
func OneHotTrial(class int, ticks int) *inputseq.Sequence {
	id := common.NeuronID("S" + string(rune('0'+class)))
	return ConstantInjection(id, 1, ticks)
}
