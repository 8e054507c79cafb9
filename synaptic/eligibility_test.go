package synaptic

import (
	"math"
	"math/rand"
	"testing"

	"github.com/hd220/spikenet/common"
)

type fakeNet struct {
	edges map[EdgeID]common.Weight
}

func newFakeNet() *fakeNet {
	return &fakeNet{edges: make(map[EdgeID]common.Weight)}
}

func (f *fakeNet) HasEdge(from, to common.NeuronID) bool {
	_, ok := f.edges[EdgeID{From: from, To: to}]
	return ok
}

func (f *fakeNet) EdgeWeight(from, to common.NeuronID) common.Weight {
	return f.edges[EdgeID{From: from, To: to}]
}

func (f *fakeNet) SetWeight(from, to common.NeuronID, w common.Weight) error {
	f.edges[EdgeID{From: from, To: to}] = w
	return nil
}

func TestUpdateEdgeSpikeBased(t *testing.T) {
	tr := NewTraces(0.9, 0.1, false)
	tr.UpdateEdge("S0", "O0", true, true)
	if tr.Edge("S0", "O0") != 1.0 {
		t.Errorf("eligibility = %v, want 1.0", tr.Edge("S0", "O0"))
	}
	tr.UpdateEdge("S0", "O0", false, false)
	if got, want := tr.Edge("S0", "O0"), 0.9; math.Abs(got-want) > 1e-9 {
		t.Errorf("eligibility after decay = %v, want %v", got, want)
	}
}

func TestUpdateEdgeRateBased(t *testing.T) {
	tr := NewTraces(0.5, 1.0, true)
	tr.UpdateNeuronRate("O0", true) // rate(O0) = 1.0
	tr.UpdateEdge("S0", "O0", true, true)
	if tr.Edge("S0", "O0") != 1.0 {
		t.Errorf("eligibility = %v, want 1.0 (pre=1, post=rate=1)", tr.Edge("S0", "O0"))
	}
}

func TestApplyDeltasSkipsPrunedEdge(t *testing.T) {
	net := newFakeNet()
	net.SetWeight("S0", "O0", 1.0)
	delta := DeltaMap{
		{From: "S0", To: "O0"}: 2.0,
		{From: "S1", To: "O0"}: 5.0, // not present in net: silently dropped
	}
	allEdges := []EdgeID{{From: "S0", To: "O0"}}
	ApplyDeltas(net, delta, allEdges, 2, 0, 0)
	if net.EdgeWeight("S0", "O0") != 2.0 { // 1.0 + 2.0/2
		t.Errorf("weight = %v, want 2.0", net.EdgeWeight("S0", "O0"))
	}
	if net.HasEdge("S1", "O0") {
		t.Errorf("pruned edge should not have been created by ApplyDeltas")
	}
}

func TestApplyDeltasDecayAndClip(t *testing.T) {
	net := newFakeNet()
	net.SetWeight("S0", "O0", 10.0)
	allEdges := []EdgeID{{From: "S0", To: "O0"}}
	ApplyDeltas(net, DeltaMap{{From: "S0", To: "O0"}: 0}, allEdges, 1, 0.1, 5.0)
	if net.EdgeWeight("S0", "O0") != 5.0 {
		t.Errorf("weight = %v, want clipped to 5.0", net.EdgeWeight("S0", "O0"))
	}
}

func TestApplyDeltasDecaysUngatedEdgeFromAllEdges(t *testing.T) {
	net := newFakeNet()
	net.SetWeight("S0", "O0", 10.0)
	net.SetWeight("S1", "O0", 10.0)
	// Only S0->O0 is in sumDelta (e.g. under GateWinnerOnly, S1->O0 never won
	// a batch episode); both edges must still decay/clip unconditionally.
	allEdges := []EdgeID{{From: "S0", To: "O0"}, {From: "S1", To: "O0"}}
	ApplyDeltas(net, DeltaMap{{From: "S0", To: "O0"}: 0}, allEdges, 1, 0.1, 5.0)
	if net.EdgeWeight("S1", "O0") != 5.0 {
		t.Errorf("ungated edge weight = %v, want clipped to 5.0", net.EdgeWeight("S1", "O0"))
	}
}

func TestJitterAddsNoiseToEachEdge(t *testing.T) {
	net := newFakeNet()
	net.SetWeight("S0", "O0", 0.0)
	net.SetWeight("S1", "O0", 0.0)
	edges := []EdgeID{{From: "S0", To: "O0"}, {From: "S1", To: "O0"}}
	rng := rand.New(rand.NewSource(1))
	Jitter(net, edges, 1.0, rng)
	if net.EdgeWeight("S0", "O0") == 0.0 && net.EdgeWeight("S1", "O0") == 0.0 {
		t.Errorf("expected jitter to perturb at least one weight")
	}
}
