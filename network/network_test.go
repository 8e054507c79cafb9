package network

import (
	"testing"

	"github.com/hd220/spikenet/common"
)

func addTestNeuron(t *testing.T, net *Network, id common.NeuronID, threshold common.Threshold, leak common.Leak) {
	t.Helper()
	if err := net.AddNeuron(NeuronSpec{ID: id, Threshold: threshold, Leak: leak, Resting: 0, Refractory: 0}); err != nil {
		t.Fatalf("AddNeuron(%s): %v", id, err)
	}
}

// TestOneTickDelay pins spec §8 invariant 1: only u fires at tick t; v's
// pending_input at tick t+1 equals the edge weight exactly, and v does not
// fire at tick t.
func TestOneTickDelay(t *testing.T) {
	net := New()
	addTestNeuron(t, net, "U", 1.0, 1.0)
	addTestNeuron(t, net, "V", 100.0, 1.0) // high threshold: V must not fire
	if err := net.AddEdge("U", "V", 7.0, 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	net.InjectSensory("U", 2.0)
	net.Tick() // tick 0: U integrates and fires
	if !net.Neuron("U").DidFireThisTick {
		t.Fatalf("U should have fired at tick 0")
	}
	if net.Neuron("V").DidFireThisTick {
		t.Errorf("V must not fire at tick 0")
	}
	if net.Neuron("V").PendingInput != 0 {
		t.Errorf("V.PendingInput at tick 0 should still be 0, got %v", net.Neuron("V").PendingInput)
	}

	// Tick 1: delivery phase should have put exactly 7.0 into V's pending
	// input before V.Tick() consumes it. We can't observe PendingInput
	// mid-tick, but we can assert the integration actually happened by
	// checking V's potential right after Tick (V has leak=1, resting=0).
	net.Tick()
	if net.Neuron("V").Potential != 7.0 {
		t.Errorf("V.Potential after tick 1 = %v, want 7.0 (delivered weight)", net.Neuron("V").Potential)
	}
}

func TestDuplicateNeuronFails(t *testing.T) {
	net := New()
	addTestNeuron(t, net, "A", 1, 1)
	if err := net.AddNeuron(NeuronSpec{ID: "A", Threshold: 1, Leak: 1}); err == nil {
		t.Fatalf("expected error re-adding neuron A")
	}
}

func TestAddEdgeUnknownNeuronFails(t *testing.T) {
	net := New()
	addTestNeuron(t, net, "A", 1, 1)
	if err := net.AddEdge("A", "B", 1.0, 1); err == nil {
		t.Fatalf("expected error for unknown target")
	}
	if err := net.AddEdge("Z", "A", 1.0, 1); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestInjectSensoryUnknownIsNonFatal(t *testing.T) {
	net := New()
	addTestNeuron(t, net, "A", 1, 1)
	if err := net.InjectSensory("ZZZ", 1.0); err == nil {
		t.Fatalf("expected non-nil (but non-fatal) error for unknown id")
	}
}

func TestCanonicalOrderIsInsertionOrder(t *testing.T) {
	net := New()
	addTestNeuron(t, net, "C", 1, 1)
	addTestNeuron(t, net, "A", 1, 1)
	addTestNeuron(t, net, "B", 1, 1)
	order := net.Order()
	want := []common.NeuronID{"C", "A", "B"}
	if len(order) != len(want) {
		t.Fatalf("order length = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestWeightsCOORoundTrip(t *testing.T) {
	net := New()
	addTestNeuron(t, net, "A", 1, 1)
	addTestNeuron(t, net, "B", 1, 1)
	if err := net.AddEdge("A", "B", 3.5, 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	w := net.GetWeights()

	net2 := New()
	addTestNeuron(t, net2, "A", 1, 1)
	addTestNeuron(t, net2, "B", 1, 1)
	net2.SetWeights(w)
	if net2.Neuron("A").Edges["B"].Weight != 3.5 {
		t.Errorf("round-tripped weight = %v, want 3.5", net2.Neuron("A").Edges["B"].Weight)
	}
}

func TestSnapshotRestoreIsNoOp(t *testing.T) {
	net := New()
	addTestNeuron(t, net, "A", 1.0, 0.9)
	addTestNeuron(t, net, "B", 2.0, 0.8)
	if err := net.AddEdge("A", "B", 5.0, 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	snap := net.Snapshot()

	net.Neuron("A").Threshold = 99
	net.Neuron("B").Leak = 0.01
	_ = net.SetWeight("A", "B", -5.0)
	_ = net.AddEdge("B", "A", 1.0, 1)

	net.Restore(snap)

	if net.Neuron("A").Threshold != 1.0 {
		t.Errorf("Threshold after restore = %v, want 1.0", net.Neuron("A").Threshold)
	}
	if net.Neuron("B").Leak != 0.8 {
		t.Errorf("Leak after restore = %v, want 0.8", net.Neuron("B").Leak)
	}
	if net.Neuron("A").Edges["B"].Weight != 5.0 {
		t.Errorf("Weight after restore = %v, want 5.0", net.Neuron("A").Edges["B"].Weight)
	}
	if _, exists := net.Neuron("B").Edges["A"]; exists {
		t.Errorf("edge created after snapshot should be removed by restore")
	}
}

func TestDeterministicTwoRuns(t *testing.T) {
	build := func() *Network {
		net := New()
		addTestNeuron(t, net, "S0", 1.0, 1.0)
		addTestNeuron(t, net, "O0", 2.0, 0.5)
		_ = net.AddEdge("S0", "O0", 3.0, 1)
		return net
	}
	n1, n2 := build(), build()
	for i := 0; i < 20; i++ {
		n1.InjectSensory("S0", 1.0)
		n2.InjectSensory("S0", 1.0)
		n1.Tick()
		n2.Tick()
		if n1.Neuron("O0").Potential != n2.Neuron("O0").Potential {
			t.Fatalf("tick %d: potentials diverged: %v vs %v", i, n1.Neuron("O0").Potential, n2.Neuron("O0").Potential)
		}
	}
}
