package homeostasis

import (
	"testing"

	"github.com/hd220/spikenet/common"
)

type fakeNet struct {
	threshold map[common.NeuronID]common.Threshold
	leak      map[common.NeuronID]common.Leak
}

func newFakeNet() *fakeNet {
	return &fakeNet{
		threshold: make(map[common.NeuronID]common.Threshold),
		leak:      make(map[common.NeuronID]common.Leak),
	}
}

func (f *fakeNet) SetThreshold(id common.NeuronID, t common.Threshold) error {
	f.threshold[id] = t
	return nil
}
func (f *fakeNet) SetLeak(id common.NeuronID, l common.Leak) error {
	f.leak[id] = l
	return nil
}
func (f *fakeNet) ThresholdOf(id common.NeuronID) common.Threshold { return f.threshold[id] }
func (f *fakeNet) LeakOf(id common.NeuronID) common.Leak           { return f.leak[id] }

func TestApplyRaisesThresholdWhenOverTarget(t *testing.T) {
	net := newFakeNet()
	net.threshold["O0"] = 1.0
	net.leak["O0"] = 0.9
	cfg := Config{TargetRate: 0.2, ThresholdGain: 1.0, LeakGain: 1.0}
	Apply(net, "O0", 0.8, cfg) // rate above target: threshold should rise, leak should fall
	if net.threshold["O0"] <= 1.0 {
		t.Errorf("threshold = %v, want > 1.0", net.threshold["O0"])
	}
	if net.leak["O0"] >= 0.9 {
		t.Errorf("leak = %v, want < 0.9", net.leak["O0"])
	}
}

func TestApplyClampsLeak(t *testing.T) {
	net := newFakeNet()
	net.leak["O0"] = 0.99
	cfg := Config{TargetRate: 1.0, ThresholdGain: 0, LeakGain: 10}
	Apply(net, "O0", 0.0, cfg) // huge leak increase should clamp to 1
	if net.leak["O0"] != 1.0 {
		t.Errorf("leak = %v, want clamped to 1.0", net.leak["O0"])
	}
}

func TestInactivityTrackerFiresAfterPatience(t *testing.T) {
	it := NewInactivityTracker(0.1, 3)
	for i := 0; i < 2; i++ {
		if it.Observe("O0", 0.0) {
			t.Fatalf("fired too early at i=%d", i)
		}
	}
	if !it.Observe("O0", 0.0) {
		t.Fatalf("expected fire on 3rd consecutive below-threshold observation")
	}
	// counter should have reset
	if it.Observe("O0", 0.0) {
		t.Fatalf("should not fire immediately after reset")
	}
}

func TestInactivityTrackerResetsOnActivity(t *testing.T) {
	it := NewInactivityTracker(0.1, 2)
	it.Observe("O0", 0.0)
	it.Observe("O0", 0.5) // above threshold: resets streak
	if it.Observe("O0", 0.0) {
		t.Fatalf("should not fire: streak should have been reset by the active observation")
	}
}
