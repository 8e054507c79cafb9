package network

import (
	"strings"
	"testing"
)

const sampleNet = `# sample
NEURON S0 1 1 0 0
NEURON O0 2.5 0.9 0 1
DEFAULT O0
CONNECTION S0 O0 3.25 1
`

func TestReadNetParsesDirectives(t *testing.T) {
	net, err := ReadNet(strings.NewReader(sampleNet), nil)
	if err != nil {
		t.Fatalf("ReadNet: %v", err)
	}
	if len(net.Order()) != 2 {
		t.Fatalf("expected 2 neurons, got %d", len(net.Order()))
	}
	if net.DefaultOutputID != "O0" {
		t.Errorf("DefaultOutputID = %q, want O0", net.DefaultOutputID)
	}
	o0 := net.Neuron("O0")
	if o0 == nil {
		t.Fatalf("O0 not found")
	}
	if o0.Threshold != 2.5 || o0.Leak != 0.9 || o0.Refractory != 1 {
		t.Errorf("O0 params = %+v, want threshold=2.5 leak=0.9 refractory=1", o0)
	}
	s0 := net.Neuron("S0")
	if s0.Edges["O0"].Weight != 3.25 {
		t.Errorf("S0->O0 weight = %v, want 3.25", s0.Edges["O0"].Weight)
	}
}

func TestNetRoundTrip(t *testing.T) {
	net, err := ReadNet(strings.NewReader(sampleNet), nil)
	if err != nil {
		t.Fatalf("ReadNet: %v", err)
	}
	var buf strings.Builder
	if err := WriteNet(net, &buf); err != nil {
		t.Fatalf("WriteNet: %v", err)
	}
	reloaded, err := ReadNet(strings.NewReader(buf.String()), nil)
	if err != nil {
		t.Fatalf("ReadNet(reloaded): %v", err)
	}
	if len(reloaded.Order()) != len(net.Order()) {
		t.Fatalf("neuron count mismatch after round trip")
	}
	for _, id := range net.Order() {
		orig, got := net.Neuron(id), reloaded.Neuron(id)
		if got == nil {
			t.Fatalf("neuron %s missing after round trip", id)
		}
		if orig.Threshold != got.Threshold || orig.Leak != got.Leak || orig.Resting != got.Resting || orig.Refractory != got.Refractory {
			t.Errorf("neuron %s params mismatch: %+v vs %+v", id, orig, got)
		}
	}
	if reloaded.DefaultOutputID != net.DefaultOutputID {
		t.Errorf("DefaultOutputID mismatch after round trip")
	}
	origW, gotW := net.GetWeights(), reloaded.GetWeights()
	if len(origW.From) != len(gotW.From) {
		t.Fatalf("edge count mismatch: %d vs %d", len(origW.From), len(gotW.From))
	}
}

func TestReadNetSkipsMalformedLines(t *testing.T) {
	src := `NEURON S0 1 1 0
BOGUS this is not a directive
NEURON O0 1 1 0
CONNECTION S0 O0 notanumber
CONNECTION S0 O0 2.0
`
	net, err := ReadNet(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("ReadNet should not fail fatally on bad lines: %v", err)
	}
	if len(net.Order()) != 2 {
		t.Fatalf("expected 2 valid neurons despite malformed lines, got %d", len(net.Order()))
	}
	if net.Neuron("S0").Edges["O0"].Weight != 2.0 {
		t.Errorf("expected the valid CONNECTION line to still apply")
	}
}

func TestLoadNetFileMissingIsFatal(t *testing.T) {
	if _, err := LoadNetFile("/nonexistent/path/does-not-exist.net", nil); err == nil {
		t.Fatalf("expected error loading missing file")
	}
}
