package network

import "github.com/hd220/spikenet/common"

// Snapshot is a deep copy of (threshold, leak, edges) for every neuron —
// the plastic parameters a trainer can checkpoint and revert. Transient
// state (potential, pending input, refractory countdowns) is intentionally
// not captured (spec §3).
type Snapshot struct {
	thresholds map[common.NeuronID]common.Threshold
	leaks      map[common.NeuronID]common.Leak
	edges      map[common.NeuronID]map[common.NeuronID]edgeSnapshot
}

type edgeSnapshot struct {
	weight common.Weight
	delay  int
}

// Snapshot captures the current (threshold, leak, edges) of every neuron.
func (net *Network) Snapshot() Snapshot {
	s := Snapshot{
		thresholds: make(map[common.NeuronID]common.Threshold, len(net.order)),
		leaks:      make(map[common.NeuronID]common.Leak, len(net.order)),
		edges:      make(map[common.NeuronID]map[common.NeuronID]edgeSnapshot, len(net.order)),
	}
	for _, id := range net.order {
		n := net.neurons[id]
		s.thresholds[id] = n.Threshold
		s.leaks[id] = n.Leak
		edgeCopy := make(map[common.NeuronID]edgeSnapshot, len(n.Edges))
		for to, e := range n.Edges {
			edgeCopy[to] = edgeSnapshot{weight: e.Weight, delay: e.Delay}
		}
		s.edges[id] = edgeCopy
	}
	return s
}

// Restore applies a previously captured snapshot: thresholds and leaks are
// overwritten, edges not present in the snapshot are removed, and edges
// present in the snapshot are created or updated. Restore(Snapshot()) is a
// no-op on (threshold, leak, weights, edges) per spec §8 invariant 10.
func (net *Network) Restore(s Snapshot) {
	for _, id := range net.order {
		n, ok := net.neurons[id]
		if !ok {
			continue
		}
		if thr, ok := s.thresholds[id]; ok {
			n.Threshold = thr
		}
		if leak, ok := s.leaks[id]; ok {
			n.Leak = leak
		}
		snapEdges := s.edges[id]
		for to := range n.Edges {
			if _, keep := snapEdges[to]; !keep {
				delete(n.Edges, to)
			}
		}
		for to, e := range snapEdges {
			n.AddEdge(to, e.weight, e.delay)
		}
	}
}
