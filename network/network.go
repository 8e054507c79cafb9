// Package network provides the core simulation engine: an owning collection
// of neurons, deterministic insertion-order iteration, sensory injection,
// and the two-phase tick algorithm that enforces the one-tick synaptic
// delay (spec §4.2).
package network

import (
	"fmt"
	"sort"

	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/neuron"
	"github.com/hd220/spikenet/pulse"
)

// NeuronSpec describes a neuron to be added via AddNeuron.
type NeuronSpec struct {
	ID         common.NeuronID
	Threshold  common.Threshold
	Leak       common.Leak
	Resting    common.Potential
	Refractory int
}

// Network owns a collection of neurons with unique ids. Insertion order is
// the canonical iteration order used by Tick, GetState, and GetWeights.
type Network struct {
	neurons map[common.NeuronID]*neuron.Neuron
	order   []common.NeuronID

	sensory    map[common.NeuronID]*neuron.Neuron
	nonSensory map[common.NeuronID]*neuron.Neuron

	// DefaultOutputID is the detector's fallback output id, set by the
	// .net "DEFAULT" directive or explicitly.
	DefaultOutputID common.NeuronID

	delayQueue  *pulse.Queue
	currentTick common.Tick
}

// New returns an empty network.
func New() *Network {
	return &Network{
		neurons:    make(map[common.NeuronID]*neuron.Neuron),
		order:      nil,
		sensory:    make(map[common.NeuronID]*neuron.Neuron),
		nonSensory: make(map[common.NeuronID]*neuron.Neuron),
		delayQueue: pulse.NewQueue(),
	}
}

// AddNeuron inserts a new neuron built from spec. It fails with
// common.ErrDuplicateNeuron (fatal per spec §4.2/§7) if the id already
// exists.
func (net *Network) AddNeuron(spec NeuronSpec) error {
	if _, exists := net.neurons[spec.ID]; exists {
		return fmt.Errorf("add neuron %s: %w", spec.ID, common.ErrDuplicateNeuron)
	}
	typ := neuron.TypeFromID(spec.ID)
	// neuron.New clamps out-of-range leak/refractory and returns a usable
	// neuron alongside a wrapped ErrInvalidParameter; the neuron is added
	// either way and the error is propagated for the caller to log.
	n, err := neuron.New(spec.ID, typ, spec.Threshold, spec.Leak, spec.Resting, spec.Refractory)
	net.neurons[spec.ID] = n
	net.order = append(net.order, spec.ID)
	switch typ {
	case neuron.Sensory:
		net.sensory[spec.ID] = n
	default:
		net.nonSensory[spec.ID] = n
	}
	if err != nil {
		return err
	}
	return nil
}

// Neuron returns the neuron with the given id, or nil if unknown.
func (net *Network) Neuron(id common.NeuronID) *neuron.Neuron {
	return net.neurons[id]
}

// Order returns the canonical (insertion) iteration order. The returned
// slice must not be mutated by the caller.
func (net *Network) Order() []common.NeuronID {
	return net.order
}

// CurrentTick returns the number of ticks executed so far.
func (net *Network) CurrentTick() common.Tick {
	return net.currentTick
}

// SensoryIDs returns sensory neuron ids in canonical order.
func (net *Network) SensoryIDs() []common.NeuronID {
	return net.idsOfType(neuron.Sensory)
}

// OutputIDs returns output neuron ids in canonical order.
func (net *Network) OutputIDs() []common.NeuronID {
	return net.idsOfType(neuron.Output)
}

func (net *Network) idsOfType(typ neuron.Type) []common.NeuronID {
	var ids []common.NeuronID
	for _, id := range net.order {
		if net.neurons[id].Type == typ {
			ids = append(ids, id)
		}
	}
	return ids
}

// AddEdge connects from->to with the given weight and delay (defaults to 1
// if < 1). Fails with common.ErrUnknownNeuron if either id is unknown.
// Re-adding an existing (from, to) pair is idempotent: last weight wins.
func (net *Network) AddEdge(from, to common.NeuronID, weight common.Weight, delay int) error {
	src, ok := net.neurons[from]
	if !ok {
		return fmt.Errorf("add edge %s->%s: source: %w", from, to, common.ErrUnknownNeuron)
	}
	if _, ok := net.neurons[to]; !ok {
		return fmt.Errorf("add edge %s->%s: target: %w", from, to, common.ErrUnknownNeuron)
	}
	src.AddEdge(to, weight, delay)
	return nil
}

// RemoveEdge deletes the from->to connection. An unknown from id is a
// non-fatal no-op reported via common.ErrUnknownNeuron; a missing edge is a
// no-op that returns nil.
func (net *Network) RemoveEdge(from, to common.NeuronID) error {
	src, ok := net.neurons[from]
	if !ok {
		return fmt.Errorf("remove edge %s->%s: %w", from, to, common.ErrUnknownNeuron)
	}
	src.RemoveEdge(to)
	return nil
}

// SetWeight updates (or creates, with delay=1) the from->to edge weight.
func (net *Network) SetWeight(from, to common.NeuronID, weight common.Weight) error {
	src, ok := net.neurons[from]
	if !ok {
		return fmt.Errorf("set weight %s->%s: %w", from, to, common.ErrUnknownNeuron)
	}
	if _, ok := net.neurons[to]; !ok {
		return fmt.Errorf("set weight %s->%s: %w", from, to, common.ErrUnknownNeuron)
	}
	delay := 1
	if e, ok := src.Edges[to]; ok {
		delay = e.Delay
	}
	src.AddEdge(to, weight, delay)
	return nil
}

// HasEdge reports whether a from->to connection currently exists.
func (net *Network) HasEdge(from, to common.NeuronID) bool {
	src, ok := net.neurons[from]
	if !ok {
		return false
	}
	_, ok = src.Edges[to]
	return ok
}

// EdgeWeight returns the from->to edge weight, or 0 if no such edge exists.
func (net *Network) EdgeWeight(from, to common.NeuronID) common.Weight {
	src, ok := net.neurons[from]
	if !ok {
		return 0
	}
	return src.Edges[to].Weight
}

// EdgeDelay returns the from->to edge's delay in ticks, or 0 if no such edge
// exists.
func (net *Network) EdgeDelay(from, to common.NeuronID) int {
	src, ok := net.neurons[from]
	if !ok {
		return 0
	}
	return src.Edges[to].Delay
}

// EdgeRef names a directed edge without carrying its weight, for callers
// that enumerate topology before reading/writing weights.
type EdgeRef struct {
	From common.NeuronID
	To   common.NeuronID
}

// Edges returns every edge currently in the network as (from, to) pairs, in
// canonical source order then sorted target order.
func (net *Network) Edges() []EdgeRef {
	var refs []EdgeRef
	for _, from := range net.order {
		for _, to := range sortedTargets(net.neurons[from].Edges) {
			refs = append(refs, EdgeRef{From: from, To: to})
		}
	}
	return refs
}

// SetThreshold updates a neuron's firing threshold.
func (net *Network) SetThreshold(id common.NeuronID, threshold common.Threshold) error {
	n, ok := net.neurons[id]
	if !ok {
		return fmt.Errorf("set threshold %s: %w", id, common.ErrUnknownNeuron)
	}
	n.Threshold = threshold
	return nil
}

// SetLeak updates a neuron's leak factor.
func (net *Network) SetLeak(id common.NeuronID, leak common.Leak) error {
	n, ok := net.neurons[id]
	if !ok {
		return fmt.Errorf("set leak %s: %w", id, common.ErrUnknownNeuron)
	}
	n.Leak = leak
	return nil
}

// ThresholdOf returns id's current firing threshold, or 0 if unknown.
func (net *Network) ThresholdOf(id common.NeuronID) common.Threshold {
	if n, ok := net.neurons[id]; ok {
		return n.Threshold
	}
	return 0
}

// LeakOf returns id's current leak factor, or 0 if unknown.
func (net *Network) LeakOf(id common.NeuronID) common.Leak {
	if n, ok := net.neurons[id]; ok {
		return n.Leak
	}
	return 0
}

// InjectSensory adds amount to the named neuron's pending input. Unknown
// ids are a non-fatal no-op (spec §4.2).
func (net *Network) InjectSensory(id common.NeuronID, amount float64) error {
	n, ok := net.neurons[id]
	if !ok {
		return fmt.Errorf("inject sensory %s: %w", id, common.ErrUnknownNeuron)
	}
	n.Integrate(common.Potential(amount))
	return nil
}

// Tick executes one discrete simulation step. Phase 1 delivers spikes that
// were fired in the previous tick (plus any multi-tick-delay deliveries due
// now) into pending_input; phase 2 advances every neuron. This ordering is
// what gives the one-tick synaptic delay (spec §4.2, §5, §8 invariant 1).
func (net *Network) Tick() {
	for _, id := range net.order {
		src := net.neurons[id]
		if !src.DidFireThisTick {
			continue
		}
		for target, edge := range src.Edges {
			tgt, ok := net.neurons[target]
			if !ok {
				continue
			}
			if edge.Delay <= 1 {
				tgt.Integrate(common.Potential(edge.Weight))
			} else {
				net.delayQueue.Schedule(net.currentTick, target, common.Potential(edge.Weight), edge.Delay-1)
			}
		}
	}
	for _, d := range net.delayQueue.Drain(net.currentTick) {
		if tgt, ok := net.neurons[d.Target]; ok {
			tgt.Integrate(d.Value)
		}
	}

	for _, id := range net.order {
		net.neurons[id].Tick()
	}
	net.currentTick++
}

// State is the parallel-array snapshot returned by GetState.
type State struct {
	IDs        []common.NeuronID
	Potentials []common.Potential
	Thresholds []common.Threshold
	Leaks      []common.Leak
}

// GetState returns the transient per-neuron state in canonical order.
func (net *Network) GetState() State {
	s := State{
		IDs:        make([]common.NeuronID, len(net.order)),
		Potentials: make([]common.Potential, len(net.order)),
		Thresholds: make([]common.Threshold, len(net.order)),
		Leaks:      make([]common.Leak, len(net.order)),
	}
	for i, id := range net.order {
		n := net.neurons[id]
		s.IDs[i] = id
		s.Potentials[i] = n.Potential
		s.Thresholds[i] = n.Threshold
		s.Leaks[i] = n.Leak
	}
	return s
}

// SetState restores potential/threshold/leak for each id present in s.
// Unknown ids are skipped (non-fatal).
func (net *Network) SetState(s State) {
	for i, id := range s.IDs {
		n, ok := net.neurons[id]
		if !ok {
			continue
		}
		n.Potential = s.Potentials[i]
		n.Threshold = s.Thresholds[i]
		n.Leak = s.Leaks[i]
	}
}

// Weights is the COO (coordinate list) triple returned by GetWeights.
type Weights struct {
	From    []common.NeuronID
	To      []common.NeuronID
	Weights []common.Weight
}

// GetWeights returns every edge as a COO triple, ordered by canonical
// source order then sorted target id order.
func (net *Network) GetWeights() Weights {
	var w Weights
	for _, from := range net.order {
		targets := sortedTargets(net.neurons[from].Edges)
		for _, to := range targets {
			w.From = append(w.From, from)
			w.To = append(w.To, to)
			w.Weights = append(w.Weights, net.neurons[from].Edges[to].Weight)
		}
	}
	return w
}

// SetWeights applies a COO triple, creating missing edges with delay=1.
// Unknown ids are skipped (non-fatal, spec §7).
func (net *Network) SetWeights(w Weights) {
	for i := range w.From {
		_ = net.SetWeight(w.From[i], w.To[i], w.Weights[i])
	}
}

func sortedTargets(edges map[common.NeuronID]neuron.Edge) []common.NeuronID {
	ids := make([]common.NeuronID, 0, len(edges))
	for id := range edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
