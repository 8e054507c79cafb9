// Package neuron defines the leaky threshold unit that is the atomic
// simulation element of the network engine: it integrates pending input,
// decides whether to fire, and holds its own outgoing synaptic edges.
package neuron

import (
	"fmt"
	"math"

	"github.com/hd220/spikenet/common"
)

// Type classifies a neuron for default routing conventions (sensory
// injection, output readout). It is informational only — it never changes
// the integrate/fire arithmetic in Tick.
type Type int

const (
	Interneuron Type = iota
	Sensory
	Output
)

func (t Type) String() string {
	switch t {
	case Sensory:
		return "sensory"
	case Output:
		return "output"
	default:
		return "interneuron"
	}
}

// TypeFromID classifies an id by the conventional prefix (S*/O*, else
// interneuron). Used by loaders that don't receive an explicit type.
func TypeFromID(id common.NeuronID) Type {
	if len(id) == 0 {
		return Interneuron
	}
	switch id[0] {
	case 'S', 's':
		return Sensory
	case 'O', 'o':
		return Output
	default:
		return Interneuron
	}
}

// Edge is an outgoing synaptic connection: a weight and a delay in ticks
// (1 = delivered on the very next tick, the base contract of spec §3/§4.2).
type Edge struct {
	Weight common.Weight
	Delay  int
}

// Neuron is a single leaky-threshold unit. Potential ≥ Resting after every tick;
// firing resets potential to Resting and starts a refractory period.
type Neuron struct {
	ID        common.NeuronID
	Type      Type
	Threshold common.Threshold
	Leak      common.Leak
	Resting   common.Potential
	Refractory int

	Potential            common.Potential
	DidFireThisTick      bool
	RefractoryRemaining  int
	PendingInput         common.Potential

	// Edges maps target neuron id to the outgoing connection. Owned by the
	// neuron per spec §3; Network resolves ids through its own index but
	// delivery iterates this map.
	Edges map[common.NeuronID]Edge
}

// New creates a neuron with the given parameters. Invalid leak/refractory
// values are clamped and reported via common.ErrInvalidParameter so the
// caller can log a warning and continue (spec §7 policy: clamp and warn).
func New(id common.NeuronID, typ Type, threshold common.Threshold, leak common.Leak, resting common.Potential, refractory int) (*Neuron, error) {
	n := &Neuron{
		ID:         id,
		Type:       typ,
		Threshold:  threshold,
		Leak:       leak,
		Resting:    resting,
		Refractory: refractory,
		Potential:  resting,
		Edges:      make(map[common.NeuronID]Edge),
	}
	var err error
	if leak < 0 || leak > 1 {
		clamped := common.Leak(math.Max(0, math.Min(1, float64(leak))))
		n.Leak = clamped
		err = fmt.Errorf("neuron %s: leak %v out of [0,1], clamped to %v: %w", id, leak, clamped, common.ErrInvalidParameter)
	}
	if refractory < 0 {
		n.Refractory = 0
		wrapped := fmt.Errorf("neuron %s: refractory %d < 0, clamped to 0: %w", id, refractory, common.ErrInvalidParameter)
		if err != nil {
			err = fmt.Errorf("%v; %v", err, wrapped)
		} else {
			err = wrapped
		}
	}
	n.RefractoryRemaining = 0
	return n, err
}

// AddEdge creates or updates the outgoing connection to target. Re-adding an
// existing target is idempotent: last weight (and delay) wins.
func (n *Neuron) AddEdge(target common.NeuronID, weight common.Weight, delay int) {
	if delay < 1 {
		delay = 1
	}
	n.Edges[target] = Edge{Weight: weight, Delay: delay}
}

// RemoveEdge deletes the outgoing connection to target, if present. Returns
// false if there was no such edge.
func (n *Neuron) RemoveEdge(target common.NeuronID) bool {
	if _, ok := n.Edges[target]; !ok {
		return false
	}
	delete(n.Edges, target)
	return true
}

// Integrate adds x to the pending-input accumulator for the next tick's
// potential update, unless the neuron is in refractory — in which case the
// input is dropped (spec §4.1).
func (n *Neuron) Integrate(x common.Potential) {
	if n.RefractoryRemaining > 0 {
		return
	}
	n.PendingInput += x
}

// Tick advances the neuron by one discrete step:
//
//  1. If in refractory, decrement the counter, clear pending input, leave
//     potential frozen (reference policy, spec §9 open question), and
//     report no fire.
//  2. Otherwise decay potential by Leak, add pending input, floor at
//     Resting (non-negative-relative-to-resting per spec §4.1 policy).
//  3. Fire if potential ≥ Threshold: snap to Resting, start refractory.
//  4. Clear pending input.
func (n *Neuron) Tick() {
	if n.RefractoryRemaining > 0 {
		n.RefractoryRemaining--
		n.DidFireThisTick = false
		n.PendingInput = 0
		return
	}

	decayed := common.Potential(float64(n.Potential)*float64(n.Leak)) + n.PendingInput
	floor := n.Resting
	if decayed < floor {
		decayed = floor
	}
	n.Potential = decayed

	if n.Potential >= common.Potential(n.Threshold) {
		n.DidFireThisTick = true
		n.Potential = n.Resting
		n.RefractoryRemaining = n.Refractory
	} else {
		n.DidFireThisTick = false
	}
	n.PendingInput = 0
}
