// Package common defines shared value types used throughout the spikenet
// runtime: neuron identifiers, simulation time, and the small set of
// semantically distinct float64 newtypes that flow between the network,
// trainer, and persistence layers.
package common

// NeuronID is the stable identifier of a neuron. Convention (informational
// only, does not change behavior): "S" prefix for sensory neurons, "N" for
// interneurons, "O" for output neurons.
type NeuronID string

// Tick counts discrete simulation steps. All neurons advance exactly once
// per tick.
type Tick int

// Potential is a neuron's accumulated membrane potential.
type Potential float64

// Threshold is the potential a neuron must reach to fire.
type Threshold float64

// Leak is the multiplicative per-tick decay factor, in [0, 1].
type Leak float64

// Weight is the strength of a synaptic connection; sign encodes
// excitatory/inhibitory.
type Weight float64

// Rate is an EMA firing rate or a learning/decay rate, typically in [0, 1].
type Rate float64
