package trainer

import (
	"math/rand"

	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/config"
	"github.com/hd220/spikenet/network"
	"github.com/hd220/spikenet/synaptic"
)

// PruneStrategy decides which existing edges to remove during a batch's
// structural plasticity step (spec §4.6 step 6 "Prune"). Mirrors the
// teacher's pluggable ForceCalculator/MovementUpdater shape
// (network/synaptogenesis_strategy.go): a small interface the trainer
// composes rather than hard-codes.
type PruneStrategy interface {
	Prune(net *network.Network, counters map[synaptic.EdgeID]int, cfg config.TrainingConfig) []synaptic.EdgeID
}

// GrowStrategy decides which new edges to add during a batch's structural
// plasticity step (spec §4.6 step 6 "Grow").
type GrowStrategy interface {
	Grow(net *network.Network, cfg config.TrainingConfig, rng *rand.Rand) []synaptic.EdgeID
}

// DefaultPruneStrategy removes any edge whose |weight| has stayed below
// PruneEpsilon for PrunePatience consecutive batches; the counter resets as
// soon as the edge's magnitude recovers.
type DefaultPruneStrategy struct{}

func (DefaultPruneStrategy) Prune(net *network.Network, counters map[synaptic.EdgeID]int, cfg config.TrainingConfig) []synaptic.EdgeID {
	var removed []synaptic.EdgeID
	for _, e := range net.Edges() {
		id := synaptic.EdgeID{From: e.From, To: e.To}
		w := float64(net.EdgeWeight(e.From, e.To))
		if absFloat(w) < cfg.PruneEpsilon {
			counters[id]++
		} else {
			counters[id] = 0
			continue
		}
		if counters[id] >= cfg.PrunePatience {
			_ = net.RemoveEdge(e.From, e.To)
			delete(counters, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// TopologyPolicy decides whether a candidate from->to pair is a legal
// target for edge growth. The default allows any non-self pair: spec §3
// states the S/N/O id prefix is informational only and does not change
// behavior, so no topology restriction is baked in by default; callers who
// want one (e.g. "never grow edges into sensory ids") can supply their own.
type TopologyPolicy interface {
	Allowed(net *network.Network, from, to common.NeuronID) bool
}

// AllowAllTopology is the default, unrestricted TopologyPolicy.
type AllowAllTopology struct{}

func (AllowAllTopology) Allowed(*network.Network, common.NeuronID, common.NeuronID) bool { return true }

// DefaultGrowStrategy adds up to GrowEdges new edges with |weight| =
// InitWeight and a random sign, drawing candidates uniformly from the id
// set and rejecting self-loops, existing edges, and edges the topology
// policy disallows.
type DefaultGrowStrategy struct {
	Topology TopologyPolicy
}

// NewDefaultGrowStrategy returns a strategy using AllowAllTopology.
func NewDefaultGrowStrategy() *DefaultGrowStrategy {
	return &DefaultGrowStrategy{Topology: AllowAllTopology{}}
}

func (g *DefaultGrowStrategy) Grow(net *network.Network, cfg config.TrainingConfig, rng *rand.Rand) []synaptic.EdgeID {
	if cfg.GrowEdges <= 0 {
		return nil
	}
	ids := net.Order()
	if len(ids) < 2 {
		return nil
	}
	topology := g.Topology
	if topology == nil {
		topology = AllowAllTopology{}
	}

	var added []synaptic.EdgeID
	// Bound attempts so a saturated or tiny network doesn't spin forever
	// looking for a candidate pair that doesn't exist.
	maxAttempts := cfg.GrowEdges * 20
	if maxAttempts < 20 {
		maxAttempts = 20
	}
	for attempts := 0; len(added) < cfg.GrowEdges && attempts < maxAttempts; attempts++ {
		from := ids[rng.Intn(len(ids))]
		to := ids[rng.Intn(len(ids))]
		if from == to || net.HasEdge(from, to) || !topology.Allowed(net, from, to) {
			continue
		}
		sign := 1.0
		if rng.Intn(2) == 0 {
			sign = -1.0
		}
		_ = net.AddEdge(from, to, common.Weight(sign*cfg.InitWeight), 1)
		added = append(added, synaptic.EdgeID{From: from, To: to})
	}
	return added
}

// StructuralPlasticity composes a PruneStrategy and a GrowStrategy into one
// per-batch structural update, mirroring how the teacher's
// SimpleSynaptogenesisStrategy orchestrates its ForceCalc/MovementUpd/
// PruneForm components in ApplyStructuralChanges.
type StructuralPlasticity struct {
	Prune PruneStrategy
	Grow  GrowStrategy
}

// NewDefaultStructuralPlasticity wires the default prune-by-patience and
// grow-random-pair strategies.
func NewDefaultStructuralPlasticity() *StructuralPlasticity {
	return &StructuralPlasticity{
		Prune: DefaultPruneStrategy{},
		Grow:  NewDefaultGrowStrategy(),
	}
}

// Apply runs prune then grow for one batch.
func (s *StructuralPlasticity) Apply(net *network.Network, counters map[synaptic.EdgeID]int, cfg config.TrainingConfig, rng *rand.Rand) (pruned, grown []synaptic.EdgeID) {
	pruned = s.Prune.Prune(net, counters, cfg)
	grown = s.Grow.Grow(net, cfg, rng)
	return pruned, grown
}
