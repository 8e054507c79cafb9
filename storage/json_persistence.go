// Package storage persists training history, checkpoint events, and
// network snapshots outside of the in-process run: a SQLite-backed history
// log (per epoch), a JSON-backed network snapshot format (a structured
// sibling of the textual .net grammar), and a CSV exporter for the logutil
// CLI mode.
package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hd220/spikenet/common"
	"github.com/hd220/spikenet/network"
)

// neuronDoc is the JSON-friendly mirror of a NEURON line.
type neuronDoc struct {
	ID         common.NeuronID  `json:"id"`
	Threshold  common.Threshold `json:"threshold"`
	Leak       common.Leak      `json:"leak"`
	Resting    common.Potential `json:"resting"`
	Refractory int              `json:"refractory"`
}

// connectionDoc is the JSON-friendly mirror of a CONNECTION line.
type connectionDoc struct {
	From   common.NeuronID `json:"from"`
	To     common.NeuronID `json:"to"`
	Weight common.Weight   `json:"weight"`
	Delay  int             `json:"delay"`
}

// networkDoc is the full JSON document for a network: every field the
// textual .net grammar carries, structured instead of line-oriented.
type networkDoc struct {
	Neurons         []neuronDoc     `json:"neurons"`
	Connections     []connectionDoc `json:"connections"`
	DefaultOutputID common.NeuronID `json:"default_output_id,omitempty"`
}

// SaveNetworkJSON serializes net's full topology and parameters to filePath
// as indented JSON (spec §6's "alternate persistence format"). Round
// tripping through SaveNetworkJSON/LoadNetworkJSON preserves every
// neuron's parameters and every edge's weight and delay, the same
// guarantee WriteNet/ReadNet give the textual .net grammar.
func SaveNetworkJSON(net *network.Network, filePath string) error {
	doc := networkDoc{DefaultOutputID: net.DefaultOutputID}
	for _, id := range net.Order() {
		n := net.Neuron(id)
		doc.Neurons = append(doc.Neurons, neuronDoc{
			ID:         id,
			Threshold:  n.Threshold,
			Leak:       n.Leak,
			Resting:    n.Resting,
			Refractory: n.Refractory,
		})
	}
	for _, e := range net.Edges() {
		doc.Connections = append(doc.Connections, connectionDoc{
			From:   e.From,
			To:     e.To,
			Weight: net.EdgeWeight(e.From, e.To),
			Delay:  net.EdgeDelay(e.From, e.To),
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize network to JSON: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("write JSON network file %s: %w", filePath, err)
	}
	return nil
}

// LoadNetworkJSON deserializes a network previously written by
// SaveNetworkJSON. A missing file wraps common.ErrMissingFile.
func LoadNetworkJSON(filePath string) (*network.Network, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("JSON network file %s not found: %w", filePath, common.ErrMissingFile)
		}
		return nil, fmt.Errorf("read JSON network file %s: %w", filePath, err)
	}

	var doc networkDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal JSON network file %s: %w", filePath, err)
	}

	net := network.New()
	for _, n := range doc.Neurons {
		if err := net.AddNeuron(network.NeuronSpec{
			ID:         n.ID,
			Threshold:  n.Threshold,
			Leak:       n.Leak,
			Resting:    n.Resting,
			Refractory: n.Refractory,
		}); err != nil {
			return nil, fmt.Errorf("add neuron %s from %s: %w", n.ID, filePath, err)
		}
	}
	for _, c := range doc.Connections {
		if err := net.AddEdge(c.From, c.To, c.Weight, c.Delay); err != nil {
			return nil, fmt.Errorf("add connection %s->%s from %s: %w", c.From, c.To, filePath, err)
		}
	}
	net.DefaultOutputID = doc.DefaultOutputID
	return net, nil
}
