// Package connect derives the edges drawn between adjacent layers.
//
// A full bipartite connection between two layers grows with the product of
// their sizes. Instead each source neuron is linked to the target neuron at
// the same relative height and its two neighbours, so edge count stays linear
// in neuron count. Targets that fall outside the next layer are dropped.
package connect

import "github.com/san-kum/neuroviz/internal/netmodel"

// MaxFanOut is the largest number of outgoing edges a neuron can have.
const MaxFanOut = 3

// Connection is a directed edge from a neuron in one layer to a neuron in the
// next layer. Index is stable within its layer pair.
type Connection struct {
	Index        int    `json:"index"`
	SourceLayer  int    `json:"source_layer"`
	SourceNeuron int    `json:"source_neuron"`
	TargetLayer  int    `json:"target_layer"`
	TargetNeuron int    `json:"target_neuron"`
	Color        string `json:"color"`
}

// Source returns the neuron the edge starts at.
func (c Connection) Source() netmodel.NeuronID {
	return netmodel.NeuronID{Layer: c.SourceLayer, Index: c.SourceNeuron}
}

// Target returns the neuron the edge ends at.
func (c Connection) Target() netmodel.NeuronID {
	return netmodel.NeuronID{Layer: c.TargetLayer, Index: c.TargetNeuron}
}

// Nearest returns the target index at the same relative height as source
// neuron i, that is floor(i / countI * countJ).
func Nearest(i, countI, countJ int) int {
	return i * countJ / countI
}

// Between returns the edges from layer srcLayer (countI neurons) to the next
// layer (countJ neurons). Non-positive counts yield no edges.
func Between(srcLayer, countI, countJ int, color string) []Connection {
	if countI <= 0 || countJ <= 0 {
		return nil
	}
	out := make([]Connection, 0, MaxFanOut*countI)
	for i := 0; i < countI; i++ {
		nearest := Nearest(i, countI, countJ)
		for d := -1; d <= 1; d++ {
			j := nearest + d
			if j < 0 || j >= countJ {
				continue
			}
			out = append(out, Connection{
				Index:        len(out),
				SourceLayer:  srcLayer,
				SourceNeuron: i,
				TargetLayer:  srcLayer + 1,
				TargetNeuron: j,
				Color:        color,
			})
		}
	}
	return out
}

// Generate returns the edges of every adjacent layer pair of net. Element i
// holds the edges from layer i to layer i+1.
func Generate(net *netmodel.Network) [][]Connection {
	if net.Len() < 2 {
		return nil
	}
	pairs := make([][]Connection, net.Len()-1)
	for i := range pairs {
		src, dst := net.Layer(i), net.Layer(i+1)
		pairs[i] = Between(i, src.NeuronCount, dst.NeuronCount, src.Color)
	}
	return pairs
}

// Count returns the total number of edges across all pairs.
func Count(pairs [][]Connection) int {
	n := 0
	for _, p := range pairs {
		n += len(p)
	}
	return n
}
