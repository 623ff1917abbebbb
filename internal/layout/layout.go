// Package layout places layers and neurons in scene space.
//
// Layers are centered on the X axis and neurons within a layer are centered
// on the Y axis. Every function here is pure: the same indices and counts
// always produce the same position.
package layout

import "github.com/san-kum/neuroviz/internal/netmodel"

const (
	DefaultLayerSpacing  = 4.0
	DefaultNeuronSpacing = 0.8
)

// Spacing holds the distances between adjacent layers and adjacent neurons.
type Spacing struct {
	Layer  float64 `yaml:"layer" toml:"layer" json:"layer"`
	Neuron float64 `yaml:"neuron" toml:"neuron" json:"neuron"`
}

func DefaultSpacing() Spacing {
	return Spacing{Layer: DefaultLayerSpacing, Neuron: DefaultNeuronSpacing}
}

// LayerOffset returns the X position of layer i out of total layers.
func LayerOffset(i, total int, spacing float64) float64 {
	return (float64(i) - float64(total-1)/2) * spacing
}

// NeuronOffset returns the Y position of neuron i in a layer of count neurons.
func NeuronOffset(i, count int, spacing float64) float64 {
	return float64(i)*spacing - float64(count-1)*spacing/2
}

// Position returns the scene position of a neuron.
func Position(layer, neuron, totalLayers, layerCount int, s Spacing) Vec3 {
	return Vec3{
		X: LayerOffset(layer, totalLayers, s.Layer),
		Y: NeuronOffset(neuron, layerCount, s.Neuron),
	}
}

// Layout holds the position of every neuron of a network, indexed by layer
// then neuron.
type Layout struct {
	Spacing   Spacing
	Positions [][]Vec3
}

// Compute lays out every neuron of net.
func Compute(net *netmodel.Network, s Spacing) *Layout {
	counts := net.Counts()
	l := &Layout{Spacing: s, Positions: make([][]Vec3, len(counts))}
	for i, c := range counts {
		l.Positions[i] = make([]Vec3, c)
		for j := 0; j < c; j++ {
			l.Positions[i][j] = Position(i, j, len(counts), c, s)
		}
	}
	return l
}

// At returns the position of neuron id.
func (l *Layout) At(id netmodel.NeuronID) Vec3 {
	return l.Positions[id.Layer][id.Index]
}

// Bounds returns the minimum and maximum corners of the laid out neurons.
func (l *Layout) Bounds() (min, max Vec3) {
	first := true
	for _, layer := range l.Positions {
		for _, p := range layer {
			if first {
				min, max, first = p, p, false
				continue
			}
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
		}
	}
	return min, max
}
