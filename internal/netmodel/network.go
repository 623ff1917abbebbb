package netmodel

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// LayerConfig describes one layer of the network.
type LayerConfig struct {
	Name        string   `yaml:"name" toml:"name" json:"name"`
	NeuronCount int      `yaml:"neurons" toml:"neurons" json:"neurons"`
	Color       string   `yaml:"color" toml:"color" json:"color"`
	Features    []string `yaml:"features,omitempty" toml:"features,omitempty" json:"features,omitempty"`
}

// HasFeatures reports whether the layer carries per-neuron feature labels.
func (l LayerConfig) HasFeatures() bool { return l.Features != nil }

// Feature returns the label of neuron n, if the layer defines one.
func (l LayerConfig) Feature(n int) (string, bool) {
	if l.Features == nil || n < 0 || n >= len(l.Features) {
		return "", false
	}
	return l.Features[n], true
}

func (l LayerConfig) clone() LayerConfig {
	if l.Features != nil {
		f := make([]string, len(l.Features))
		copy(f, l.Features)
		l.Features = f
	}
	return l
}

// NeuronID identifies a neuron by layer and position within the layer.
type NeuronID struct {
	Layer int `json:"layer"`
	Index int `json:"neuron"`
}

func (id NeuronID) String() string { return fmt.Sprintf("%d:%d", id.Layer, id.Index) }

// Network is a validated, immutable ordered sequence of layers.
type Network struct {
	layers []LayerConfig
	colors []colorful.Color
	total  int
}

// New validates layers and returns a Network holding a private copy of them.
func New(layers []LayerConfig) (*Network, error) {
	if len(layers) == 0 {
		return nil, ErrEmptyNetwork
	}

	n := &Network{
		layers: make([]LayerConfig, len(layers)),
		colors: make([]colorful.Color, len(layers)),
	}
	var errs []error
	for i, l := range layers {
		if l.NeuronCount < 1 {
			errs = append(errs, &LayerError{Layer: i, Name: l.Name, Wrapped: ErrNeuronCount,
				Detail: fmt.Sprintf("got %d", l.NeuronCount)})
		}
		if l.Features != nil && len(l.Features) != l.NeuronCount {
			errs = append(errs, &LayerError{Layer: i, Name: l.Name, Wrapped: ErrFeatureCount,
				Detail: fmt.Sprintf("%d features for %d neurons", len(l.Features), l.NeuronCount)})
		}
		c, err := colorful.Hex(l.Color)
		if err != nil {
			errs = append(errs, &LayerError{Layer: i, Name: l.Name, Wrapped: ErrInvalidColor,
				Detail: fmt.Sprintf("%q", l.Color)})
		}
		n.layers[i] = l.clone()
		n.colors[i] = c
		n.total += l.NeuronCount
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return n, nil
}

// MustNew is like New but panics on a validation error. Intended for presets.
func MustNew(layers []LayerConfig) *Network {
	n, err := New(layers)
	if err != nil {
		panic(err)
	}
	return n
}

// Len returns the number of layers.
func (n *Network) Len() int { return len(n.layers) }

// Layer returns a copy of layer i.
func (n *Network) Layer(i int) LayerConfig { return n.layers[i].clone() }

// Layers returns a copy of every layer in order.
func (n *Network) Layers() []LayerConfig {
	out := make([]LayerConfig, len(n.layers))
	for i, l := range n.layers {
		out[i] = l.clone()
	}
	return out
}

// Counts returns the neuron count of every layer in order.
func (n *Network) Counts() []int {
	out := make([]int, len(n.layers))
	for i, l := range n.layers {
		out[i] = l.NeuronCount
	}
	return out
}

// TotalNeurons returns the number of neurons across all layers.
func (n *Network) TotalNeurons() int { return n.total }

// Color returns the parsed color of layer i.
func (n *Network) Color(i int) colorful.Color { return n.colors[i] }

// Contains reports whether id addresses an existing neuron.
func (n *Network) Contains(id NeuronID) bool {
	return id.Layer >= 0 && id.Layer < len(n.layers) &&
		id.Index >= 0 && id.Index < n.layers[id.Layer].NeuronCount
}

// Feature returns the feature label of neuron id, if its layer defines one.
func (n *Network) Feature(id NeuronID) (string, bool) {
	if id.Layer < 0 || id.Layer >= len(n.layers) {
		return "", false
	}
	return n.layers[id.Layer].Feature(id.Index)
}
