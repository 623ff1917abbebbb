// Package panel binds the shared hover state to the side info panel.
//
// The panel shows one card per layer in model order. A card is selected when
// the hovered neuron belongs to its layer, and a selected card of a layer
// with feature labels also shows the label of the hovered neuron.
package panel

import (
	"github.com/san-kum/neuroviz/internal/connect"
	"github.com/san-kum/neuroviz/internal/hover"
	"github.com/san-kum/neuroviz/internal/netmodel"
)

// Card is the view state of one layer card.
type Card struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Neurons    int    `json:"neurons"`
	Selected   bool   `json:"selected"`
	Feature    string `json:"feature,omitempty"`
	HasFeature bool   `json:"has_feature"`
}

// Cards returns the card of every layer of net for hover state s.
func Cards(net *netmodel.Network, s hover.State) []Card {
	cards := make([]Card, net.Len())
	for i := range cards {
		l := net.Layer(i)
		c := Card{Index: i, Name: l.Name, Color: l.Color, Neurons: l.NeuronCount}
		if layer, ok := s.Layer(); ok && layer == i {
			c.Selected = true
			c.Feature, c.HasFeature = l.Feature(s.Neuron.Index)
		}
		cards[i] = c
	}
	return cards
}

// Binding is a hover.Observer that keeps the panel cards current.
type Binding struct {
	net   *netmodel.Network
	state hover.State
	cards []Card
}

func NewBinding(net *netmodel.Network) *Binding {
	return &Binding{net: net, cards: Cards(net, hover.None())}
}

func (b *Binding) OnHover(s hover.State) {
	b.state = s
	b.cards = Cards(b.net, s)
}

// Cards returns the cards for the last observed hover state.
func (b *Binding) Cards() []Card {
	out := make([]Card, len(b.cards))
	copy(out, b.cards)
	return out
}

// ActiveFeature returns the feature label currently displayed, if any.
func (b *Binding) ActiveFeature() (string, bool) {
	for _, c := range b.cards {
		if c.HasFeature {
			return c.Feature, true
		}
	}
	return "", false
}

// SelectedLayer returns the index of the selected card, if any.
func (b *Binding) SelectedLayer() (int, bool) {
	return b.state.Layer()
}

// Stats summarises a network for the panel header.
type Stats struct {
	Layers      int   `json:"layers"`
	Neurons     int   `json:"neurons"`
	Connections int   `json:"connections"`
	PerLayer    []int `json:"per_layer"`
}

func ComputeStats(net *netmodel.Network, pairs [][]connect.Connection) Stats {
	return Stats{
		Layers:      net.Len(),
		Neurons:     net.TotalNeurons(),
		Connections: connect.Count(pairs),
		PerLayer:    net.Counts(),
	}
}
