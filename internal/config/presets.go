package config

import (
	"sort"

	"github.com/san-kum/neuroviz/internal/netmodel"
)

var Presets = map[string][]netmodel.LayerConfig{
	"alpha": {
		{Name: "Input Layer", NeuronCount: 8, Color: "#00FF88",
			Features: []string{"Price", "Volume", "RSI", "MACD", "SMA", "Volatility", "Momentum", "News Sentiment"}},
		{Name: "Hidden Layer 1", NeuronCount: 12, Color: "#00FFFF"},
		{Name: "Hidden Layer 2", NeuronCount: 6, Color: "#9D00FF"},
		{Name: "Output Layer", NeuronCount: 3, Color: "#FF00FF", Features: []string{"Buy", "Hold", "Sell"}},
	},
	"compact": {
		{Name: "Input", NeuronCount: 4, Color: "#00FF88", Features: []string{"Open", "High", "Low", "Close"}},
		{Name: "Output", NeuronCount: 2, Color: "#FF00FF", Features: []string{"Long", "Short"}},
	},
	"deep": {
		{Name: "Input", NeuronCount: 6, Color: "#00FF88"},
		{Name: "Hidden 1", NeuronCount: 10, Color: "#00FFFF"},
		{Name: "Hidden 2", NeuronCount: 10, Color: "#0088FF"},
		{Name: "Hidden 3", NeuronCount: 8, Color: "#9D00FF"},
		{Name: "Hidden 4", NeuronCount: 4, Color: "#FF66CC"},
		{Name: "Output", NeuronCount: 1, Color: "#FF00FF", Features: []string{"Score"}},
	},
	"single": {
		{Name: "Layer", NeuronCount: 5, Color: "#00FFFF"},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(name string) []netmodel.LayerConfig {
	layers, ok := Presets[name]
	if !ok {
		return nil
	}
	out := make([]netmodel.LayerConfig, len(layers))
	for i, l := range layers {
		out[i] = l
		if l.Features != nil {
			out[i].Features = append([]string(nil), l.Features...)
		}
	}
	return out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
