package scene

import (
	"github.com/san-kum/neuroviz/internal/anim"
	"github.com/san-kum/neuroviz/internal/hover"
	"github.com/san-kum/neuroviz/internal/layout"
	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/panel"
)

// Sphere radii for renderers that draw neurons and particles as spheres.
const (
	NeuronRadius   = 0.2
	ParticleRadius = 0.03
)

// NeuronView is one neuron as the renderer should draw it.
type NeuronView struct {
	ID          netmodel.NeuronID `json:"id"`
	Pos         layout.Vec3       `json:"pos"`
	Color       string            `json:"color"`
	Emissive    float64           `json:"emissive"`
	Highlighted bool              `json:"highlighted"`
	Feature     string            `json:"feature,omitempty"`
}

// EdgeView is one connection as the renderer should draw it.
type EdgeView struct {
	Pair  int         `json:"pair"`
	Index int         `json:"index"`
	From  layout.Vec3 `json:"from"`
	To    layout.Vec3 `json:"to"`
	Color string      `json:"color"`
}

// Frame is the declarative render description of one frame.
type Frame struct {
	Seq       uint64          `json:"seq"`
	Phase     float64         `json:"phase"`
	Hover     hover.State     `json:"hover"`
	Neurons   []NeuronView    `json:"neurons"`
	Edges     []EdgeView      `json:"edges"`
	Particles []anim.Particle `json:"particles"`
	Cards     []panel.Card    `json:"cards"`
}

// Highlighted returns the highlighted neuron of the frame, if any.
func (f Frame) Highlighted() (NeuronView, bool) {
	for _, n := range f.Neurons {
		if n.Highlighted {
			return n, true
		}
	}
	return NeuronView{}, false
}
