package viz

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
)

// edgeIntensity dims connections so neurons and particles stand out.
const edgeIntensity = 0.2

// Spot is a neuron as it landed on the canvas.
type Spot struct {
	ID     netmodel.NeuronID
	X, Y   int
	R      int
	Depth  float64
	OnView bool
}

func shade(hex string, intensity float64, fallback lipgloss.Color) lipgloss.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return lipgloss.Color(netmodel.Emit(c, intensity).Hex())
}

// DrawFrame paints f onto c from cam, far objects first, and returns where
// each neuron was drawn.
func DrawFrame(c *Canvas, f scene.Frame, cam *Camera, th Theme) []Spot {
	c.Clear()
	sw, sh := c.SubWidth(), c.SubHeight()

	for _, e := range f.Edges {
		x0, y0, d0, v0 := cam.Project(e.From, sw, sh)
		x1, y1, d1, v1 := cam.Project(e.To, sw, sh)
		if d0 <= cam.Near || d1 <= cam.Near || !(v0 || v1) {
			continue
		}
		c.DrawLine(x0, y0, x1, y1, shade(e.Color, edgeIntensity, th.Muted))
	}

	for _, p := range f.Particles {
		if x, y, _, ok := cam.Project(p.Pos, sw, sh); ok {
			c.Set(x, y, shade(p.Color, 1, th.Accent))
		}
	}

	spots := make([]Spot, len(f.Neurons))
	order := make([]int, len(f.Neurons))
	for i, n := range f.Neurons {
		x, y, d, ok := cam.Project(n.Pos, sw, sh)
		r := cam.ProjectRadius(scene.NeuronRadius, d, sw, sh)
		if n.Highlighted {
			r++
		}
		spots[i] = Spot{ID: n.ID, X: x, Y: y, R: r, Depth: d, OnView: ok}
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return spots[order[a]].Depth > spots[order[b]].Depth })
	for _, i := range order {
		s, n := spots[i], f.Neurons[i]
		if !s.OnView {
			continue
		}
		c.DrawDisc(s.X, s.Y, s.R, shade(n.Color, n.Emissive, th.Text))
	}
	return spots
}

// Pick returns the front-most neuron drawn under dot (x, y).
func Pick(spots []Spot, x, y int) (netmodel.NeuronID, bool) {
	var best *Spot
	for i := range spots {
		s := &spots[i]
		if !s.OnView {
			continue
		}
		dx, dy, r := x-s.X, y-s.Y, s.R+1
		if dx*dx+dy*dy > r*r {
			continue
		}
		if best == nil || s.Depth < best.Depth {
			best = s
		}
	}
	if best == nil {
		return netmodel.NeuronID{}, false
	}
	return best.ID, true
}
