package anim

import (
	"github.com/san-kum/neuroviz/internal/connect"
	"github.com/san-kum/neuroviz/internal/layout"
)

// Particle is a moving point on one connection.
type Particle struct {
	Pair     int         `json:"pair"`
	Edge     int         `json:"edge"`
	Progress float64     `json:"progress"`
	Pos      layout.Vec3 `json:"pos"`
	Color    string      `json:"color"`
}

// Progress returns how far along edge k its particle is at the given phase.
func Progress(phase float64, k int, offset float64) float64 {
	return Wrap(phase + float64(k)*offset)
}

// Position returns the particle position on the segment start..end.
func Position(phase float64, k int, offset float64, start, end layout.Vec3) layout.Vec3 {
	return start.Lerp(end, Progress(phase, k, offset))
}

// Particles evaluates one particle per connection of every layer pair.
func Particles(phase float64, pairs [][]connect.Connection, lay *layout.Layout, offset float64) []Particle {
	n := connect.Count(pairs)
	out := make([]Particle, 0, n)
	for p, edges := range pairs {
		for _, e := range edges {
			t := Progress(phase, e.Index, offset)
			out = append(out, Particle{
				Pair:     p,
				Edge:     e.Index,
				Progress: t,
				Pos:      lay.At(e.Source()).Lerp(lay.At(e.Target()), t),
				Color:    e.Color,
			})
		}
	}
	return out
}
