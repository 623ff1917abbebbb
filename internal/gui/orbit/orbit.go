// Package orbit holds the window camera and mouse ray picking.
package orbit

import (
	"math"

	"github.com/san-kum/neuroviz/internal/layout"
	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
)

// AutoRotateSpeed turns the view once every 120 seconds.
const AutoRotateSpeed = math.Pi / 60

const (
	minDistance = 4.0
	maxDistance = 40.0
	maxPitch    = 1.4
)

// Orbit is a camera circling the origin.
type Orbit struct {
	Yaw, Pitch float64
	Distance   float64
	AutoRotate bool
	Speed      float64
}

func New() Orbit {
	return Orbit{Distance: 12, AutoRotate: true, Speed: AutoRotateSpeed}
}

// Advance applies auto rotation for dt seconds.
func (o *Orbit) Advance(dt float64) {
	if o.AutoRotate && dt > 0 {
		o.Yaw = math.Mod(o.Yaw+o.Speed*dt, 2*math.Pi)
	}
}

// Drag turns the orbit by a mouse delta in pixels.
func (o *Orbit) Drag(dx, dy float64) {
	o.Yaw -= dx * 0.005
	o.Pitch = math.Max(-maxPitch, math.Min(maxPitch, o.Pitch+dy*0.005))
}

// Zoom moves the camera in for positive wheel steps.
func (o *Orbit) Zoom(wheel float64) {
	o.Distance = math.Max(minDistance, math.Min(maxDistance, o.Distance-wheel))
}

// Eye returns the camera position.
func (o Orbit) Eye() layout.Vec3 {
	cp := math.Cos(o.Pitch)
	return layout.Vec3{
		X: o.Distance * cp * math.Sin(o.Yaw),
		Y: o.Distance * math.Sin(o.Pitch),
		Z: o.Distance * cp * math.Cos(o.Yaw),
	}
}

// RaySphere returns the distance along the ray to the first hit with the
// sphere, if any. dir need not be normalised.
func RaySphere(origin, dir, center layout.Vec3, radius float64) (float64, bool) {
	l := dir.Length()
	if l == 0 {
		return 0, false
	}
	d := dir.Scale(1 / l)
	oc := origin.Sub(center)
	b := oc.Dot(d)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// PickNeuron returns the nearest neuron hit by the ray.
func PickNeuron(origin, dir layout.Vec3, neurons []scene.NeuronView) (netmodel.NeuronID, bool) {
	best, found := math.Inf(1), false
	var id netmodel.NeuronID
	for _, n := range neurons {
		if t, ok := RaySphere(origin, dir, n.Pos, scene.NeuronRadius); ok && t < best {
			best, id, found = t, n.ID, true
		}
	}
	return id, found
}
