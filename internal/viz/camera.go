package viz

import (
	"math"

	"github.com/san-kum/neuroviz/internal/layout"
)

// AutoRotateSpeed turns the view once every 120 seconds.
const AutoRotateSpeed = math.Pi / 60

// Camera orbits the origin at a fixed distance and projects scene points to
// canvas dots.
type Camera struct {
	Distance   float64
	FOV        float64 // vertical, degrees
	Near       float64
	Yaw, Pitch float64
	Zoom       float64
	AutoRotate bool
	Speed      float64 // radians per second
}

func NewCamera() *Camera {
	return &Camera{Distance: 12, FOV: 50, Near: 0.1, Zoom: 1, AutoRotate: true, Speed: AutoRotateSpeed}
}

func (c *Camera) RotateYaw(a float64)   { c.Yaw += a }
func (c *Camera) RotatePitch(a float64) { c.Pitch = math.Max(-1.4, math.Min(1.4, c.Pitch+a)) }
func (c *Camera) ZoomIn()               { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()              { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Advance applies auto rotation for dt seconds.
func (c *Camera) Advance(dt float64) {
	if c.AutoRotate && dt > 0 {
		c.Yaw = math.Mod(c.Yaw+c.Speed*dt, 2*math.Pi)
	}
}

func (c *Camera) rotate(p layout.Vec3) layout.Vec3 {
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	p.Y, p.Z = p.Y*cp-p.Z*sp, p.Y*sp+p.Z*cp
	return p
}

func (c *Camera) focal(sw, sh int) float64 {
	f := 1 / math.Tan(c.FOV*math.Pi/360)
	return f * c.Zoom * float64(min(sw, sh)) / 2
}

// Project converts a scene point to dot coordinates on a sw x sh canvas.
// It returns x, y, the distance from the camera plane, and whether the point
// lands on the canvas.
func (c *Camera) Project(p layout.Vec3, sw, sh int) (int, int, float64, bool) {
	r := c.rotate(p)
	depth := c.Distance - r.Z
	if depth <= c.Near {
		return 0, 0, depth, false
	}
	k := c.focal(sw, sh) / depth
	x := int(math.Round(r.X*k)) + sw/2
	y := int(math.Round(-r.Y*k)) + sh/2
	return x, y, depth, x >= 0 && x < sw && y >= 0 && y < sh
}

// ProjectRadius returns the on-canvas radius in dots of a sphere of the given
// radius at depth.
func (c *Camera) ProjectRadius(radius, depth float64, sw, sh int) int {
	if depth <= c.Near {
		return 0
	}
	return int(math.Round(radius * c.focal(sw, sh) / depth))
}
