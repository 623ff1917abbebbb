package orbit

import (
	"math"
	"testing"

	"github.com/san-kum/neuroviz/internal/layout"
	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
)

func TestOrbitEye(t *testing.T) {
	o := New()
	eye := o.Eye()
	if math.Abs(eye.Z-12) > 1e-9 || math.Abs(eye.X) > 1e-9 || math.Abs(eye.Y) > 1e-9 {
		t.Errorf("expected eye at (0,0,12), got %+v", eye)
	}

	o.Yaw = math.Pi / 2
	eye = o.Eye()
	if math.Abs(eye.X-12) > 1e-9 {
		t.Errorf("expected eye on +X, got %+v", eye)
	}
}

func TestOrbitClamps(t *testing.T) {
	o := New()
	o.Drag(0, 1e6)
	if o.Pitch != maxPitch {
		t.Errorf("pitch not clamped: %v", o.Pitch)
	}
	o.Zoom(1e6)
	if o.Distance != minDistance {
		t.Errorf("distance not clamped: %v", o.Distance)
	}
	o.Zoom(-1e6)
	if o.Distance != maxDistance {
		t.Errorf("distance not clamped: %v", o.Distance)
	}
}

func TestOrbitAdvance(t *testing.T) {
	o := New()
	o.Advance(2)
	if math.Abs(o.Yaw-2*AutoRotateSpeed) > 1e-12 {
		t.Errorf("unexpected yaw %v", o.Yaw)
	}
	o.AutoRotate = false
	o.Advance(2)
	if math.Abs(o.Yaw-2*AutoRotateSpeed) > 1e-12 {
		t.Error("yaw changed with auto rotation off")
	}
}

func TestRaySphere(t *testing.T) {
	tests := []struct {
		name   string
		origin layout.Vec3
		dir    layout.Vec3
		hit    bool
		dist   float64
	}{
		{"straight on", layout.Vec3{Z: 10}, layout.Vec3{Z: -1}, true, 9},
		{"unnormalised", layout.Vec3{Z: 10}, layout.Vec3{Z: -5}, true, 9},
		{"miss", layout.Vec3{X: 2, Z: 10}, layout.Vec3{Z: -1}, false, 0},
		{"behind", layout.Vec3{Z: 10}, layout.Vec3{Z: 1}, false, 0},
		{"inside", layout.Vec3{}, layout.Vec3{X: 1}, true, 1},
		{"zero dir", layout.Vec3{Z: 10}, layout.Vec3{}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := RaySphere(tt.origin, tt.dir, layout.Vec3{}, 1)
			if ok != tt.hit {
				t.Fatalf("expected hit=%v, got %v", tt.hit, ok)
			}
			if ok && math.Abs(d-tt.dist) > 1e-9 {
				t.Errorf("expected distance %v, got %v", tt.dist, d)
			}
		})
	}
}

func TestPickNeuronNearest(t *testing.T) {
	neurons := []scene.NeuronView{
		{ID: netmodel.NeuronID{Layer: 0, Index: 0}, Pos: layout.Vec3{Z: -2}},
		{ID: netmodel.NeuronID{Layer: 1, Index: 0}, Pos: layout.Vec3{Z: 0}},
		{ID: netmodel.NeuronID{Layer: 2, Index: 0}, Pos: layout.Vec3{X: 3}},
	}
	id, ok := PickNeuron(layout.Vec3{Z: 12}, layout.Vec3{Z: -1}, neurons)
	if !ok || id.Layer != 1 {
		t.Errorf("expected nearest neuron in layer 1, got %v %v", id, ok)
	}
	if _, ok := PickNeuron(layout.Vec3{Y: 5, Z: 12}, layout.Vec3{Z: -1}, neurons); ok {
		t.Error("expected miss")
	}
}
