package netmodel

import "github.com/lucasb-eyer/go-colorful"

// Emissive intensities used for neuron materials.
const (
	BaselineEmissive  = 0.5
	HighlightEmissive = 2.0
)

// Emit shades c for the given emissive intensity. Intensities below 1 darken
// toward black, intensities above 1 brighten toward white.
func Emit(c colorful.Color, intensity float64) colorful.Color {
	black := colorful.Color{}
	white := colorful.Color{R: 1, G: 1, B: 1}
	switch {
	case intensity < 1:
		if intensity < 0 {
			intensity = 0
		}
		return black.BlendRgb(c, 0.4+0.6*intensity).Clamped()
	case intensity > 1:
		t := (intensity - 1) * 0.6
		if t > 0.8 {
			t = 0.8
		}
		return c.BlendRgb(white, t).Clamped()
	}
	return c
}
