package anim

import (
	"math"
	"time"
)

const (
	// DefaultRate is the phase advance per second.
	DefaultRate = 0.5
	// DefaultEdgeOffset decorrelates neighbouring particles.
	DefaultEdgeOffset = 0.1
)

// Wrap maps x into [0, 1). Non-finite input maps to 0.
func Wrap(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	w := x - math.Floor(x)
	if w >= 1 {
		w = 0
	}
	return w
}

// Clock holds the shared animation phase.
type Clock struct {
	Rate  float64
	phase float64
}

func NewClock(rate float64) *Clock {
	return &Clock{Rate: rate}
}

// Advance moves the phase forward by Rate*elapsed seconds, wrapping at 1.
// Non-finite elapsed values leave the phase unchanged.
func (c *Clock) Advance(elapsed float64) float64 {
	step := c.Rate * elapsed
	if math.IsNaN(step) || math.IsInf(step, 0) {
		return c.phase
	}
	// Reduce the step first so a huge elapsed value does not swamp the phase.
	c.phase = Wrap(c.phase + Wrap(step))
	return c.phase
}

// AdvanceBy is Advance for a time.Duration.
func (c *Clock) AdvanceBy(d time.Duration) float64 {
	return c.Advance(d.Seconds())
}

// Phase returns the current phase in [0, 1).
func (c *Clock) Phase() float64 { return c.phase }

// Reset returns the phase to 0.
func (c *Clock) Reset() { c.phase = 0 }
