// Package anim drives particle flow along connections.
//
// A single [Clock] owns the phase, a scalar in [0, 1) advanced once per
// rendered frame. Particle positions are a pure function of that phase, the
// edge index and the edge endpoints, so no per-particle state is kept and
// the motion is periodic with period 1 in phase units.
//
// # Example
//
//	clk := anim.NewClock(anim.DefaultRate)
//	clk.Advance(1.0 / 60)
//	ps := anim.Particles(clk.Phase(), pairs, lay, anim.DefaultEdgeOffset)
package anim
