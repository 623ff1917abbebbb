// Package scene runs the per-frame loop of the network visualization.
//
// A [Scene] owns the layout, the connections, the animation clock and the
// hover router of one network. The host renderer calls [Scene.Tick] once per
// displayed frame and draws the returned [Frame]; the scene never draws.
//
// # Frame order
//
// Within one Tick the clock advances, particle positions are recomputed, any
// hover transition raised during the frame is applied, and the frame is
// assembled. Pointer events arriving between frames are applied at once and
// are visible in the next frame.
//
// # Lifecycle
//
// [Scene.Mount] attaches the highlight, panel and caller observers to the
// hover router. [Scene.Unmount] detaches them and resets the clock and the
// hover state. Unmount may be called from inside a Tick (for example from an
// observer); the teardown then runs when that Tick returns, including when it
// unwinds from a panic.
//
// # Thread Safety
//
// Scene is NOT thread-safe. All calls must come from the goroutine that
// drives the frame loop.
package scene
