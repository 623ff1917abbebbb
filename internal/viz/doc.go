// Package viz renders a neural network scene in the terminal.
//
// [Model] is a Bubble Tea program that owns a mounted scene, advances it on
// every tick and draws the returned frame onto a braille [Canvas] through an
// orbiting [Camera]. The side panel shows one card per layer, the model stats
// and a plot of the flow phase.
//
// # Key Bindings
//
//	Arrows/hjkl - Move the hover cursor
//	Esc         - Clear hover
//	Space       - Pause particle flow
//	A           - Toggle auto rotation
//	T           - Cycle color themes
//	?           - Show help overlay
//	Q           - Quit and unmount
//
// Moving the mouse over a neuron hovers it as well.
package viz
