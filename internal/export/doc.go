// Package export writes scene frames and network topology to files.
//
// [FrameToSVG] draws a single frame from the front with the layer cards beside
// it. [ToDOT] describes the topology as a Graphviz graph that [RenderSVG]
// lays out and renders.
package export
