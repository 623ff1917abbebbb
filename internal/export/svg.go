package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
	"github.com/san-kum/neuroviz/internal/viz"
)

const (
	background = "#0a0a0f"
	edgeAlpha  = 0.2
)

// SVGOptions controls frame export.
type SVGOptions struct {
	Scale   float64 // pixels per scene unit
	Padding float64 // pixels around the drawing
	Panel   bool    // draw layer cards and stats on the right
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Scale: 60, Padding: 40, Panel: true}
}

func emitted(hex string, intensity float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return netmodel.Emit(c, intensity).Hex()
}

// FrameToSVG draws a frame as seen from the front, looking down -Z.
func FrameToSVG(f scene.Frame, opts SVGOptions) string {
	if opts.Scale <= 0 {
		opts.Scale = DefaultSVGOptions().Scale
	}
	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, n := range f.Neurons {
		minX, maxX = math.Min(minX, n.Pos.X), math.Max(maxX, n.Pos.X)
		minY, maxY = math.Min(minY, n.Pos.Y), math.Max(maxY, n.Pos.Y)
	}
	if len(f.Neurons) == 0 {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}
	r := scene.NeuronRadius
	minX, minY, maxX, maxY = minX-r, minY-r, maxX+r, maxY+r

	pad := opts.Padding
	w := (maxX-minX)*opts.Scale + 2*pad
	h := (maxY-minY)*opts.Scale + 2*pad
	panelX := w
	if opts.Panel {
		w += 260
		h = math.Max(h, float64(len(f.Cards))*70+140)
	}
	px := func(x float64) float64 { return (x-minX)*opts.Scale + pad }
	py := func(y float64) float64 { return (maxY-y)*opts.Scale + pad }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background)

	sb.WriteString(`<g stroke-width="1">` + "\n")
	for _, e := range f.Edges {
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.1f"/>`+"\n",
			px(e.From.X), py(e.From.Y), px(e.To.X), py(e.To.Y), e.Color, edgeAlpha)
	}
	sb.WriteString("</g>\n<g>\n")
	for _, p := range f.Particles {
		fmt.Fprintf(&sb, `<circle class="particle" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			px(p.Pos.X), py(p.Pos.Y), scene.ParticleRadius*opts.Scale, p.Color)
	}
	for _, n := range f.Neurons {
		rad := scene.NeuronRadius * opts.Scale
		if n.Highlighted {
			rad *= 1.25
		}
		fmt.Fprintf(&sb, `<circle class="neuron" data-id="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			n.ID, px(n.Pos.X), py(n.Pos.Y), rad, emitted(n.Color, n.Emissive))
	}
	sb.WriteString("</g>\n")

	if opts.Panel {
		writePanel(&sb, f, panelX)
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

func writePanel(sb *strings.Builder, f scene.Frame, x float64) {
	y := 20.0
	sb.WriteString(`<g font-family="monospace">` + "\n")
	for _, c := range f.Cards {
		stroke := "#444466"
		if c.Selected {
			stroke = c.Color
		}
		fmt.Fprintf(sb, `<rect x="%.0f" y="%.0f" width="230" height="60" rx="8" fill="#14141e" stroke="%s"/>`+"\n", x, y, stroke)
		fmt.Fprintf(sb, `<text x="%.0f" y="%.0f" fill="%s" font-size="15">%s</text>`+"\n", x+12, y+24, c.Color, escape(c.Name))
		label := fmt.Sprintf("%d neurons", c.Neurons)
		if c.Selected && c.HasFeature {
			label += " · " + c.Feature
		}
		fmt.Fprintf(sb, `<text x="%.0f" y="%.0f" fill="#888899" font-size="12">%s</text>`+"\n", x+12, y+44, escape(label))
		y += 70
	}
	sb.WriteString("</g>\n")
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }

// CanvasToSVG converts a terminal canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#ffffff">
`, width, height, width, height, background)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			if col := canvas.Colors[y/4][x/2]; col != "" {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", cx, cy, dotRadius, col)
			} else {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}
