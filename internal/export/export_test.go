package export

import (
	"context"
	"strings"
	"testing"

	"github.com/san-kum/neuroviz/internal/connect"
	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
	"github.com/san-kum/neuroviz/internal/viz"
)

func testNetwork(t *testing.T) *netmodel.Network {
	t.Helper()
	net, err := netmodel.New([]netmodel.LayerConfig{
		{Name: "Input <raw>", NeuronCount: 4, Color: "#00FF88"},
		{Name: "Output", NeuronCount: 2, Color: "#FF00FF", Features: []string{"Buy", "Sell"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func TestFrameToSVG(t *testing.T) {
	sc := scene.New(testNetwork(t), scene.DefaultOptions())
	sc.Mount()
	if err := sc.PointerEnter(1, 1); err != nil {
		t.Fatal(err)
	}
	f, err := sc.Tick(0.25)
	if err != nil {
		t.Fatal(err)
	}

	svg := FrameToSVG(f, DefaultSVGOptions())
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("malformed svg document")
	}
	if got := strings.Count(svg, `class="neuron"`); got != 6 {
		t.Errorf("expected 6 neurons, got %d", got)
	}
	if got := strings.Count(svg, `class="particle"`); got != len(f.Particles) {
		t.Errorf("expected %d particles, got %d", len(f.Particles), got)
	}
	if got := strings.Count(svg, "<line"); got != len(f.Edges) {
		t.Errorf("expected %d edges, got %d", len(f.Edges), got)
	}
	if !strings.Contains(svg, "Sell") {
		t.Error("selected card feature missing")
	}
	if !strings.Contains(svg, "Input &lt;raw&gt;") {
		t.Error("layer name not escaped")
	}
}

func TestFrameToSVG_NoPanel(t *testing.T) {
	sc := scene.New(testNetwork(t), scene.DefaultOptions())
	sc.Mount()
	f, _ := sc.Tick(0)
	svg := FrameToSVG(f, SVGOptions{Scale: 10})
	if strings.Contains(svg, "<text") {
		t.Error("panel drawn when disabled")
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil canvas")
	}
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0, "#ff0000")
	c.Set(7, 7, "")
	svg := CanvasToSVG(c, 2)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
	if !strings.Contains(svg, `fill="#ff0000"`) {
		t.Error("dot color missing")
	}
}

func TestToDOT(t *testing.T) {
	net := testNetwork(t)
	pairs := connect.Generate(net)
	dot := ToDOT(net, pairs)

	if got, want := strings.Count(dot, " -> "), connect.Count(pairs); got != want {
		t.Errorf("expected %d edges, got %d", want, got)
	}
	if strings.Count(dot, "subgraph cluster_") != 2 {
		t.Error("expected one cluster per layer")
	}
	if !strings.Contains(dot, `tooltip="Sell"`) {
		t.Error("feature tooltip missing")
	}
}

func TestRenderSVG(t *testing.T) {
	net := testNetwork(t)
	svg, err := RenderSVG(context.Background(), ToDOT(net, connect.Generate(net)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("expected svg output")
	}
}

func TestRenderSVG_BadDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error")
	}
}
