package connect

import (
	"testing"

	"github.com/san-kum/neuroviz/internal/netmodel"
)

func TestBetween_Golden(t *testing.T) {
	edges := Between(0, 4, 2, "#ffffff")

	expected := [][2]int{
		{0, 0}, {0, 1},
		{1, 0}, {1, 1},
		{2, 0}, {2, 1},
		{3, 0}, {3, 1},
	}
	if len(edges) != len(expected) {
		t.Fatalf("expected %d edges, got %d: %v", len(expected), len(edges), edges)
	}
	for k, e := range edges {
		if e.SourceNeuron != expected[k][0] || e.TargetNeuron != expected[k][1] {
			t.Errorf("edge %d: got %d->%d, want %d->%d", k, e.SourceNeuron, e.TargetNeuron, expected[k][0], expected[k][1])
		}
		if e.Index != k {
			t.Errorf("edge %d has index %d", k, e.Index)
		}
		if e.TargetLayer != 1 {
			t.Errorf("edge %d targets layer %d", k, e.TargetLayer)
		}
	}
}

func TestNearest(t *testing.T) {
	expected := []int{0, 0, 1, 1}
	for i, want := range expected {
		if got := Nearest(i, 4, 2); got != want {
			t.Errorf("Nearest(%d, 4, 2) = %d, want %d", i, got, want)
		}
	}
}

func TestBetween_Bounds(t *testing.T) {
	for countI := 1; countI <= 16; countI++ {
		for countJ := 1; countJ <= 16; countJ++ {
			edges := Between(2, countI, countJ, "#000000")
			if len(edges) > MaxFanOut*countI {
				t.Errorf("(%d,%d): %d edges exceeds bound", countI, countJ, len(edges))
			}
			fanOut := make(map[int]int)
			seen := make(map[[2]int]bool)
			for _, e := range edges {
				if e.TargetNeuron < 0 || e.TargetNeuron >= countJ {
					t.Errorf("(%d,%d): target %d out of range", countI, countJ, e.TargetNeuron)
				}
				if e.SourceNeuron < 0 || e.SourceNeuron >= countI {
					t.Errorf("(%d,%d): source %d out of range", countI, countJ, e.SourceNeuron)
				}
				if e.SourceLayer != 2 || e.TargetLayer != 3 {
					t.Errorf("(%d,%d): edge crosses %d->%d", countI, countJ, e.SourceLayer, e.TargetLayer)
				}
				key := [2]int{e.SourceNeuron, e.TargetNeuron}
				if seen[key] {
					t.Errorf("(%d,%d): duplicate edge %v", countI, countJ, key)
				}
				seen[key] = true
				fanOut[e.SourceNeuron]++
			}
			for i := 0; i < countI; i++ {
				if fanOut[i] == 0 || fanOut[i] > MaxFanOut {
					t.Errorf("(%d,%d): neuron %d has fan-out %d", countI, countJ, i, fanOut[i])
				}
			}
		}
	}
}

func TestBetween_SingleTarget(t *testing.T) {
	edges := Between(0, 3, 1, "#000000")
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	for _, e := range edges {
		if e.TargetNeuron != 0 {
			t.Errorf("expected target 0, got %d", e.TargetNeuron)
		}
	}
}

func TestBetween_NonPositive(t *testing.T) {
	if edges := Between(0, 0, 3, "#000000"); edges != nil {
		t.Errorf("expected no edges, got %v", edges)
	}
	if edges := Between(0, 3, 0, "#000000"); edges != nil {
		t.Errorf("expected no edges, got %v", edges)
	}
}

func TestGenerate(t *testing.T) {
	net := netmodel.MustNew([]netmodel.LayerConfig{
		{Name: "in", NeuronCount: 8, Color: "#00ff88"},
		{Name: "h1", NeuronCount: 12, Color: "#00ffff"},
		{Name: "h2", NeuronCount: 6, Color: "#9d00ff"},
		{Name: "out", NeuronCount: 3, Color: "#ff00ff"},
	})
	pairs := Generate(net)

	if len(pairs) != 3 {
		t.Fatalf("expected 3 layer pairs, got %d", len(pairs))
	}
	for i, p := range pairs {
		if len(p) == 0 {
			t.Errorf("pair %d has no edges", i)
		}
		for _, e := range p {
			if e.SourceLayer != i || e.TargetLayer != i+1 {
				t.Errorf("pair %d contains edge %d->%d", i, e.SourceLayer, e.TargetLayer)
			}
			if e.Color != net.Layer(i).Color {
				t.Errorf("pair %d edge color %s, want %s", i, e.Color, net.Layer(i).Color)
			}
		}
	}
	if Count(pairs) > MaxFanOut*(8+12+6) {
		t.Errorf("total edge count %d exceeds bound", Count(pairs))
	}
}

func TestGenerate_SingleLayer(t *testing.T) {
	net := netmodel.MustNew([]netmodel.LayerConfig{{Name: "solo", NeuronCount: 5, Color: "#ffffff"}})
	if pairs := Generate(net); len(pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(pairs))
	}
}
