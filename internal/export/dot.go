package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/san-kum/neuroviz/internal/connect"
	"github.com/san-kum/neuroviz/internal/netmodel"
)

func nodeID(l, n int) string { return fmt.Sprintf("n%d_%d", l, n) }

// ToDOT converts the network topology to Graphviz DOT. Each layer is a
// cluster in model order and every connection becomes an edge.
func ToDOT(net *netmodel.Network, pairs [][]connect.Connection) string {
	var buf bytes.Buffer
	buf.WriteString("digraph network {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"#0a0a0f\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=10, fontcolor=black, width=0.4, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.4, penwidth=0.6];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("\n")

	for i, l := range net.Layers() {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n    fontcolor=%q;\n    color=%q;\n", l.Name, l.Color, l.Color)
		for n := 0; n < l.NeuronCount; n++ {
			label := fmt.Sprint(n)
			tooltip := label
			if f, ok := l.Feature(n); ok {
				tooltip = f
			}
			fmt.Fprintf(&buf, "    %s [label=%q, tooltip=%q, fillcolor=%q];\n", nodeID(i, n), label, tooltip, l.Color)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, pair := range pairs {
		for _, c := range pair {
			fmt.Fprintf(&buf, "  %s -> %s [color=%q];\n",
				nodeID(c.SourceLayer, c.SourceNeuron), nodeID(c.TargetLayer, c.TargetNeuron), c.Color+"55")
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
