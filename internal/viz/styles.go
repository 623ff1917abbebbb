package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/neuroviz/internal/panel"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(13)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// canvas offset inside canvasStyle, in cells
const (
	padLeft = 2
	padTop  = 1
)

func panelStyle(th Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border).
		Padding(0, 1).
		Width(34)
}

// RenderCard renders one layer card. Selected cards get a border in the
// layer color and, when known, the hovered neuron's feature.
func RenderCard(c panel.Card, th Theme) string {
	col := lipgloss.Color(c.Color)
	border := th.Border
	if c.Selected {
		border = col
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(30)

	title := lipgloss.NewStyle().Bold(true).Foreground(col).Render(c.Name)
	body := lipgloss.NewStyle().Foreground(th.Muted).Render(fmt.Sprintf("%d neurons", c.Neurons))
	lines := []string{title, body}
	if c.Selected && c.HasFeature {
		lines = append(lines, lipgloss.NewStyle().Foreground(th.Text).Render("→ "+c.Feature))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// ShareBar renders part/total as a bar of the given width.
func ShareBar(part, total, width int, col lipgloss.Color) string {
	filled := 0
	if total > 0 {
		filled = part * width / total
	}
	filled = max(0, min(width, filled))
	return lipgloss.NewStyle().Foreground(col).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render(strings.Repeat("░", width-filled))
}
