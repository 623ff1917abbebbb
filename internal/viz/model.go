package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
)

const (
	width          = 72
	height         = 24
	phaseCapacity  = 120
	panelWidth     = 40
	minCanvasCells = 10
)

type TickMsg time.Time

// Options configures the terminal viewer.
type Options struct {
	FPS    int
	Theme  string
	Logger *log.Logger
}

// Model hosts a mounted scene in a Bubble Tea program. It owns the scene for
// the life of the program and unmounts it on quit.
type Model struct {
	scene    *scene.Scene
	log      *log.Logger
	canvas   *Canvas
	camera   *Camera
	theme    Theme
	fps      int
	frame    scene.Frame
	spots    []Spot
	last     time.Time
	phases   []float64
	cursor   netmodel.NeuronID
	pointer  bool
	paused   bool
	showHelp bool
	quitting bool
}

// NewModel mounts sc and prepares the viewer around it.
func NewModel(sc *scene.Scene, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if !sc.Mounted() {
		sc.Mount()
	}
	return Model{
		scene:  sc,
		log:    opts.Logger,
		canvas: NewCanvas(width, height),
		camera: NewCamera(),
		theme:  GetTheme(opts.Theme),
		fps:    opts.FPS,
		phases: make([]float64, 0, phaseCapacity),
	}
}

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick(m.fps)
}

// Frame returns the last frame drawn.
func (m Model) Frame() scene.Frame { return m.frame }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		w := max(minCanvasCells, msg.Width-panelWidth-2*padLeft)
		h := max(minCanvasCells, msg.Height-2*padTop)
		m.canvas = NewCanvas(w, h)
	case TickMsg:
		if m.quitting {
			return m, nil
		}
		now := time.Time(msg)
		dt := 1 / float64(m.fps)
		if !m.last.IsZero() {
			dt = now.Sub(m.last).Seconds()
		}
		m.last = now
		if m.paused {
			dt = 0
		}
		m.camera.Advance(dt)
		f, err := m.scene.Tick(dt)
		if err != nil {
			m.log.Error("scene tick failed", "err", err)
			return m, tea.Quit
		}
		m.frame = f
		m.spots = DrawFrame(m.canvas, f, m.camera, m.theme)
		if len(m.phases) == phaseCapacity {
			m.phases = m.phases[1:]
		}
		m.phases = append(m.phases, f.Phase)
		return m, tick(m.fps)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.scene.Unmount()
		m.log.Debug("scene unmounted")
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "?":
		m.showHelp = !m.showHelp
	case "t":
		m.theme = NextTheme(m.theme.Name)
	case "a":
		m.camera.AutoRotate = !m.camera.AutoRotate
	case "x":
		m.camera.RotatePitch(0.1)
	case "X":
		m.camera.RotatePitch(-0.1)
	case "y":
		m.camera.RotateYaw(0.1)
	case "Y":
		m.camera.RotateYaw(-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "esc":
		m.pointer = false
		if err := m.scene.PointerLeave(); err != nil {
			m.log.Debug("pointer leave", "err", err)
		}
	}
	return m, nil
}

// moveCursor steps the keyboard cursor and hovers the neuron under it.
// Moving across layers keeps the neuron index where the target layer allows.
func (m *Model) moveCursor(dl, dn int) {
	net := m.scene.Network()
	if h := m.scene.Hover(); h.Active {
		m.cursor = h.Neuron
	} else if dl != 0 || dn != 0 {
		if !net.Contains(m.cursor) {
			m.cursor = netmodel.NeuronID{}
		}
		m.enter(m.cursor)
		return
	}
	l := max(0, min(net.Len()-1, m.cursor.Layer+dl))
	count := net.Layer(l).NeuronCount
	n := max(0, min(count-1, m.cursor.Index+dn))
	m.cursor = netmodel.NeuronID{Layer: l, Index: n}
	m.enter(m.cursor)
}

func (m *Model) enter(id netmodel.NeuronID) {
	if err := m.scene.PointerEnter(id.Layer, id.Index); err != nil {
		m.log.Debug("pointer enter", "neuron", id, "err", err)
	}
}

// handleMouse hovers whatever neuron is under the pointer.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.showHelp || msg.Action != tea.MouseActionMotion {
		return
	}
	x := (msg.X-padLeft)*2 + 1
	y := (msg.Y-padTop)*4 + 2
	id, ok := Pick(m.spots, x, y)
	switch {
	case ok:
		m.pointer = true
		m.cursor = id
		if h := m.scene.Hover(); !h.Is(id) {
			m.enter(id)
		}
	case m.pointer:
		m.pointer = false
		if err := m.scene.PointerLeave(); err != nil {
			m.log.Debug("pointer leave", "err", err)
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	th := m.theme
	canvasView := canvasStyle.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(th.Primary).Render("NEURAL NETWORK") + "\n")
	status := "LIVE"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(lipgloss.NewStyle().Foreground(th.Muted).Render(status) + "\n\n")

	for _, c := range m.frame.Cards {
		s.WriteString(RenderCard(c, th) + "\n")
	}

	st := m.scene.Stats()
	s.WriteString("\n" + lipgloss.NewStyle().Bold(true).Foreground(th.Text).Render("Model Stats") + "\n")
	s.WriteString(labelStyle.Render("Layers") + valueStyle.Render(fmt.Sprint(st.Layers)) + "\n")
	s.WriteString(labelStyle.Render("Neurons") + valueStyle.Render(fmt.Sprint(st.Neurons)) + "\n")
	s.WriteString(labelStyle.Render("Connections") + valueStyle.Render(fmt.Sprint(st.Connections)) + "\n")
	net := m.scene.Network()
	for i, n := range st.PerLayer {
		s.WriteString(ShareBar(n, st.Neurons, 20, lipgloss.Color(net.Layer(i).Color)) + " " + valueStyle.Render(fmt.Sprint(n)) + "\n")
	}

	if h, ok := m.frame.Highlighted(); ok {
		line := fmt.Sprintf("%s #%d", net.Layer(h.ID.Layer).Name, h.ID.Index)
		if h.Feature != "" {
			line += " · " + h.Feature
		}
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(th.Accent).Render(line) + "\n")
	}

	if len(m.phases) > 1 {
		chart := asciigraph.Plot(m.phases, asciigraph.Height(4), asciigraph.Width(30),
			asciigraph.LowerBound(0), asciigraph.UpperBound(1), asciigraph.Caption("Flow phase"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("←→↑↓:Hover Esc:Clear SP:Pause\nA:Rotate T:Theme ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle(th).Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  ←/→ h/l  - Previous/next layer      ║
║  ↑/↓ k/j  - Previous/next neuron     ║
║  Mouse    - Hover neuron             ║
║  Esc      - Clear hover              ║
║  Space    - Pause flow               ║
║  A        - Toggle auto rotation     ║
║  X/Y      - Pitch/yaw                ║
║  +/-      - Zoom                     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run hosts sc in a full-screen terminal program until the user quits.
func Run(sc *scene.Scene, opts Options) error {
	p := tea.NewProgram(NewModel(sc, opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	if sc.Mounted() {
		sc.Unmount()
	}
	return err
}
