package scene

import (
	"fmt"

	"github.com/san-kum/neuroviz/internal/anim"
	"github.com/san-kum/neuroviz/internal/connect"
	"github.com/san-kum/neuroviz/internal/hover"
	"github.com/san-kum/neuroviz/internal/layout"
	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/panel"
)

// Options tunes the geometry and animation of a scene.
type Options struct {
	Spacing    layout.Spacing
	Rate       float64
	EdgeOffset float64
}

func DefaultOptions() Options {
	return Options{
		Spacing:    layout.DefaultSpacing(),
		Rate:       anim.DefaultRate,
		EdgeOffset: anim.DefaultEdgeOffset,
	}
}

// highlighter is the scene-side hover observer.
type highlighter struct {
	current hover.State
}

func (h *highlighter) OnHover(s hover.State) { h.current = s }

type Scene struct {
	net     *netmodel.Network
	opts    Options
	lay     *layout.Layout
	pairs   [][]connect.Connection
	edges   []EdgeView
	neurons []NeuronView

	clock   *anim.Clock
	router  *hover.Router
	light   *highlighter
	binding *panel.Binding

	observers []hover.Observer
	unsubs    []func()

	pending         *hover.State
	mounted         bool
	busy            bool
	unmountDeferred bool
	seq             uint64
}

// New builds the static geometry of net. The scene starts unmounted.
func New(net *netmodel.Network, opts Options) *Scene {
	s := &Scene{
		net:     net,
		opts:    opts,
		lay:     layout.Compute(net, opts.Spacing),
		pairs:   connect.Generate(net),
		clock:   anim.NewClock(opts.Rate),
		router:  hover.NewRouter(),
		light:   &highlighter{},
		binding: panel.NewBinding(net),
	}

	s.edges = make([]EdgeView, 0, connect.Count(s.pairs))
	for p, edges := range s.pairs {
		for _, e := range edges {
			s.edges = append(s.edges, EdgeView{
				Pair:  p,
				Index: e.Index,
				From:  s.lay.At(e.Source()),
				To:    s.lay.At(e.Target()),
				Color: e.Color,
			})
		}
	}

	s.neurons = make([]NeuronView, 0, net.TotalNeurons())
	for i, layer := range s.lay.Positions {
		color := net.Layer(i).Color
		for j, pos := range layer {
			s.neurons = append(s.neurons, NeuronView{
				ID:       netmodel.NeuronID{Layer: i, Index: j},
				Pos:      pos,
				Color:    color,
				Emissive: netmodel.BaselineEmissive,
			})
		}
	}
	return s
}

// Observe registers an extra hover observer, such as hover.Hooks, that is
// attached while the scene is mounted.
func (s *Scene) Observe(o hover.Observer) {
	s.observers = append(s.observers, o)
	if s.mounted {
		s.unsubs = append(s.unsubs, s.router.Subscribe(o))
	}
}

// Mount attaches the hover observers. Mounting a mounted scene is a no-op.
func (s *Scene) Mount() {
	if s.mounted {
		return
	}
	s.unmountDeferred = false
	s.unsubs = append(s.unsubs, s.router.Subscribe(s.light), s.router.Subscribe(s.binding))
	for _, o := range s.observers {
		s.unsubs = append(s.unsubs, s.router.Subscribe(o))
	}
	s.mounted = true
}

// Unmount detaches every observer and resets the clock and hover state. When
// called during a Tick or a hover notification the teardown runs as that call
// returns.
func (s *Scene) Unmount() {
	if !s.mounted {
		return
	}
	if s.busy {
		s.unmountDeferred = true
		return
	}
	s.teardown()
}

func (s *Scene) teardown() {
	for i := len(s.unsubs) - 1; i >= 0; i-- {
		s.unsubs[i]()
	}
	s.unsubs = nil
	s.pending = nil
	s.router.Reset()
	s.light.OnHover(hover.None())
	s.binding.OnHover(hover.None())
	s.clock.Reset()
	s.seq = 0
	s.mounted = false
	s.unmountDeferred = false
}

// Mounted reports whether the scene is mounted.
func (s *Scene) Mounted() bool { return s.mounted }

// PointerEnter reports the pointer entering neuron n of layer l.
func (s *Scene) PointerEnter(l, n int) error {
	if !s.mounted {
		return ErrNotMounted
	}
	if !s.net.Contains(netmodel.NeuronID{Layer: l, Index: n}) {
		return fmt.Errorf("%w: %d:%d", ErrNeuronOutOfRange, l, n)
	}
	s.transition(hover.At(l, n))
	return nil
}

// PointerLeave reports the pointer leaving the hovered neuron.
func (s *Scene) PointerLeave() error {
	if !s.mounted {
		return ErrNotMounted
	}
	s.transition(hover.None())
	return nil
}

func (s *Scene) transition(st hover.State) {
	if s.busy {
		s.pending = &st
		return
	}
	s.busy = true
	defer s.release()
	s.router.Apply(st)
	s.flushPending()
}

// flushPending applies a transition raised while observers were running.
// Only the last one is kept.
func (s *Scene) flushPending() {
	for s.pending != nil && !s.unmountDeferred {
		st := *s.pending
		s.pending = nil
		s.router.Apply(st)
	}
}

func (s *Scene) release() {
	s.busy = false
	if s.unmountDeferred {
		s.teardown()
	}
}

// Tick advances the scene by elapsed seconds and returns the frame to draw.
func (s *Scene) Tick(elapsed float64) (Frame, error) {
	if !s.mounted {
		return Frame{}, ErrNotMounted
	}
	s.busy = true
	defer s.release()

	phase := s.clock.Advance(elapsed)
	particles := anim.Particles(phase, s.pairs, s.lay, s.opts.EdgeOffset)
	s.flushPending()
	s.seq++
	return s.frame(phase, particles), nil
}

func (s *Scene) frame(phase float64, particles []anim.Particle) Frame {
	neurons := make([]NeuronView, len(s.neurons))
	copy(neurons, s.neurons)
	cur := s.light.current
	if cur.Active {
		for i := range neurons {
			if cur.Is(neurons[i].ID) {
				neurons[i].Highlighted = true
				neurons[i].Emissive = netmodel.HighlightEmissive
				neurons[i].Feature, _ = s.net.Feature(neurons[i].ID)
				break
			}
		}
	}
	edges := make([]EdgeView, len(s.edges))
	copy(edges, s.edges)
	return Frame{
		Seq:       s.seq,
		Phase:     phase,
		Hover:     cur,
		Neurons:   neurons,
		Edges:     edges,
		Particles: particles,
		Cards:     s.binding.Cards(),
	}
}

// Network returns the network drawn by the scene.
func (s *Scene) Network() *netmodel.Network { return s.net }

// Layout returns the neuron positions.
func (s *Scene) Layout() *layout.Layout { return s.lay }

// Connections returns the edges of every layer pair.
func (s *Scene) Connections() [][]connect.Connection { return s.pairs }

// Hover returns the current hover state.
func (s *Scene) Hover() hover.State { return s.router.State() }

// Phase returns the current clock phase.
func (s *Scene) Phase() float64 { return s.clock.Phase() }

// Stats returns the panel header statistics.
func (s *Scene) Stats() panel.Stats { return panel.ComputeStats(s.net, s.pairs) }

// Options returns the options the scene was built with.
func (s *Scene) Options() Options { return s.opts }
