package scene_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neuroviz/internal/anim"
	"github.com/san-kum/neuroviz/internal/connect"
	"github.com/san-kum/neuroviz/internal/hover"
	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
)

func alphaNetwork() *netmodel.Network {
	return netmodel.MustNew([]netmodel.LayerConfig{
		{Name: "Input Layer", NeuronCount: 8, Color: "#00FF88",
			Features: []string{"Price", "Volume", "RSI", "MACD", "SMA", "Volatility", "Momentum", "News Sentiment"}},
		{Name: "Hidden Layer 1", NeuronCount: 12, Color: "#00FFFF"},
		{Name: "Hidden Layer 2", NeuronCount: 6, Color: "#9D00FF"},
		{Name: "Output Layer", NeuronCount: 3, Color: "#FF00FF", Features: []string{"Buy", "Hold", "Sell"}},
	})
}

var _ = Describe("Scene", func() {
	var (
		net *netmodel.Network
		s   *scene.Scene
	)

	BeforeEach(func() {
		net = alphaNetwork()
		s = scene.New(net, scene.DefaultOptions())
	})

	Describe("static geometry", func() {
		It("places the four layers at -6, -2, 2, 6", func() {
			lay := s.Layout()
			xs := []float64{}
			for _, layer := range lay.Positions {
				xs = append(xs, layer[0].X)
			}
			Expect(xs).To(Equal([]float64{-6, -2, 2, 6}))
		})

		It("only connects adjacent layers", func() {
			pairs := s.Connections()
			Expect(pairs).To(HaveLen(net.Len() - 1))
			for i, p := range pairs {
				for _, e := range p {
					Expect(e.SourceLayer).To(Equal(i))
					Expect(e.TargetLayer).To(Equal(i + 1))
				}
			}
		})

		It("reports model stats", func() {
			st := s.Stats()
			Expect(st.Neurons).To(Equal(29))
			Expect(st.Connections).To(Equal(connect.Count(s.Connections())))
		})
	})

	Describe("lifecycle", func() {
		It("refuses frames and pointer events before mount", func() {
			_, err := s.Tick(0.016)
			Expect(err).To(MatchError(scene.ErrNotMounted))
			Expect(s.PointerEnter(0, 0)).To(MatchError(scene.ErrNotMounted))
			Expect(s.PointerLeave()).To(MatchError(scene.ErrNotMounted))
		})

		It("resets the clock and hover state on unmount", func() {
			s.Mount()
			_, err := s.Tick(0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.PointerEnter(1, 3)).To(Succeed())
			Expect(s.Phase()).To(BeNumerically(">", 0))

			s.Unmount()
			Expect(s.Mounted()).To(BeFalse())
			Expect(s.Phase()).To(BeZero())
			Expect(s.Hover()).To(Equal(hover.None()))

			s.Mount()
			f, err := s.Tick(0)
			Expect(err).NotTo(HaveOccurred())
			_, ok := f.Highlighted()
			Expect(ok).To(BeFalse())
			for _, c := range f.Cards {
				Expect(c.Selected).To(BeFalse())
			}
		})

		It("does not subscribe observers twice across remounts", func() {
			calls := 0
			s.Observe(hover.ObserverFunc(func(hover.State) { calls++ }))
			s.Mount()
			Expect(s.PointerEnter(0, 0)).To(Succeed())
			s.Unmount()
			s.Unmount()

			s.Mount()
			Expect(s.PointerLeave()).To(Succeed())
			Expect(calls).To(Equal(2))
		})

		It("defers teardown requested from inside a notification", func() {
			s.Observe(hover.ObserverFunc(func(st hover.State) {
				if st.Active {
					s.Unmount()
				}
			}))
			s.Mount()
			Expect(s.PointerEnter(2, 1)).To(Succeed())
			Expect(s.Mounted()).To(BeFalse())
			Expect(s.Hover()).To(Equal(hover.None()))
		})

		It("tears down even when a frame panics", func() {
			s.Observe(hover.ObserverFunc(func(st hover.State) {
				if st.Active && st.Neuron.Index == 1 {
					s.Unmount()
					panic("renderer lost")
				}
			}))
			s.Mount()
			Expect(func() { _ = s.PointerEnter(0, 1) }).To(PanicWith("renderer lost"))
			Expect(s.Mounted()).To(BeFalse())
		})
	})

	Describe("hover", func() {
		BeforeEach(func() {
			s.Mount()
		})

		AfterEach(func() {
			s.Unmount()
		})

		It("rejects neurons outside the network", func() {
			Expect(s.PointerEnter(3, 3)).To(MatchError(scene.ErrNeuronOutOfRange))
			Expect(s.PointerEnter(4, 0)).To(MatchError(scene.ErrNeuronOutOfRange))
			Expect(s.PointerEnter(-1, 0)).To(MatchError(scene.ErrNeuronOutOfRange))
			Expect(s.Hover()).To(Equal(hover.None()))
		})

		It("highlights the hovered neuron from the next frame on", func() {
			Expect(s.PointerEnter(3, 2)).To(Succeed())
			f, err := s.Tick(1.0 / 60)
			Expect(err).NotTo(HaveOccurred())

			n, ok := f.Highlighted()
			Expect(ok).To(BeTrue())
			Expect(n.ID).To(Equal(netmodel.NeuronID{Layer: 3, Index: 2}))
			Expect(n.Emissive).To(Equal(netmodel.HighlightEmissive))
			Expect(n.Feature).To(Equal("Sell"))

			highlighted := 0
			for _, nv := range f.Neurons {
				if nv.Highlighted {
					highlighted++
				} else {
					Expect(nv.Emissive).To(Equal(netmodel.BaselineEmissive))
				}
			}
			Expect(highlighted).To(Equal(1))

			Expect(f.Cards[3].Selected).To(BeTrue())
			Expect(f.Cards[3].Feature).To(Equal("Sell"))
			Expect(f.Hover).To(Equal(hover.At(3, 2)))
		})

		It("keeps only the last hovered neuron", func() {
			Expect(s.PointerEnter(1, 2)).To(Succeed())
			Expect(s.PointerEnter(0, 3)).To(Succeed())
			f, _ := s.Tick(0)

			n, ok := f.Highlighted()
			Expect(ok).To(BeTrue())
			Expect(n.ID).To(Equal(netmodel.NeuronID{Layer: 0, Index: 3}))
			Expect(n.Feature).To(Equal("MACD"))
			Expect(f.Cards[1].Selected).To(BeFalse())
			Expect(f.Cards[0].Selected).To(BeTrue())
		})

		It("shows no feature text for layers without features", func() {
			Expect(s.PointerEnter(1, 5)).To(Succeed())
			f, _ := s.Tick(0)
			n, _ := f.Highlighted()
			Expect(n.Feature).To(BeEmpty())
			Expect(f.Cards[1].Selected).To(BeTrue())
			Expect(f.Cards[1].HasFeature).To(BeFalse())
		})

		It("calls the layer and neuron hooks once per transition", func() {
			var layers []int
			var neurons []hover.State
			s.Observe(hover.Hooks{
				OnLayerHover:  func(l int, _ bool) { layers = append(layers, l) },
				OnNeuronHover: func(st hover.State) { neurons = append(neurons, st) },
			})

			Expect(s.PointerEnter(1, 2)).To(Succeed())
			Expect(s.PointerLeave()).To(Succeed())

			Expect(layers).To(Equal([]int{1, -1}))
			Expect(neurons).To(Equal([]hover.State{hover.At(1, 2), hover.None()}))
		})

		It("applies transitions raised by an observer", func() {
			s.Observe(hover.ObserverFunc(func(st hover.State) {
				if st.Is(netmodel.NeuronID{Layer: 2, Index: 0}) {
					_ = s.PointerEnter(2, 5)
				}
			}))
			Expect(s.PointerEnter(2, 0)).To(Succeed())
			Expect(s.Hover()).To(Equal(hover.At(2, 5)))
		})
	})

	Describe("particles", func() {
		BeforeEach(func() {
			s.Mount()
		})

		It("emits one particle per connection", func() {
			f, err := s.Tick(1.0 / 60)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Particles).To(HaveLen(len(f.Edges)))
			Expect(f.Seq).To(Equal(uint64(1)))
		})

		It("returns to the same positions after one full phase", func() {
			first, _ := s.Tick(0.2)
			opts := s.Options()
			// 1/Rate seconds is exactly one phase unit.
			var last scene.Frame
			for i := 0; i < 4; i++ {
				last, _ = s.Tick(1 / opts.Rate / 4)
			}
			Expect(last.Particles).To(HaveLen(len(first.Particles)))
			for i := range first.Particles {
				a, b := first.Particles[i], last.Particles[i]
				d := math.Abs(a.Progress - b.Progress)
				Expect(math.Min(d, 1-d)).To(BeNumerically("<", 1e-9))
				if a.Progress > 0.01 && a.Progress < 0.99 {
					Expect(a.Pos.Distance(b.Pos)).To(BeNumerically("<", 1e-6))
				}
			}
		})

		It("keeps phase and progress inside [0, 1)", func() {
			for _, dt := range []float64{0.9, 3.7, -1.2, 1e9} {
				f, _ := s.Tick(dt)
				Expect(f.Phase).To(And(BeNumerically(">=", 0), BeNumerically("<", 1)))
				for _, p := range f.Particles {
					Expect(p.Progress).To(And(BeNumerically(">=", 0), BeNumerically("<", 1)))
				}
			}
		})

		It("matches the evaluator for every edge", func() {
			f, _ := s.Tick(0.3)
			for i, p := range f.Particles {
				e := f.Edges[i]
				want := anim.Position(f.Phase, e.Index, anim.DefaultEdgeOffset, e.From, e.To)
				Expect(p.Pos.Distance(want)).To(BeNumerically("<", 1e-12))
			}
		})
	})
})
