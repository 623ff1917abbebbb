package hover

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/neuroviz/internal/netmodel"
)

type recorder struct {
	states []State
}

func (r *recorder) OnHover(s State) { r.states = append(r.states, s) }

func TestRouter_EnterLeave(t *testing.T) {
	g := NewWithT(t)
	r := NewRouter()
	g.Expect(r.State()).To(Equal(None()))

	r.Enter(1, 2)
	g.Expect(r.State()).To(Equal(At(1, 2)))

	r.Leave()
	g.Expect(r.State().Active).To(BeFalse())
}

func TestRouter_LastWriteWins(t *testing.T) {
	g := NewWithT(t)
	r := NewRouter()
	rec := &recorder{}
	r.Subscribe(rec)

	r.Enter(1, 2)
	r.Enter(0, 3)

	g.Expect(r.State()).To(Equal(At(0, 3)))
	g.Expect(r.State().Is(netmodel.NeuronID{Layer: 1, Index: 2})).To(BeFalse())
	g.Expect(rec.states).To(Equal([]State{At(1, 2), At(0, 3)}))
}

func TestRouter_NotifiesAllObservers(t *testing.T) {
	g := NewWithT(t)
	r := NewRouter()
	a, b := &recorder{}, &recorder{}
	r.Subscribe(a)
	r.Subscribe(b)

	r.Enter(2, 0)
	r.Leave()

	g.Expect(a.states).To(HaveLen(2))
	g.Expect(b.states).To(Equal(a.states))
	g.Expect(b.states[1]).To(Equal(None()))
}

func TestRouter_Unsubscribe(t *testing.T) {
	g := NewWithT(t)
	r := NewRouter()
	rec := &recorder{}
	unsub := r.Subscribe(rec)
	other := r.Subscribe(ObserverFunc(func(State) {}))
	g.Expect(r.Observers()).To(Equal(2))

	unsub()
	unsub()
	g.Expect(r.Observers()).To(Equal(1))

	r.Enter(0, 0)
	g.Expect(rec.states).To(BeEmpty())

	other()
	g.Expect(r.Observers()).To(BeZero())
}

func TestRouter_UnsubscribeDuringNotify(t *testing.T) {
	g := NewWithT(t)
	r := NewRouter()
	var unsub func()
	calls := 0
	unsub = r.Subscribe(ObserverFunc(func(State) {
		calls++
		unsub()
	}))
	after := &recorder{}
	r.Subscribe(after)

	r.Enter(0, 1)
	r.Enter(0, 2)

	g.Expect(calls).To(Equal(1))
	g.Expect(after.states).To(HaveLen(2))
}

func TestRouter_Reset(t *testing.T) {
	g := NewWithT(t)
	r := NewRouter()
	rec := &recorder{}
	r.Subscribe(rec)
	r.Enter(3, 3)

	r.Reset()
	g.Expect(r.State()).To(Equal(None()))
	g.Expect(rec.states).To(HaveLen(1))
}

func TestRouter_SubscribeNilPanics(t *testing.T) {
	g := NewWithT(t)
	g.Expect(func() { NewRouter().Subscribe(nil) }).To(Panic())
}

func TestHooks_EachTransitionCallsBothOnce(t *testing.T) {
	g := NewWithT(t)
	r := NewRouter()

	var layers []int
	var layerOK []bool
	var neurons []State
	r.Subscribe(Hooks{
		OnLayerHover: func(l int, ok bool) {
			layers = append(layers, l)
			layerOK = append(layerOK, ok)
		},
		OnNeuronHover: func(s State) { neurons = append(neurons, s) },
	})

	r.Enter(1, 2)
	g.Expect(layers).To(Equal([]int{1}))
	g.Expect(neurons).To(Equal([]State{At(1, 2)}))

	r.Leave()
	g.Expect(layers).To(Equal([]int{1, -1}))
	g.Expect(layerOK).To(Equal([]bool{true, false}))
	g.Expect(neurons).To(Equal([]State{At(1, 2), None()}))
}

func TestHooks_NilCallbacks(t *testing.T) {
	g := NewWithT(t)
	g.Expect(func() { Hooks{}.OnHover(At(0, 0)) }).NotTo(Panic())
}

func TestState_String(t *testing.T) {
	g := NewWithT(t)
	g.Expect(None().String()).To(Equal("none"))
	g.Expect(At(1, 2).String()).To(Equal("1:2"))
}
