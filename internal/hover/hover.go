// Package hover holds the single shared hover cell of the visualization.
//
// A [Router] stores at most one hovered neuron and synchronously notifies
// every subscribed [Observer] on each transition. There is no queue: a new
// Enter while a neuron is already hovered replaces it. The router is meant to
// be driven from the one goroutine that owns the scene and is not safe for
// concurrent use.
package hover

import "github.com/san-kum/neuroviz/internal/netmodel"

// State is either no hover, or a hover over one neuron.
type State struct {
	Active bool              `json:"active"`
	Neuron netmodel.NeuronID `json:"neuron"`
}

// None returns the empty hover state.
func None() State { return State{} }

// At returns the hover state for neuron n of layer l.
func At(l, n int) State {
	return State{Active: true, Neuron: netmodel.NeuronID{Layer: l, Index: n}}
}

// Layer returns the hovered layer index, if any.
func (s State) Layer() (int, bool) {
	return s.Neuron.Layer, s.Active
}

// Is reports whether id is the hovered neuron.
func (s State) Is(id netmodel.NeuronID) bool {
	return s.Active && s.Neuron == id
}

func (s State) String() string {
	if !s.Active {
		return "none"
	}
	return s.Neuron.String()
}

// Observer is notified on every hover transition.
type Observer interface {
	OnHover(State)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(State)

func (f ObserverFunc) OnHover(s State) { f(s) }

type subscription struct {
	id  int
	obs Observer
}

// Router is the observable hover cell.
type Router struct {
	state  State
	subs   []subscription
	nextID int
}

func NewRouter() *Router {
	return &Router{}
}

// State returns the current hover state.
func (r *Router) State() State { return r.state }

// Enter makes neuron n of layer l the hovered neuron and notifies observers.
func (r *Router) Enter(l, n int) {
	r.set(At(l, n))
}

// Leave clears the hover and notifies observers.
func (r *Router) Leave() {
	r.set(None())
}

// Apply sets s and notifies observers.
func (r *Router) Apply(s State) {
	r.set(s)
}

func (r *Router) set(s State) {
	r.state = s
	subs := make([]subscription, len(r.subs))
	copy(subs, r.subs)
	for _, sub := range subs {
		sub.obs.OnHover(s)
	}
}

// Subscribe registers o and returns a function that removes it. Calling the
// returned function more than once is a no-op.
func (r *Router) Subscribe(o Observer) (unsubscribe func()) {
	if o == nil {
		panic("hover: nil observer")
	}
	id := r.nextID
	r.nextID++
	r.subs = append(r.subs, subscription{id: id, obs: o})
	return func() {
		for i, sub := range r.subs {
			if sub.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// Observers returns the number of subscribed observers.
func (r *Router) Observers() int { return len(r.subs) }

// Reset clears the hover without notifying observers.
func (r *Router) Reset() { r.state = None() }

// Hooks are the two output callbacks consumed by a side panel. Either may be nil.
type Hooks struct {
	OnLayerHover  func(layer int, ok bool)
	OnNeuronHover func(State)
}

// OnHover invokes both hooks once for the transition to s.
func (h Hooks) OnHover(s State) {
	if h.OnLayerHover != nil {
		l, ok := s.Layer()
		if !ok {
			l = -1
		}
		h.OnLayerHover(l, ok)
	}
	if h.OnNeuronHover != nil {
		h.OnNeuronHover(s)
	}
}
