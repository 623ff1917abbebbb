package scene

import "errors"

var (
	// ErrNotMounted indicates a frame or pointer event on a scene that is not mounted.
	ErrNotMounted = errors.New("scene: not mounted")

	// ErrNeuronOutOfRange indicates a pointer event for a neuron that does not exist.
	ErrNeuronOutOfRange = errors.New("scene: neuron out of range")
)
