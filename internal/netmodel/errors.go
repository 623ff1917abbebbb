package netmodel

import (
	"errors"
	"fmt"
)

// Validation errors returned by New.
var (
	// ErrEmptyNetwork indicates a network with no layers.
	ErrEmptyNetwork = errors.New("netmodel: network has no layers")

	// ErrNeuronCount indicates a layer with fewer than one neuron.
	ErrNeuronCount = errors.New("netmodel: neuron count must be at least 1")

	// ErrFeatureCount indicates a feature list that does not match the neuron count.
	ErrFeatureCount = errors.New("netmodel: feature count does not match neuron count")

	// ErrInvalidColor indicates a layer color that is not a hex color.
	ErrInvalidColor = errors.New("netmodel: invalid layer color")
)

// LayerError wraps a validation error with the layer it was found in.
type LayerError struct {
	Layer   int
	Name    string
	Detail  string
	Wrapped error
}

func (e *LayerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("layer %d (%q): %v: %s", e.Layer, e.Name, e.Wrapped, e.Detail)
	}
	return fmt.Sprintf("layer %d (%q): %v", e.Layer, e.Name, e.Wrapped)
}

func (e *LayerError) Unwrap() error {
	return e.Wrapped
}
