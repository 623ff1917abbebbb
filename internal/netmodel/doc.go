// Package netmodel defines the layered network that the visualization draws.
//
// A [Network] is an ordered, validated, immutable sequence of [LayerConfig]
// values. Layer order is the left-to-right order along the primary axis.
// Neurons are not stored: a neuron is identified by a [NeuronID] and its
// position is derived by the layout package.
//
// # Validation
//
// [New] fails fast on an empty network, a layer with no neurons, a feature
// list whose length differs from the neuron count, or a color that is not a
// hex triplet. Every offending layer is reported, not just the first:
//
//	net, err := netmodel.New(layers)
//	if errors.Is(err, netmodel.ErrFeatureCount) {
//	    // at least one layer has the wrong number of feature labels
//	}
package netmodel
