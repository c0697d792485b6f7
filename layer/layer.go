// Package layer defines the tensor layer interface and the convolutional
// building blocks composed by the network package.
package layer

import "github.com/agrovision/multispect/tensor"

// Layer transforms an input tensor into an output tensor.
type Layer interface {

	// Forward computes the layer output for input x.
	Forward(x *tensor.Tensor) *tensor.Tensor
}

// Parametric is a layer holding learned parameters. Params exposes them in a
// fixed order for weight persistence.
type Parametric interface {
	Layer

	// Params returns the parameter slices of the layer. Writing through the
	// slices updates the layer.
	Params() [][]float64
}
