package layer

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/agrovision/multispect/tensor"
)

// Conv2D is a 2D convolution over NCHW tensors. The weight is stored as an
// (outChannels) x (inChannels*kernel*kernel) matrix so the forward pass is a
// single matrix product against the im2col expansion of the input.
type Conv2D struct {
	InChannels  int
	OutChannels int
	Kernel      int
	Stride      int
	Pad         int
	Weight      []float64
	Bias        []float64
}

// NewConv2D creates a convolution layer with He-initialized weights drawn
// from rng.
func NewConv2D(in, out, kernel, stride, pad int, rng *rand.Rand) *Conv2D {
	c := &Conv2D{
		InChannels:  in,
		OutChannels: out,
		Kernel:      kernel,
		Stride:      stride,
		Pad:         pad,
		Weight:      make([]float64, out*in*kernel*kernel),
		Bias:        make([]float64, out),
	}
	std := math.Sqrt(2 / float64(in*kernel*kernel))
	for i := range c.Weight {
		c.Weight[i] = rng.NormFloat64() * std
	}
	return c
}

// Forward computes the convolution of x.
func (c *Conv2D) Forward(x *tensor.Tensor) *tensor.Tensor {
	outH := (x.H+2*c.Pad-c.Kernel)/c.Stride + 1
	outW := (x.W+2*c.Pad-c.Kernel)/c.Stride + 1
	out := tensor.New(x.N, c.OutChannels, outH, outW)

	weight := mat.NewDense(c.OutChannels, c.InChannels*c.Kernel*c.Kernel, c.Weight)
	var prod mat.Dense
	for n := 0; n < x.N; n++ {
		cols := x.Im2Col(n, c.Kernel, c.Kernel, c.Stride, c.Pad)
		prod.Mul(weight, cols)
		for oc := 0; oc < c.OutChannels; oc++ {
			row := prod.RawRowView(oc)
			base := ((n*c.OutChannels + oc) * outH) * outW
			for i, v := range row {
				out.Data[base+i] = v + c.Bias[oc]
			}
		}
	}
	return out
}

// Params returns the weight and bias slices.
func (c *Conv2D) Params() [][]float64 {
	return [][]float64{c.Weight, c.Bias}
}
