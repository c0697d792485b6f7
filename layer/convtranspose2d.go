package layer

import (
	"math"
	"math/rand"

	"github.com/agrovision/multispect/tensor"
)

// ConvTranspose2D is a learned upsampling layer. With kernel 2 and stride 2
// every input pixel expands into a 2x2 output block, doubling the spatial
// resolution.
type ConvTranspose2D struct {
	InChannels  int
	OutChannels int
	Kernel      int
	Stride      int
	// Weight is laid out (in, out, ky, kx), matching the transposed role of
	// the input and output channels.
	Weight []float64
	Bias   []float64
}

// NewConvTranspose2D creates a transposed convolution layer with
// He-initialized weights drawn from rng.
func NewConvTranspose2D(in, out, kernel, stride int, rng *rand.Rand) *ConvTranspose2D {
	c := &ConvTranspose2D{
		InChannels:  in,
		OutChannels: out,
		Kernel:      kernel,
		Stride:      stride,
		Weight:      make([]float64, in*out*kernel*kernel),
		Bias:        make([]float64, out),
	}
	std := math.Sqrt(2 / float64(in))
	for i := range c.Weight {
		c.Weight[i] = rng.NormFloat64() * std
	}
	return c
}

// Forward computes the transposed convolution of x.
func (c *ConvTranspose2D) Forward(x *tensor.Tensor) *tensor.Tensor {
	outH := (x.H-1)*c.Stride + c.Kernel
	outW := (x.W-1)*c.Stride + c.Kernel
	out := tensor.New(x.N, c.OutChannels, outH, outW)

	for n := 0; n < x.N; n++ {
		for oc := 0; oc < c.OutChannels; oc++ {
			base := ((n*c.OutChannels + oc) * outH) * outW
			for i := 0; i < outH*outW; i++ {
				out.Data[base+i] = c.Bias[oc]
			}
		}
		for ic := 0; ic < c.InChannels; ic++ {
			for y := 0; y < x.H; y++ {
				for xx := 0; xx < x.W; xx++ {
					v := x.At(n, ic, y, xx)
					if v == 0 {
						continue
					}
					oy, ox := y*c.Stride, xx*c.Stride
					for oc := 0; oc < c.OutChannels; oc++ {
						base := ((n*c.OutChannels + oc) * outH) * outW
						wBase := ((ic*c.OutChannels + oc) * c.Kernel) * c.Kernel
						for ky := 0; ky < c.Kernel; ky++ {
							row := base + (oy+ky)*outW + ox
							for kx := 0; kx < c.Kernel; kx++ {
								out.Data[row+kx] += v * c.Weight[wBase+ky*c.Kernel+kx]
							}
						}
					}
				}
			}
		}
	}
	return out
}

// Params returns the weight and bias slices.
func (c *ConvTranspose2D) Params() [][]float64 {
	return [][]float64{c.Weight, c.Bias}
}
