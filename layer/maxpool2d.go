package layer

import (
	"math"

	"github.com/agrovision/multispect/tensor"
)

// MaxPool2D halves (for kernel 2, stride 2) the spatial resolution of a
// tensor by taking the maximum over each kernel window.
type MaxPool2D struct {
	Kernel int
	Stride int
}

// Forward computes the max pooling of x.
func (p MaxPool2D) Forward(x *tensor.Tensor) *tensor.Tensor {
	outH := (x.H - p.Kernel) / p.Stride + 1
	outW := (x.W - p.Kernel) / p.Stride + 1
	out := tensor.New(x.N, x.C, outH, outW)
	for n := 0; n < x.N; n++ {
		for c := 0; c < x.C; c++ {
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					best := math.Inf(-1)
					for ky := 0; ky < p.Kernel; ky++ {
						for kx := 0; kx < p.Kernel; kx++ {
							if v := x.At(n, c, oy*p.Stride+ky, ox*p.Stride+kx); v > best {
								best = v
							}
						}
					}
					out.Set(n, c, oy, ox, best)
				}
			}
		}
	}
	return out
}

// ReLU zeroes negative activations.
type ReLU struct{}

// Forward computes max(0, x) elementwise.
func (ReLU) Forward(x *tensor.Tensor) *tensor.Tensor {
	out := tensor.New(x.N, x.C, x.H, x.W)
	for i, v := range x.Data {
		if v > 0 {
			out.Data[i] = v
		}
	}
	return out
}
