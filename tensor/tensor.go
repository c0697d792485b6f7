// Package tensor implements the NCHW float64 tensor consumed by the network.
package tensor

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense rank-4 tensor in NCHW layout.
type Tensor struct {
	N, C, H, W int
	Data       []float64
}

// New allocates a zero tensor of the given shape.
func New(n, c, h, w int) *Tensor {
	if n <= 0 || c <= 0 || h <= 0 || w <= 0 {
		panic(fmt.Sprintf("tensor: invalid shape (%d,%d,%d,%d)", n, c, h, w))
	}
	return &Tensor{N: n, C: c, H: h, W: w, Data: make([]float64, n*c*h*w)}
}

// At returns the element at batch n, channel c, row y, column x.
func (t *Tensor) At(n, c, y, x int) float64 {
	return t.Data[((n*t.C+c)*t.H+y)*t.W+x]
}

// Set stores v at batch n, channel c, row y, column x.
func (t *Tensor) Set(n, c, y, x int, v float64) {
	t.Data[((n*t.C+c)*t.H+y)*t.W+x] = v
}

// Dims returns the tensor shape.
func (t *Tensor) Dims() (n, c, h, w int) {
	return t.N, t.C, t.H, t.W
}

// Concat joins two tensors along the channel axis. Batch and spatial
// dimensions must agree.
func Concat(a, b *Tensor) *Tensor {
	if a.N != b.N || a.H != b.H || a.W != b.W {
		panic(fmt.Sprintf("tensor: concat shape mismatch (%d,%d,%d,%d) vs (%d,%d,%d,%d)",
			a.N, a.C, a.H, a.W, b.N, b.C, b.H, b.W))
	}
	out := New(a.N, a.C+b.C, a.H, a.W)
	plane := a.H * a.W
	for n := 0; n < a.N; n++ {
		copy(out.Data[n*out.C*plane:], a.Data[n*a.C*plane:(n+1)*a.C*plane])
		copy(out.Data[(n*out.C+a.C)*plane:], b.Data[n*b.C*plane:(n+1)*b.C*plane])
	}
	return out
}

// Im2Col unrolls the kernel-sized patches of batch element n into a
// (C*kh*kw) x (outH*outW) matrix, with zero padding pad and the given stride.
// Multiplying a (outChannels)x(C*kh*kw) weight matrix by the result computes a
// convolution as a single matrix product.
func (t *Tensor) Im2Col(n, kh, kw, stride, pad int) *mat.Dense {
	outH := (t.H+2*pad-kh)/stride + 1
	outW := (t.W+2*pad-kw)/stride + 1
	m := mat.NewDense(t.C*kh*kw, outH*outW, nil)
	for c := 0; c < t.C; c++ {
		for ky := 0; ky < kh; ky++ {
			for kx := 0; kx < kw; kx++ {
				row := (c*kh+ky)*kw + kx
				for oy := 0; oy < outH; oy++ {
					sy := oy*stride + ky - pad
					for ox := 0; ox < outW; ox++ {
						sx := ox*stride + kx - pad
						var v float64
						if sy >= 0 && sy < t.H && sx >= 0 && sx < t.W {
							v = t.At(n, c, sy, sx)
						}
						m.Set(row, oy*outW+ox, v)
					}
				}
			}
		}
	}
	return m
}

// FromImages stacks an RGB raster and any number of grayscale rasters into a
// single-batch tensor with 3+len(bands) channels, scaling pixels to [0, 1].
// All rasters must share the same dimensions.
func FromImages(rgb *image.NRGBA, bands []*image.Gray) *Tensor {
	b := rgb.Bounds()
	w, h := b.Dx(), b.Dy()
	for i, band := range bands {
		bb := band.Bounds()
		if bb.Dx() != w || bb.Dy() != h {
			panic(fmt.Sprintf("tensor: band %d is %dx%d, rgb is %dx%d", i, bb.Dx(), bb.Dy(), w, h))
		}
	}
	out := New(1, 3+len(bands), h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := rgb.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			out.Set(0, 0, y, x, float64(px.R)/255)
			out.Set(0, 1, y, x, float64(px.G)/255)
			out.Set(0, 2, y, x, float64(px.B)/255)
		}
	}
	for i, band := range bands {
		bb := band.Bounds()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Set(0, 3+i, y, x, float64(band.GrayAt(bb.Min.X+x, bb.Min.Y+y).Y)/255)
			}
		}
	}
	return out
}
