// Package unet implements a four-level encoder-decoder segmentation network
// with skip connections.
package unet

import (
	"math/rand"

	"github.com/agrovision/multispect/layer"
	"github.com/agrovision/multispect/tensor"
)

// DoubleConv applies two 3x3 convolutions, each followed by a ReLU. Spatial
// dimensions are preserved.
type DoubleConv struct {
	conv1, conv2 *layer.Conv2D
}

// NewDoubleConv creates a DoubleConv block mapping in channels to out channels.
func NewDoubleConv(in, out int, rng *rand.Rand) *DoubleConv {
	return &DoubleConv{
		conv1: layer.NewConv2D(in, out, 3, 1, 1, rng),
		conv2: layer.NewConv2D(out, out, 3, 1, 1, rng),
	}
}

// Forward computes the block output.
func (d *DoubleConv) Forward(x *tensor.Tensor) *tensor.Tensor {
	relu := layer.ReLU{}
	x = relu.Forward(d.conv1.Forward(x))
	return relu.Forward(d.conv2.Forward(x))
}

// Downsample is one contracting stage: a DoubleConv followed by 2x2 max
// pooling. It returns both the pre-pool feature map, which feeds the matching
// skip connection, and the pooled map, which feeds the next stage.
type Downsample struct {
	conv *DoubleConv
	pool layer.MaxPool2D
}

// NewDownsample creates a contracting stage mapping in channels to out channels.
func NewDownsample(in, out int, rng *rand.Rand) *Downsample {
	return &Downsample{
		conv: NewDoubleConv(in, out, rng),
		pool: layer.MaxPool2D{Kernel: 2, Stride: 2},
	}
}

// Forward computes the stage output.
func (d *Downsample) Forward(x *tensor.Tensor) (skip, pooled *tensor.Tensor) {
	skip = d.conv.Forward(x)
	return skip, d.pool.Forward(skip)
}

// Upsample is one expanding stage: a 2x2-stride transposed convolution that
// doubles the spatial resolution and halves the channel count, a channel-wise
// concatenation with the matching skip map, and a DoubleConv.
type Upsample struct {
	up   *layer.ConvTranspose2D
	conv *DoubleConv
}

// NewUpsample creates an expanding stage mapping in channels to out channels.
func NewUpsample(in, out int, rng *rand.Rand) *Upsample {
	return &Upsample{
		up:   layer.NewConvTranspose2D(in, in/2, 2, 2, rng),
		conv: NewDoubleConv(in, out, rng),
	}
}

// Forward computes the stage output from the previous stage's map and the
// skip map of the mirrored contracting stage.
func (u *Upsample) Forward(x, skip *tensor.Tensor) *tensor.Tensor {
	x = u.up.Forward(x)
	return u.conv.Forward(tensor.Concat(x, skip))
}

// UNet is the full network: four contracting stages with widths 64, 128, 256
// and 512, a 1024-channel bottleneck, four mirrored expanding stages, and a
// final 1x1 projection to the output class channels.
type UNet struct {
	down       [4]*Downsample
	bottleneck *DoubleConv
	up         [4]*Upsample
	out        *layer.Conv2D
}

// New creates a UNet with a fixed weight-initialization seed.
func New(inChannels, outChannels int) *UNet {
	return NewSeeded(inChannels, outChannels, 1)
}

// NewSeeded creates a UNet whose weights are initialized from the seed, so
// two networks built with the same arguments are identical.
func NewSeeded(inChannels, outChannels int, seed int64) *UNet {
	rng := rand.New(rand.NewSource(seed))
	n := &UNet{}
	widths := [4]int{64, 128, 256, 512}
	in := inChannels
	for i, w := range widths {
		n.down[i] = NewDownsample(in, w, rng)
		in = w
	}
	n.bottleneck = NewDoubleConv(512, 1024, rng)
	for i, w := range [4]int{512, 256, 128, 64} {
		n.up[i] = NewUpsample(w*2, w, rng)
	}
	n.out = layer.NewConv2D(64, outChannels, 1, 1, 0, rng)
	return n
}

// Forward runs the network. The input spatial dimensions must be divisible by
// 16 so the four poolings and four upsamplings round-trip exactly; the
// output has the same batch and spatial dimensions with the configured number
// of class channels.
func (n *UNet) Forward(x *tensor.Tensor) *tensor.Tensor {
	var skips [4]*tensor.Tensor
	for i := 0; i < 4; i++ {
		skips[i], x = n.down[i].Forward(x)
	}
	x = n.bottleneck.Forward(x)
	for i := 0; i < 4; i++ {
		x = n.up[i].Forward(x, skips[3-i])
	}
	return n.out.Forward(x)
}

// params lists every parametric layer in a fixed traversal order. Weight
// persistence depends on this order being stable.
func (n *UNet) params() (out []layer.Parametric) {
	for _, d := range n.down {
		out = append(out, d.conv.conv1, d.conv.conv2)
	}
	out = append(out, n.bottleneck.conv1, n.bottleneck.conv2)
	for _, u := range n.up {
		out = append(out, u.up, u.conv.conv1, u.conv.conv2)
	}
	return append(out, n.out)
}
