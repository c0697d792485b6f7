package layer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrovision/multispect/tensor"
)

func TestConv2DShape(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	c := NewConv2D(3, 8, 3, 1, 1, rng)
	out := c.Forward(tensor.New(2, 3, 16, 16))
	n, ch, h, w := out.Dims()
	assert.Equal(t, [4]int{2, 8, 16, 16}, [4]int{n, ch, h, w})
}

func TestConv2DIdentityKernel(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	c := NewConv2D(1, 1, 3, 1, 1, rng)
	for i := range c.Weight {
		c.Weight[i] = 0
	}
	c.Weight[4] = 1 // center tap
	c.Bias[0] = 0.5

	x := tensor.New(1, 1, 4, 4)
	for i := range x.Data {
		x.Data[i] = float64(i)
	}
	out := c.Forward(x)
	for i, v := range x.Data {
		assert.InDelta(t, v+0.5, out.Data[i], 1e-12)
	}
}

func TestConvTranspose2DShape(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	c := NewConvTranspose2D(8, 4, 2, 2, rng)
	out := c.Forward(tensor.New(1, 8, 5, 7))
	n, ch, h, w := out.Dims()
	assert.Equal(t, [4]int{1, 4, 10, 14}, [4]int{n, ch, h, w})
}

func TestConvTranspose2DBlocks(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	c := NewConvTranspose2D(1, 1, 2, 2, rng)
	copy(c.Weight, []float64{1, 2, 3, 4})
	c.Bias[0] = 0

	x := tensor.New(1, 1, 2, 2)
	x.Set(0, 0, 0, 0, 1)
	x.Set(0, 0, 1, 1, 2)

	out := c.Forward(x)
	assert.Equal(t, 1.0, out.At(0, 0, 0, 0))
	assert.Equal(t, 2.0, out.At(0, 0, 0, 1))
	assert.Equal(t, 3.0, out.At(0, 0, 1, 0))
	assert.Equal(t, 4.0, out.At(0, 0, 1, 1))
	assert.Equal(t, 2.0, out.At(0, 0, 2, 2))
	assert.Equal(t, 8.0, out.At(0, 0, 3, 3))
	assert.Equal(t, 0.0, out.At(0, 0, 0, 2))
}

func TestMaxPool2D(t *testing.T) {
	t.Parallel()

	x := tensor.New(1, 1, 4, 4)
	for i := range x.Data {
		x.Data[i] = float64(i)
	}
	out := MaxPool2D{Kernel: 2, Stride: 2}.Forward(x)
	n, c, h, w := out.Dims()
	assert.Equal(t, [4]int{1, 1, 2, 2}, [4]int{n, c, h, w})
	assert.Equal(t, 5.0, out.At(0, 0, 0, 0))
	assert.Equal(t, 15.0, out.At(0, 0, 1, 1))
}

func TestReLU(t *testing.T) {
	t.Parallel()

	x := tensor.New(1, 1, 1, 3)
	x.Data[0], x.Data[1], x.Data[2] = -1, 0, 2
	out := ReLU{}.Forward(x)
	assert.Equal(t, []float64{0, 0, 2}, out.Data)
}
