// Package inference turns network activations into per-pixel class maps.
package inference

import "github.com/agrovision/multispect/tensor"

// Model is the forward interface of a segmentation network.
type Model interface {
	Forward(x *tensor.Tensor) *tensor.Tensor
}

// ClassMap reduces the channel axis of batch element n to the index of the
// strongest activation per pixel.
func ClassMap(t *tensor.Tensor, n int) [][]int {
	out := make([][]int, t.H)
	for y := 0; y < t.H; y++ {
		out[y] = make([]int, t.W)
		for x := 0; x < t.W; x++ {
			best := 0
			for c := 1; c < t.C; c++ {
				if t.At(n, c, y, x) > t.At(n, best, y, x) {
					best = c
				}
			}
			out[y][x] = best
		}
	}
	return out
}

// Segment runs the model on x and returns the class map of the first batch
// element.
func Segment(m Model, x *tensor.Tensor) [][]int {
	return ClassMap(m.Forward(x), 0)
}
