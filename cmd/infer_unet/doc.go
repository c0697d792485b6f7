// Package main provides a demo program for running the segmentation network
// over one dataset sample. The RGB raster and the four spectral channels are
// stacked into a seven-channel tensor, cropped so the spatial dimensions are
// divisible by 16, and pushed through the network; the resulting per-pixel
// class histogram is printed.
package main
