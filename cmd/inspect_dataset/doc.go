// Package main provides a demo program for assembling a multispectral dataset
// partition. It loads every matched RGB/spectral file-set in parallel, reports
// the sample count and raster dimensions, and prints a deterministic
// fingerprint of the materialized data.
package main
