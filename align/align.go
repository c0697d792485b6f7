// Package align implements translation-only image registration. A spectral
// channel raster is registered against a grayscale RGB reference by phase
// correlation, correcting the small sensor-to-sensor pixel offset between the
// RGB and multispectral cameras.
package align

import (
	"image"
	"log"
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
)

// minPeak is the smallest correlation peak accepted as a usable transform.
// A flat or featureless raster produces a peak near 1/(W*H), well below this.
const minPeak = 0.05

// Register estimates the translation (dx, dy) that maps target onto the
// pixel grid of ref, together with the phase correlation peak response.
// Both rasters must have identical dimensions.
func Register(ref, target *image.Gray) (dx, dy int, peak float64, err error) {
	rb, tb := ref.Bounds(), target.Bounds()
	w, h := rb.Dx(), rb.Dy()
	if w != tb.Dx() || h != tb.Dy() {
		return 0, 0, 0, errors.Errorf(
			"cannot register %dx%d raster against %dx%d reference", tb.Dx(), tb.Dy(), w, h)
	}

	fr := fft2(grayToComplex(ref), w, h)
	ft := fft2(grayToComplex(target), w, h)

	// Normalized cross-power spectrum. Bins with negligible energy carry no
	// phase information and are zeroed instead of amplified.
	spec := make([]complex128, w*h)
	for i := range spec {
		v := fr[i] * cmplx.Conj(ft[i])
		if m := cmplx.Abs(v); m > 1e-12 {
			spec[i] = v / complex(m, 0)
		}
	}

	corr := ifft2(spec, w, h)
	px, py := 0, 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if v := real(corr[y*w+x]); v > peak {
				peak = v
				px, py = x, y
			}
		}
	}

	// The peak position wraps around; anything past the midpoint is a
	// negative shift.
	dx, dy = px, py
	if dx > w/2 {
		dx -= w
	}
	if dy > h/2 {
		dy -= h
	}
	return dx, dy, peak, nil
}

// Apply translates img by (dx, dy), filling uncovered pixels with zero.
// The output raster has the same dimensions as the input.
func Apply(img *image.Gray, dx, dy int) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := x-dx, y-dy
			if sx >= 0 && sx < w && sy >= 0 && sy < h {
				out.SetGray(x, y, img.GrayAt(b.Min.X+sx, b.Min.Y+sy))
			}
		}
	}
	return out
}

// Align registers target against ref and returns the warped raster. When no
// usable transform is found the input is returned unchanged; an error is
// returned only for mismatched dimensions.
func Align(ref, target *image.Gray) (*image.Gray, error) {
	dx, dy, peak, err := Register(ref, target)
	if err != nil {
		return nil, err
	}
	if peak < minPeak {
		log.Printf("align: correlation peak %.4f below %.2f, returning unaligned raster", peak, minPeak)
		return target, nil
	}
	if dx == 0 && dy == 0 {
		return target, nil
	}
	return Apply(target, dx, dy), nil
}

func grayToComplex(img *image.Gray) []complex128 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]complex128, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = complex(float64(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y), 0)
		}
	}
	return out
}

// fft2 computes the 2D DFT of a row-major w x h grid in place.
func fft2(data []complex128, w, h int) []complex128 {
	rowFFT := fourier.NewCmplxFFT(w)
	for y := 0; y < h; y++ {
		row := data[y*w : (y+1)*w]
		rowFFT.Coefficients(row, row)
	}
	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = data[y*w+x]
		}
		colFFT.Coefficients(col, col)
		for y := 0; y < h; y++ {
			data[y*w+x] = col[y]
		}
	}
	return data
}

// ifft2 computes the scaled 2D inverse DFT of a row-major w x h grid in place.
func ifft2(data []complex128, w, h int) []complex128 {
	rowFFT := fourier.NewCmplxFFT(w)
	for y := 0; y < h; y++ {
		row := data[y*w : (y+1)*w]
		rowFFT.Sequence(row, row)
	}
	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	scale := complex(float64(w*h), 0)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = data[y*w+x]
		}
		colFFT.Sequence(col, col)
		for y := 0; y < h; y++ {
			data[y*w+x] = col[y] / scale
		}
	}
	return data
}
