// Package imgio provides the image decoding and geometry helpers shared by
// the dataset and alignment packages.
package imgio

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Decode reads and decodes an image file at full resolution.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return img, nil
}

// DecodeGray reads an image file and converts it to an 8-bit grayscale raster.
func DecodeGray(path string) (*image.Gray, error) {
	img, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return ToGray(img), nil
}

// ResizeLinear resizes img to width x height using linear interpolation.
func ResizeLinear(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.Linear)
}

// ToGray converts any image to an 8-bit grayscale raster using the standard
// luma weights.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// ToNRGBA converts any image to NRGBA, cloning it into a zero-origin raster.
func ToNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// Dimensions returns the width and height of an image.
func Dimensions(img image.Image) (width, height int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}
