package multispectral

import (
	"github.com/pkg/errors"

	"github.com/agrovision/multispect/align"
	"github.com/agrovision/multispect/datasets"
	"github.com/agrovision/multispect/imgio"
)

// workItem carries everything one load needs. Items share no mutable state,
// so they can run on any worker without locks.
type workItem struct {
	rgbPath   string
	rgbName   string
	bandPaths [4]string
	bandNames [4]string
	align     bool
}

// loadItem decodes, verifies and geometrically reconciles one matched
// file-set. The base-name check here is the authoritative pairing guarantee,
// independent of how the file lists were joined.
func loadItem(it workItem) (sample, error) {
	rgbImg, err := imgio.Decode(it.rgbPath)
	if err != nil {
		return sample{}, err
	}

	rgbBase := datasets.BaseName(it.rgbName)
	for c, channel := range Channels {
		if rgbBase != datasets.BaseName(it.bandNames[c]) {
			return sample{}, errors.Errorf(
				"mismatch detected: RGB file %q does not match spectral file %q in channel %q",
				it.rgbName, it.bandNames[c], channel)
		}
	}

	// The first channel sets the target dimensions; the RGB image is resized
	// to match with linear interpolation.
	first, err := imgio.DecodeGray(it.bandPaths[0])
	if err != nil {
		return sample{}, err
	}
	width, height := imgio.Dimensions(first)
	rgbResized := imgio.ResizeLinear(rgbImg, width, height)
	rgbGray := imgio.ToGray(rgbResized)

	var s sample
	s.rgb = rgbResized
	for c := range Channels {
		band := first
		if c > 0 {
			if band, err = imgio.DecodeGray(it.bandPaths[c]); err != nil {
				return sample{}, err
			}
		}
		if it.align {
			if band, err = align.Align(rgbGray, band); err != nil {
				return sample{}, errors.Wrapf(err, "aligning %q", it.bandNames[c])
			}
		}
		s.bands[c] = band
	}

	for c, channel := range Channels {
		bw, bh := imgio.Dimensions(s.bands[c])
		if bw != width || bh != height {
			return sample{}, errors.Errorf(
				"size mismatch: RGB %dx%d vs %s %dx%d", width, height, channel, bw, bh)
		}
	}
	return s, nil
}
