package multispectral

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovision/multispect/datasets"
)

func writeJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 90}))
	require.NoError(t, f.Close())
}

func rgbImage(idx, w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x*16 + idx*7) % 256),
				G: uint8((y*16 + idx*13) % 256),
				B: uint8((x*y + idx) % 256),
				A: 255,
			})
		}
	}
	return img
}

func grayImage(idx, channel, w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x*8 + y*4 + idx*11 + channel*29) % 256)})
		}
	}
	return img
}

// buildFixture writes nTrain matched file-sets under Train_Images and nTest
// under Test_Images. RGB rasters are 24x20, spectral rasters 12x10, so the
// loader has to resize.
func buildFixture(t *testing.T, nTrain, nTest int) (rgbDir, spectralDir string) {
	t.Helper()
	root := t.TempDir()
	rgbDir = filepath.Join(root, "rgb")
	spectralDir = filepath.Join(root, "spectral")

	write := func(folder string, n int) {
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("img%03d.jpg", i)
			writeJPEG(t, filepath.Join(rgbDir, folder, name), rgbImage(i, 24, 20))
			for c, channel := range Channels {
				writeJPEG(t, filepath.Join(spectralDir, channel, folder, name), grayImage(i, c, 12, 10))
			}
		}
	}
	write(trainFolder, nTrain)
	write(testFolder, nTest)
	return rgbDir, spectralDir
}

func TestTrainValidationPartitions(t *testing.T) {
	t.Parallel()
	rgbDir, spectralDir := buildFixture(t, 10, 0)

	train, err := New(Config{RGBDir: rgbDir, SpectralDir: spectralDir, Mode: datasets.ModeTrain})
	require.NoError(t, err)
	val, err := New(Config{RGBDir: rgbDir, SpectralDir: spectralDir, Mode: datasets.ModeValidation})
	require.NoError(t, err)

	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 2, val.Len())

	trainBases := make(map[string]bool)
	for _, f := range train.Files() {
		trainBases[datasets.BaseName(f)] = true
	}
	for _, f := range val.Files() {
		assert.False(t, trainBases[datasets.BaseName(f)], "validation file %s leaked into train", f)
	}
	assert.Len(t, trainBases, 8)
}

func TestSampleDimensionsMatch(t *testing.T) {
	t.Parallel()
	rgbDir, spectralDir := buildFixture(t, 3, 0)

	d, err := New(Config{RGBDir: rgbDir, SpectralDir: spectralDir, Mode: datasets.ModeTrain})
	require.NoError(t, err)

	for i := 0; i < d.Len(); i++ {
		rgb, bands := d.Sample(i)
		b := rgb.Bounds()
		assert.Equal(t, 12, b.Dx())
		assert.Equal(t, 10, b.Dy())
		for c, band := range bands {
			assert.Equal(t, b.Dx(), band.Bounds().Dx(), "sample %d channel %d width", i, c)
			assert.Equal(t, b.Dy(), band.Bounds().Dy(), "sample %d channel %d height", i, c)
		}
	}
}

func TestRetrievalIsDeterministic(t *testing.T) {
	t.Parallel()
	rgbDir, spectralDir := buildFixture(t, 4, 0)
	cfg := Config{RGBDir: rgbDir, SpectralDir: spectralDir, Mode: datasets.ModeTrain}

	d1, err := New(cfg)
	require.NoError(t, err)
	d2, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, d1.Fingerprint(), d2.Fingerprint())

	rgb1, bands1 := d1.Sample(0)
	rgb2, bands2 := d2.Sample(0)
	if diff := cmp.Diff(rgb1.(*image.NRGBA).Pix, rgb2.(*image.NRGBA).Pix); diff != "" {
		t.Errorf("rgb rasters differ between constructions:\n%s", diff)
	}
	for c := range bands1 {
		if diff := cmp.Diff(bands1[c].(*image.Gray).Pix, bands2[c].(*image.Gray).Pix); diff != "" {
			t.Errorf("channel %d rasters differ between constructions:\n%s", c, diff)
		}
	}
}

func TestTestPartition(t *testing.T) {
	t.Parallel()
	rgbDir, spectralDir := buildFixture(t, 2, 5)

	d, err := New(Config{RGBDir: rgbDir, SpectralDir: spectralDir, Mode: datasets.ModeTest})
	require.NoError(t, err)
	assert.Equal(t, 5, d.Len())
}

func TestMissingChannelFileFailsConstruction(t *testing.T) {
	t.Parallel()
	rgbDir, spectralDir := buildFixture(t, 5, 0)

	// Rebase one spectral file so its base name no longer matches any RGB file.
	old := filepath.Join(spectralDir, Channels[1], trainFolder, "img003.jpg")
	require.NoError(t, os.Rename(old, filepath.Join(filepath.Dir(old), "img099.jpg")))

	_, err := New(Config{RGBDir: rgbDir, SpectralDir: spectralDir, Mode: datasets.ModeTrain})
	require.Error(t, err)
	assert.Contains(t, err.Error(), Channels[1])
	assert.Contains(t, err.Error(), "img003")
}

func TestLoadItemRejectsMismatchedNames(t *testing.T) {
	t.Parallel()
	rgbDir, spectralDir := buildFixture(t, 2, 0)

	it := workItem{
		rgbName: "img000.jpg",
		rgbPath: filepath.Join(rgbDir, trainFolder, "img000.jpg"),
	}
	for c, channel := range Channels {
		it.bandNames[c] = "img000.jpg"
		it.bandPaths[c] = filepath.Join(spectralDir, channel, trainFolder, "img000.jpg")
	}
	// Pair the red channel against the wrong sample.
	it.bandNames[2] = "img001.jpg"
	it.bandPaths[2] = filepath.Join(spectralDir, Channels[2], trainFolder, "img001.jpg")

	_, err := loadItem(it)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch detected")
	assert.Contains(t, err.Error(), Channels[2])
}

func TestSizeMismatchFailsConstruction(t *testing.T) {
	t.Parallel()
	rgbDir, spectralDir := buildFixture(t, 3, 0)

	// One red-edge raster with the wrong dimensions.
	writeJPEG(t, filepath.Join(spectralDir, Channels[3], trainFolder, "img001.jpg"), grayImage(1, 3, 8, 8))

	_, err := New(Config{RGBDir: rgbDir, SpectralDir: spectralDir, Mode: datasets.ModeTrain})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size mismatch")
	assert.Contains(t, err.Error(), Channels[3])
}

func TestInvalidModeRejected(t *testing.T) {
	t.Parallel()

	_, err := New(Config{RGBDir: "x", SpectralDir: "y", Mode: "eval"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode")
}

func TestTransformApplied(t *testing.T) {
	t.Parallel()
	rgbDir, spectralDir := buildFixture(t, 2, 0)

	marker := image.NewGray(image.Rect(0, 0, 1, 1))
	d, err := New(Config{
		RGBDir:      rgbDir,
		SpectralDir: spectralDir,
		Mode:        datasets.ModeTrain,
		Transform:   func(image.Image) image.Image { return marker },
	})
	require.NoError(t, err)

	rgb, bands := d.Sample(0)
	assert.Same(t, image.Image(marker), rgb)
	for c := range bands {
		assert.Same(t, image.Image(marker), bands[c])
	}
}

func TestSampleOutOfRangePanics(t *testing.T) {
	t.Parallel()
	rgbDir, spectralDir := buildFixture(t, 2, 0)

	d, err := New(Config{RGBDir: rgbDir, SpectralDir: spectralDir, Mode: datasets.ModeTrain})
	require.NoError(t, err)
	assert.Panics(t, func() { d.Sample(d.Len()) })
	assert.Panics(t, func() { d.Sample(-1) })
}

func TestAlignedConstruction(t *testing.T) {
	t.Parallel()
	rgbDir, spectralDir := buildFixture(t, 2, 0)

	d, err := New(Config{RGBDir: rgbDir, SpectralDir: spectralDir, Mode: datasets.ModeTrain, Align: true})
	require.NoError(t, err)
	for i := 0; i < d.Len(); i++ {
		rgb, bands := d.Sample(i)
		for c := range bands {
			assert.Equal(t, rgb.Bounds().Dx(), bands[c].Bounds().Dx(), "aligned channel %d width", c)
			assert.Equal(t, rgb.Bounds().Dy(), bands[c].Bounds().Dy(), "aligned channel %d height", c)
		}
	}
}
