// Package multispectral implements the aligned potato-field dataset: RGB
// images matched by base name to four co-registered spectral channel images,
// loaded eagerly in parallel and served by index.
package multispectral

import (
	"crypto/sha256"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/agrovision/multispect/datasets"
	"github.com/agrovision/multispect/parallel"
)

// Channels are the spectral band folder names, in tensor stacking order.
var Channels = [4]string{"Green_Channel", "Near_Infrared_Channel", "Red_Channel", "Red_Edge_Channel"}

const (
	trainFolder = "Train_Images"
	testFolder  = "Test_Images"
)

// Transform is applied independently to each returned image.
type Transform func(image.Image) image.Image

// Config describes how to assemble a dataset partition.
type Config struct {
	// RGBDir contains Train_Images/ and Test_Images/ of .jpg files.
	RGBDir string
	// SpectralDir contains one folder per channel name, each with
	// Train_Images/ and Test_Images/ of .jpg files matching the RGB base names.
	SpectralDir string
	// Transform, when set, is applied to every image returned by Sample.
	Transform Transform
	// Mode selects the partition. Defaults to train.
	Mode datasets.Mode
	// Align registers every channel raster against the grayscale RGB.
	Align bool
	// SplitRatio is the train share of the training pool. Defaults to 0.8.
	SplitRatio float64
	// Seed drives the train/validation split. Defaults to 42.
	Seed int64
	// Workers bounds the parallel materialization. Defaults to the logical
	// core count.
	Workers int
	// Progress draws a progress bar while loading.
	Progress bool
}

// sample is one materialized file-set, immutable after construction.
type sample struct {
	rgb   *image.NRGBA
	bands [4]*image.Gray
}

// Dataset is an eagerly materialized, index-addressable sequence of aligned
// samples for one partition.
type Dataset struct {
	mode      datasets.Mode
	transform Transform
	rgbFiles  []string
	spectral  map[string][]string
	data      []sample
}

// New assembles the partition described by cfg. Every matched file-set is
// decoded, resized and optionally aligned before New returns; any filename
// mismatch or dimension mismatch fails the whole construction.
func New(cfg Config) (*Dataset, error) {
	if cfg.Mode == "" {
		cfg.Mode = datasets.ModeTrain
	}
	mode, err := datasets.ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	if cfg.SplitRatio == 0 {
		cfg.SplitRatio = 0.8
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.Workers <= 0 {
		cfg.Workers = parallel.Workers()
	}

	folder := trainFolder
	if mode == datasets.ModeTest {
		folder = testFolder
	}

	rgbFiles, err := listJPG(filepath.Join(cfg.RGBDir, folder))
	if err != nil {
		return nil, err
	}
	if mode != datasets.ModeTest {
		train, validation, err := datasets.Split(rgbFiles, cfg.SplitRatio, cfg.Seed)
		if err != nil {
			return nil, err
		}
		if mode == datasets.ModeTrain {
			rgbFiles = train
		} else {
			rgbFiles = validation
		}
	}

	// Name-keyed join: every channel must hold a file for every chosen RGB
	// base name. The resulting per-channel lists pair with rgbFiles by index.
	spectral := make(map[string][]string, len(Channels))
	for _, channel := range Channels {
		files, err := listJPG(filepath.Join(cfg.SpectralDir, channel, folder))
		if err != nil {
			return nil, err
		}
		byBase := make(map[string]string, len(files))
		for _, f := range files {
			byBase[datasets.BaseName(f)] = f
		}
		matched := make([]string, len(rgbFiles))
		for i, rgbName := range rgbFiles {
			base := datasets.BaseName(rgbName)
			f, ok := byBase[base]
			if !ok {
				return nil, errors.Errorf(
					"no file in channel %q matches RGB file %q (base name %q)", channel, rgbName, base)
			}
			matched[i] = f
		}
		spectral[channel] = matched
	}

	d := &Dataset{
		mode:      mode,
		transform: cfg.Transform,
		rgbFiles:  rgbFiles,
		spectral:  spectral,
		data:      make([]sample, len(rgbFiles)),
	}
	if err := d.materialize(cfg, folder); err != nil {
		return nil, err
	}
	return d, nil
}

// materialize loads every file-set in parallel. Each work item is
// self-contained; results are slotted by index so data[i] pairs with
// rgbFiles[i] regardless of completion order.
func (d *Dataset) materialize(cfg Config, folder string) error {
	items := make([]workItem, len(d.rgbFiles))
	for i, rgbName := range d.rgbFiles {
		it := workItem{
			rgbName: rgbName,
			rgbPath: filepath.Join(cfg.RGBDir, folder, rgbName),
			align:   cfg.Align,
		}
		for c, channel := range Channels {
			it.bandNames[c] = d.spectral[channel][i]
			it.bandPaths[c] = filepath.Join(cfg.SpectralDir, channel, folder, it.bandNames[c])
		}
		items[i] = it
	}

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.NewOptions(len(items),
			progressbar.OptionSetDescription(fmt.Sprintf("Loading %s data", d.mode)),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		)
	}

	return parallel.ForEachErr(len(items), cfg.Workers, func(i int) error {
		s, err := loadItem(items[i])
		if err != nil {
			return err
		}
		d.data[i] = s
		if bar != nil {
			_ = bar.Add(1)
		}
		return nil
	})
}

// Len returns the number of materialized samples.
func (d *Dataset) Len() int {
	return len(d.data)
}

// Files returns the RGB file names backing the partition, in index order.
func (d *Dataset) Files() []string {
	out := make([]string, len(d.rgbFiles))
	copy(out, d.rgbFiles)
	return out
}

// Sample returns the RGB raster and the four channel rasters at index i,
// each passed through the configured transform. It panics when i is out of
// range.
func (d *Dataset) Sample(i int) (rgb image.Image, bands [4]image.Image) {
	if i < 0 || i >= len(d.data) {
		panic(fmt.Sprintf("multispectral: sample index %d out of range [0, %d)", i, len(d.data)))
	}
	s := d.data[i]
	rgb = s.rgb
	for c := range s.bands {
		bands[c] = s.bands[c]
	}
	if d.transform != nil {
		rgb = d.transform(rgb)
		for c := range bands {
			bands[c] = d.transform(bands[c])
		}
	}
	return rgb, bands
}

// Fingerprint hashes every raster in index order into one digest. Two
// datasets built from the same files the same way fingerprint identically.
func (d *Dataset) Fingerprint() [32]byte {
	h := parallel.NewHasher(len(d.data))
	parallel.ForEach(len(d.data), parallel.Workers(), func(i int) {
		sha := sha256.New()
		sha.Write(d.data[i].rgb.Pix)
		for _, band := range d.data[i].bands {
			sha.Write(band.Pix)
		}
		var digest [32]byte
		copy(digest[:], sha.Sum(nil))
		h.MustPutHash(i, digest)
	})
	return h.Sum()
}

// listJPG lists the .jpg files directly inside dir, sorted lexicographically.
func listJPG(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jpg") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
