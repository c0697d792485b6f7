package main

import "flag"
import "fmt"
import "image"
import "github.com/disintegration/imaging"
import "github.com/agrovision/multispect/datasets"
import "github.com/agrovision/multispect/datasets/multispectral"
import "github.com/agrovision/multispect/imgio"
import "github.com/agrovision/multispect/inference"
import "github.com/agrovision/multispect/net/unet"
import "github.com/agrovision/multispect/tensor"

func main() {
	rgbDir := flag.String("rgb", "", "root directory of RGB images")
	spectralDir := flag.String("spectral", "", "root directory of spectral channel images")
	index := flag.Int("index", 0, "sample index to segment")
	classes := flag.Int("classes", 2, "number of output classes")
	weights := flag.String("weights", "", "optional compressed weights file")
	flag.Parse()

	d, err := multispectral.New(multispectral.Config{
		RGBDir:      *rgbDir,
		SpectralDir: *spectralDir,
		Mode:        datasets.ModeTest,
		Progress:    true,
	})
	if err != nil {
		panic(err.Error())
	}

	rgb, bands := d.Sample(*index)

	// Crop to the largest dimensions divisible by 16 so the four poolings
	// and upsamplings round-trip exactly.
	b := rgb.Bounds()
	w16, h16 := b.Dx()/16*16, b.Dy()/16*16
	if w16 == 0 || h16 == 0 {
		panic(fmt.Sprintf("raster %dx%d too small for the network", b.Dx(), b.Dy()))
	}
	crop := image.Rect(0, 0, w16, h16)
	rgbCropped := imaging.Crop(rgb, crop)
	var bandsCropped []*image.Gray
	for _, band := range bands {
		bandsCropped = append(bandsCropped, imgio.ToGray(imaging.Crop(band, crop)))
	}

	net := unet.New(3+len(bandsCropped), *classes)
	if *weights != "" {
		if err := net.ReadCompressedWeightsFromFile(*weights); err != nil {
			panic(err.Error())
		}
	}

	x := tensor.FromImages(rgbCropped, bandsCropped)
	classMap := inference.Segment(net, x)

	hist := make([]int, *classes)
	for _, row := range classMap {
		for _, class := range row {
			hist[class]++
		}
	}
	fmt.Println()
	fmt.Printf("segmented sample %d at %dx%d\n", *index, w16, h16)
	for class, count := range hist {
		fmt.Printf("class %d: %d pixels\n", class, count)
	}
}
