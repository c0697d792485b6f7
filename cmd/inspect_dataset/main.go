package main

import "flag"
import "fmt"
import "github.com/agrovision/multispect/datasets"
import "github.com/agrovision/multispect/datasets/multispectral"

func main() {
	rgbDir := flag.String("rgb", "", "root directory of RGB images")
	spectralDir := flag.String("spectral", "", "root directory of spectral channel images")
	mode := flag.String("mode", "train", "partition: train, val or test")
	doAlign := flag.Bool("align", false, "register channel rasters against the grayscale RGB")
	ratio := flag.Float64("ratio", 0.8, "train share of the train/validation split")
	seed := flag.Int64("seed", 42, "split seed")
	flag.Parse()

	m, err := datasets.ParseMode(*mode)
	if err != nil {
		panic(err.Error())
	}

	d, err := multispectral.New(multispectral.Config{
		RGBDir:      *rgbDir,
		SpectralDir: *spectralDir,
		Mode:        m,
		Align:       *doAlign,
		SplitRatio:  *ratio,
		Seed:        *seed,
		Progress:    true,
	})
	if err != nil {
		panic(err.Error())
	}

	fmt.Println()
	fmt.Println("partition:", m)
	fmt.Println("samples:", d.Len())
	if d.Len() > 0 {
		rgb, _ := d.Sample(0)
		b := rgb.Bounds()
		fmt.Printf("raster: %dx%d\n", b.Dx(), b.Dy())
	}
	fmt.Printf("fingerprint: %x\n", d.Fingerprint())
}
