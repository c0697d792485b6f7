package unet

import (
	"io"
	"os"

	"github.com/agrovision/multispect/layer"
)

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (n *UNet) WriteCompressedWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = n.WriteCompressedWeights(file)
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCompressedWeights writes model weights to a writer in the network's
// traversal order.
func (n *UNet) WriteCompressedWeights(w io.Writer) error {
	return layer.WriteParams(w, n.params())
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (n *UNet) ReadCompressedWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	err = n.ReadCompressedWeights(file)
	file.Close()
	return err
}

// ReadCompressedWeights reads model weights from a reader. The network must
// have been constructed with the same channel configuration as the writer.
func (n *UNet) ReadCompressedWeights(r io.Reader) error {
	return layer.ReadParams(r, n.params())
}
