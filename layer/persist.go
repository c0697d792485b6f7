package layer

import (
	"compress/lzw"
	"encoding/binary"
	"io"
)

// WriteParams writes the parameters of the given layers to w as an
// lzw-compressed stream of little-endian float64s, in argument order.
func WriteParams(w io.Writer, layers []Parametric) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	for _, l := range layers {
		for _, param := range l.Params() {
			if err := binary.Write(lw, binary.LittleEndian, param); err != nil {
				return err
			}
		}
	}
	return lw.Close()
}

// ReadParams reads parameters written by WriteParams back into the given
// layers, which must match the writing layers in order and shape.
func ReadParams(r io.Reader, layers []Parametric) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()
	for _, l := range layers {
		for _, param := range l.Params() {
			if err := binary.Read(lr, binary.LittleEndian, param); err != nil {
				return err
			}
		}
	}
	return nil
}
