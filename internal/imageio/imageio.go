// Package imageio reads and writes grayscale intensity grids as image files.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png" // register PNG decoding
	"math"
	"os"

	"github.com/fringelab/chambolle/internal/chambolle"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff" // register TIFF decoding
	_ "golang.org/x/image/webp" // register WebP decoding
	"gonum.org/v1/gonum/floats"
)

// ReadGray decodes the image at path and converts it to luma intensities
// in 0..255. BMP, PNG, TIFF and WebP are recognised.
func ReadGray(path string) (chambolle.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return chambolle.Grid{}, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return chambolle.Grid{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage converts img to a grid of luma intensities in 0..255.
func FromImage(img image.Image) chambolle.Grid {
	bounds := img.Bounds()
	g := chambolle.NewGrid(bounds.Dy(), bounds.Dx())
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			gray := color.GrayModel.Convert(img.At(bounds.Min.X+c, bounds.Min.Y+r)).(color.Gray)
			g.Set(r, c, float64(gray.Y))
		}
	}
	return g
}

// Normalize rescales g to [0, 1] by its minimum and maximum. A constant
// grid maps to all zeros. g is not modified.
func Normalize(g chambolle.Grid) chambolle.Grid {
	out := g.Clone()
	if len(out.Data) == 0 {
		return out
	}
	lo, hi := floats.Min(out.Data), floats.Max(out.Data)
	if hi == lo {
		for i := range out.Data {
			out.Data[i] = 0
		}
		return out
	}
	floats.AddConst(-lo, out.Data)
	floats.Scale(1/(hi-lo), out.Data)
	return out
}

// Symmetric maps g into [0, peak] around peak/2 by its largest magnitude:
// (v·peak/max|v| + peak) / 2. An all-zero grid maps to peak/2.
func Symmetric(g chambolle.Grid, peak float64) chambolle.Grid {
	out := g.Clone()
	maxAbs := 0.0
	for _, v := range out.Data {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	scale := 0.0
	if maxAbs > 0 {
		scale = peak / maxAbs
	}
	for i, v := range out.Data {
		out.Data[i] = (v*scale + peak) / 2
	}
	return out
}

// ToGray converts a grid of 0..255 intensities to an 8-bit gray image,
// rounding and clamping each value.
func ToGray(g chambolle.Grid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Cols, g.Rows))
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			v := math.Round(g.At(r, c))
			v = math.Max(0, math.Min(255, v))
			img.SetGray(c, r, color.Gray{Y: uint8(v)})
		}
	}
	return img
}

// WriteBMP stretches g to the full 0..255 range and writes it as a
// grayscale BMP.
func WriteBMP(path string, g chambolle.Grid) error {
	scaled := Normalize(g)
	for i := range scaled.Data {
		scaled.Data[i] *= 255
	}
	return writeImage(path, ToGray(scaled))
}

// WriteSymmetricBMP writes g mapped by Symmetric(g, 255), keeping zero at
// mid-gray.
func WriteSymmetricBMP(path string, g chambolle.Grid) error {
	return writeImage(path, ToGray(Symmetric(g, 255)))
}

func writeImage(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := bmp.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
