package quantize

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-augment/internal/colorspace"
	"github.com/ironsheep/image-augment/internal/param"
	"github.com/ironsheep/image-augment/internal/pix"
	"github.com/ironsheep/image-augment/internal/rng"
)

// NewUniform creates a quantizer that snaps every intensity value into one
// of n equally sized bins, replacing it with the bin center.
//
// Defaults when the zero value is given: nColors samples from [2, 16] and
// from is RGB. Unlike NewKMeans there is no default working colorspace and
// no default size limit; a nil to and a non-positive maxSize mean
// "quantize in place, at full size".
func NewUniform(nColors param.Parameter, from colorspace.Colorspace, to []colorspace.Colorspace, maxSize int, st *rng.Stream) (*Quantizer, error) {
	return newQuantizer("UniformColorQuantization", nColors, from, to, maxSize, st, quantizeUniform)
}

// quantizeUniform maps every value v to floor(v/q)*q + q/2 with q = 256/n.
// With n == 256 every value maps to itself, so a plain copy is returned.
func quantizeUniform(img *pix.Image, n int, _ *rng.Stream) (*pix.Image, error) {
	n = clampColorCount(n)
	if n == maxColors {
		return img.Clone(), nil
	}

	q := 256.0 / float64(n)
	var table [256]uint8
	for v := 0; v < 256; v++ {
		binned := math.Round(math.Floor(float64(v)/q)*q + q/2)
		if binned > 255 {
			binned = 255
		}
		table[v] = uint8(binned)
	}

	out := pix.New(img.W, img.H, img.C)
	rowLen := img.W * img.C
	parallel.Line(img.H, func(start, end int) {
		for i := start * rowLen; i < end*rowLen; i++ {
			out.Pix[i] = table[img.Pix[i]]
		}
	})
	return out, nil
}
