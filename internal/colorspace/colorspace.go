package colorspace

import (
	"errors"
	"fmt"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-augment/internal/pix"
)

// Colorspace names a pixel color encoding.
type Colorspace string

// The supported colorspaces.
const (
	RGB   Colorspace = "RGB"
	BGR   Colorspace = "BGR"
	GRAY  Colorspace = "GRAY"
	YCrCb Colorspace = "YCrCb"
	HSV   Colorspace = "HSV"
	HLS   Colorspace = "HLS"
	Lab   Colorspace = "Lab"
	Luv   Colorspace = "Luv"
	YUV   Colorspace = "YUV"
	CIE   Colorspace = "CIE"
)

// ErrInvalidColorspace is returned when a colorspace tag is not one of the
// supported set.
var ErrInvalidColorspace = errors.New("invalid colorspace")

// ErrUnsupportedConversion is returned for conversions that lose too much
// information to be defined, i.e. any conversion from GRAY to a color space.
var ErrUnsupportedConversion = errors.New("unsupported conversion")

// All returns the supported colorspaces.
func All() []Colorspace {
	return []Colorspace{RGB, BGR, GRAY, YCrCb, HSV, HLS, Lab, Luv, YUV, CIE}
}

// Valid reports whether cs is one of the supported colorspaces.
func (cs Colorspace) Valid() bool {
	switch cs {
	case RGB, BGR, GRAY, YCrCb, HSV, HLS, Lab, Luv, YUV, CIE:
		return true
	}
	return false
}

// convFunc converts one pixel. Inputs and outputs are the three channel
// values in the respective colorspace's channel order.
type convFunc func(c0, c1, c2 uint8) (uint8, uint8, uint8)

// direct holds the natively implemented conversion pairs. Pairs not listed
// here are routed through RGB.
var direct = map[[2]Colorspace]convFunc{}

func register(from, to Colorspace, fn convFunc) {
	direct[[2]Colorspace{from, to}] = fn
}

func init() {
	targets := []struct {
		cs      Colorspace
		fromRGB convFunc
		toRGB   convFunc
	}{
		{GRAY, rgbToGray, nil},
		{YCrCb, rgbToYCrCb, yCrCbToRGB},
		{HSV, rgbToHSV, hsvToRGB},
		{HLS, rgbToHLS, hlsToRGB},
		{Lab, rgbToLab, labToRGB},
		{Luv, rgbToLuv, luvToRGB},
		{YUV, rgbToYUV, yuvToRGB},
		{CIE, rgbToXYZ, xyzToRGB},
	}

	register(RGB, BGR, swapRB)
	register(BGR, RGB, swapRB)
	for _, t := range targets {
		register(RGB, t.cs, t.fromRGB)
		register(BGR, t.cs, swapped(t.fromRGB))
		if t.toRGB != nil {
			register(t.cs, RGB, t.toRGB)
			register(t.cs, BGR, thenSwapRB(t.toRGB))
		}
	}
}

func swapRB(c0, c1, c2 uint8) (uint8, uint8, uint8) { return c2, c1, c0 }

// swapped adapts an RGB-input conversion to BGR input.
func swapped(fn convFunc) convFunc {
	return func(c0, c1, c2 uint8) (uint8, uint8, uint8) { return fn(c2, c1, c0) }
}

// thenSwapRB adapts an RGB-output conversion to BGR output.
func thenSwapRB(fn convFunc) convFunc {
	return func(c0, c1, c2 uint8) (uint8, uint8, uint8) {
		r, g, b := fn(c0, c1, c2)
		return b, g, r
	}
}

func validate(img *pix.Image, from, to Colorspace) error {
	if !from.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidColorspace, from)
	}
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidColorspace, to)
	}
	if from == GRAY && to != GRAY {
		return fmt.Errorf("%w: colors cannot be recovered from %q", ErrUnsupportedConversion, GRAY)
	}
	if img.C != 3 {
		return fmt.Errorf("%w: expected 3 channels, got %d", pix.ErrInvalidImageShape, img.C)
	}
	return nil
}

// Convert changes the colorspace of an image.
//
// The image must have exactly three channels. If from equals to, the input
// is returned unchanged (same instance, no copy). Grayscale results are
// tiled to three channels so that all outputs share the input shape.
//
// Conversions without a native implementation for the (from, to) pair are
// routed through RGB; see the package documentation.
func Convert(img *pix.Image, from, to Colorspace) (*pix.Image, error) {
	if err := validate(img, from, to); err != nil {
		return nil, err
	}
	if from == to {
		return img, nil
	}

	if fn, ok := direct[[2]Colorspace{from, to}]; ok {
		return apply(img, fn), nil
	}
	asRGB := apply(img, direct[[2]Colorspace{from, RGB}])
	return apply(asRGB, direct[[2]Colorspace{RGB, to}]), nil
}

// ConvertBatch converts each image in order. The to and from arguments hold
// either a single colorspace, broadcast to every image, or exactly one entry
// per image; any other length is an error. Conversion stops at the first
// failing image.
func ConvertBatch(images []*pix.Image, to, from []Colorspace) ([]*pix.Image, error) {
	toEach, err := broadcast(to, len(images), "to")
	if err != nil {
		return nil, err
	}
	fromEach, err := broadcast(from, len(images), "from")
	if err != nil {
		return nil, err
	}
	out := make([]*pix.Image, len(images))
	for i, img := range images {
		out[i], err = Convert(img, fromEach[i], toEach[i])
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
	}
	return out, nil
}

// ConvertAll converts every image between the same pair of colorspaces.
func ConvertAll(images []*pix.Image, to, from Colorspace) ([]*pix.Image, error) {
	return ConvertBatch(images, []Colorspace{to}, []Colorspace{from})
}

func broadcast(list []Colorspace, n int, name string) ([]Colorspace, error) {
	switch len(list) {
	case 1:
		out := make([]Colorspace, n)
		for i := range out {
			out[i] = list[0]
		}
		return out, nil
	case n:
		return list, nil
	}
	return nil, fmt.Errorf("%w: %d %q colorspaces for %d images", pix.ErrShapeMismatch, len(list), name, n)
}

// apply runs a per-pixel conversion over the image, row-parallel.
func apply(img *pix.Image, fn convFunc) *pix.Image {
	out := pix.New(img.W, img.H, 3)
	parallel.Line(img.H, func(start, end int) {
		for y := start; y < end; y++ {
			o := img.Offset(0, y)
			for x := 0; x < img.W; x++ {
				c0, c1, c2 := fn(img.Pix[o], img.Pix[o+1], img.Pix[o+2])
				out.Pix[o] = c0
				out.Pix[o+1] = c1
				out.Pix[o+2] = c2
				o += 3
			}
		}
	})
	return out
}
