package pix

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidChannelCount is returned when an operation receives an image
// whose channel count it does not support.
var ErrInvalidChannelCount = errors.New("invalid channel count")

// ErrInvalidImageShape is returned when an image's dimensions do not satisfy
// an operation's contract (e.g. a colorspace conversion requiring exactly
// three channels).
var ErrInvalidImageShape = errors.New("invalid image shape")

// ErrShapeMismatch is returned when the elements of a batch disagree in
// shape where an operation requires them to match, or when per-image
// argument lists do not match the batch length.
var ErrShapeMismatch = errors.New("shape mismatch")

// Image is a dense (H, W, C) array of uint8 samples.
//
// See the package documentation for the memory layout. The zero value is not
// usable; construct images with New or the From* helpers.
type Image struct {
	W, H, C int
	Pix     []uint8
}

// New allocates a zeroed image of the given size.
//
// Panics if any dimension is non-positive or c is not 1, 3 or 4; sizes are
// programmer-controlled, not data-controlled.
func New(w, h, c int) *Image {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("pix: non-positive image size %dx%d", w, h))
	}
	if c != 1 && c != 3 && c != 4 {
		panic(fmt.Sprintf("pix: unsupported channel count %d", c))
	}
	return &Image{W: w, H: h, C: c, Pix: make([]uint8, w*h*c)}
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	out := &Image{W: m.W, H: m.H, C: m.C, Pix: make([]uint8, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Offset returns the index into Pix of the first channel of pixel (x, y).
func (m *Image) Offset(x, y int) int {
	return (y*m.W + x) * m.C
}

// Equal reports whether two images have identical shape and samples.
func (m *Image) Equal(other *Image) bool {
	if m.W != other.W || m.H != other.H || m.C != other.C {
		return false
	}
	for i, v := range m.Pix {
		if other.Pix[i] != v {
			return false
		}
	}
	return true
}

// MaxSide returns the longer of width and height.
func (m *Image) MaxSide() int {
	if m.W > m.H {
		return m.W
	}
	return m.H
}

// DistinctColors counts the distinct pixel values in the image, treating the
// full channel tuple as one color. Intended for tests and diagnostics.
func (m *Image) DistinctColors() int {
	seen := make(map[[4]uint8]struct{})
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			o := m.Offset(x, y)
			var key [4]uint8
			copy(key[:], m.Pix[o:o+m.C])
			seen[key] = struct{}{}
		}
	}
	return len(seen)
}

// FromImage converts a standard library image to a 3-channel RGB Image.
// Alpha is dropped; 16-bit samples are reduced to 8 bits.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	out := New(bounds.Dx(), bounds.Dy(), 3)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			out.Pix[i] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(b >> 8)
			i += 3
		}
	}
	return out
}

// FromImageRGBA converts a standard library image to a 4-channel RGBA Image,
// preserving the alpha channel.
func FromImageRGBA(src image.Image) *Image {
	bounds := src.Bounds()
	out := New(bounds.Dx(), bounds.Dy(), 4)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = c.A
			i += 4
		}
	}
	return out
}

// ToNRGBA converts the image to a standard library *image.NRGBA.
// Grayscale images replicate their single channel; 3-channel images get an
// opaque alpha channel.
func (m *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			o := m.Offset(x, y)
			d := out.PixOffset(x, y)
			switch m.C {
			case 1:
				v := m.Pix[o]
				out.Pix[d] = v
				out.Pix[d+1] = v
				out.Pix[d+2] = v
				out.Pix[d+3] = 0xff
			case 3:
				out.Pix[d] = m.Pix[o]
				out.Pix[d+1] = m.Pix[o+1]
				out.Pix[d+2] = m.Pix[o+2]
				out.Pix[d+3] = 0xff
			case 4:
				out.Pix[d] = m.Pix[o]
				out.Pix[d+1] = m.Pix[o+1]
				out.Pix[d+2] = m.Pix[o+2]
				out.Pix[d+3] = m.Pix[o+3]
			}
		}
	}
	return out
}
