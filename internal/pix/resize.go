package pix

import (
	"image"

	"github.com/disintegration/imaging"
)

// Resize scales the image to exactly w x h using bilinear filtering and
// returns a new image with the same channel count as the input.
func Resize(m *Image, w, h int) *Image {
	if w == m.W && h == m.H {
		return m.Clone()
	}
	scaled := imaging.Resize(m.ToNRGBA(), w, h, imaging.Linear)
	return fromNRGBA(scaled, m.C)
}

// FitMaxSide downscales the image, preserving aspect ratio, so that its
// longer side equals maxSide. Images already within the bound are returned
// unchanged (same instance, no copy).
func FitMaxSide(m *Image, maxSide int) *Image {
	size := m.MaxSide()
	if maxSide <= 0 || size <= maxSide {
		return m
	}
	factor := float64(maxSide) / float64(size)
	newW := int(float64(m.W) * factor)
	newH := int(float64(m.H) * factor)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return Resize(m, newW, newH)
}

func fromNRGBA(src *image.NRGBA, channels int) *Image {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	out := New(w, h, channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := src.PixOffset(x, y)
			d := out.Offset(x, y)
			switch channels {
			case 1:
				out.Pix[d] = src.Pix[s]
			case 3:
				copy(out.Pix[d:d+3], src.Pix[s:s+3])
			case 4:
				copy(out.Pix[d:d+4], src.Pix[s:s+4])
			}
		}
	}
	return out
}
