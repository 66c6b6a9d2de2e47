package colorspace

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Byte packing scales for the float-valued colorspaces. Chosen so the sRGB
// gamut fits into [0, 255] without clipping; they must stay in sync between
// the encode and decode directions but are otherwise arbitrary.
const (
	labABScale  = 110.0         // Lab a/b span roughly [-1.08, 0.98] in colorful units
	luvUOffset  = 1.34          // Luv u span roughly [-0.83, 1.75]
	luvUScale   = 255.0 / 3.54
	luvVOffset  = 1.40          // Luv v span roughly [-1.40, 1.08]
	luvVScale   = 255.0 / 2.62
	xyzScale    = 255.0 / 1.089 // Z peaks at ~1.089 for sRGB blue
)

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func fromColorful(c colorful.Color) (uint8, uint8, uint8) {
	return c.Clamped().RGB255()
}

func rgbToGray(r, g, b uint8) (uint8, uint8, uint8) {
	v := clamp8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
	return v, v, v
}

func rgbToHSV(r, g, b uint8) (uint8, uint8, uint8) {
	h, s, v := toColorful(r, g, b).Hsv()
	return clamp8(h / 2), clamp8(s * 255), clamp8(v * 255)
}

func hsvToRGB(h, s, v uint8) (uint8, uint8, uint8) {
	return fromColorful(colorful.Hsv(float64(h)*2, float64(s)/255, float64(v)/255))
}

// HLS stores hue, lightness, saturation in that channel order.
func rgbToHLS(r, g, b uint8) (uint8, uint8, uint8) {
	h, s, l := toColorful(r, g, b).Hsl()
	return clamp8(h / 2), clamp8(l * 255), clamp8(s * 255)
}

func hlsToRGB(h, l, s uint8) (uint8, uint8, uint8) {
	return fromColorful(colorful.Hsl(float64(h)*2, float64(s)/255, float64(l)/255))
}

func rgbToLab(r, g, b uint8) (uint8, uint8, uint8) {
	l, a, bb := toColorful(r, g, b).Lab()
	return clamp8(l * 255), clamp8(a*labABScale + 128), clamp8(bb*labABScale + 128)
}

func labToRGB(l, a, b uint8) (uint8, uint8, uint8) {
	return fromColorful(colorful.Lab(
		float64(l)/255,
		(float64(a)-128)/labABScale,
		(float64(b)-128)/labABScale))
}

func rgbToLuv(r, g, b uint8) (uint8, uint8, uint8) {
	l, u, v := toColorful(r, g, b).Luv()
	return clamp8(l * 255), clamp8((u + luvUOffset) * luvUScale), clamp8((v + luvVOffset) * luvVScale)
}

func luvToRGB(l, u, v uint8) (uint8, uint8, uint8) {
	return fromColorful(colorful.Luv(
		float64(l)/255,
		float64(u)/luvUScale-luvUOffset,
		float64(v)/luvVScale-luvVOffset))
}

func rgbToXYZ(r, g, b uint8) (uint8, uint8, uint8) {
	x, y, z := toColorful(r, g, b).Xyz()
	return clamp8(x * xyzScale), clamp8(y * xyzScale), clamp8(z * xyzScale)
}

func xyzToRGB(x, y, z uint8) (uint8, uint8, uint8) {
	return fromColorful(colorful.Xyz(
		float64(x)/xyzScale,
		float64(y)/xyzScale,
		float64(z)/xyzScale))
}

func rgbToYCrCb(r, g, b uint8) (uint8, uint8, uint8) {
	y, cb, cr := color.RGBToYCbCr(r, g, b)
	return y, cr, cb
}

func yCrCbToRGB(y, cr, cb uint8) (uint8, uint8, uint8) {
	return color.YCbCrToRGB(y, cb, cr)
}

// BT.601 analog YUV with the chroma planes offset to the byte midpoint.
func rgbToYUV(r, g, b uint8) (uint8, uint8, uint8) {
	yf := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	u := 0.492*(float64(b)-yf) + 128
	v := 0.877*(float64(r)-yf) + 128
	return clamp8(yf), clamp8(u), clamp8(v)
}

func yuvToRGB(y, u, v uint8) (uint8, uint8, uint8) {
	yf := float64(y)
	r := yf + (float64(v)-128)/0.877
	b := yf + (float64(u)-128)/0.492
	g := (yf - 0.299*r - 0.114*b) / 0.587
	return clamp8(r), clamp8(g), clamp8(b)
}
