package colorspace

import (
	"errors"
	"testing"

	"github.com/ironsheep/image-augment/internal/pix"
)

// testImage returns a 8x8 image with mid-range channel values, avoiding the
// gamut edges where lossy 8-bit encodings clip.
func testImage() *pix.Image {
	img := pix.New(8, 8, 3)
	for i := range img.Pix {
		img.Pix[i] = uint8(40 + (i*53)%170)
	}
	return img
}

func maxDiff(a, b *pix.Image) int {
	max := 0
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}

func TestConvertIdentity(t *testing.T) {
	img := testImage()
	out, err := Convert(img, RGB, RGB)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out != img {
		t.Error("identity conversion should return the same instance")
	}
}

func TestConvertBGRSwapsExactly(t *testing.T) {
	img := testImage()
	out, err := Convert(img, RGB, BGR)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for i := 0; i < len(img.Pix); i += 3 {
		if out.Pix[i] != img.Pix[i+2] || out.Pix[i+1] != img.Pix[i+1] || out.Pix[i+2] != img.Pix[i] {
			t.Fatalf("pixel %d: got (%d,%d,%d), want channels swapped", i/3, out.Pix[i], out.Pix[i+1], out.Pix[i+2])
		}
	}
	back, err := Convert(out, BGR, RGB)
	if err != nil {
		t.Fatalf("Convert back: %v", err)
	}
	if !back.Equal(img) {
		t.Error("RGB->BGR->RGB should be lossless")
	}
}

func TestRoundTripTolerance(t *testing.T) {
	img := testImage()
	for _, cs := range []Colorspace{YCrCb, HSV, HLS, Lab, Luv, YUV, CIE} {
		t.Run(string(cs), func(t *testing.T) {
			converted, err := Convert(img, RGB, cs)
			if err != nil {
				t.Fatalf("Convert to %s: %v", cs, err)
			}
			back, err := Convert(converted, cs, RGB)
			if err != nil {
				t.Fatalf("Convert back from %s: %v", cs, err)
			}
			if d := maxDiff(img, back); d > 20 {
				t.Errorf("roundtrip max channel error: got %d, want <= 20", d)
			}
		})
	}
}

// A second roundtrip through the same encoding must be much tighter than the
// first: once values land on representable points, they should stay there.
func TestDoubleRoundTripIsStable(t *testing.T) {
	img := testImage()
	for _, cs := range []Colorspace{HSV, Lab, YUV} {
		t.Run(string(cs), func(t *testing.T) {
			once, err := Convert(img, RGB, cs)
			if err != nil {
				t.Fatal(err)
			}
			onceBack, err := Convert(once, cs, RGB)
			if err != nil {
				t.Fatal(err)
			}
			twice, err := Convert(onceBack, RGB, cs)
			if err != nil {
				t.Fatal(err)
			}
			twiceBack, err := Convert(twice, cs, RGB)
			if err != nil {
				t.Fatal(err)
			}
			if d := maxDiff(onceBack, twiceBack); d > 4 {
				t.Errorf("second roundtrip drift: got %d, want <= 4", d)
			}
		})
	}
}

func TestGrayOutputIsTiled(t *testing.T) {
	out, err := Convert(testImage(), RGB, GRAY)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out.C != 3 {
		t.Fatalf("channels: got %d, want 3", out.C)
	}
	for i := 0; i < len(out.Pix); i += 3 {
		if out.Pix[i] != out.Pix[i+1] || out.Pix[i+1] != out.Pix[i+2] {
			t.Fatalf("pixel %d: got (%d,%d,%d), want equal channels", i/3, out.Pix[i], out.Pix[i+1], out.Pix[i+2])
		}
	}
}

func TestGrayIsOneWay(t *testing.T) {
	img := testImage()
	if _, err := Convert(img, GRAY, RGB); !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("GRAY->RGB: got %v, want ErrUnsupportedConversion", err)
	}
	out, err := Convert(img, GRAY, GRAY)
	if err != nil || out != img {
		t.Errorf("GRAY->GRAY identity: got (%v, %v), want same instance", out, err)
	}
}

func TestAllPairsConvertible(t *testing.T) {
	img := testImage()
	for _, from := range All() {
		for _, to := range All() {
			if from == GRAY && to != GRAY {
				continue
			}
			if _, err := Convert(img, from, to); err != nil {
				t.Errorf("Convert %s->%s: %v", from, to, err)
			}
		}
	}
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name     string
		img      *pix.Image
		from, to Colorspace
		want     error
	}{
		{"bad from tag", testImage(), "sRGB", RGB, ErrInvalidColorspace},
		{"bad to tag", testImage(), RGB, "CMYK", ErrInvalidColorspace},
		{"four channels", pix.New(2, 2, 4), RGB, HSV, pix.ErrInvalidImageShape},
		{"one channel", pix.New(2, 2, 1), RGB, HSV, pix.ErrInvalidImageShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Convert(tt.img, tt.from, tt.to); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConvertBatchBroadcast(t *testing.T) {
	images := []*pix.Image{testImage(), testImage(), testImage()}

	out, err := ConvertBatch(images, []Colorspace{HSV}, []Colorspace{RGB})
	if err != nil {
		t.Fatalf("broadcast single: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len: got %d, want 3", len(out))
	}

	out, err = ConvertBatch(images, []Colorspace{HSV, RGB, Lab}, []Colorspace{RGB})
	if err != nil {
		t.Fatalf("per-image list: %v", err)
	}
	if out[1] != images[1] {
		t.Error("RGB->RGB entry should pass through the same instance")
	}

	_, err = ConvertBatch(images, []Colorspace{HSV, RGB}, []Colorspace{RGB})
	if !errors.Is(err, pix.ErrShapeMismatch) {
		t.Errorf("length mismatch: got %v, want ErrShapeMismatch", err)
	}
}

func TestHSVHueUpperBound(t *testing.T) {
	// Hue bytes encode half-degrees, so they must stay below 180.
	img := pix.New(16, 16, 3)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 97)
	}
	out, err := Convert(img, RGB, HSV)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(out.Pix); i += 3 {
		if out.Pix[i] > 180 {
			t.Fatalf("hue byte %d out of range: %d", i/3, out.Pix[i])
		}
	}
}
