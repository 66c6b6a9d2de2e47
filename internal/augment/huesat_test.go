package augment

import (
	"errors"
	"testing"

	"github.com/ironsheep/image-augment/internal/colorspace"
	"github.com/ironsheep/image-augment/internal/param"
	"github.com/ironsheep/image-augment/internal/pix"
	"github.com/ironsheep/image-augment/internal/rng"
)

func TestHueSatTables(t *testing.T) {
	tables := hueSatLUT()
	tests := []struct {
		name     string
		table    *[511][256]uint8
		shift, v int
		want     uint8
	}{
		{"hue zero shift", &tables.hue, 0, 90, 90},
		{"hue wraps up", &tables.hue, 100, 150, 70},
		{"hue wraps down", &tables.hue, -10, 5, 175},
		{"hue full turn", &tables.hue, 180, 90, 90},
		{"sat zero shift", &tables.sat, 0, 90, 90},
		{"sat clips high", &tables.sat, 100, 200, 255},
		{"sat clips low", &tables.sat, -100, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table[255+tt.shift][tt.v]; got != tt.want {
				t.Errorf("shift=%d v=%d: got %d, want %d", tt.shift, tt.v, got, tt.want)
			}
		})
	}
}

func TestHuePlaneProjectionRoundTrips(t *testing.T) {
	// extractHS projects hue to [0, 255]; mergeHS projects back. Without
	// any operation in between the hue byte must survive exactly.
	img := pix.New(180, 1, 3)
	for v := 0; v < 180; v++ {
		img.Pix[v*3] = uint8(v)
		img.Pix[v*3+2] = 100
	}
	planes := extractHS(img)
	mergeHS(img, planes)
	for v := 0; v < 180; v++ {
		if img.Pix[v*3] != uint8(v) {
			t.Fatalf("hue %d: got %d after projection roundtrip", v, img.Pix[v*3])
		}
	}
}

func TestAddToHueFullTurnIsIdentityShift(t *testing.T) {
	// A shift of 255 projects to a 180-degree-table full turn, so it must
	// behave exactly like a shift of 0.
	img := testImage()

	zero, err := NewAddToHue(param.Constant(0), colorspace.RGB, rng.New(1))
	if err != nil {
		t.Fatalf("NewAddToHue: %v", err)
	}
	full, err := NewAddToHue(param.Constant(255), colorspace.RGB, rng.New(1))
	if err != nil {
		t.Fatalf("NewAddToHue: %v", err)
	}

	a, err := Run(zero, []*pix.Image{img.Clone()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(full, []*pix.Image{img.Clone()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !a[0].Equal(b[0]) {
		t.Error("shift 255 and shift 0 should produce identical images")
	}
}

func TestAddToSaturationSaturates(t *testing.T) {
	aug, err := NewAddToSaturation(param.Constant(255), colorspace.RGB, rng.New(1))
	if err != nil {
		t.Fatalf("NewAddToSaturation: %v", err)
	}
	img := testImage()
	out, err := Run(aug, []*pix.Image{img})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	hsv, err := colorspace.Convert(out[0], colorspace.RGB, colorspace.HSV)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(hsv.Pix); i += 3 {
		if hsv.Pix[i+2] == 0 {
			continue // black pixels carry no saturation
		}
		if hsv.Pix[i+1] < 254 {
			t.Fatalf("pixel %d: saturation %d, want clipped to full", i/3, hsv.Pix[i+1])
		}
	}
}

func TestAddConfigurationExclusive(t *testing.T) {
	_, err := NewAddToHueAndSaturation(
		param.Constant(10), param.Constant(5), nil, 0,
		colorspace.RGB, rng.New(1))
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("got %v, want ErrConfiguration", err)
	}
}

func TestAddValueRangeChecked(t *testing.T) {
	_, err := NewAddToHue(param.Constant(300), colorspace.RGB, rng.New(1))
	if !errors.Is(err, param.ErrParameterRange) {
		t.Errorf("got %v, want ErrParameterRange", err)
	}
}

// cyclingParam repeats a fixed list of values, ignoring the stream. It
// stands in for a user-supplied Parameter that the static range check
// cannot see through.
type cyclingParam []float64

func (p cyclingParam) Draw(n int, st *rng.Stream) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = p[i%len(p)]
	}
	return out
}

func TestAddSaturationSamplesRangeCheckedAtDrawTime(t *testing.T) {
	// With the per-channel coin fixed to 1 the saturation channel draws
	// the odd samples. Those must be range-checked like the hue samples,
	// not fed straight into the shift tables.
	value := cyclingParam{10, 5000}
	aug, err := NewAddToHueAndSaturation(value, nil, nil, 1, colorspace.RGB, rng.New(1))
	if err != nil {
		t.Fatalf("NewAddToHueAndSaturation: %v", err)
	}
	_, err = Run(aug, []*pix.Image{testImage()})
	if !errors.Is(err, param.ErrParameterRange) {
		t.Errorf("got %v, want ErrParameterRange", err)
	}
}

func TestMulConfigurationExclusive(t *testing.T) {
	_, err := NewMultiplyHueAndSaturation(
		param.Constant(1), param.Constant(1), nil, 0,
		colorspace.RGB, rng.New(1))
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("got %v, want ErrConfiguration", err)
	}
}

func TestMulSaturationRejectsNegative(t *testing.T) {
	_, err := NewMultiplySaturation(param.Uniform{Lo: -1, Hi: 1}, colorspace.RGB, rng.New(1))
	if !errors.Is(err, param.ErrParameterRange) {
		t.Errorf("got %v, want ErrParameterRange", err)
	}
}

func TestMultiplySaturationZeroDesaturates(t *testing.T) {
	aug, err := NewMultiplySaturation(param.Constant(0), colorspace.RGB, rng.New(1))
	if err != nil {
		t.Fatalf("NewMultiplySaturation: %v", err)
	}
	out, err := Run(aug, []*pix.Image{testImage()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	hsv, err := colorspace.Convert(out[0], colorspace.RGB, colorspace.HSV)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(hsv.Pix); i += 3 {
		if hsv.Pix[i+1] > 1 {
			t.Fatalf("pixel %d: saturation %d after multiply by zero", i/3, hsv.Pix[i+1])
		}
	}
}

func TestWithHueAndSaturationRequiresThreeChannels(t *testing.T) {
	aug, err := NewWithHueAndSaturation(
		[]ChannelOp{AddOp{Value: param.Constant(10), Hue: true}},
		colorspace.RGB, rng.New(1))
	if err != nil {
		t.Fatalf("NewWithHueAndSaturation: %v", err)
	}
	_, err = Run(aug, []*pix.Image{pix.New(2, 2, 1)})
	if !errors.Is(err, pix.ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}
}

func TestWithHueAndSaturationFromGray(t *testing.T) {
	_, err := NewWithHueAndSaturation(nil, colorspace.GRAY, rng.New(1))
	if !errors.Is(err, colorspace.ErrUnsupportedConversion) {
		t.Errorf("got %v, want ErrUnsupportedConversion", err)
	}
}

func TestOpsApplyInOrder(t *testing.T) {
	// Multiplying saturation by 0 then adding 200 must differ from adding
	// 200 then multiplying by 0.
	img := testImage()

	mulThenAdd, err := NewWithHueAndSaturation([]ChannelOp{
		MulOp{Value: param.Constant(0), Sat: true},
		AddOp{Value: param.Constant(200), Sat: true},
	}, colorspace.RGB, rng.New(1))
	if err != nil {
		t.Fatal(err)
	}
	addThenMul, err := NewWithHueAndSaturation([]ChannelOp{
		AddOp{Value: param.Constant(200), Sat: true},
		MulOp{Value: param.Constant(0), Sat: true},
	}, colorspace.RGB, rng.New(1))
	if err != nil {
		t.Fatal(err)
	}

	a, err := Run(mulThenAdd, []*pix.Image{img.Clone()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(addThenMul, []*pix.Image{img.Clone()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a[0].Equal(b[0]) {
		t.Error("operation order should change the result")
	}
}

func TestDrawChannelSamplesSharedVsIndependent(t *testing.T) {
	// A coin of 0 shares one sample between the channels; a coin of 1
	// gives the saturation channel its own sample. The stream advances
	// identically either way.
	value := param.DiscreteUniform{Lo: -100, Hi: 100}

	hue0, sat0 := drawChannelSamples(value, param.Binomial{P: 0}, 8, rng.New(5))
	for i := range hue0 {
		if hue0[i] != sat0[i] {
			t.Fatalf("coin 0, image %d: hue %v != sat %v", i, hue0[i], sat0[i])
		}
	}

	hue1, _ := drawChannelSamples(value, param.Binomial{P: 1}, 8, rng.New(5))
	for i := range hue1 {
		if hue1[i] != hue0[i] {
			t.Fatalf("hue draw %d changed with the coin: %v vs %v", i, hue1[i], hue0[i])
		}
	}
}
