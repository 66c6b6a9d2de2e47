package quantize

import (
	"errors"
	"testing"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/colorspace"
	"github.com/ironsheep/image-augment/internal/param"
	"github.com/ironsheep/image-augment/internal/pix"
	"github.com/ironsheep/image-augment/internal/rng"
)

// gradient returns an image touching many distinct values.
func gradient(w, h, c int) *pix.Image {
	img := pix.New(w, h, c)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	return img
}

func TestQuantizeUniformFormula(t *testing.T) {
	tests := []struct {
		v    uint8
		n    int
		want uint8
	}{
		{200, 2, 192},
		{50, 2, 64},
		{0, 2, 64},
		{255, 2, 192},
		{0, 4, 32},
		{255, 4, 224},
	}
	for _, tt := range tests {
		img := pix.New(1, 1, 1)
		img.Pix[0] = tt.v
		out, err := quantizeUniform(img, tt.n, nil)
		if err != nil {
			t.Fatalf("quantizeUniform: %v", err)
		}
		if out.Pix[0] != tt.want {
			t.Errorf("v=%d n=%d: got %d, want %d", tt.v, tt.n, out.Pix[0], tt.want)
		}
	}
}

func TestQuantizeUniform256IsIdentityCopy(t *testing.T) {
	img := gradient(16, 16, 1)
	out, err := quantizeUniform(img, 256, nil)
	if err != nil {
		t.Fatalf("quantizeUniform: %v", err)
	}
	if !out.Equal(img) {
		t.Error("n=256 should reproduce the input")
	}
	out.Pix[0]++
	if img.Pix[0] == out.Pix[0] {
		t.Error("n=256 should return a copy, not the input instance")
	}
}

func TestQuantizeUniformClampsColorCount(t *testing.T) {
	img := gradient(16, 16, 1)
	low, err := quantizeUniform(img, 1, nil)
	if err != nil {
		t.Fatalf("quantizeUniform: %v", err)
	}
	if got := low.DistinctColors(); got > 2 {
		t.Errorf("n=1 clamps to 2: got %d distinct values", got)
	}
	high, err := quantizeUniform(img, 1000, nil)
	if err != nil {
		t.Fatalf("quantizeUniform: %v", err)
	}
	if !high.Equal(img) {
		t.Error("n clamped to 256 should reproduce the input")
	}
}

func TestQuantizeUniformDistinctValues(t *testing.T) {
	img := gradient(16, 16, 1)
	out, err := quantizeUniform(img, 4, nil)
	if err != nil {
		t.Fatalf("quantizeUniform: %v", err)
	}
	if got := out.DistinctColors(); got > 4 {
		t.Errorf("distinct values: got %d, want <= 4", got)
	}
}

func TestQuantizeKMeansReducesColors(t *testing.T) {
	img := gradient(10, 10, 3)
	out, err := quantizeKMeans(img, 3, rng.New(7))
	if err != nil {
		t.Fatalf("quantizeKMeans: %v", err)
	}
	if out.W != 10 || out.H != 10 || out.C != 3 {
		t.Fatalf("shape: got %dx%dx%d, want 10x10x3", out.W, out.H, out.C)
	}
	if got := out.DistinctColors(); got > 3 {
		t.Errorf("distinct colors: got %d, want <= 3", got)
	}
}

func TestQuantizeKMeansIsDeterministic(t *testing.T) {
	img := gradient(10, 10, 3)
	a, err := quantizeKMeans(img, 4, rng.New(21))
	if err != nil {
		t.Fatal(err)
	}
	b, err := quantizeKMeans(img, 4, rng.New(21))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("identical inputs and seeds produced different partitions")
	}
}

func TestQuantizeKMeansFewPixels(t *testing.T) {
	img := gradient(2, 2, 3)
	out, err := quantizeKMeans(img, 10, rng.New(7))
	if err != nil {
		t.Fatalf("quantizeKMeans: %v", err)
	}
	if !out.Equal(img) {
		t.Error("n >= pixel count should reproduce the input")
	}
	out.Pix[0]++
	if img.Pix[0] == out.Pix[0] {
		t.Error("degenerate case should return a copy, not the input instance")
	}
}

func TestUniformAugmenterKeepsShape(t *testing.T) {
	q, err := NewUniform(param.Constant(4), colorspace.RGB, nil, 0, rng.New(1))
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}
	img := gradient(12, 9, 3)
	out, err := augment.Run(q, []*pix.Image{img})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out[0].W != 12 || out[0].H != 9 || out[0].C != 3 {
		t.Errorf("shape: got %dx%dx%d, want 12x9x3", out[0].W, out[0].H, out[0].C)
	}
}

func TestQuantizerMaxSizeRestoresShape(t *testing.T) {
	q, err := NewUniform(param.Constant(4), colorspace.RGB, nil, 16, rng.New(1))
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}
	img := gradient(64, 32, 3)
	out, err := augment.Run(q, []*pix.Image{img})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out[0].W != 64 || out[0].H != 32 {
		t.Errorf("shape: got %dx%d, want 64x32", out[0].W, out[0].H)
	}
}

func TestQuantizerAlphaPassesThrough(t *testing.T) {
	img := gradient(8, 8, 4)
	want := make([]uint8, 64)
	for p := 0; p < 64; p++ {
		want[p] = img.Pix[p*4+3]
	}
	q, err := NewUniform(param.Constant(2), colorspace.RGB, nil, 0, rng.New(1))
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}
	out, err := augment.Run(q, []*pix.Image{img})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out[0].C != 4 {
		t.Fatalf("channels: got %d, want 4", out[0].C)
	}
	for p := 0; p < 64; p++ {
		if out[0].Pix[p*4+3] != want[p] {
			t.Fatalf("alpha %d: got %d, want %d", p, out[0].Pix[p*4+3], want[p])
		}
	}
}

func TestQuantizerGrayscaleInput(t *testing.T) {
	q, err := NewUniform(param.Constant(4), colorspace.RGB, []colorspace.Colorspace{colorspace.Lab}, 0, rng.New(1))
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}
	img := gradient(8, 8, 1)
	out, err := augment.Run(q, []*pix.Image{img})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out[0].C != 1 {
		t.Fatalf("channels: got %d, want 1", out[0].C)
	}
	if got := out[0].DistinctColors(); got > 4 {
		t.Errorf("distinct values: got %d, want <= 4", got)
	}
}

func TestQuantizerRejectsBadChannelCount(t *testing.T) {
	q, err := NewUniform(param.Constant(4), colorspace.RGB, nil, 0, rng.New(1))
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}
	bad := &pix.Image{W: 2, H: 2, C: 2, Pix: make([]uint8, 8)}
	_, err = augment.Run(q, []*pix.Image{bad})
	if !errors.Is(err, pix.ErrInvalidChannelCount) {
		t.Errorf("got %v, want ErrInvalidChannelCount", err)
	}
}

func TestQuantizerRejectsGrayWorkingSpace(t *testing.T) {
	_, err := NewUniform(nil, colorspace.RGB, []colorspace.Colorspace{colorspace.GRAY}, 0, rng.New(1))
	if !errors.Is(err, colorspace.ErrUnsupportedConversion) {
		t.Errorf("got %v, want ErrUnsupportedConversion", err)
	}
}

func TestKMeansDefaults(t *testing.T) {
	q, err := NewKMeans(nil, "", nil, 0, rng.New(1))
	if err != nil {
		t.Fatalf("NewKMeans: %v", err)
	}
	if q.Name() != "KMeansColorQuantization" {
		t.Errorf("Name: got %q", q.Name())
	}
	if q.maxSize != defaultKMeansMaxSize {
		t.Errorf("maxSize: got %d, want %d", q.maxSize, defaultKMeansMaxSize)
	}
	if len(q.to) != 2 || q.to[0] != colorspace.RGB || q.to[1] != colorspace.Lab {
		t.Errorf("to: got %v, want [RGB Lab]", q.to)
	}
}

func TestQuantizerDeterministicReplay(t *testing.T) {
	q, err := NewUniform(param.DiscreteUniform{Lo: 2, Hi: 16}, colorspace.RGB, nil, 0, rng.New(9))
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}
	det := q.ToDeterministic()
	img := gradient(8, 8, 3)
	a, err := augment.Run(det, []*pix.Image{img.Clone()})
	if err != nil {
		t.Fatal(err)
	}
	b, err := augment.Run(det, []*pix.Image{img.Clone()})
	if err != nil {
		t.Fatal(err)
	}
	if !a[0].Equal(b[0]) {
		t.Error("deterministic quantizer produced different outputs on repeat")
	}
}
