package quantize

import (
	"fmt"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/colorspace"
	"github.com/ironsheep/image-augment/internal/param"
	"github.com/ironsheep/image-augment/internal/pix"
	"github.com/ironsheep/image-augment/internal/rng"
)

// minColors and maxColors bound the per-image color count. Sampled counts
// outside the range are clamped, not rejected, so wide parameter ranges
// remain usable.
const (
	minColors = 2
	maxColors = 256
)

// quantizeFunc reduces the colors of a single image to at most n and
// returns a new image. It must not mutate its input. st is the image's
// derived stream, for strategies that need their own randomness.
type quantizeFunc func(img *pix.Image, n int, st *rng.Stream) (*pix.Image, error)

// Quantizer applies a color quantization strategy to each image of a batch.
// Construct it with NewKMeans or NewUniform.
type Quantizer struct {
	name          string
	deterministic bool
	stream        *rng.Stream

	nColors param.Parameter
	from    colorspace.Colorspace
	to      []colorspace.Colorspace
	maxSize int
	fn      quantizeFunc
}

func newQuantizer(name string, nColors param.Parameter, from colorspace.Colorspace, to []colorspace.Colorspace, maxSize int, st *rng.Stream, fn quantizeFunc) (*Quantizer, error) {
	if nColors == nil {
		nColors = param.DiscreteUniform{Lo: 2, Hi: 16}
	}
	if from == "" {
		from = colorspace.RGB
	}
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %q", colorspace.ErrInvalidColorspace, from)
	}
	for _, cs := range to {
		if !cs.Valid() {
			return nil, fmt.Errorf("%w: %q", colorspace.ErrInvalidColorspace, cs)
		}
		if cs == colorspace.GRAY {
			return nil, fmt.Errorf("%w: colors cannot be recovered after quantizing in %q", colorspace.ErrUnsupportedConversion, colorspace.GRAY)
		}
	}
	if st == nil {
		st = rng.NewAuto()
	}
	return &Quantizer{
		name:    name,
		stream:  st,
		nColors: nColors,
		from:    from,
		to:      to,
		maxSize: maxSize,
		fn:      fn,
	}, nil
}

// Name implements augment.Augmenter.
func (q *Quantizer) Name() string { return q.name }

// Children implements augment.Augmenter.
func (q *Quantizer) Children() []augment.Augmenter { return nil }

// ToDeterministic implements augment.Augmenter.
func (q *Quantizer) ToDeterministic() augment.Augmenter {
	clone := *q
	clone.deterministic = true
	clone.stream = q.stream.Fork().Freeze()
	return &clone
}

// Augment implements augment.Augmenter. One color count and, if candidate
// colorspaces are configured, one working colorspace are sampled per image.
func (q *Quantizer) Augment(batch *augment.Batch, parents []augment.Augmenter, hooks augment.Hooks) (*augment.Batch, error) {
	if !augment.Propagates(hooks, batch, q, parents) {
		return batch, nil
	}
	st := q.stream.Use()
	n := len(batch.Images)
	rss := st.ForkN(n + 1)
	counts := q.drawColorCounts(n, rss[n])
	for i, img := range batch.Images {
		out, err := q.augmentImage(img, counts[i], rss[i])
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		batch.Images[i] = out
	}
	return batch, nil
}

func (q *Quantizer) drawColorCounts(n int, st *rng.Stream) []int {
	samples := q.nColors.Draw(n, st)
	counts := make([]int, n)
	for i, v := range samples {
		c := int(v)
		if c < minColors {
			c = minColors
		}
		counts[i] = c
	}
	return counts
}

func (q *Quantizer) augmentImage(img *pix.Image, nColors int, st *rng.Stream) (*pix.Image, error) {
	switch img.C {
	case 1, 3, 4:
	default:
		return nil, fmt.Errorf("%w: expected 1, 3 or 4 channels, got %d", pix.ErrInvalidChannelCount, img.C)
	}

	origW, origH := img.W, img.H
	work := img
	if q.maxSize > 0 {
		work = pix.FitMaxSide(work, q.maxSize)
	}

	var out *pix.Image
	var err error
	if work.C == 1 {
		out, err = q.fn(work, nColors, st)
		if err != nil {
			return nil, err
		}
	} else {
		color := work
		var alpha []uint8
		if work.C == 4 {
			color, alpha = splitAlpha(work)
		}

		cs := q.from
		if len(q.to) > 0 {
			cs = q.to[st.Intn(len(q.to))]
		}
		tf, err := colorspace.Convert(color, q.from, cs)
		if err != nil {
			return nil, err
		}
		quantized, err := q.fn(tf, nColors, st)
		if err != nil {
			return nil, err
		}
		out, err = colorspace.Convert(quantized, cs, q.from)
		if err != nil {
			return nil, err
		}
		if alpha != nil {
			out = attachAlpha(out, alpha)
		}
	}

	if out.W != origW || out.H != origH {
		out = pix.Resize(out, origW, origH)
	}
	return out, nil
}

// splitAlpha separates a 4-channel image into its color part and a flat
// alpha plane.
func splitAlpha(img *pix.Image) (*pix.Image, []uint8) {
	color := pix.New(img.W, img.H, 3)
	alpha := make([]uint8, img.W*img.H)
	for p := 0; p < img.W*img.H; p++ {
		copy(color.Pix[p*3:p*3+3], img.Pix[p*4:p*4+3])
		alpha[p] = img.Pix[p*4+3]
	}
	return color, alpha
}

func attachAlpha(color *pix.Image, alpha []uint8) *pix.Image {
	out := pix.New(color.W, color.H, 4)
	for p := 0; p < color.W*color.H; p++ {
		copy(out.Pix[p*4:p*4+3], color.Pix[p*3:p*3+3])
		out.Pix[p*4+3] = alpha[p]
	}
	return out
}

func clampColorCount(n int) int {
	if n < minColors {
		return minColors
	}
	if n > maxColors {
		return maxColors
	}
	return n
}
