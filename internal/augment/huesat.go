package augment

import (
	"fmt"

	"github.com/ironsheep/image-augment/internal/colorspace"
	"github.com/ironsheep/image-augment/internal/param"
	"github.com/ironsheep/image-augment/internal/pix"
	"github.com/ironsheep/image-augment/internal/rng"
)

// HSPlanes is the hue/saturation intermediate of one image inside
// WithHueAndSaturation. Hue is projected from its native [0, 180] range to
// [0, 255] so both channels share the 8-bit range; the planes use int16 so
// operations can overflow transiently before the final wraparound/clip.
type HSPlanes struct {
	W, H     int
	Hue, Sat []int16
}

// ChannelOp is one arithmetic operation applied to the hue/saturation
// planes of a whole batch. The concrete operations are AddOp and MulOp;
// the interface is closed.
type ChannelOp interface {
	applyAll(planes []*HSPlanes, st *rng.Stream) error
}

// drawChannelSamples draws one hue and one saturation sample per image.
//
// When both channels are targeted, a per-image coin (perChannel) decides
// whether the two channels share one sample or get independent ones; the
// value parameter is drawn twice per image either way so the stream advances
// identically regardless of the coin.
func drawChannelSamples(value, perChannel param.Parameter, n int, st *rng.Stream) (hue, sat []float64) {
	coins := make([]float64, n)
	if perChannel != nil {
		coins = perChannel.Draw(n, st)
	}
	vals := value.Draw(2*n, st)
	hue = make([]float64, n)
	sat = make([]float64, n)
	for i := 0; i < n; i++ {
		hue[i] = vals[2*i]
		if coins[i] > 0.5 {
			sat[i] = vals[2*i+1]
		} else {
			sat[i] = vals[2*i]
		}
	}
	return hue, sat
}

// AddOp adds a sampled value to the selected channels. Values must lie in
// [-255, 255]; hue wraps and saturation clips during post-processing.
type AddOp struct {
	Value param.Parameter

	// Hue and Sat select the target channels.
	Hue, Sat bool

	// PerChannel is the per-image probability coin for sampling hue and
	// saturation independently. Only meaningful when both channels are
	// targeted; nil means one shared sample.
	PerChannel param.Parameter
}

func (op AddOp) applyAll(planes []*HSPlanes, st *rng.Stream) error {
	n := len(planes)
	var hue, sat []float64
	if op.Hue && op.Sat {
		hue, sat = drawChannelSamples(op.Value, op.PerChannel, n, st)
	} else {
		vals := op.Value.Draw(n, st)
		hue, sat = vals, vals
	}
	if err := param.CheckSamples(hue, "add value", -255, 255); err != nil {
		return err
	}
	for i, p := range planes {
		if op.Hue {
			addPlane(p.Hue, int16(round(hue[i])))
		}
		if op.Sat {
			addPlane(p.Sat, int16(round(sat[i])))
		}
	}
	return nil
}

// MulOp multiplies the selected channels by a sampled factor. Hue factors
// must lie in [-10, 10], saturation-only factors in [0, 10].
type MulOp struct {
	Value      param.Parameter
	Hue, Sat   bool
	PerChannel param.Parameter
}

func (op MulOp) applyAll(planes []*HSPlanes, st *rng.Stream) error {
	n := len(planes)
	var hue, sat []float64
	if op.Hue && op.Sat {
		hue, sat = drawChannelSamples(op.Value, op.PerChannel, n, st)
		if err := param.CheckSamples(hue, "mul", -10, 10); err != nil {
			return err
		}
		if err := param.CheckSamples(sat, "mul", -10, 10); err != nil {
			return err
		}
	} else if op.Hue {
		hue = op.Value.Draw(n, st)
		if err := param.CheckSamples(hue, "mul_hue", -10, 10); err != nil {
			return err
		}
	} else if op.Sat {
		sat = op.Value.Draw(n, st)
		if err := param.CheckSamples(sat, "mul_saturation", 0, 10); err != nil {
			return err
		}
	}
	for i, p := range planes {
		if op.Hue {
			mulPlane(p.Hue, hue[i])
		}
		if op.Sat {
			mulPlane(p.Sat, sat[i])
		}
	}
	return nil
}

func addPlane(plane []int16, v int16) {
	for i := range plane {
		plane[i] += v
	}
}

func mulPlane(plane []int16, v float64) {
	for i := range plane {
		plane[i] = int16(round(float64(plane[i]) * v))
	}
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// WithHueAndSaturation converts images to HSV, hands int16 hue/saturation
// planes to its channel operations and converts back.
//
// Post-processing treats the two channels differently: hue is angular, so
// its values wrap (modulo 255 in the projected range) before projecting back
// to [0, 180]; saturation clips to [0, 255]. The value plane is reattached
// unmodified.
type WithHueAndSaturation struct {
	base
	from colorspace.Colorspace
	ops  []ChannelOp
}

// NewWithHueAndSaturation creates the engine over the given operations.
func NewWithHueAndSaturation(ops []ChannelOp, from colorspace.Colorspace, st *rng.Stream) (*WithHueAndSaturation, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %q", colorspace.ErrInvalidColorspace, from)
	}
	if from == colorspace.GRAY {
		return nil, fmt.Errorf("%w: cannot start from %q", colorspace.ErrUnsupportedConversion, colorspace.GRAY)
	}
	return &WithHueAndSaturation{base: newBase("WithHueAndSaturation", st), from: from, ops: ops}, nil
}

// Augment implements Augmenter.
func (a *WithHueAndSaturation) Augment(batch *Batch, parents []Augmenter, hooks Hooks) (*Batch, error) {
	if !propagating(hooks, batch, a, parents) {
		return batch, nil
	}
	for i, img := range batch.Images {
		if img.C != 3 {
			return nil, fmt.Errorf("%w: image %d has %d channels, channel operations need 3", pix.ErrShapeMismatch, i, img.C)
		}
	}
	st := a.stream.Use()

	hsv, err := colorspace.ConvertAll(batch.Images, colorspace.HSV, a.from)
	if err != nil {
		return nil, err
	}
	planes := make([]*HSPlanes, len(hsv))
	for i, img := range hsv {
		planes[i] = extractHS(img)
	}

	for _, op := range a.ops {
		if err := op.applyAll(planes, st); err != nil {
			return nil, err
		}
	}

	for i, p := range planes {
		mergeHS(hsv[i], p)
	}
	restored, err := colorspace.ConvertAll(hsv, a.from, colorspace.HSV)
	if err != nil {
		return nil, err
	}
	return batch.withImages(restored), nil
}

// ToDeterministic implements Augmenter.
func (a *WithHueAndSaturation) ToDeterministic() Augmenter {
	return &WithHueAndSaturation{base: a.detClone(), from: a.from, ops: a.ops}
}

// Children implements Augmenter. Channel operations are not augmenter
// nodes, so the engine is a leaf for traversal purposes.
func (a *WithHueAndSaturation) Children() []Augmenter { return nil }

// extractHS pulls the hue and saturation planes out of an HSV image,
// projecting hue from [0, 180] to [0, 255].
func extractHS(img *pix.Image) *HSPlanes {
	n := img.W * img.H
	p := &HSPlanes{W: img.W, H: img.H, Hue: make([]int16, n), Sat: make([]int16, n)}
	for i := 0; i < n; i++ {
		p.Hue[i] = int16(round(float64(img.Pix[i*3]) * 255.0 / 180.0))
		p.Sat[i] = int16(img.Pix[i*3+1])
	}
	return p
}

// mergeHS writes post-processed planes back into the HSV image: hue modulo
// 255 then projected to [0, 180], saturation clipped to [0, 255].
func mergeHS(img *pix.Image, p *HSPlanes) {
	n := img.W * img.H
	for i := 0; i < n; i++ {
		h := int(p.Hue[i]) % 255
		if h < 0 {
			h += 255
		}
		img.Pix[i*3] = uint8(round(float64(h) * 180.0 / 255.0))

		s := int(p.Sat[i])
		if s < 0 {
			s = 0
		} else if s > 255 {
			s = 255
		}
		img.Pix[i*3+1] = uint8(s)
	}
}
