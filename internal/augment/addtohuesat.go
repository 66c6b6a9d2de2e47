package augment

import (
	"fmt"

	"github.com/ironsheep/image-augment/internal/colorspace"
	"github.com/ironsheep/image-augment/internal/param"
	"github.com/ironsheep/image-augment/internal/rng"
)

// AddToHueAndSaturation adds per-image sampled values to the hue and
// saturation channels.
//
// This is the fast path of the hue/saturation engine: instead of going
// through int16 planes it converts to HSV once and applies the precomputed
// add tables (see hueSatLUT) directly to the H and S channels. Hue shifts
// are projected from the user-facing [-255, 255] range to the native
// [0, 180] hue range and wrap; saturation shifts clip.
//
// Either value (one shift for both channels, with perChannel as the
// probability of sampling the channels independently) or valueHue/valueSat
// may be given, not both. All shifts must lie in [-255, 255].
type AddToHueAndSaturation struct {
	base
	value      param.Parameter
	valueHue   param.Parameter
	valueSat   param.Parameter
	perChannel param.Parameter
	from       colorspace.Colorspace
}

// NewAddToHueAndSaturation creates the augmenter. Unused parameters are
// nil; an all-nil configuration is a no-op shift of zero.
func NewAddToHueAndSaturation(value, valueHue, valueSat param.Parameter, perChannel float64, from colorspace.Colorspace, st *rng.Stream) (*AddToHueAndSaturation, error) {
	if value != nil && (valueHue != nil || valueSat != nil) {
		return nil, fmt.Errorf("%w: value is exclusive with value_hue/value_saturation", ErrConfiguration)
	}
	if value != nil {
		if err := param.ValidateRange(value, "value", -255, 255); err != nil {
			return nil, err
		}
	}
	if valueHue != nil {
		if err := param.ValidateRange(valueHue, "value_hue", -255, 255); err != nil {
			return nil, err
		}
	}
	if valueSat != nil {
		if err := param.ValidateRange(valueSat, "value_saturation", -255, 255); err != nil {
			return nil, err
		}
	}
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %q", colorspace.ErrInvalidColorspace, from)
	}
	if from == colorspace.GRAY {
		return nil, fmt.Errorf("%w: cannot start from %q", colorspace.ErrUnsupportedConversion, colorspace.GRAY)
	}
	return &AddToHueAndSaturation{
		base:       newBase("AddToHueAndSaturation", st),
		value:      value,
		valueHue:   valueHue,
		valueSat:   valueSat,
		perChannel: param.Binomial{P: perChannel},
		from:       from,
	}, nil
}

// drawSamples returns one hue shift (already projected to the native
// [0, 180] hue range) and one saturation shift per image.
func (a *AddToHueAndSaturation) drawSamples(n int, st *rng.Stream) (hue, sat []int, err error) {
	rss := st.ForkN(2)

	var hueF, satF []float64
	if a.value != nil {
		hueF, satF = drawChannelSamples(a.value, a.perChannel, n, rss[0])
		if err := param.CheckSamples(hueF, "value", -255, 255); err != nil {
			return nil, nil, err
		}
		// Under the per-channel coin the saturation samples are drawn
		// separately from the hue samples, so they need their own check.
		if err := param.CheckSamples(satF, "value", -255, 255); err != nil {
			return nil, nil, err
		}
	} else {
		hueF = make([]float64, n)
		satF = make([]float64, n)
		if a.valueHue != nil {
			hueF = a.valueHue.Draw(n, rss[0])
			if err := param.CheckSamples(hueF, "value_hue", -255, 255); err != nil {
				return nil, nil, err
			}
		}
		if a.valueSat != nil {
			satF = a.valueSat.Draw(n, rss[1])
			if err := param.CheckSamples(satF, "value_saturation", -255, 255); err != nil {
				return nil, nil, err
			}
		}
	}

	hue = make([]int, n)
	sat = make([]int, n)
	for i := 0; i < n; i++ {
		hue[i] = round(hueF[i] * 180.0 / 255.0)
		sat[i] = round(satF[i])
	}
	return hue, sat, nil
}

// Augment implements Augmenter.
func (a *AddToHueAndSaturation) Augment(batch *Batch, parents []Augmenter, hooks Hooks) (*Batch, error) {
	if !propagating(hooks, batch, a, parents) {
		return batch, nil
	}
	st := a.stream.Use()
	hue, sat, err := a.drawSamples(len(batch.Images), st)
	if err != nil {
		return nil, err
	}

	tables := hueSatLUT()
	for i, img := range batch.Images {
		hsv, err := colorspace.Convert(img, a.from, colorspace.HSV)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		hueRow := &tables.hue[255+hue[i]]
		satRow := &tables.sat[255+sat[i]]
		for o := 0; o < len(hsv.Pix); o += 3 {
			hsv.Pix[o] = hueRow[hsv.Pix[o]]
			hsv.Pix[o+1] = satRow[hsv.Pix[o+1]]
		}
		restored, err := colorspace.Convert(hsv, colorspace.HSV, a.from)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		batch.Images[i] = restored
	}
	return batch, nil
}

// ToDeterministic implements Augmenter.
func (a *AddToHueAndSaturation) ToDeterministic() Augmenter {
	clone := *a
	clone.base = a.detClone()
	return &clone
}

// Children implements Augmenter.
func (a *AddToHueAndSaturation) Children() []Augmenter { return nil }

// NewAddToHue adds only to the hue channel. A nil value defaults to the
// full discrete shift range [-255, 255].
func NewAddToHue(value param.Parameter, from colorspace.Colorspace, st *rng.Stream) (*AddToHueAndSaturation, error) {
	if value == nil {
		value = param.DiscreteUniform{Lo: -255, Hi: 255}
	}
	aug, err := NewAddToHueAndSaturation(nil, value, nil, 0, from, st)
	if err != nil {
		return nil, err
	}
	aug.name = "AddToHue"
	return aug, nil
}

// NewAddToSaturation adds only to the saturation channel. A nil value
// defaults to discrete shifts from [-75, 75].
func NewAddToSaturation(value param.Parameter, from colorspace.Colorspace, st *rng.Stream) (*AddToHueAndSaturation, error) {
	if value == nil {
		value = param.DiscreteUniform{Lo: -75, Hi: 75}
	}
	aug, err := NewAddToHueAndSaturation(nil, nil, value, 0, from, st)
	if err != nil {
		return nil, err
	}
	aug.name = "AddToSaturation"
	return aug, nil
}
