package augment

import (
	"fmt"

	"github.com/ironsheep/image-augment/internal/colorspace"
	"github.com/ironsheep/image-augment/internal/param"
	"github.com/ironsheep/image-augment/internal/rng"
)

// NewMultiplyHueAndSaturation creates an augmenter that multiplies hue
// and/or saturation by per-image sampled factors, built on
// WithHueAndSaturation.
//
// Either mul (one factor for both channels, with perChannel as the
// probability of sampling the channels independently) or mulHue/mulSat
// (channel-specific factors) may be given, not both. Hue factors must lie
// in [-10, 10], saturation-only factors in [0, 10].
func NewMultiplyHueAndSaturation(mul, mulHue, mulSat param.Parameter, perChannel float64, from colorspace.Colorspace, st *rng.Stream) (*WithHueAndSaturation, error) {
	var ops []ChannelOp
	switch {
	case mul != nil && (mulHue != nil || mulSat != nil):
		return nil, fmt.Errorf("%w: mul is exclusive with mul_hue/mul_saturation", ErrConfiguration)
	case mul != nil:
		if err := param.ValidateRange(mul, "mul", -10, 10); err != nil {
			return nil, err
		}
		ops = append(ops, MulOp{Value: mul, Hue: true, Sat: true, PerChannel: param.Binomial{P: perChannel}})
	default:
		if mulHue != nil {
			if err := param.ValidateRange(mulHue, "mul_hue", -10, 10); err != nil {
				return nil, err
			}
			ops = append(ops, MulOp{Value: mulHue, Hue: true})
		}
		if mulSat != nil {
			if err := param.ValidateRange(mulSat, "mul_saturation", 0, 10); err != nil {
				return nil, err
			}
			ops = append(ops, MulOp{Value: mulSat, Sat: true})
		}
	}
	aug, err := NewWithHueAndSaturation(ops, from, st)
	if err != nil {
		return nil, err
	}
	aug.name = "MultiplyHueAndSaturation"
	return aug, nil
}

// NewMultiplyHue multiplies only the hue channel. A nil mul defaults to a
// uniform factor from [-1, 1].
func NewMultiplyHue(mul param.Parameter, from colorspace.Colorspace, st *rng.Stream) (*WithHueAndSaturation, error) {
	if mul == nil {
		mul = param.Uniform{Lo: -1, Hi: 1}
	}
	aug, err := NewMultiplyHueAndSaturation(nil, mul, nil, 0, from, st)
	if err != nil {
		return nil, err
	}
	aug.name = "MultiplyHue"
	return aug, nil
}

// NewMultiplySaturation multiplies only the saturation channel. A nil mul
// defaults to a uniform factor from [0, 3].
func NewMultiplySaturation(mul param.Parameter, from colorspace.Colorspace, st *rng.Stream) (*WithHueAndSaturation, error) {
	if mul == nil {
		mul = param.Uniform{Lo: 0, Hi: 3}
	}
	aug, err := NewMultiplyHueAndSaturation(nil, nil, mul, 0, from, st)
	if err != nil {
		return nil, err
	}
	aug.name = "MultiplySaturation"
	return aug, nil
}
