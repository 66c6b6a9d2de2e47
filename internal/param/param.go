// Package param implements stochastic parameters: immutable specifications
// of a distribution over scalar values, sampled per augmentation call.
//
// A Parameter never mutates when drawn from; all randomness comes from the
// rng.Stream passed to Draw, so the same stream state always reproduces the
// same samples. Discrete parameters return whole-number float64 values.
package param

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-augment/internal/rng"
)

// ErrParameterRange is returned when a parameter's values fall outside a
// declared value range, either at construction (for the built-in variants)
// or at sampling time (for custom parameters).
var ErrParameterRange = errors.New("parameter out of range")

// Parameter produces n samples per call. Implementations must be pure:
// same stream state and same n give identical output.
type Parameter interface {
	Draw(n int, st *rng.Stream) []float64
}

// Constant always returns the same value.
type Constant float64

// Draw implements Parameter.
func (c Constant) Draw(n int, _ *rng.Stream) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(c)
	}
	return out
}

// Uniform samples from the continuous range [Lo, Hi).
type Uniform struct {
	Lo, Hi float64
}

// Draw implements Parameter.
func (u Uniform) Draw(n int, st *rng.Stream) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = u.Lo + st.Float64()*(u.Hi-u.Lo)
	}
	return out
}

// DiscreteUniform samples integers from the inclusive range [Lo, Hi].
type DiscreteUniform struct {
	Lo, Hi int
}

// Draw implements Parameter.
func (u DiscreteUniform) Draw(n int, st *rng.Stream) []float64 {
	span := u.Hi - u.Lo + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(u.Lo + st.Intn(span))
	}
	return out
}

// Choice samples uniformly from a fixed list of values.
type Choice []float64

// Draw implements Parameter.
func (c Choice) Draw(n int, st *rng.Stream) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = c[st.Intn(len(c))]
	}
	return out
}

// Binomial samples 1 with probability P and 0 otherwise. Used for the
// per-channel coin flip of hue/saturation augmenters.
type Binomial struct {
	P float64
}

// Draw implements Parameter.
func (b Binomial) Draw(n int, st *rng.Stream) []float64 {
	out := make([]float64, n)
	for i := range out {
		if st.Float64() < b.P {
			out[i] = 1
		}
	}
	return out
}

// ValidateRange checks a parameter's support against the inclusive range
// [lo, hi]. The built-in variants are checked statically; custom parameter
// implementations cannot be, so they pass here and are checked per sample at
// draw time via CheckSamples.
func ValidateRange(p Parameter, name string, lo, hi float64) error {
	switch v := p.(type) {
	case Constant:
		if float64(v) < lo || float64(v) > hi {
			return fmt.Errorf("%w: %s=%v outside [%v, %v]", ErrParameterRange, name, float64(v), lo, hi)
		}
	case Uniform:
		if v.Lo < lo || v.Hi > hi || v.Lo > v.Hi {
			return fmt.Errorf("%w: %s range [%v, %v] outside [%v, %v]", ErrParameterRange, name, v.Lo, v.Hi, lo, hi)
		}
	case DiscreteUniform:
		if float64(v.Lo) < lo || float64(v.Hi) > hi || v.Lo > v.Hi {
			return fmt.Errorf("%w: %s range [%d, %d] outside [%v, %v]", ErrParameterRange, name, v.Lo, v.Hi, lo, hi)
		}
	case Choice:
		for _, val := range v {
			if val < lo || val > hi {
				return fmt.Errorf("%w: %s value %v outside [%v, %v]", ErrParameterRange, name, val, lo, hi)
			}
		}
	}
	return nil
}

// CheckSamples verifies drawn samples against the inclusive range [lo, hi].
// This is the draw-time guard for custom parameters whose support cannot be
// inspected at construction.
func CheckSamples(samples []float64, name string, lo, hi float64) error {
	for _, v := range samples {
		if v < lo || v > hi {
			return fmt.Errorf("%w: %s sampled %v outside [%v, %v]", ErrParameterRange, name, v, lo, hi)
		}
	}
	return nil
}
