package augment

import (
	"fmt"

	"github.com/ironsheep/image-augment/internal/colorspace"
	"github.com/ironsheep/image-augment/internal/param"
	"github.com/ironsheep/image-augment/internal/pix"
	"github.com/ironsheep/image-augment/internal/rng"
)

// WithColorspace applies its children within another colorspace: images are
// converted from `from` to `to`, the children run, and the result is
// converted back. Non-image annotations are routed through the children
// without any conversion.
type WithColorspace struct {
	base
	to, from colorspace.Colorspace
	children *Sequence
}

// NewWithColorspace creates the composite. Both colorspaces must be valid
// and from must not be GRAY. A nil stream seeds one automatically.
func NewWithColorspace(to, from colorspace.Colorspace, children []Augmenter, st *rng.Stream) (*WithColorspace, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", colorspace.ErrInvalidColorspace, to)
	}
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %q", colorspace.ErrInvalidColorspace, from)
	}
	if from == colorspace.GRAY {
		return nil, fmt.Errorf("%w: cannot start from %q", colorspace.ErrUnsupportedConversion, colorspace.GRAY)
	}
	b := newBase("WithColorspace", st)
	return &WithColorspace{
		base:     b,
		to:       to,
		from:     from,
		children: NewSequence(children, b.stream.Fork()),
	}, nil
}

// Augment implements Augmenter.
func (a *WithColorspace) Augment(batch *Batch, parents []Augmenter, hooks Hooks) (*Batch, error) {
	if !propagating(hooks, batch, a, parents) {
		return batch, nil
	}
	converted, err := colorspace.ConvertAll(batch.Images, a.to, a.from)
	if err != nil {
		return nil, err
	}
	result, err := a.children.Augment(batch.withImages(converted), extend(parents, a), hooks)
	if err != nil {
		return nil, err
	}
	restored, err := colorspace.ConvertAll(result.Images, a.from, a.to)
	if err != nil {
		return nil, err
	}
	return result.withImages(restored), nil
}

// ToDeterministic implements Augmenter.
func (a *WithColorspace) ToDeterministic() Augmenter {
	return &WithColorspace{
		base:     a.detClone(),
		to:       a.to,
		from:     a.from,
		children: a.children.ToDeterministic().(*Sequence),
	}
}

// Children implements Augmenter.
func (a *WithColorspace) Children() []Augmenter { return a.children.Children() }

// changeColorspaceEps is the alpha threshold below which ChangeColorspace
// leaves an image untouched and above 1-eps takes the converted image
// without blending.
const changeColorspaceEps = 0.001

// ChangeColorspace converts images to a target colorspace, optionally
// blending the converted result over the input.
//
// The target is sampled per image from the candidate set. Alpha follows the
// original semantics: 1 replaces the image with the converted one, 0 keeps
// the input, values between blend channelwise.
type ChangeColorspace struct {
	base
	to    []colorspace.Colorspace
	from  colorspace.Colorspace
	alpha param.Parameter
}

// NewChangeColorspace creates the augmenter. to must name at least one valid
// colorspace; a nil alpha defaults to Constant(1). Alpha values must lie in
// [0, 1].
func NewChangeColorspace(to []colorspace.Colorspace, from colorspace.Colorspace, alpha param.Parameter, st *rng.Stream) (*ChangeColorspace, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: no target colorspace given", ErrConfiguration)
	}
	for _, cs := range to {
		if !cs.Valid() {
			return nil, fmt.Errorf("%w: %q", colorspace.ErrInvalidColorspace, cs)
		}
	}
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %q", colorspace.ErrInvalidColorspace, from)
	}
	if from == colorspace.GRAY {
		return nil, fmt.Errorf("%w: cannot start from %q", colorspace.ErrUnsupportedConversion, colorspace.GRAY)
	}
	if alpha == nil {
		alpha = param.Constant(1)
	}
	if err := param.ValidateRange(alpha, "alpha", 0, 1); err != nil {
		return nil, err
	}
	return &ChangeColorspace{base: newBase("ChangeColorspace", st), to: to, from: from, alpha: alpha}, nil
}

// Augment implements Augmenter.
func (a *ChangeColorspace) Augment(batch *Batch, parents []Augmenter, hooks Hooks) (*Batch, error) {
	if !propagating(hooks, batch, a, parents) {
		return batch, nil
	}
	st := a.stream.Use()
	n := len(batch.Images)

	// Fixed draw order: alphas first, then target choices.
	alphas := a.alpha.Draw(n, st)
	if err := param.CheckSamples(alphas, "alpha", 0, 1); err != nil {
		return nil, err
	}
	targets := make([]colorspace.Colorspace, n)
	for i := range targets {
		targets[i] = a.to[st.Intn(len(a.to))]
	}

	for i, img := range batch.Images {
		if alphas[i] <= changeColorspaceEps || targets[i] == a.from {
			continue
		}
		converted, err := colorspace.Convert(img, a.from, targets[i])
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		if alphas[i] >= 1-changeColorspaceEps {
			batch.Images[i] = converted
		} else {
			batch.Images[i] = blendAlpha(converted, img, alphas[i])
		}
	}
	return batch, nil
}

// ToDeterministic implements Augmenter.
func (a *ChangeColorspace) ToDeterministic() Augmenter {
	return &ChangeColorspace{base: a.detClone(), to: a.to, from: a.from, alpha: a.alpha}
}

// Children implements Augmenter.
func (a *ChangeColorspace) Children() []Augmenter { return nil }

// NewGrayscale creates an augmenter that moves images toward their
// grayscale version: alpha 1 fully desaturates, values in between blend.
// Output keeps three channels.
func NewGrayscale(alpha param.Parameter, from colorspace.Colorspace, st *rng.Stream) (*ChangeColorspace, error) {
	aug, err := NewChangeColorspace([]colorspace.Colorspace{colorspace.GRAY}, from, alpha, st)
	if err != nil {
		return nil, err
	}
	aug.name = "Grayscale"
	return aug, nil
}

// blendAlpha mixes fore over back channelwise: fore*alpha + back*(1-alpha),
// rounded to uint8.
func blendAlpha(fore, back *pix.Image, alpha float64) *pix.Image {
	out := pix.New(fore.W, fore.H, fore.C)
	for i, f := range fore.Pix {
		out.Pix[i] = uint8(float64(f)*alpha + float64(back.Pix[i])*(1-alpha) + 0.5)
	}
	return out
}
