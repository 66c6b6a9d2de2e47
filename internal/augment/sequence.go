package augment

import "github.com/ironsheep/image-augment/internal/rng"

// Noop passes every batch through unchanged. It stands in where an
// augmenter value is required but no transform is wanted.
type Noop struct {
	base
}

// NewNoop creates a Noop. A nil stream seeds one automatically.
func NewNoop(st *rng.Stream) *Noop {
	return &Noop{base: newBase("Noop", st)}
}

// Augment implements Augmenter.
func (a *Noop) Augment(batch *Batch, parents []Augmenter, hooks Hooks) (*Batch, error) {
	return batch, nil
}

// ToDeterministic implements Augmenter.
func (a *Noop) ToDeterministic() Augmenter {
	return &Noop{base: a.detClone()}
}

// Children implements Augmenter.
func (a *Noop) Children() []Augmenter { return nil }

// Sequence applies its children in order, each child receiving the output
// of the previous one.
type Sequence struct {
	base
	children []Augmenter
}

// NewSequence creates a sequential composite over children. A nil stream
// seeds one automatically.
func NewSequence(children []Augmenter, st *rng.Stream) *Sequence {
	return &Sequence{base: newBase("Sequence", st), children: children}
}

// Augment implements Augmenter.
func (a *Sequence) Augment(batch *Batch, parents []Augmenter, hooks Hooks) (*Batch, error) {
	if !propagating(hooks, batch, a, parents) {
		return batch, nil
	}
	chain := extend(parents, a)
	var err error
	for _, child := range a.children {
		batch, err = child.Augment(batch, chain, hooks)
		if err != nil {
			return nil, err
		}
	}
	return batch, nil
}

// ToDeterministic implements Augmenter.
func (a *Sequence) ToDeterministic() Augmenter {
	children := make([]Augmenter, len(a.children))
	for i, child := range a.children {
		children[i] = child.ToDeterministic()
	}
	return &Sequence{base: a.detClone(), children: children}
}

// Children implements Augmenter.
func (a *Sequence) Children() []Augmenter { return a.children }
