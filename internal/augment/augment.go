package augment

import (
	"errors"

	"github.com/ironsheep/image-augment/internal/pix"
	"github.com/ironsheep/image-augment/internal/rng"
)

// ErrConfiguration is returned when an augmenter is constructed with an
// invalid or contradictory set of hyperparameters, e.g. both a combined
// value and channel-specific values for the same operation.
var ErrConfiguration = errors.New("invalid augmenter configuration")

// Augmenter is a composable image transform node.
//
// Augment transforms a batch and returns it; implementations may mutate the
// batch's images in place or replace them, and callers must not assume
// either. The parents slice is the chain of enclosing composite nodes,
// outermost first; top-level callers pass nil. A nil Hooks propagates
// everywhere.
type Augmenter interface {
	// Name identifies the node, e.g. in hook decisions.
	Name() string

	// Augment applies the node's transform to the batch.
	Augment(batch *Batch, parents []Augmenter, hooks Hooks) (*Batch, error)

	// ToDeterministic returns a structural copy of the node (children
	// deep-copied) whose random streams are frozen, so that repeated
	// Augment calls on the copy produce identical output.
	ToDeterministic() Augmenter

	// Children returns the node's direct children, nil for leaves.
	Children() []Augmenter
}

// Hooks gates propagation during a traversal. Propagate is consulted once
// per node; returning false makes the node return its input unchanged.
type Hooks interface {
	Propagate(batch *Batch, aug Augmenter, parents []Augmenter) bool
}

// HookFunc adapts a function to the Hooks interface.
type HookFunc func(batch *Batch, aug Augmenter, parents []Augmenter) bool

// Propagate implements Hooks.
func (f HookFunc) Propagate(batch *Batch, aug Augmenter, parents []Augmenter) bool {
	return f(batch, aug, parents)
}

func propagating(hooks Hooks, batch *Batch, aug Augmenter, parents []Augmenter) bool {
	return hooks == nil || hooks.Propagate(batch, aug, parents)
}

// Propagates reports whether hooks allow aug to run on batch. Augmenter
// implementations outside this package use it for the same gating the
// built-in nodes apply.
func Propagates(hooks Hooks, batch *Batch, aug Augmenter, parents []Augmenter) bool {
	return propagating(hooks, batch, aug, parents)
}

// extend returns parents + self as a fresh slice, so sibling subtrees never
// share backing arrays.
func extend(parents []Augmenter, self Augmenter) []Augmenter {
	chain := make([]Augmenter, 0, len(parents)+1)
	chain = append(chain, parents...)
	return append(chain, self)
}

// Batch carries the augmentables of one augmentation call. Images are
// transformed by the augmenters in this package; the non-image annotations
// ride along untouched (see the package documentation).
type Batch struct {
	Images    []*pix.Image
	Heatmaps  []*Heatmap
	SegMaps   []*SegmentationMap
	Keypoints []*KeypointsOnImage
	Polygons  []*PolygonsOnImage
}

// NewImageBatch wraps images in a batch.
func NewImageBatch(images ...*pix.Image) *Batch {
	return &Batch{Images: images}
}

// withImages returns a shallow copy of the batch with the image slice
// replaced; annotations are shared with the original.
func (b *Batch) withImages(images []*pix.Image) *Batch {
	out := *b
	out.Images = images
	return &out
}

// Run applies an augmenter to a plain image slice: the common case when no
// annotations or hooks are involved.
func Run(aug Augmenter, images []*pix.Image) ([]*pix.Image, error) {
	batch, err := aug.Augment(NewImageBatch(images...), nil, nil)
	if err != nil {
		return nil, err
	}
	return batch.Images, nil
}

// base holds the identity every augmenter shares: name, determinism flag
// and the node's own random stream.
type base struct {
	name          string
	deterministic bool
	stream        *rng.Stream
}

func newBase(name string, st *rng.Stream) base {
	if st == nil {
		st = rng.NewAuto()
	}
	return base{name: name, stream: st}
}

func (b *base) Name() string { return b.name }

// detClone returns the base for a deterministic copy: a freshly derived,
// frozen stream. Forking advances the original stream, so successive
// deterministic clones of the same node get different (but reproducible)
// frozen sequences.
func (b *base) detClone() base {
	return base{name: b.name, deterministic: true, stream: b.stream.Fork().Freeze()}
}
