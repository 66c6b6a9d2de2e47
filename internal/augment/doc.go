// Package augment implements the composable image-augmentation framework:
// the Augmenter interface, the batch container, propagation hooks, and the
// color augmenters (colorspace changes and the hue/saturation engine).
//
// # Composition Model
//
// An augmentation pipeline is a tree of Augmenters. Leaves apply a primitive
// transform to every image of a batch; composites (Sequence, WithColorspace,
// WithHueAndSaturation) apply a pre-transform, run their children in order,
// and apply a post-transform. A batch flows through the tree top-down; each
// node samples its own stochastic parameters from its own random stream.
//
// # Randomness and Determinism
//
// Every augmenter owns one rng.Stream, derived from its parent's stream at
// construction. Streams are never shared between nodes. ToDeterministic
// deep-copies the tree and freezes every node's stream, so the frozen copy
// produces byte-identical output on repeated calls. Two pipelines built the
// same way from the same root seed also produce identical output sequences.
//
// # Propagation Hooks
//
// A caller-supplied Hooks value can veto individual nodes during traversal:
// when Propagate returns false for a node, that node returns its input
// unchanged (children included). A nil Hooks always propagates. This is the
// only point of external control during a batch traversal; there is no
// cancellation.
//
// # Non-Image Augmentables
//
// Batches can carry heatmaps, segmentation maps, keypoints and polygons
// alongside images. The augmenters in this package only affect colors, so
// they pass these annotations through to their children (for composites)
// or return them unchanged (for leaves); only geometry-affecting children
// would ever transform them.
package augment
