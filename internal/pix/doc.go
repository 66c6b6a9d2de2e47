// Package pix provides the dense uint8 image representation shared by all
// augmenters.
//
// An Image is a contiguous (H, W, C) array of 8-bit samples with C channels
// per pixel, C being 1 (grayscale), 3 (color) or 4 (color plus alpha). This
// mirrors the layout augmentation pipelines actually operate on and avoids
// the per-pixel interface dispatch of image.Image in hot loops. Bridging
// helpers convert to and from the standard library image types at the edges
// of the pipeline (decoding, encoding, resizing).
//
// # Memory Model
//
// Pix is a single backing slice in row-major order; the sample of channel c
// at (x, y) lives at Pix[(y*W+x)*C+c]. Augmenters may mutate an Image in
// place or return a fresh one; callers must not assume either and should
// Clone() first if they need to keep the input.
//
// # Dtype
//
// All samples are uint8. Other bit depths are not representable here, which
// enforces the 8-bit contract of the augmentation core at the type level.
package pix
