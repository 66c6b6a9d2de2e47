// Package colorspace converts 8-bit images between a fixed set of named
// colorspaces.
//
// # Supported Colorspaces
//
// RGB, BGR, GRAY, YCrCb, HSV, HLS, Lab, Luv, YUV and CIE (XYZ). GRAY is a
// one-way target: converting to grayscale discards color, so conversions
// from GRAY to any other space are rejected.
//
// # Routing
//
// Conversions are implemented directly for a curated set of pairs (every
// pair involving RGB or BGR). Any other pair is routed through RGB as a hub,
// costing two conversions and a small amount of extra rounding error. This
// keeps the conversion table linear in the number of colorspaces while
// guaranteeing that every valid pair is reachable.
//
// # Value Encoding
//
// All outputs are uint8 with three channels; grayscale results are tiled to
// three identical channels so every conversion output has the same shape.
// Hue channels (HSV, HLS) use the halved-degrees convention, i.e. values in
// [0, 180]. Lab, Luv and CIE pack their floating point components into the
// byte range with fixed affine scales chosen so the sRGB gamut fits without
// clipping; the exact scales are internal and only need to be stable and
// invertible.
package colorspace
