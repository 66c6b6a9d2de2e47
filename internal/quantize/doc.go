// Package quantize reduces the number of distinct colors in images.
//
// Two strategies are provided behind the same augmenter scaffold:
//
//   - NewKMeans clusters the pixel colors of each image and replaces every
//     pixel with its cluster center. The output palette adapts to the image,
//     at the cost of running a clustering pass per image.
//   - NewUniform snaps every intensity value to the center of one of N
//     equally sized bins, via floor(v/q)*q + q/2 with q = 256/N. The palette
//     is fixed, but the operation is a single table lookup per value.
//
// Both accept grayscale (1 channel), color (3 channels) and color-with-alpha
// (4 channels) images. Alpha channels pass through untouched. Large images
// can be downscaled to a maximum side length before quantization and are
// scaled back to their original size afterwards, so output shape always
// matches input shape. Optionally the quantization runs in a different
// colorspace, chosen per image from a candidate list.
//
// # Determinism
//
// Quantizers implement augment.Augmenter, including ToDeterministic. The
// per-image color count and working colorspace are sampled from the
// augmenter's random stream; the k-means partition itself is seeded to a
// fixed value so that identical inputs always produce identical partitions.
package quantize
