package quantize

import (
	"math/rand"
	"sync"
	"time"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/ironsheep/image-augment/internal/colorspace"
	"github.com/ironsheep/image-augment/internal/param"
	"github.com/ironsheep/image-augment/internal/pix"
	"github.com/ironsheep/image-augment/internal/rng"
)

// defaultKMeansMaxSize keeps the clustering pass cheap on large inputs.
const defaultKMeansMaxSize = 128

// NewKMeans creates a quantizer that clusters each image's pixel colors and
// replaces every pixel with its cluster center.
//
// Defaults when the zero value is given: nColors samples from [2, 16],
// from is RGB, to is {RGB, Lab} and maxSize is 128. Pass to as an empty
// non-nil slice to quantize directly in the input colorspace, and a
// negative maxSize to never downscale.
func NewKMeans(nColors param.Parameter, from colorspace.Colorspace, to []colorspace.Colorspace, maxSize int, st *rng.Stream) (*Quantizer, error) {
	if to == nil {
		to = []colorspace.Colorspace{colorspace.RGB, colorspace.Lab}
	}
	if maxSize == 0 {
		maxSize = defaultKMeansMaxSize
	}
	return newQuantizer("KMeansColorQuantization", nColors, from, to, maxSize, st, quantizeKMeans)
}

// The clustering library draws its initial centers from the process-global
// random source. Pin that source to a seed drawn from the augmenter's own
// stream for the duration of the partition so replayed streams yield
// identical partitions, and reseed it unpredictably afterwards.
var kmeansMu sync.Mutex

// pinGlobalRand seeds the process-global math/rand source. rand.Seed is
// deprecated in favor of per-instance sources, but the clustering library
// offers no way to inject one, so the scoped swap is the only seam. The
// source's prior state cannot be captured, hence the fresh reseed on the
// way out instead of a restore. Callers hold kmeansMu across both calls.
func pinGlobalRand(seed int64) {
	//nolint:staticcheck // SA1019: the clustering library reads the global source
	rand.Seed(seed)
}

// quantizeKMeans clusters the image's pixels into up to n groups in
// C-dimensional intensity space and paints each pixel with its group's
// center. Images with fewer pixels than n are returned as plain copies.
func quantizeKMeans(img *pix.Image, n int, st *rng.Stream) (*pix.Image, error) {
	n = clampColorCount(n)
	nPixels := img.W * img.H
	if n >= nPixels {
		return img.Clone(), nil
	}

	obs := make([]clusters.Observation, nPixels)
	for p := 0; p < nPixels; p++ {
		coord := make(clusters.Coordinates, img.C)
		for c := 0; c < img.C; c++ {
			coord[c] = float64(img.Pix[p*img.C+c])
		}
		obs[p] = coord
	}

	kmeansMu.Lock()
	pinGlobalRand(st.Int63())
	km := kmeans.New()
	partition, err := km.Partition(obs, n)
	pinGlobalRand(time.Now().UnixNano())
	kmeansMu.Unlock()
	if err != nil {
		return nil, err
	}

	out := pix.New(img.W, img.H, img.C)
	for p := 0; p < nPixels; p++ {
		center := partition[partition.Nearest(obs[p])].Center
		for c := 0; c < img.C; c++ {
			out.Pix[p*img.C+c] = quantizeCenterValue(center[c])
		}
	}
	return out, nil
}

// quantizeCenterValue converts a cluster center coordinate back to an
// intensity value, truncating the fraction.
func quantizeCenterValue(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
