package augment

// The types below are the non-image augmentables a Batch can carry. The
// color augmenters in this package never modify them; they exist so that
// pipelines mixing color and geometry nodes can route one batch through the
// whole tree.

// Heatmap is a dense float map associated with an image.
type Heatmap struct {
	W, H   int
	Values []float32
}

// SegmentationMap is a dense integer label map associated with an image.
type SegmentationMap struct {
	W, H   int
	Labels []int32
}

// Keypoint is a single 2D point in image coordinates.
type Keypoint struct {
	X, Y float64
}

// KeypointsOnImage groups keypoints with the shape of the image they
// annotate.
type KeypointsOnImage struct {
	W, H   int
	Points []Keypoint
}

// Polygon is a closed point sequence.
type Polygon struct {
	Points []Keypoint
}

// PolygonsOnImage groups polygons with the shape of the image they annotate.
type PolygonsOnImage struct {
	W, H     int
	Polygons []Polygon
}
