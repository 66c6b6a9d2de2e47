// Package config builds augmentation pipelines from YAML descriptions.
//
// A pipeline file names a seed, an input colorspace and a list of augmenter
// nodes:
//
//	seed: 42
//	from_colorspace: RGB
//	augmenters:
//	  - type: add_to_hue_and_saturation
//	    value: [-40, 40]
//	    per_channel: 0.5
//	  - type: kmeans_color_quantization
//	    n_colors: [2, 16]
//	    to_colorspace: [RGB, Lab]
//
// Scalar parameter fields accept a single number (used as-is for every
// image), a two-element list (a range to sample from per image) or a longer
// list (a set of choices to sample from per image).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/colorspace"
	"github.com/ironsheep/image-augment/internal/param"
	"github.com/ironsheep/image-augment/internal/quantize"
	"github.com/ironsheep/image-augment/internal/rng"
)

// Pipeline is the top-level YAML document.
type Pipeline struct {
	Seed           *int64 `yaml:"seed"`
	FromColorspace string `yaml:"from_colorspace"`
	Augmenters     []Node `yaml:"augmenters"`
}

// Node describes one augmenter. Type selects the augmenter; the remaining
// fields are a union, each augmenter reads the ones it understands.
type Node struct {
	Type string `yaml:"type"`

	Value    *ValueSpec `yaml:"value"`
	ValueHue *ValueSpec `yaml:"value_hue"`
	ValueSat *ValueSpec `yaml:"value_saturation"`
	Mul      *ValueSpec `yaml:"mul"`
	MulHue   *ValueSpec `yaml:"mul_hue"`
	MulSat   *ValueSpec `yaml:"mul_saturation"`
	Alpha    *ValueSpec `yaml:"alpha"`
	NColors  *ValueSpec `yaml:"n_colors"`

	PerChannel   float64  `yaml:"per_channel"`
	ToColorspace []string `yaml:"to_colorspace"`
	MaxSize      *int     `yaml:"max_size"`

	Children []Node `yaml:"children"`
}

// Load reads and parses a pipeline file.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline: %w", err)
	}
	return Parse(data)
}

// Parse parses a pipeline document.
func Parse(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse pipeline: %w", err)
	}
	return &p, nil
}

// Build constructs the augmenter tree the pipeline describes. The returned
// stream is the root random stream; fork it to derive per-image streams
// that are independent of the augmenters' own sampling.
func (p *Pipeline) Build() (augment.Augmenter, *rng.Stream, error) {
	var root *rng.Stream
	if p.Seed != nil {
		root = rng.New(*p.Seed)
	} else {
		root = rng.NewAuto()
	}

	from := colorspace.RGB
	if p.FromColorspace != "" {
		from = colorspace.Colorspace(p.FromColorspace)
		if !from.Valid() {
			return nil, nil, fmt.Errorf("%w: %q", colorspace.ErrInvalidColorspace, p.FromColorspace)
		}
	}

	children, err := buildNodes(p.Augmenters, from, root)
	if err != nil {
		return nil, nil, err
	}
	return augment.NewSequence(children, root.Fork()), root, nil
}

func buildNodes(nodes []Node, from colorspace.Colorspace, root *rng.Stream) ([]augment.Augmenter, error) {
	built := make([]augment.Augmenter, 0, len(nodes))
	for i, n := range nodes {
		aug, err := buildNode(n, from, root.Fork())
		if err != nil {
			return nil, fmt.Errorf("augmenter %d (%s): %w", i, n.Type, err)
		}
		built = append(built, aug)
	}
	return built, nil
}

func buildNode(n Node, from colorspace.Colorspace, st *rng.Stream) (augment.Augmenter, error) {
	switch n.Type {
	case "noop":
		return augment.NewNoop(st), nil

	case "sequence":
		children, err := buildNodes(n.Children, from, st)
		if err != nil {
			return nil, err
		}
		return augment.NewSequence(children, st), nil

	case "with_colorspace":
		to, err := singleColorspace(n.ToColorspace)
		if err != nil {
			return nil, err
		}
		children, err := buildNodes(n.Children, to, st)
		if err != nil {
			return nil, err
		}
		return augment.NewWithColorspace(to, from, children, st)

	case "change_colorspace":
		to, err := colorspaceList(n.ToColorspace)
		if err != nil {
			return nil, err
		}
		alpha := n.Alpha.Continuous()
		if alpha == nil {
			alpha = param.Constant(1)
		}
		return augment.NewChangeColorspace(to, from, alpha, st)

	case "grayscale":
		alpha := n.Alpha.Continuous()
		if alpha == nil {
			alpha = param.Constant(1)
		}
		return augment.NewGrayscale(alpha, from, st)

	case "add_to_hue":
		return augment.NewAddToHue(n.Value.Discrete(), from, st)

	case "add_to_saturation":
		return augment.NewAddToSaturation(n.Value.Discrete(), from, st)

	case "add_to_hue_and_saturation":
		return augment.NewAddToHueAndSaturation(
			n.Value.Discrete(), n.ValueHue.Discrete(), n.ValueSat.Discrete(),
			n.PerChannel, from, st)

	case "multiply_hue":
		return augment.NewMultiplyHue(n.Mul.Continuous(), from, st)

	case "multiply_saturation":
		return augment.NewMultiplySaturation(n.Mul.Continuous(), from, st)

	case "multiply_hue_and_saturation":
		return augment.NewMultiplyHueAndSaturation(
			n.Mul.Continuous(), n.MulHue.Continuous(), n.MulSat.Continuous(),
			n.PerChannel, from, st)

	case "kmeans_color_quantization":
		to, err := colorspaceList(n.ToColorspace)
		if err != nil {
			return nil, err
		}
		return quantize.NewKMeans(n.NColors.Discrete(), from, to, maxSize(n.MaxSize), st)

	case "uniform_color_quantization":
		to, err := colorspaceList(n.ToColorspace)
		if err != nil {
			return nil, err
		}
		return quantize.NewUniform(n.NColors.Discrete(), from, to, maxSize(n.MaxSize), st)

	default:
		return nil, fmt.Errorf("%w: unknown augmenter type %q", augment.ErrConfiguration, n.Type)
	}
}

func maxSize(v *int) int {
	if v == nil {
		return 0
	}
	if *v <= 0 {
		return -1
	}
	return *v
}

func colorspaceList(names []string) ([]colorspace.Colorspace, error) {
	if names == nil {
		return nil, nil
	}
	out := make([]colorspace.Colorspace, 0, len(names))
	for _, name := range names {
		cs := colorspace.Colorspace(name)
		if !cs.Valid() {
			return nil, fmt.Errorf("%w: %q", colorspace.ErrInvalidColorspace, name)
		}
		out = append(out, cs)
	}
	return out, nil
}

func singleColorspace(names []string) (colorspace.Colorspace, error) {
	if len(names) != 1 {
		return "", fmt.Errorf("%w: with_colorspace needs exactly one to_colorspace, got %d", augment.ErrConfiguration, len(names))
	}
	list, err := colorspaceList(names)
	if err != nil {
		return "", err
	}
	return list[0], nil
}
