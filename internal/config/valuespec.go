package config

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-augment/internal/param"
)

// ValueSpec is the YAML form of a stochastic parameter: a single number, a
// two-element [lo, hi] range, or a longer list of choices. Which parameter
// it becomes depends on whether the consuming field is continuous or
// discrete, so the raw form is kept and converted on demand.
type ValueSpec struct {
	scalar *float64
	list   []float64
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *ValueSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("value: %w", err)
		}
		v.scalar = &f
		return nil
	case yaml.SequenceNode:
		var list []float64
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("value: %w", err)
		}
		if len(list) < 2 {
			return fmt.Errorf("value: list needs at least two elements, got %d", len(list))
		}
		v.list = list
		return nil
	default:
		return fmt.Errorf("value: expected a number or a list, got %v", node.Kind)
	}
}

// Continuous converts the value to a parameter sampling real numbers: a
// constant, a uniform range, or a choice among the listed values. A nil
// receiver yields nil, letting the consumer apply its default.
func (v *ValueSpec) Continuous() param.Parameter {
	switch {
	case v == nil:
		return nil
	case v.scalar != nil:
		return param.Constant(*v.scalar)
	case len(v.list) == 2:
		return param.Uniform{Lo: v.list[0], Hi: v.list[1]}
	default:
		return param.Choice(v.list)
	}
}

// Discrete is Continuous for integer-valued fields: a two-element list
// becomes an inclusive integer range, everything else is rounded.
func (v *ValueSpec) Discrete() param.Parameter {
	switch {
	case v == nil:
		return nil
	case v.scalar != nil:
		return param.Constant(math.Round(*v.scalar))
	case len(v.list) == 2:
		return param.DiscreteUniform{
			Lo: int(math.Round(v.list[0])),
			Hi: int(math.Round(v.list[1])),
		}
	default:
		choices := make([]float64, len(v.list))
		for i, f := range v.list {
			choices[i] = math.Round(f)
		}
		return param.Choice(choices)
	}
}
