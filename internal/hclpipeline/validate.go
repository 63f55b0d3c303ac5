package hclpipeline

import (
	"fmt"

	"github.com/vk/pixelflow/internal/step"
)

// Catalog is the operation catalog a pipeline is validated against,
// typically a dispatch.Registry.
type Catalog interface {
	Has(kind step.Kind, op string) bool
}

// Validate performs the static checks that must pass before planning:
// required fields per step shape, unique output names (the variable store
// is single-assignment), no step output colliding with a declared input,
// and, when a catalog is given, every operation resolvable to a handler.
//
// Validate does not chase dependencies; whether the pipeline can actually
// make progress is the planner's job.
func Validate(p *Pipeline, catalog Catalog) error {
	produced := make(map[string]int)

	for i, s := range p.Steps {
		if s.Op == "" {
			return fmt.Errorf("step %d: missing operation", i)
		}
		switch s.Kind {
		case step.KindGenerate:
			if s.Out == "" {
				return fmt.Errorf("step %d: generate must declare an output", i)
			}
		case step.KindTransform:
			if s.In == "" || s.Out == "" {
				return fmt.Errorf("step %d: transform must declare an input and an output", i)
			}
		case step.KindSave:
			if s.In == "" {
				return fmt.Errorf("step %d: save must declare an input", i)
			}
		default:
			return fmt.Errorf("step %d: unknown step kind %q", i, s.Kind)
		}

		if s.Out != "" {
			if prev, dup := produced[s.Out]; dup {
				return fmt.Errorf("step %d: output %q already declared by step %d", i, s.Out, prev)
			}
			if _, clash := p.Inputs[s.Out]; clash {
				return fmt.Errorf("step %d: output %q collides with a declared input", i, s.Out)
			}
			produced[s.Out] = i
		}

		if catalog != nil && !catalog.Has(s.Kind, s.Op) {
			return fmt.Errorf("step %d: unknown operation %s:%s", i, s.Kind, s.Op)
		}
	}
	return nil
}
