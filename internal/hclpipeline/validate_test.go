package hclpipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pixelflow/internal/step"
)

// fakeCatalog knows a fixed set of "kind:op" pairs.
type fakeCatalog map[string]bool

func (c fakeCatalog) Has(kind step.Kind, op string) bool {
	return c[string(kind)+":"+op]
}

func validPipeline() *Pipeline {
	return &Pipeline{
		Inputs: map[string]string{"photo": "photo.png"},
		Steps: []*step.Step{
			{Kind: step.KindGenerate, Op: "solid", Out: "base"},
			{Kind: step.KindTransform, Op: "overlay", In: "base", Out: "comp",
				Params: map[string]any{"layer": "photo"}},
			{Kind: step.KindSave, Op: "png", In: "comp"},
		},
	}
}

func TestValidateOK(t *testing.T) {
	catalog := fakeCatalog{
		"generate:solid":    true,
		"transform:overlay": true,
		"save:png":          true,
	}
	require.NoError(t, Validate(validPipeline(), catalog))
}

func TestValidateWithoutCatalogSkipsOpChecks(t *testing.T) {
	require.NoError(t, Validate(validPipeline(), nil))
}

func TestValidateShapeErrors(t *testing.T) {
	t.Run("missing op", func(t *testing.T) {
		p := &Pipeline{Steps: []*step.Step{{Kind: step.KindGenerate, Out: "x"}}}
		assert.ErrorContains(t, Validate(p, nil), "missing operation")
	})

	t.Run("generate without output", func(t *testing.T) {
		p := &Pipeline{Steps: []*step.Step{{Kind: step.KindGenerate, Op: "solid"}}}
		assert.ErrorContains(t, Validate(p, nil), "must declare an output")
	})

	t.Run("transform without input", func(t *testing.T) {
		p := &Pipeline{Steps: []*step.Step{{Kind: step.KindTransform, Op: "invert", Out: "x"}}}
		assert.ErrorContains(t, Validate(p, nil), "must declare an input")
	})

	t.Run("save without input", func(t *testing.T) {
		p := &Pipeline{Steps: []*step.Step{{Kind: step.KindSave, Op: "png"}}}
		assert.ErrorContains(t, Validate(p, nil), "must declare an input")
	})

	t.Run("unknown kind", func(t *testing.T) {
		p := &Pipeline{Steps: []*step.Step{{Kind: "mutate", Op: "x"}}}
		assert.ErrorContains(t, Validate(p, nil), "unknown step kind")
	})
}

func TestValidateUniqueOutputs(t *testing.T) {
	t.Run("two steps declaring the same output", func(t *testing.T) {
		p := &Pipeline{Steps: []*step.Step{
			{Kind: step.KindGenerate, Op: "solid", Out: "x"},
			{Kind: step.KindGenerate, Op: "checker", Out: "x"},
		}}
		assert.ErrorContains(t, Validate(p, nil), `output "x" already declared by step 0`)
	})

	t.Run("output colliding with an input", func(t *testing.T) {
		p := &Pipeline{
			Inputs: map[string]string{"photo": "photo.png"},
			Steps: []*step.Step{
				{Kind: step.KindGenerate, Op: "solid", Out: "photo"},
			},
		}
		assert.ErrorContains(t, Validate(p, nil), "collides with a declared input")
	})
}

func TestValidateUnknownOperation(t *testing.T) {
	catalog := fakeCatalog{"generate:solid": true}
	p := &Pipeline{Steps: []*step.Step{
		{Kind: step.KindGenerate, Op: "plasma", Out: "x"},
	}}
	assert.ErrorContains(t, Validate(p, catalog), "unknown operation generate:plasma")
}
