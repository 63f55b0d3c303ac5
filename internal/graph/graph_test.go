package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pixelflow/internal/step"
)

func TestBuildEmptyPipeline(t *testing.T) {
	nodes := Build(context.Background(), nil)
	assert.Empty(t, nodes)
}

func TestBuildGenerateStep(t *testing.T) {
	steps := []*step.Step{
		{Kind: step.KindGenerate, Op: "solid", Out: "base"},
	}
	nodes := Build(context.Background(), steps)
	require.Len(t, nodes, 1)

	assert.Same(t, steps[0], nodes[0].Step)
	assert.Equal(t, 0, nodes[0].Index)
	assert.Empty(t, nodes[0].Dependencies)
	assert.Equal(t, []string{"base"}, nodes[0].Outputs)
}

func TestBuildTransformStep(t *testing.T) {
	steps := []*step.Step{
		{Kind: step.KindGenerate, Op: "solid", Out: "base"},
		{Kind: step.KindTransform, Op: "invert", In: "base", Out: "inverted"},
	}
	nodes := Build(context.Background(), steps)
	require.Len(t, nodes, 2)

	assert.Equal(t, []string{"base"}, nodes[1].DependencyNames())
	assert.Equal(t, []string{"inverted"}, nodes[1].Outputs)
}

func TestBuildSaveStep(t *testing.T) {
	t.Run("terminal sink has no outputs", func(t *testing.T) {
		steps := []*step.Step{
			{Kind: step.KindSave, Op: "png", In: "img"},
		}
		nodes := Build(context.Background(), steps)
		require.Len(t, nodes, 1)
		assert.Equal(t, []string{"img"}, nodes[0].DependencyNames())
		assert.Empty(t, nodes[0].Outputs)
	})

	t.Run("save with out republishes the value", func(t *testing.T) {
		steps := []*step.Step{
			{Kind: step.KindSave, Op: "png", In: "img", Out: "saved"},
		}
		nodes := Build(context.Background(), steps)
		require.Len(t, nodes, 1)
		assert.Equal(t, []string{"saved"}, nodes[0].Outputs)
	})
}

func TestBuildSecondaryDependencies(t *testing.T) {
	t.Run("parameter naming another output adds an edge", func(t *testing.T) {
		steps := []*step.Step{
			{Kind: step.KindGenerate, Op: "solid", Out: "base"},
			{Kind: step.KindGenerate, Op: "checker", Out: "texture"},
			{Kind: step.KindTransform, Op: "overlay", In: "base", Out: "comp",
				Params: map[string]any{"layer": "texture", "x": int64(10)}},
		}
		nodes := Build(context.Background(), steps)
		require.Len(t, nodes, 3)
		assert.Equal(t, []string{"base", "texture"}, nodes[2].DependencyNames())
	})

	t.Run("unrelated parameter strings add no edge", func(t *testing.T) {
		steps := []*step.Step{
			{Kind: step.KindGenerate, Op: "solid", Out: "base"},
			{Kind: step.KindTransform, Op: "overlay", In: "base", Out: "comp",
				Params: map[string]any{"mode": "multiply", "note": "texture-ish"}},
		}
		nodes := Build(context.Background(), steps)
		assert.Equal(t, []string{"base"}, nodes[1].DependencyNames())
	})

	t.Run("a step's own output is never a dependency", func(t *testing.T) {
		steps := []*step.Step{
			{Kind: step.KindGenerate, Op: "solid", Out: "base"},
			{Kind: step.KindTransform, Op: "scale", In: "base", Out: "scaled",
				Params: map[string]any{"tag": "scaled"}},
		}
		nodes := Build(context.Background(), steps)
		assert.Equal(t, []string{"base"}, nodes[1].DependencyNames())
	})

	t.Run("nested parameter payloads are scanned", func(t *testing.T) {
		steps := []*step.Step{
			{Kind: step.KindGenerate, Op: "solid", Out: "mask"},
			{Kind: step.KindGenerate, Op: "solid", Out: "tint"},
			{Kind: step.KindTransform, Op: "composite", In: "mask", Out: "result",
				Params: map[string]any{
					"layers": []any{
						map[string]any{"source": "tint", "opacity": 0.5},
					},
				}},
		}
		nodes := Build(context.Background(), steps)
		assert.Equal(t, []string{"mask", "tint"}, nodes[2].DependencyNames())
	})
}

func TestBuildPreservesStepOrder(t *testing.T) {
	steps := []*step.Step{
		{Kind: step.KindGenerate, Op: "solid", Out: "a"},
		{Kind: step.KindTransform, Op: "invert", In: "a", Out: "b"},
		{Kind: step.KindSave, Op: "discard", In: "b"},
	}
	nodes := Build(context.Background(), steps)
	require.Len(t, nodes, 3)
	for i, node := range nodes {
		assert.Equal(t, i, node.Index)
		assert.Same(t, steps[i], node.Step)
	}
}

// Dependencies on variables nothing produces still land in the node; the
// scheduler is the one that decides whether they are pre-satisfied.
func TestBuildKeepsUnproducedPrimaryInput(t *testing.T) {
	steps := []*step.Step{
		{Kind: step.KindTransform, Op: "invert", In: "photo", Out: "neg"},
	}
	nodes := Build(context.Background(), steps)
	assert.Equal(t, []string{"photo"}, nodes[0].DependencyNames())
}
