package schedule

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"github.com/vk/pixelflow/internal/graph"
	"github.com/vk/pixelflow/internal/step"
)

// The rendered plan is part of the CLI's --dry-run contract, so it is
// pinned with a golden file.
func TestDescribeGolden(t *testing.T) {
	nodes := graph.Build(context.Background(), []*step.Step{
		{Kind: step.KindGenerate, Op: "solid", Out: "base"},
		{Kind: step.KindGenerate, Op: "checker", Out: "texture"},
		{Kind: step.KindTransform, Op: "overlay", In: "base", Out: "comp",
			Params: map[string]any{"layer": "texture"}},
		{Kind: step.KindTransform, Op: "grayscale", In: "comp", Out: "gray"},
		{Kind: step.KindSave, Op: "png", In: "gray"},
	})
	waves, err := Compute(context.Background(), nodes, nil)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "plan", []byte(Describe(waves)))
}
