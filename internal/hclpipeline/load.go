package hclpipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/pixelflow/internal/ctxlog"
	"github.com/vk/pixelflow/internal/step"
)

// Pipeline is the parsed form of one pipeline file: the ordered step list
// plus the declared external inputs (name → source path), which become the
// run's pre-satisfied variables once loaded by the caller.
type Pipeline struct {
	Steps  []*step.Step
	Inputs map[string]string
}

// pipelineSchema describes the top-level blocks of a pipeline file.
var pipelineSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "generate", LabelNames: []string{"out"}},
		{Type: "transform", LabelNames: []string{"out"}},
		{Type: "save"},
	},
}

var (
	inputSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "source", Required: true},
		},
	}
	generateSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "op", Required: true},
			{Name: "params"},
		},
	}
	transformSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "op", Required: true},
			{Name: "in", Required: true},
			{Name: "params"},
		},
	}
	saveSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "op", Required: true},
			{Name: "in", Required: true},
			{Name: "out"},
			{Name: "params"},
		},
	}
)

// LoadFile parses a pipeline from an .hcl file on disk.
func LoadFile(ctx context.Context, path string) (*Pipeline, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file: %w", err)
	}
	return Load(ctx, src, path)
}

// Load parses a pipeline from HCL source. Block order in the file becomes
// step order in the pipeline, which the planner uses as its stable
// tie-break; it carries no dependency semantics.
func Load(ctx context.Context, src []byte, filename string) (*Pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	content, diags := file.Body.Content(pipelineSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid pipeline %s: %w", filename, diags)
	}

	p := &Pipeline{Inputs: make(map[string]string)}
	for _, block := range content.Blocks {
		switch block.Type {
		case "input":
			name := block.Labels[0]
			source, err := decodeInput(block)
			if err != nil {
				return nil, err
			}
			if _, dup := p.Inputs[name]; dup {
				return nil, fmt.Errorf("%s: duplicate input %q", block.DefRange.String(), name)
			}
			p.Inputs[name] = source
		case "generate":
			s, err := decodeStep(block, step.KindGenerate, generateSchema)
			if err != nil {
				return nil, err
			}
			p.Steps = append(p.Steps, s)
		case "transform":
			s, err := decodeStep(block, step.KindTransform, transformSchema)
			if err != nil {
				return nil, err
			}
			p.Steps = append(p.Steps, s)
		case "save":
			s, err := decodeStep(block, step.KindSave, saveSchema)
			if err != nil {
				return nil, err
			}
			p.Steps = append(p.Steps, s)
		}
	}

	logger.Debug("Pipeline loaded.", "file", filename, "steps", len(p.Steps), "inputs", len(p.Inputs))
	return p, nil
}

// decodeInput extracts the source path of an input block.
func decodeInput(block *hcl.Block) (string, error) {
	content, diags := block.Body.Content(inputSchema)
	if diags.HasErrors() {
		return "", fmt.Errorf("invalid input block: %w", diags)
	}
	return stringAttr(content, "source")
}

// decodeStep translates one generate/transform/save block into a step.
func decodeStep(block *hcl.Block, kind step.Kind, schema *hcl.BodySchema) (*step.Step, error) {
	content, diags := block.Body.Content(schema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid %s block at %s: %w", kind, block.DefRange.String(), diags)
	}

	s := &step.Step{Kind: kind}
	if len(block.Labels) > 0 {
		s.Out = block.Labels[0]
	}

	var err error
	if s.Op, err = stringAttr(content, "op"); err != nil {
		return nil, fmt.Errorf("%s: %w", block.DefRange.String(), err)
	}
	if _, present := content.Attributes["in"]; present {
		if s.In, err = stringAttr(content, "in"); err != nil {
			return nil, fmt.Errorf("%s: %w", block.DefRange.String(), err)
		}
	}
	if _, present := content.Attributes["out"]; present {
		if s.Out, err = stringAttr(content, "out"); err != nil {
			return nil, fmt.Errorf("%s: %w", block.DefRange.String(), err)
		}
	}
	if attr, present := content.Attributes["params"]; present {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s: invalid params: %w", block.DefRange.String(), diags)
		}
		decoded, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid params: %w", block.DefRange.String(), err)
		}
		params, ok := decoded.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: params must be an object", block.DefRange.String())
		}
		s.Params = params
	}
	return s, nil
}

// stringAttr evaluates a required string attribute.
func stringAttr(content *hcl.BodyContent, name string) (string, error) {
	attr, present := content.Attributes[name]
	if !present {
		return "", fmt.Errorf("missing attribute %q", name)
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("invalid attribute %q: %w", name, diags)
	}
	out, err := ctyToGo(val)
	if err != nil {
		return "", fmt.Errorf("invalid attribute %q: %w", name, err)
	}
	str, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("attribute %q must be a string", name)
	}
	return str, nil
}
