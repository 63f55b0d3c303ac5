package step

import "fmt"

// Kind discriminates the three shapes of pipeline work.
type Kind string

const (
	// KindGenerate produces a brand new value from parameters alone.
	KindGenerate Kind = "generate"
	// KindTransform consumes one primary value and produces a new one.
	KindTransform Kind = "transform"
	// KindSave consumes one primary value and persists it; it may
	// optionally re-publish the value under a new name.
	KindSave Kind = "save"
)

// Step is one declared unit of pipeline work. A pipeline is an ordered
// sequence of steps; the order carries no dependency semantics and is only
// used as a stable tie-break during planning.
//
// Steps are treated as immutable once planning begins.
type Step struct {
	// Kind selects the step shape: generate, transform or save.
	Kind Kind

	// Op identifies the operation within the kind, e.g. "solid" for a
	// generator or "overlay" for a transform. Resolved by the dispatcher.
	Op string

	// In names the primary consumed variable. Empty for generate steps.
	In string

	// Out names the produced variable. Required for generate and transform
	// steps; optional for save steps (a save without Out is a terminal sink).
	Out string

	// Params holds the operation's parameter payload. String values that
	// match another step's declared output are treated as secondary
	// dependencies by the graph builder.
	Params map[string]any
}

// Outputs returns the variable names this step declares, in order.
// Generate and transform steps declare exactly one; save steps declare
// zero or one.
func (s *Step) Outputs() []string {
	if s.Out == "" {
		return nil
	}
	return []string{s.Out}
}

// Consumes reports whether the step reads a primary input variable.
func (s *Step) Consumes() bool {
	return s.Kind != KindGenerate
}

// String renders a compact identity for logs and error messages,
// e.g. "transform:overlay -> comp".
func (s *Step) String() string {
	switch {
	case s.In == "" && s.Out != "":
		return fmt.Sprintf("%s:%s -> %s", s.Kind, s.Op, s.Out)
	case s.Out == "":
		return fmt.Sprintf("%s:%s <- %s", s.Kind, s.Op, s.In)
	default:
		return fmt.Sprintf("%s:%s %s -> %s", s.Kind, s.Op, s.In, s.Out)
	}
}
