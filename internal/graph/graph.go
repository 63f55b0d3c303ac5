package graph

import (
	"context"
	"sort"

	"github.com/vk/pixelflow/internal/ctxlog"
	"github.com/vk/pixelflow/internal/step"
)

// Node is one vertex of the dependency graph, corresponding 1:1 with a
// pipeline step. Nodes are created once by Build and never mutated
// afterwards; the scheduler traverses them read-only.
type Node struct {
	// Step is the originating step definition.
	Step *step.Step

	// Index is the step's position in the authored pipeline. It doubles as
	// the node identifier in error reports.
	Index int

	// Dependencies is the set of variable names that must exist before the
	// step may run: the primary input plus any detected secondary reference.
	Dependencies map[string]struct{}

	// Outputs lists the variable names the step will produce, in
	// declaration order. Empty for terminal save steps.
	Outputs []string
}

// DependencyNames returns the node's dependencies as a sorted slice,
// for stable logging and error text.
func (n *Node) DependencyNames() []string {
	names := make([]string, 0, len(n.Dependencies))
	for name := range n.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build converts a step list into dependency-graph nodes, one per step and
// order-preserving: node i corresponds to step i.
//
// Dependency detection follows a single documented rule: a node depends on
// its primary input variable, plus every parameter string value (scanned
// recursively through nested maps and slices) that equals an output declared
// by a different step. Parameter strings that coincide with nothing any
// other step produces add no edge, which keeps ordinary string parameters
// from creating false dependencies.
//
// Build has no failure modes; structurally malformed steps are rejected by
// upstream validation before planning starts.
func Build(ctx context.Context, steps []*step.Step) []*Node {
	logger := ctxlog.FromContext(ctx)

	// First pass: record who produces what, so parameter scanning can tell
	// variable references apart from arbitrary strings.
	producers := make(map[string]int, len(steps))
	for i, s := range steps {
		for _, out := range s.Outputs() {
			producers[out] = i
		}
	}

	// Second pass: build one node per step and link its dependencies.
	nodes := make([]*Node, len(steps))
	for i, s := range steps {
		node := &Node{
			Step:         s,
			Index:        i,
			Dependencies: make(map[string]struct{}),
			Outputs:      s.Outputs(),
		}
		if s.Consumes() && s.In != "" {
			node.Dependencies[s.In] = struct{}{}
		}
		scanParams(s.Params, func(ref string) {
			if producer, ok := producers[ref]; ok && producer != i {
				node.Dependencies[ref] = struct{}{}
			}
		})
		nodes[i] = node
		logger.Debug("Graph node created.",
			"index", i, "step", s.String(), "dependencies", node.DependencyNames())
	}
	return nodes
}

// scanParams walks a parameter payload depth-first and invokes visit for
// every string value it encounters.
func scanParams(value any, visit func(string)) {
	switch v := value.(type) {
	case string:
		visit(v)
	case map[string]any:
		for _, elem := range v {
			scanParams(elem, visit)
		}
	case []any:
		for _, elem := range v {
			scanParams(elem, visit)
		}
	}
}
