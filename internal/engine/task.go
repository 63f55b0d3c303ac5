package engine

import (
	"context"

	"github.com/vk/pixelflow/internal/dispatch"
	"github.com/vk/pixelflow/internal/graph"
	"github.com/vk/pixelflow/internal/pool"
	"github.com/vk/pixelflow/internal/varstore"
)

// outcome is one step's successful result, paired with its node so the
// wave-boundary merge knows which names to assign.
type outcome struct {
	node  *graph.Node
	value any
}

// taskFor builds the pool task for one node: resolve inputs from the store,
// invoke the dispatcher, wrap any failure with the step's identity.
func (e *Engine) taskFor(node *graph.Node, store *varstore.Store) pool.Task[*outcome] {
	return func(ctx context.Context) (*outcome, error) {
		call := &dispatch.Call{
			Kind:    node.Step.Kind,
			Op:      node.Step.Op,
			Params:  node.Step.Params,
			Primary: node.Step.In,
			Inputs:  resolveInputs(node, store),
		}
		value, err := e.dispatcher.Dispatch(ctx, call)
		if err != nil {
			return nil, &StepError{Index: node.Index, Step: node.Step, Err: err}
		}
		return &outcome{node: node, value: value}, nil
	}
}

// resolveInputs collects the values a step may read: every graph dependency
// (guaranteed present by wave ordering) plus any parameter string naming a
// variable already in the store. The latter covers secondary references to
// pre-satisfied names, which the graph builder cannot see because nothing
// in the pipeline produces them.
func resolveInputs(node *graph.Node, store *varstore.Store) map[string]any {
	inputs := make(map[string]any, len(node.Dependencies))
	for name := range node.Dependencies {
		if value, ok := store.Get(name); ok {
			inputs[name] = value
		}
	}
	collectStrings(node.Step.Params, func(ref string) {
		if _, seen := inputs[ref]; seen {
			return
		}
		if value, ok := store.Get(ref); ok {
			inputs[ref] = value
		}
	})
	return inputs
}

// collectStrings walks a parameter payload and invokes visit for every
// string value, mirroring the graph builder's reference scan.
func collectStrings(value any, visit func(string)) {
	switch v := value.(type) {
	case string:
		visit(v)
	case map[string]any:
		for _, elem := range v {
			collectStrings(elem, visit)
		}
	case []any:
		for _, elem := range v {
			collectStrings(elem, visit)
		}
	}
}
