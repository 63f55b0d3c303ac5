package dispatch

import (
	"context"

	"github.com/vk/pixelflow/internal/step"
)

// Call carries everything a provider needs to execute one step: the step's
// kind and operation identifier, its parameter payload, and the resolved
// values of every input variable the planner proved available.
type Call struct {
	// Kind and Op identify the operation to perform.
	Kind step.Kind
	Op   string

	// Params is the step's parameter payload, untouched.
	Params map[string]any

	// Primary names the step's primary input variable; empty for generate.
	Primary string

	// Inputs maps each resolved input variable name to its value. It always
	// contains the primary input (when there is one) and every secondary
	// variable the step references by name.
	Inputs map[string]any
}

// PrimaryInput returns the value of the primary consumed variable.
func (c *Call) PrimaryInput() (any, bool) {
	if c.Primary == "" {
		return nil, false
	}
	value, ok := c.Inputs[c.Primary]
	return value, ok
}

// Dispatcher executes a single step's content against an external provider.
// The engine treats it as opaque: it calls Dispatch once per step with the
// resolved inputs and stores the returned value under the step's declared
// output. Retry, backoff and deadlines are the dispatcher's business, not
// the engine's.
type Dispatcher interface {
	Dispatch(ctx context.Context, call *Call) (any, error)
}

// DispatcherFunc adapts a plain function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, call *Call) (any, error)

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(ctx context.Context, call *Call) (any, error) {
	return f(ctx, call)
}
