package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/pixelflow/internal/step"
)

// HandlerFunc is the compiled implementation of one (kind, op) operation.
type HandlerFunc func(ctx context.Context, call *Call) (any, error)

// Module is the interface a package of related handlers implements to be
// registered with the engine.
type Module interface {
	Register(r *Registry)
}

// Registry maps (kind, op) pairs to handler functions and implements
// Dispatcher on top of the mapping. It also serves as the operation catalog
// that pipeline validation checks steps against.
//
// Registration happens once during startup; the registry is read-only
// afterwards, so lookups need no locking.
type Registry struct {
	handlers map[string]HandlerFunc
}

// NewRegistry creates an empty handler registry.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{handlers: make(map[string]HandlerFunc)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a handler for the given kind and operation. Registering the
// same pair twice is a programming error and panics, mirroring startup-time
// registration elsewhere in the codebase.
func (r *Registry) Register(kind step.Kind, op string, fn HandlerFunc) {
	key := handlerKey(kind, op)
	if _, exists := r.handlers[key]; exists {
		panic(fmt.Sprintf("handler %q already registered", key))
	}
	slog.Debug("Registering step handler.", "handler", key)
	r.handlers[key] = fn
}

// Has reports whether a handler exists for the given kind and operation.
func (r *Registry) Has(kind step.Kind, op string) bool {
	_, ok := r.handlers[handlerKey(kind, op)]
	return ok
}

// Dispatch implements Dispatcher by routing the call to its handler.
func (r *Registry) Dispatch(ctx context.Context, call *Call) (any, error) {
	fn, ok := r.handlers[handlerKey(call.Kind, call.Op)]
	if !ok {
		return nil, fmt.Errorf("no handler registered for %s", handlerKey(call.Kind, call.Op))
	}
	return fn(ctx, call)
}

func handlerKey(kind step.Kind, op string) string {
	return string(kind) + ":" + op
}
