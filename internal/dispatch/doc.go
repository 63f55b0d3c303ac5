// Package dispatch defines the capability boundary between the pipeline
// engine and the providers that actually generate, transform and persist
// values. The engine consumes the Dispatcher interface; the Registry is the
// standard implementation, routing each (kind, op) pair to a registered
// handler the way runner modules register elsewhere in this codebase.
package dispatch
