// Package app wires the loader, registry and engine into the runnable
// application behind the CLI: configuration validation, logger setup, and
// the load → validate → plan → execute sequence.
package app
