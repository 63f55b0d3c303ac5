// Package cli translates command-line arguments into an app.Config,
// reporting usage problems through ExitError codes.
package cli
