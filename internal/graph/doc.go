// Package graph builds the dependency graph for a pipeline: one immutable
// node per step, recording which named variables the step needs and which
// it produces. Secondary inputs referenced by name inside a step's
// parameters (e.g. the overlay layer of a compositing transform) are
// detected here and become ordinary dependency edges.
package graph
