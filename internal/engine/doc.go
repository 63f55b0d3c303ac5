// Package engine ties planning and execution together: it builds the
// dependency graph for a step list, computes execution waves, seeds the
// shared variable store with pre-satisfied inputs, and runs each wave
// through the bounded task pool against an injected dispatcher. Wave k+1
// never starts before wave k has fully settled, and a failure stops the
// launch of further waves while preserving everything already produced.
package engine
