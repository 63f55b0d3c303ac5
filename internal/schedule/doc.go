// Package schedule turns a dependency graph into an ordered sequence of
// execution waves, where each wave is the maximal set of not-yet-scheduled
// nodes whose dependencies are already satisfied by earlier waves or by
// externally pre-satisfied variables. Planning is synchronous and fails
// fast: an unsatisfiable graph (missing input or cycle) is reported before
// anything executes.
package schedule
