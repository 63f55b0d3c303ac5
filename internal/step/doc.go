// Package step defines the declarative model of a pipeline: a flat,
// ordered list of generate/transform/save steps over named intermediate
// values. It carries no execution logic; the graph, schedule and engine
// packages consume it.
package step
