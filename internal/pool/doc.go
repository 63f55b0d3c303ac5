// Package pool provides a concurrency-bounded executor for ordered task
// lists: at most N tasks in flight, results returned in input order no
// matter when each task completes. The engine drives it once per execution
// wave; it is equally usable on its own.
package pool
