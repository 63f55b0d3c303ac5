// Package varstore provides the thread-safe, single-assignment variable
// store shared across one pipeline run. It is seeded with externally
// supplied inputs before the first wave and receives each wave's outputs
// at the wave boundary.
package varstore
