// Package hclpipeline parses declarative pipeline files written in HCL
// into the step model and statically validates them against an operation
// catalog. It is the boundary between the configuration format and the
// engine: nothing past this package knows HCL exists.
package hclpipeline
