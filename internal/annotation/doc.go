// Package annotation defines the conditions a reference implementation
// asserts about an execution footprint: expected value snapshots and
// expected time complexity classes. Each annotation checks itself against
// a trace.Footprint and produces a Result.
package annotation
