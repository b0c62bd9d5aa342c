// Package fib implements the graded Fibonacci computations: a memoized
// recursive calculator backed by an explicit caller-owned cache, and an
// iterative dynamic-programming calculator that fills a fresh buffer per
// call. A deliberately naive recursive calculator is provided as the
// exponential contrast case for complexity demonstrations.
//
// Computations report their side effects (primitive operations and value
// snapshots) through the Observer interface, which the tracing layer
// implements to build footprints for reference checking.
package fib
