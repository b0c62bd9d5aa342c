// Package trace records execution footprints: digests of values captured
// during a computation plus step-scoped samples used for complexity
// analysis. A Collector implements fib.Observer so calculators can be
// traced without knowing anything about grading.
package trace
