// Package orchestration coordinates concurrent grading runs: it executes
// check tasks in parallel, streams progress to a reporter, and reduces
// the collected results to a process exit code.
package orchestration
