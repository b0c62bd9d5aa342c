// Package student wraps the execution footprint of a submission and grades
// it against reference implementations. Footprints from separate runs can
// be combined into one logical submission, and graded footprints are
// cached on disk to avoid re-tracing unchanged work.
package student
