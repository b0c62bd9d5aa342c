// Package reference bundles annotations into named reference
// implementations, runs them against execution footprints, and persists
// them as JSON so graders can be built once and distributed.
package reference
