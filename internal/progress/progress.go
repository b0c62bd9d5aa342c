// Package progress defines the update type streamed from workers to
// progress reporters. It exists as a leaf package so that both the
// orchestration layer and the presentation layers (CLI, TUI) can share
// the type without an import cycle.
package progress

// Update carries one progress report from a running check.
type Update struct {
	// CheckIndex is the index of the check that produced the update.
	CheckIndex int
	// Label identifies the reference or calculator being processed.
	Label string
	// Value is the normalized progress (0.0 to 1.0).
	Value float64
}
