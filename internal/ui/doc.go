// Package ui centralizes terminal color themes for CLI and TUI output.
// Colors honor the NO_COLOR convention (https://no-color.org/).
package ui
