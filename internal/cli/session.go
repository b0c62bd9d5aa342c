package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/fibgrade/internal/config"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/ui"
)

// PrintExecutionConfig displays the current grading configuration to the
// user: the traced index range, timeout, and environment details.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Grading Configuration ---\n")
	fmt.Fprintf(out, "Tracing %sF(0)..F(%d)%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.ProfileMax, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Submission: %s%s%s, calculators: %s%s%s.\n",
		ui.ColorCyan(), cfg.Student, ui.ColorReset(), ui.ColorCyan(), cfg.Algo, ui.ColorReset())
}

// PrintCheckPlan displays which references a grading run will check.
//
// Parameters:
//   - refs: The references that will be checked.
//   - out: The writer for standard output.
func PrintCheckPlan(refs []*reference.ReferenceImplementation, out io.Writer) {
	var modeDesc string
	if len(refs) > 1 {
		modeDesc = fmt.Sprintf("Parallel check against %d references", len(refs))
	} else {
		modeDesc = fmt.Sprintf("Single check against the %s%s%s reference",
			ui.ColorGreen(), refs[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Check plan: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Checks ---\n")
}
