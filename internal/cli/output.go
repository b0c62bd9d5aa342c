// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayProgress], [DisplayMemoryStats].
//
//   - Print* functions write plain session information to an [io.Writer].
//     Examples: [PrintExecutionConfig], [PrintCheckPlan].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteReportToFile].

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/fibgrade/internal/orchestration"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/ui"
)

// reportDocument is the JSON shape written by WriteReportToFile.
type reportDocument struct {
	Generated  string                      `json:"generated"`
	Submission string                      `json:"submission"`
	Correct    bool                        `json:"correct"`
	Results    []reference.ReferenceResult `json:"results"`
}

// WriteReportToFile writes a grading report to a JSON file.
//
// Parameters:
//   - path: The destination file (parent directories are created).
//   - submission: The name of the graded submission.
//   - results: The check results to serialize.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteReportToFile(path, submission string, results []orchestration.CheckResult) error {
	if path == "" {
		return nil
	}

	doc := reportDocument{
		Generated:  time.Now().Format(time.RFC3339),
		Submission: submission,
		Correct:    true,
	}
	for _, res := range results {
		if res.Err != nil {
			doc.Correct = false
			continue
		}
		if !res.Result.Correct() {
			doc.Correct = false
		}
		doc.Results = append(doc.Results, res.Result)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// DisplaySavedReport confirms a successful report write on the terminal.
func DisplaySavedReport(path string, out io.Writer) {
	fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
		ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
}
