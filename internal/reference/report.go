package reference

import (
	"fmt"
	"strings"
)

// ReportFilter selects which references appear in a generated report.
type ReportFilter string

const (
	// ReportAll includes every checked reference.
	ReportAll ReportFilter = "all"

	// ReportSatisfied includes only fully satisfied references.
	ReportSatisfied ReportFilter = "satisfied"

	// ReportUnsatisfied includes only references with at least one failed
	// annotation.
	ReportUnsatisfied ReportFilter = "unsatisfied"
)

// GenerateReport renders the results of a grading run as plain text, one
// block per reference with a line per annotation. An empty selection
// yields an empty string.
//
// Parameters:
//   - results: the reference results to report on.
//   - filter: which references to include.
//
// Returns:
//   - string: the rendered report.
func GenerateReport(results []ReferenceResult, filter ReportFilter) string {
	var blocks []string
	for _, rr := range results {
		correct := rr.Correct()
		switch filter {
		case ReportSatisfied:
			if !correct {
				continue
			}
		case ReportUnsatisfied:
			if correct {
				continue
			}
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "REFERENCE: %s\n", rr.Reference)
		fmt.Fprintf(&sb, "SATISFIED: %t\n", correct)
		for _, res := range rr.Results {
			status := "PASS"
			if !res.Satisfied {
				status = "FAIL"
			}
			fmt.Fprintf(&sb, "  - [%s] %s", status, res.Name)
			if res.Observed != "" {
				fmt.Fprintf(&sb, " (observed: %s)", res.Observed)
			}
			if !res.Satisfied && res.Message != "" {
				fmt.Fprintf(&sb, ": %s", res.Message)
			}
			sb.WriteByte('\n')
		}
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n")
}
