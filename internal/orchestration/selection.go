package orchestration

import (
	"sort"

	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/student"
)

// SelectReferences determines which references a grading run should
// check. The selector "all" picks every reference, sorted by name for
// reproducible output; any other value picks the single reference with
// that name.
//
// Parameters:
//   - selector: "all" or a reference name.
//   - refs: The available references.
//
// Returns:
//   - []*reference.ReferenceImplementation: the references to check, nil
//     when the selector matches nothing.
func SelectReferences(selector string, refs []*reference.ReferenceImplementation) []*reference.ReferenceImplementation {
	if selector == "all" {
		selected := make([]*reference.ReferenceImplementation, len(refs))
		copy(selected, refs)
		sort.Slice(selected, func(i, j int) bool {
			return selected[i].Name() < selected[j].Name()
		})
		return selected
	}
	for _, ref := range refs {
		if ref.Name() == selector {
			return []*reference.ReferenceImplementation{ref}
		}
	}
	return nil
}

// BuildTasks pairs a submission with each reference, producing the task
// list ExecuteChecks consumes.
func BuildTasks(submission *student.Implementation, refs []*reference.ReferenceImplementation) []CheckTask {
	tasks := make([]CheckTask, 0, len(refs))
	for _, ref := range refs {
		tasks = append(tasks, CheckTask{Reference: ref, Submission: submission})
	}
	return tasks
}
