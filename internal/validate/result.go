package validate

import "slices"

// Result is the verdict for one batch. It is built once by the engine and
// not modified afterwards.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// aggregate partitions issues by severity, keeping their relative order.
// Errors and Warnings are always non-nil so they encode as [] in JSON.
func aggregate(issues []Issue) *Result {
	r := &Result{
		Errors:   []Issue{},
		Warnings: []Issue{},
	}
	for _, is := range issues {
		if is.Code.Severity() == SeverityWarning {
			r.Warnings = append(r.Warnings, is)
			continue
		}
		r.Errors = append(r.Errors, is)
	}
	r.Valid = len(r.Errors) == 0
	return r
}

// IssuesFor returns the errors and warnings attributed to taskIndex, in
// output order.
func (r *Result) IssuesFor(taskIndex int) []Issue {
	var out []Issue
	for _, is := range r.Errors {
		if is.TaskIndex == taskIndex {
			out = append(out, is)
		}
	}
	for _, is := range r.Warnings {
		if is.TaskIndex == taskIndex {
			out = append(out, is)
		}
	}
	return out
}

// FailingTasks returns the ascending indices of tasks that carry at least
// one error. Callers use it to regenerate only the broken tasks.
func (r *Result) FailingTasks() []int {
	seen := make(map[int]bool)
	var out []int
	for _, is := range r.Errors {
		if is.TaskIndex == BatchLevel || seen[is.TaskIndex] {
			continue
		}
		seen[is.TaskIndex] = true
		out = append(out, is.TaskIndex)
	}
	slices.Sort(out)
	return out
}

// CountByCode tallies errors and warnings per code.
func (r *Result) CountByCode() map[Code]int {
	out := make(map[Code]int)
	for _, is := range r.Errors {
		out[is.Code]++
	}
	for _, is := range r.Warnings {
		out[is.Code]++
	}
	return out
}
