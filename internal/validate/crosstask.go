package validate

import "github.com/abhisek/worksheetz/internal/task"

// DuplicateQuestionValidator flags choice and open questions whose text
// repeats an earlier task in the same batch. Only the later task is
// reported, so a pair is never flagged twice.
type DuplicateQuestionValidator struct{}

func (v *DuplicateQuestionValidator) Name() string { return "cross-task" }

func (v *DuplicateQuestionValidator) Check(entries []Entry, _ Input) []Issue {
	var issues []Issue
	first := make(map[string]int, len(entries))
	for _, e := range entries {
		q, ok := questionText(e.Task)
		if !ok {
			continue
		}
		key := normalize(q)
		if key == "" {
			continue
		}
		if j, seen := first[key]; seen {
			issues = append(issues, newIssue(e.Index, "question", CodeDuplicateQuestions,
				"question repeats task %d", j))
			continue
		}
		first[key] = e.Index
	}
	return issues
}

// questionText returns the question of the variants that carry one.
// Matching and fill-blank tasks are not compared.
func questionText(t task.Task) (string, bool) {
	switch t := t.(type) {
	case *task.SingleChoice:
		return t.Question, true
	case *task.MultipleChoice:
		return t.Question, true
	case *task.OpenQuestion:
		return t.Question, true
	case *task.Matching, *task.FillBlank:
		return "", false
	}
	panic(unhandledKind(t))
}
