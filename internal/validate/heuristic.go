package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/worksheetz/internal/task"
)

// maxExactDigits is the longest digit run parsed exactly; anything longer
// is beyond every ceiling.
const maxExactDigits = 18

// NumberRangeValidator warns when a math task uses numbers larger than a
// learner of the given grade is expected to handle. It is a heuristic: years
// or labels can trip it, so it only ever emits warnings.
type NumberRangeValidator struct {
	Ceilings map[int]int64
}

func (v *NumberRangeValidator) Name() string { return "number-range" }

func (v *NumberRangeValidator) Check(entries []Entry, in Input) []Issue {
	if in.Subject != SubjectMath {
		return nil
	}
	ceiling, ok := v.Ceilings[in.Grade]
	if !ok {
		return nil
	}

	var issues []Issue
	for _, e := range entries {
		for _, f := range numericFields(e.Task) {
			for _, run := range digitRuns(f.value) {
				if exceeds(run, ceiling) {
					issues = append(issues, newIssue(e.Index, f.name, CodePossibleNumberOverflow,
						"number %s exceeds the grade %d ceiling of %d", run, in.Grade, ceiling))
				}
			}
		}
	}
	return issues
}

type textField struct {
	name  string
	value string
}

// numericFields lists the fields scanned for numbers, in a fixed order.
func numericFields(t task.Task) []textField {
	switch t := t.(type) {
	case *task.SingleChoice:
		return withOptions(t.Question, t.Options)
	case *task.MultipleChoice:
		return withOptions(t.Question, t.Options)
	case *task.OpenQuestion:
		return []textField{{"question", t.Question}, {"correctAnswer", t.CorrectAnswer}}
	case *task.FillBlank:
		out := make([]textField, len(t.Blanks))
		for i, b := range t.Blanks {
			out[i] = textField{fmt.Sprintf("blanks[%d].correctAnswer", i), b.CorrectAnswer}
		}
		return out
	case *task.Matching:
		return nil
	}
	panic(unhandledKind(t))
}

func withOptions(question string, options []string) []textField {
	out := make([]textField, 0, len(options)+1)
	out = append(out, textField{"question", question})
	for i, o := range options {
		out = append(out, textField{fmt.Sprintf("options[%d]", i), o})
	}
	return out
}

// digitRuns returns every maximal run of ASCII digits in s.
func digitRuns(s string) []string {
	var runs []string
	start := -1
	for i := 0; i < len(s); i++ {
		isDigit := s[i] >= '0' && s[i] <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}

func exceeds(run string, ceiling int64) bool {
	digits := strings.TrimLeft(run, "0")
	if digits == "" {
		return false
	}
	if len(digits) > maxExactDigits {
		return true
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return true
	}
	return n > ceiling
}
