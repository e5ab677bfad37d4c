package validate

import (
	"encoding/json"
	"errors"

	"github.com/abhisek/worksheetz/internal/task"
)

// Cardinality rules enforced on top of the JSON shape.
const (
	singleChoiceMinOptions   = 3
	singleChoiceMaxOptions   = 6
	multipleChoiceOptions    = 5
	multipleChoiceMinCorrect = 2
	matchingMinItems         = 1
)

// StructuralValidator coerces a raw object into a task variant and checks
// collection sizes. A task that fails here is excluded from every later
// phase because its fields cannot be trusted.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

// Check returns the parsed task, or nil together with the issues that
// prevented it from being accepted as structurally sound.
func (v *StructuralValidator) Check(index int, raw json.RawMessage) (task.Task, []Issue) {
	t, err := task.Parse(raw)
	if err != nil {
		var shapeErr *task.ShapeError
		if errors.As(err, &shapeErr) {
			return nil, []Issue{newIssue(index, shapeErr.Field, CodeSchemaInvalid, "%s", shapeErr.Message)}
		}
		return nil, []Issue{newIssue(index, "", CodeSchemaInvalid, "%v", err)}
	}

	issues := cardinality(index, t)
	if len(issues) > 0 {
		return nil, issues
	}
	return t, nil
}

func cardinality(index int, t task.Task) []Issue {
	var issues []Issue
	switch t := t.(type) {
	case *task.SingleChoice:
		if n := len(t.Options); n < singleChoiceMinOptions || n > singleChoiceMaxOptions {
			issues = append(issues, newIssue(index, "options", CodeSchemaInvalid,
				"single choice needs %d to %d options, got %d", singleChoiceMinOptions, singleChoiceMaxOptions, n))
		}

	case *task.MultipleChoice:
		if n := len(t.Options); n != multipleChoiceOptions {
			issues = append(issues, newIssue(index, "options", CodeSchemaInvalid,
				"multiple choice needs exactly %d options, got %d", multipleChoiceOptions, n))
		}
		if n := len(t.CorrectIndices); n < multipleChoiceMinCorrect {
			issues = append(issues, newIssue(index, "correctIndices", CodeSchemaInvalid,
				"multiple choice needs at least %d correct indices, got %d", multipleChoiceMinCorrect, n))
		}

	case *task.OpenQuestion:
		// Shape alone is sufficient.

	case *task.Matching:
		if n := len(t.LeftColumn); n < matchingMinItems {
			issues = append(issues, newIssue(index, "leftColumn", CodeSchemaInvalid,
				"matching needs at least %d left item, got %d", matchingMinItems, n))
		}
		if n := len(t.RightColumn); n < matchingMinItems {
			issues = append(issues, newIssue(index, "rightColumn", CodeSchemaInvalid,
				"matching needs at least %d right item, got %d", matchingMinItems, n))
		}

	case *task.FillBlank:
		// Marker and blank agreement is checked semantically.

	default:
		panic(unhandledKind(t))
	}
	return issues
}
