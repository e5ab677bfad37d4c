package validate

import "fmt"

// Code identifies the kind of problem an Issue reports. The vocabulary is
// closed; see severities for the classification of each code.
type Code string

// Hard codes. Any of these makes a batch unacceptable.
const (
	CodeSchemaInvalid        Code = "SCHEMA_INVALID"
	CodeInvalidIndex         Code = "INVALID_INDEX"
	CodeEmptyField           Code = "EMPTY_FIELD"
	CodeDuplicateOptions     Code = "DUPLICATE_OPTIONS"
	CodeDuplicateIndices     Code = "DUPLICATE_INDICES"
	CodeColumnLengthMismatch Code = "COLUMN_LENGTH_MISMATCH"
	CodeIncompletePairs      Code = "INCOMPLETE_PAIRS"
	CodeInvalidPairIndex     Code = "INVALID_PAIR_INDEX"
	CodeDuplicatePairs       Code = "DUPLICATE_PAIRS"
	CodeBlankMarkerMismatch  Code = "BLANK_MARKER_MISMATCH"
	CodeMissingBlank         Code = "MISSING_BLANK"
	CodeQuestionTooShort     Code = "QUESTION_TOO_SHORT"
	CodeDuplicateQuestions   Code = "DUPLICATE_QUESTIONS"
)

// Soft codes. Advisory only.
const (
	CodeFewOptions             Code = "FEW_OPTIONS"
	CodePossibleNumberOverflow Code = "POSSIBLE_NUMBER_OVERFLOW"
)

// Severity splits codes into blocking errors and advisory warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

var severities = map[Code]Severity{
	CodeSchemaInvalid:          SeverityError,
	CodeInvalidIndex:           SeverityError,
	CodeEmptyField:             SeverityError,
	CodeDuplicateOptions:       SeverityError,
	CodeDuplicateIndices:       SeverityError,
	CodeColumnLengthMismatch:   SeverityError,
	CodeIncompletePairs:        SeverityError,
	CodeInvalidPairIndex:       SeverityError,
	CodeDuplicatePairs:         SeverityError,
	CodeBlankMarkerMismatch:    SeverityError,
	CodeMissingBlank:           SeverityError,
	CodeQuestionTooShort:       SeverityError,
	CodeDuplicateQuestions:     SeverityError,
	CodeFewOptions:             SeverityWarning,
	CodePossibleNumberOverflow: SeverityWarning,
}

// Severity returns the classification of c. Codes outside the vocabulary
// are treated as errors so they can never slip through as advisory.
func (c Code) Severity() Severity {
	if s, ok := severities[c]; ok {
		return s
	}
	return SeverityError
}

// Codes returns the full vocabulary, hard codes first.
func Codes() []Code {
	return []Code{
		CodeSchemaInvalid,
		CodeInvalidIndex,
		CodeEmptyField,
		CodeDuplicateOptions,
		CodeDuplicateIndices,
		CodeColumnLengthMismatch,
		CodeIncompletePairs,
		CodeInvalidPairIndex,
		CodeDuplicatePairs,
		CodeBlankMarkerMismatch,
		CodeMissingBlank,
		CodeQuestionTooShort,
		CodeDuplicateQuestions,
		CodeFewOptions,
		CodePossibleNumberOverflow,
	}
}

// BatchLevel is the TaskIndex of issues that concern the batch as a whole.
const BatchLevel = -1

// Issue is one diagnostic produced while validating a batch.
type Issue struct {
	// TaskIndex is the position of the offending task in the input batch,
	// or BatchLevel.
	TaskIndex int `json:"taskIndex"`

	// Field is a dotted path hint inside the task, e.g. "options[1]" or
	// "blanks[0].correctAnswer". Empty when the whole task is concerned.
	Field string `json:"field"`

	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("task %d: %s: %s", i.TaskIndex, i.Code, i.Message)
	}
	return fmt.Sprintf("task %d: %s %s: %s", i.TaskIndex, i.Code, i.Field, i.Message)
}

func newIssue(index int, field string, code Code, format string, args ...any) Issue {
	return Issue{
		TaskIndex: index,
		Field:     field,
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
	}
}
