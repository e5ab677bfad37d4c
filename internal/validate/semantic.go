package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/worksheetz/internal/task"
)

// blankMarker matches a positional gap such as "___(3)___".
var blankMarker = regexp.MustCompile(`___\((\d+)\)___`)

// SemanticValidator checks that the values of a structurally sound task
// reference each other consistently.
type SemanticValidator struct {
	MinQuestionLength    int
	MinInstructionLength int
}

func (v *SemanticValidator) Name() string { return "semantic" }

func (v *SemanticValidator) Check(entries []Entry, _ Input) []Issue {
	var issues []Issue
	for _, e := range entries {
		issues = append(issues, v.checkTask(e.Index, e.Task)...)
	}
	return issues
}

func (v *SemanticValidator) checkTask(index int, t task.Task) []Issue {
	switch t := t.(type) {
	case *task.SingleChoice:
		return v.singleChoice(index, t)
	case *task.MultipleChoice:
		return v.multipleChoice(index, t)
	case *task.OpenQuestion:
		return v.openQuestion(index, t)
	case *task.Matching:
		return v.matching(index, t)
	case *task.FillBlank:
		return v.fillBlank(index, t)
	}
	panic(unhandledKind(t))
}

func (v *SemanticValidator) singleChoice(index int, t *task.SingleChoice) []Issue {
	var issues []Issue
	issues = append(issues, checkText(index, "question", t.Question, v.MinQuestionLength)...)
	issues = append(issues, checkItems(index, "options", t.Options)...)
	if t.CorrectIndex < 0 || t.CorrectIndex >= len(t.Options) {
		issues = append(issues, newIssue(index, "correctIndex", CodeInvalidIndex,
			"correct index %d is outside options [0, %d)", t.CorrectIndex, len(t.Options)))
	}
	issues = append(issues, duplicateItems(index, "options", t.Options)...)
	if len(t.Options) == singleChoiceMinOptions {
		issues = append(issues, newIssue(index, "options", CodeFewOptions,
			"only %d options; consider adding more distractors", len(t.Options)))
	}
	return issues
}

func (v *SemanticValidator) multipleChoice(index int, t *task.MultipleChoice) []Issue {
	var issues []Issue
	issues = append(issues, checkText(index, "question", t.Question, v.MinQuestionLength)...)
	issues = append(issues, checkItems(index, "options", t.Options)...)
	for k, ci := range t.CorrectIndices {
		if ci < 0 || ci >= len(t.Options) {
			issues = append(issues, newIssue(index, fmt.Sprintf("correctIndices[%d]", k), CodeInvalidIndex,
				"correct index %d is outside options [0, %d)", ci, len(t.Options)))
		}
	}
	first := make(map[int]int, len(t.CorrectIndices))
	for k, ci := range t.CorrectIndices {
		if j, ok := first[ci]; ok {
			issues = append(issues, newIssue(index, "correctIndices", CodeDuplicateIndices,
				"correctIndices[%d] repeats index %d from correctIndices[%d]", k, ci, j))
			continue
		}
		first[ci] = k
	}
	issues = append(issues, duplicateItems(index, "options", t.Options)...)
	return issues
}

func (v *SemanticValidator) openQuestion(index int, t *task.OpenQuestion) []Issue {
	var issues []Issue
	issues = append(issues, checkText(index, "question", t.Question, v.MinQuestionLength)...)
	issues = append(issues, checkText(index, "correctAnswer", t.CorrectAnswer, 1)...)
	return issues
}

func (v *SemanticValidator) matching(index int, t *task.Matching) []Issue {
	var issues []Issue
	issues = append(issues, checkText(index, "instruction", t.Instruction, v.MinInstructionLength)...)
	issues = append(issues, checkItems(index, "leftColumn", t.LeftColumn)...)
	issues = append(issues, checkItems(index, "rightColumn", t.RightColumn)...)

	nLeft, nRight := len(t.LeftColumn), len(t.RightColumn)
	if nLeft != nRight {
		issues = append(issues, newIssue(index, "rightColumn", CodeColumnLengthMismatch,
			"left column has %d items but right column has %d", nLeft, nRight))
	}
	if len(t.CorrectPairs) != nLeft {
		issues = append(issues, newIssue(index, "correctPairs", CodeIncompletePairs,
			"%d pairs given for %d left items", len(t.CorrectPairs), nLeft))
	}

	for i, p := range t.CorrectPairs {
		if p.Left() < 0 || p.Left() >= nLeft {
			issues = append(issues, newIssue(index, fmt.Sprintf("correctPairs[%d][0]", i), CodeInvalidPairIndex,
				"left index %d is outside left column [0, %d)", p.Left(), nLeft))
		}
		if p.Right() < 0 || p.Right() >= nRight {
			issues = append(issues, newIssue(index, fmt.Sprintf("correctPairs[%d][1]", i), CodeInvalidPairIndex,
				"right index %d is outside right column [0, %d)", p.Right(), nRight))
		}
	}

	issues = append(issues, repeatedPairSide(index, "left", t.CorrectPairs, nLeft, task.Pair.Left)...)
	issues = append(issues, repeatedPairSide(index, "right", t.CorrectPairs, nRight, task.Pair.Right)...)
	issues = append(issues, duplicateItems(index, "leftColumn", t.LeftColumn)...)
	return issues
}

// repeatedPairSide reports in-bounds indices of one side that are used by
// more than one pair. Out-of-bounds indices are already INVALID_PAIR_INDEX.
func repeatedPairSide(index int, side string, pairs []task.Pair, n int, pick func(task.Pair) int) []Issue {
	var issues []Issue
	first := make(map[int]int, len(pairs))
	for i, p := range pairs {
		idx := pick(p)
		if idx < 0 || idx >= n {
			continue
		}
		if j, ok := first[idx]; ok {
			issues = append(issues, newIssue(index, "correctPairs", CodeDuplicatePairs,
				"%s index %d is used by correctPairs[%d] and correctPairs[%d]", side, idx, j, i))
			continue
		}
		first[idx] = i
	}
	return issues
}

func (v *SemanticValidator) fillBlank(index int, t *task.FillBlank) []Issue {
	var issues []Issue
	issues = append(issues, checkText(index, "textWithBlanks", t.TextWithBlanks, 1)...)
	for i, b := range t.Blanks {
		issues = append(issues, checkText(index, fmt.Sprintf("blanks[%d].correctAnswer", i), b.CorrectAnswer, 1)...)
	}

	positions := make(map[string]bool, len(t.Blanks))
	firstBlank := make(map[int]int, len(t.Blanks))
	for i, b := range t.Blanks {
		if j, ok := firstBlank[b.Position]; ok {
			issues = append(issues, newIssue(index, "blanks", CodeDuplicateIndices,
				"blanks[%d] repeats position %d from blanks[%d]", i, b.Position, j))
			continue
		}
		firstBlank[b.Position] = i
		positions[strconv.Itoa(b.Position)] = true
	}

	markers := markerNumbers(t.TextWithBlanks)
	inText := make(map[string]bool, len(markers))
	for _, m := range markers {
		inText[m] = true
	}

	var orphanMarkers []string
	seen := make(map[string]bool, len(markers))
	for _, m := range markers {
		if !positions[m] && !seen[m] {
			orphanMarkers = append(orphanMarkers, m)
		}
		seen[m] = true
	}
	var orphanBlanks []int
	for i, b := range t.Blanks {
		if !inText[strconv.Itoa(b.Position)] {
			orphanBlanks = append(orphanBlanks, i)
		}
	}

	if len(inText) != len(t.Blanks) {
		msg := fmt.Sprintf("text has %d distinct markers but %d blanks are defined", len(inText), len(t.Blanks))
		if len(orphanMarkers) > 0 {
			msg += fmt.Sprintf("; markers without a blank: %s", strings.Join(orphanMarkers, ", "))
		}
		if len(orphanBlanks) > 0 {
			msg += fmt.Sprintf("; blank positions without a marker: %s", blankPositions(t.Blanks, orphanBlanks))
		}
		return append(issues, Issue{TaskIndex: index, Field: "blanks", Code: CodeBlankMarkerMismatch, Message: msg})
	}

	for _, m := range orphanMarkers {
		issues = append(issues, newIssue(index, "textWithBlanks", CodeMissingBlank,
			"marker ___(%s)___ has no blank entry", m))
	}
	for _, i := range orphanBlanks {
		issues = append(issues, newIssue(index, fmt.Sprintf("blanks[%d].position", i), CodeMissingBlank,
			"position %d has no ___(%d)___ marker in the text", t.Blanks[i].Position, t.Blanks[i].Position))
	}
	return issues
}

// markerNumbers returns the number of every marker occurrence in text, in
// order of appearance, with leading zeros removed.
func markerNumbers(text string) []string {
	matches := blankMarker.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		n := strings.TrimLeft(m[1], "0")
		if n == "" {
			n = "0"
		}
		out = append(out, n)
	}
	return out
}

func blankPositions(blanks []task.Blank, idx []int) string {
	parts := make([]string, len(idx))
	for k, i := range idx {
		parts[k] = strconv.Itoa(blanks[i].Position)
	}
	return strings.Join(parts, ", ")
}
