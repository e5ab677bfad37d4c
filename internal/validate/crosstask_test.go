package validate

import (
	"testing"

	"github.com/abhisek/worksheetz/internal/task"
)

func TestDuplicateQuestions_AttributedToLaterTask(t *testing.T) {
	entries := []Entry{
		{Index: 0, Task: &task.OpenQuestion{Question: "What is 2+2?", CorrectAnswer: "4"}},
		{Index: 1, Task: &task.OpenQuestion{Question: "  what is 2+2?  ", CorrectAnswer: "4"}},
	}
	issues := (&DuplicateQuestionValidator{}).Check(entries, Input{Subject: SubjectMath, Grade: 1})
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
	if issues[0].TaskIndex != 1 || issues[0].Field != "question" || issues[0].Code != CodeDuplicateQuestions {
		t.Errorf("unexpected issue: %v", issues[0])
	}
}

func TestDuplicateQuestions_AcrossVariants(t *testing.T) {
	entries := []Entry{
		{Index: 0, Task: &task.SingleChoice{Question: "Capital of France?", Options: []string{"a", "b", "c"}}},
		{Index: 2, Task: &task.OpenQuestion{Question: "Capital of France?", CorrectAnswer: "Paris"}},
		{Index: 5, Task: &task.MultipleChoice{Question: "CAPITAL OF FRANCE?"}},
	}
	issues := (&DuplicateQuestionValidator{}).Check(entries, Input{})
	if len(issues) != 2 {
		t.Fatalf("expected two issues, got %v", issues)
	}
	if issues[0].TaskIndex != 2 || issues[1].TaskIndex != 5 {
		t.Errorf("unexpected attribution: %v", issues)
	}
}

func TestDuplicateQuestions_IgnoresMatchingAndFillBlank(t *testing.T) {
	entries := []Entry{
		{Index: 0, Task: &task.Matching{Instruction: "Match the pairs"}},
		{Index: 1, Task: &task.Matching{Instruction: "Match the pairs"}},
		{Index: 2, Task: &task.FillBlank{TextWithBlanks: "A ___(1)___"}},
		{Index: 3, Task: &task.FillBlank{TextWithBlanks: "A ___(1)___"}},
	}
	if issues := (&DuplicateQuestionValidator{}).Check(entries, Input{}); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestDuplicateQuestions_EmptyQuestionsNotCompared(t *testing.T) {
	entries := []Entry{
		{Index: 0, Task: &task.OpenQuestion{Question: " "}},
		{Index: 1, Task: &task.OpenQuestion{Question: ""}},
	}
	if issues := (&DuplicateQuestionValidator{}).Check(entries, Input{}); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}
