package validate

import (
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
)

const (
	validSingleJSON   = `{"type":"single_choice","question":"How much is 7 + 5?","options":["10","11","12","13"],"correctIndex":2}`
	validMultipleJSON = `{"type":"multiple_choice","question":"Which numbers are even?","options":["1","2","3","4","5"],"correctIndices":[1,3]}`
	validOpenJSON     = `{"type":"open_question","question":"How much is 9 - 4?","correctAnswer":"5"}`
	validMatchingJSON = `{"type":"matching","instruction":"Match the letters","leftColumn":["A","B","C"],"rightColumn":["X","Y","Z"],"correctPairs":[[0,1],[1,2],[2,0]]}`
	validFillJSON     = `{"type":"fill_blank","textWithBlanks":"A ___(1)___ B ___(2)___.","blanks":[{"position":1,"correctAnswer":"cat"},{"position":2,"correctAnswer":"dog"}]}`
)

func raws(objs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(objs))
	for i, o := range objs {
		out[i] = json.RawMessage(o)
	}
	return out
}

func codes(issues []Issue) []Code {
	out := make([]Code, len(issues))
	for i, is := range issues {
		out[i] = is.Code
	}
	return out
}

func mustValidate(t *testing.T, tasks []json.RawMessage, subject Subject, grade int) *Result {
	t.Helper()
	res, err := Validate(tasks, subject, grade)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestValidate_EmptyInput(t *testing.T) {
	for _, tasks := range [][]json.RawMessage{nil, {}} {
		res := mustValidate(t, tasks, SubjectMath, 3)
		if !res.Valid {
			t.Error("expected empty batch to be valid")
		}
		if res.Errors == nil || len(res.Errors) != 0 {
			t.Errorf("expected empty non-nil errors, got %#v", res.Errors)
		}
		if res.Warnings == nil || len(res.Warnings) != 0 {
			t.Errorf("expected empty non-nil warnings, got %#v", res.Warnings)
		}
	}
}

func TestValidate_EmptyInputJSON(t *testing.T) {
	res := mustValidate(t, nil, SubjectMath, 3)
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"valid":true,"errors":[],"warnings":[]}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestValidate_AllVariantsValid(t *testing.T) {
	tasks := raws(validSingleJSON, validMultipleJSON, validOpenJSON, validMatchingJSON, validFillJSON)
	res := mustValidate(t, tasks, SubjectMath, 1)
	if !res.Valid {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
}

func TestValidate_ContractErrors(t *testing.T) {
	tasks := raws(validSingleJSON)

	for _, g := range []int{0, -1, 12, 100} {
		_, err := Validate(tasks, SubjectMath, g)
		if !errors.Is(err, ErrUnsupportedGrade) {
			t.Errorf("grade %d: expected ErrUnsupportedGrade, got %v", g, err)
		}
	}

	_, err := Validate(tasks, Subject("art"), 3)
	if !errors.Is(err, ErrUnknownSubject) {
		t.Errorf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestValidate_MalformedContentNeverErrors(t *testing.T) {
	tasks := raws(`null`, `42`, `"text"`, `[]`, `{`, ``, `{"type":null}`, `{"type":"single_choice"}`)
	res := mustValidate(t, tasks, SubjectMath, 3)
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if len(res.Errors) != len(tasks) {
		t.Fatalf("expected one issue per task, got %v", res.Errors)
	}
	for i, is := range res.Errors {
		if is.Code != CodeSchemaInvalid {
			t.Errorf("issue %d: expected SCHEMA_INVALID, got %s", i, is.Code)
		}
		if is.TaskIndex != i {
			t.Errorf("issue %d: expected task index %d, got %d", i, i, is.TaskIndex)
		}
	}
}

func TestValidate_Idempotent(t *testing.T) {
	tasks := raws(
		`{"type":"essay"}`,
		`{"type":"single_choice","question":"How much is 7 + 5?","options":["10","10","12"],"correctIndex":7}`,
		validFillJSON,
		`{"type":"open_question","question":"How much is 15 + 25?","correctAnswer":"40"}`,
	)
	first := mustValidate(t, tasks, SubjectMath, 1)
	second := mustValidate(t, tasks, SubjectMath, 1)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%#v\n%#v", first, second)
	}
}

func TestValidate_MonotonicUnderRemoval(t *testing.T) {
	valid := raws(validSingleJSON, validOpenJSON, validMatchingJSON)
	for drop := range valid {
		subset := append(append([]json.RawMessage{}, valid[:drop]...), valid[drop+1:]...)
		if res := mustValidate(t, subset, SubjectMath, 2); !res.Valid {
			t.Errorf("dropping task %d made batch invalid: %v", drop, res.Errors)
		}
	}

	offending := `{"type":"open_question","question":"How much is 9 - 4?","correctAnswer":"   "}`
	batch := raws(validSingleJSON, offending, validMatchingJSON)
	res := mustValidate(t, batch, SubjectMath, 2)
	if len(res.Errors) != 1 || res.Errors[0].TaskIndex != 1 {
		t.Fatalf("expected a single error on task 1, got %v", res.Errors)
	}
	if res := mustValidate(t, raws(validSingleJSON, validMatchingJSON), SubjectMath, 2); !res.Valid {
		t.Errorf("removing the offender should make the batch valid: %v", res.Errors)
	}
}

func TestValidate_IssueOrder(t *testing.T) {
	tasks := raws(
		`{"type":"essay"}`,
		`{"type":"single_choice","question":"How much is 7 + 5?","options":["10","11","12","13"],"correctIndex":9}`,
		`{"type":"open_question","question":"how much is 7 + 5?","correctAnswer":"12"}`,
		`{"type":"open_question","question":"How much is 15 + 25?","correctAnswer":"40"}`,
	)
	res := mustValidate(t, tasks, SubjectMath, 1)

	wantErrors := []Issue{
		{TaskIndex: 0, Field: "type", Code: CodeSchemaInvalid},
		{TaskIndex: 1, Field: "correctIndex", Code: CodeInvalidIndex},
		{TaskIndex: 2, Field: "question", Code: CodeDuplicateQuestions},
	}
	wantWarnings := []Issue{
		{TaskIndex: 3, Field: "question", Code: CodePossibleNumberOverflow},
		{TaskIndex: 3, Field: "correctAnswer", Code: CodePossibleNumberOverflow},
	}
	assertIssues(t, "errors", res.Errors, wantErrors)
	assertIssues(t, "warnings", res.Warnings, wantWarnings)
	if res.Valid {
		t.Error("expected invalid")
	}
}

// assertIssues compares everything but the message.
func assertIssues(t *testing.T, label string, got, want []Issue) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %d issues, got %d: %v", label, len(want), len(got), got)
	}
	for i := range want {
		if got[i].TaskIndex != want[i].TaskIndex || got[i].Field != want[i].Field || got[i].Code != want[i].Code {
			t.Errorf("%s[%d]: got {%d %q %s}, want {%d %q %s}", label, i,
				got[i].TaskIndex, got[i].Field, got[i].Code,
				want[i].TaskIndex, want[i].Field, want[i].Code)
		}
		if got[i].Message == "" {
			t.Errorf("%s[%d]: empty message", label, i)
		}
	}
}

func TestValidate_StructuralFailureSkipsLaterPhases(t *testing.T) {
	// Two options is below the floor; the empty question, bad index and
	// duplicate options must not be reported on top of it.
	tasks := raws(`{"type":"single_choice","question":" ","options":["1","1"],"correctIndex":5}`)
	res := mustValidate(t, tasks, SubjectMath, 1)
	assertIssues(t, "errors", res.Errors, []Issue{{TaskIndex: 0, Field: "options", Code: CodeSchemaInvalid}})
}

func TestValidate_StructuralFailureExcludedFromDuplicates(t *testing.T) {
	tasks := raws(
		`{"type":"single_choice","question":"How much is 7 + 5?","options":["12"],"correctIndex":0}`,
		validSingleJSON,
	)
	res := mustValidate(t, tasks, SubjectMath, 1)
	assertIssues(t, "errors", res.Errors, []Issue{{TaskIndex: 0, Field: "options", Code: CodeSchemaInvalid}})
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	tasks := raws(validSingleJSON, validFillJSON)
	before := make([]string, len(tasks))
	for i, r := range tasks {
		before[i] = string(r)
	}
	mustValidate(t, tasks, SubjectMath, 1)
	for i, r := range tasks {
		if string(r) != before[i] {
			t.Errorf("task %d was modified", i)
		}
	}
}

func TestValidate_ConcurrentCalls(t *testing.T) {
	tasks := raws(validSingleJSON, `{"type":"open_question","question":"How much is 15 + 25?","correctAnswer":"40"}`)
	want := mustValidate(t, tasks, SubjectMath, 1)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := Validate(tasks, SubjectMath, 1)
			if err == nil {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Errorf("call %d: result differs", i)
		}
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	delete(cfg.NumberCeilings, 7)
	if _, err := New(cfg); err == nil {
		t.Error("expected error for missing grade ceiling")
	}

	cfg = DefaultConfig()
	cfg.MinQuestionLength = 0
	if _, err := New(cfg); err == nil {
		t.Error("expected error for zero question length")
	}
}

func TestNew_CopiesCeilings(t *testing.T) {
	cfg := DefaultConfig()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.NumberCeilings[1] = 1

	res, err := e.Validate(raws(validSingleJSON), SubjectMath, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("engine must not observe later config edits, got %v", res.Warnings)
	}
}

func TestEngine_Phases(t *testing.T) {
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"structural", "semantic", "cross-task", "number-range"}
	if got := e.Phases(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEngine_CustomQuestionLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinQuestionLength = 30
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := e.Validate(raws(validOpenJSON), SubjectHistory, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIssues(t, "errors", res.Errors, []Issue{{TaskIndex: 0, Field: "question", Code: CodeQuestionTooShort}})
}

func TestValidate_RepeatedFillBlankMarker(t *testing.T) {
	tasks := raws(`{"type":"fill_blank","textWithBlanks":"Write ___(1)___ here and ___(1)___ again.","blanks":[{"position":1,"correctAnswer":"cat"}]}`)
	res := mustValidate(t, tasks, SubjectEnglish, 2)
	if !res.Valid {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
}

func TestValidate_SinglePairMatching(t *testing.T) {
	tasks := raws(`{"type":"matching","instruction":"Match the letters","leftColumn":["A"],"rightColumn":["X"],"correctPairs":[[0,0]]}`)
	res := mustValidate(t, tasks, SubjectMath, 1)
	if !res.Valid {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
}
