// Package validate decides whether a batch of generated worksheet tasks is
// acceptable and explains why not.
//
// The engine is a pure function of its input: it performs no I/O, keeps no
// state between calls and never fails on malformed content. Every content
// problem becomes an Issue in the returned Result.
package validate

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/abhisek/worksheetz/internal/task"
)

// Entry is a structurally sound task together with its batch position.
type Entry struct {
	Index int
	Task  task.Task
}

// Input is the pedagogical context of a batch.
type Input struct {
	Subject Subject
	Grade   int
}

// Phase is one validation stage run over the structurally sound tasks of a
// batch. Implementations must be stateless and report issues ordered by
// task index.
type Phase interface {
	// Name returns a short identifier, e.g. "semantic" or "cross-task".
	Name() string

	Check(entries []Entry, in Input) []Issue
}

// Engine runs the structural gate followed by its phases. It is immutable
// and safe for concurrent use.
type Engine struct {
	structural *StructuralValidator
	phases     []Phase
}

// New builds an Engine from cfg.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{
		structural: &StructuralValidator{},
		phases: []Phase{
			&SemanticValidator{
				MinQuestionLength:    cfg.MinQuestionLength,
				MinInstructionLength: cfg.MinInstructionLength,
			},
			&DuplicateQuestionValidator{},
			&NumberRangeValidator{Ceilings: maps.Clone(cfg.NumberCeilings)},
		},
	}, nil
}

var defaultEngine = mustNew(DefaultConfig())

func mustNew(cfg Config) *Engine {
	e, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

// Validate checks tasks with the default configuration.
func Validate(tasks []json.RawMessage, subject Subject, grade int) (*Result, error) {
	return defaultEngine.Validate(tasks, subject, grade)
}

// Phases returns the names of the stages in execution order.
func (e *Engine) Phases() []string {
	names := []string{e.structural.Name()}
	for _, p := range e.phases {
		names = append(names, p.Name())
	}
	return names
}

// Validate checks a batch of raw task objects. A nil or empty batch is
// valid. The returned error is non-nil only when subject or grade violate
// the calling contract; malformed content is always reported as issues.
func (e *Engine) Validate(tasks []json.RawMessage, subject Subject, grade int) (*Result, error) {
	if !subject.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
	}
	if grade < MinGrade || grade > MaxGrade {
		return nil, fmt.Errorf("%w: %d (supported %d-%d)", ErrUnsupportedGrade, grade, MinGrade, MaxGrade)
	}

	in := Input{Subject: subject, Grade: grade}

	var issues []Issue
	entries := make([]Entry, 0, len(tasks))
	for i, raw := range tasks {
		t, structural := e.structural.Check(i, raw)
		issues = append(issues, structural...)
		if t != nil {
			entries = append(entries, Entry{Index: i, Task: t})
		}
	}

	for _, p := range e.phases {
		issues = append(issues, p.Check(entries, in)...)
	}

	return aggregate(issues), nil
}
