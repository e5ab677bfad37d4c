package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Subject is the school subject a worksheet belongs to.
type Subject string

const (
	SubjectMath          Subject = "math"
	SubjectRussian       Subject = "russian"
	SubjectLiterature    Subject = "literature"
	SubjectEnglish       Subject = "english"
	SubjectHistory       Subject = "history"
	SubjectBiology       Subject = "biology"
	SubjectGeography     Subject = "geography"
	SubjectPhysics       Subject = "physics"
	SubjectChemistry     Subject = "chemistry"
	SubjectInformatics   Subject = "informatics"
	SubjectSocialStudies Subject = "social_studies"
)

// Subjects lists every supported subject.
var Subjects = []Subject{
	SubjectMath,
	SubjectRussian,
	SubjectLiterature,
	SubjectEnglish,
	SubjectHistory,
	SubjectBiology,
	SubjectGeography,
	SubjectPhysics,
	SubjectChemistry,
	SubjectInformatics,
	SubjectSocialStudies,
}

// Supported school grades.
const (
	MinGrade = 1
	MaxGrade = 11
)

// Calling-contract violations. These are programmer errors on the caller's
// side and are the only errors Validate returns.
var (
	ErrUnknownSubject   = errors.New("unknown subject")
	ErrUnsupportedGrade = errors.New("unsupported grade")
)

// ParseSubject maps a user-supplied name (case-insensitive) to a Subject.
func ParseSubject(s string) (Subject, error) {
	name := Subject(strings.ToLower(strings.TrimSpace(s)))
	if !name.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSubject, s)
	}
	return name, nil
}

// Known reports whether s is one of Subjects.
func (s Subject) Known() bool {
	for _, k := range Subjects {
		if s == k {
			return true
		}
	}
	return false
}

// Config controls the thresholds used by the Engine.
type Config struct {
	// MinQuestionLength is the minimum length, in characters after
	// trimming, of question-like fields.
	MinQuestionLength int

	// MinInstructionLength is the minimum trimmed length of a matching
	// task's instruction.
	MinInstructionLength int

	// NumberCeilings maps each grade to the largest number magnitude a
	// math task at that grade is expected to use. Every grade from
	// MinGrade to MaxGrade must be present.
	NumberCeilings map[int]int64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinQuestionLength:    10,
		MinInstructionLength: 3,
		NumberCeilings:       DefaultNumberCeilings(),
	}
}

// DefaultNumberCeilings returns the grade-indexed magnitude table used for
// math worksheets.
func DefaultNumberCeilings() map[int]int64 {
	return map[int]int64{
		1:  20,
		2:  100,
		3:  1_000,
		4:  10_000,
		5:  100_000,
		6:  1_000_000,
		7:  1_000_000_000,
		8:  1_000_000_000,
		9:  1_000_000_000,
		10: 1_000_000_000,
		11: 1_000_000_000,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.MinQuestionLength < 1 {
		return fmt.Errorf("min question length must be positive, got %d", c.MinQuestionLength)
	}
	if c.MinInstructionLength < 1 {
		return fmt.Errorf("min instruction length must be positive, got %d", c.MinInstructionLength)
	}
	for g := MinGrade; g <= MaxGrade; g++ {
		ceil, ok := c.NumberCeilings[g]
		if !ok {
			return fmt.Errorf("number ceiling missing for grade %d", g)
		}
		if ceil <= 0 {
			return fmt.Errorf("number ceiling for grade %d must be positive, got %d", g, ceil)
		}
	}
	return nil
}
