package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/worksheetz/internal/task"
)

// normalize is the comparison key for options and questions: trimmed and
// lower-cased.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// checkText reports an empty or too-short free-text field. min <= 1 only
// checks for emptiness.
func checkText(index int, field, value string, min int) []Issue {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return []Issue{newIssue(index, field, CodeEmptyField, "%s is empty", field)}
	}
	if n := utf8.RuneCountInString(trimmed); n < min {
		return []Issue{newIssue(index, field, CodeQuestionTooShort,
			"%s is %d characters long, need at least %d", field, n, min)}
	}
	return nil
}

// checkItems reports every empty element of a string collection.
func checkItems(index int, field string, items []string) []Issue {
	var issues []Issue
	for i, it := range items {
		if strings.TrimSpace(it) == "" {
			path := fmt.Sprintf("%s[%d]", field, i)
			issues = append(issues, newIssue(index, path, CodeEmptyField, "%s is empty", path))
		}
	}
	return issues
}

// duplicateItems reports each element that repeats an earlier one,
// ignoring case and surrounding whitespace. Empty elements are skipped;
// they are reported by checkItems.
func duplicateItems(index int, field string, items []string) []Issue {
	var issues []Issue
	first := make(map[string]int, len(items))
	for i, it := range items {
		key := normalize(it)
		if key == "" {
			continue
		}
		if j, ok := first[key]; ok {
			issues = append(issues, newIssue(index, field, CodeDuplicateOptions,
				"%s[%d] %q repeats %s[%d]", field, i, strings.TrimSpace(it), field, j))
			continue
		}
		first[key] = i
	}
	return issues
}

func unhandledKind(t task.Task) string {
	return fmt.Sprintf("validate: unhandled task variant %T", t)
}
