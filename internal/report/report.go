// Package report renders validation results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/worksheetz/internal/validate"
)

// Options controls text rendering.
type Options struct {
	// Title is printed above the summary when set, e.g. a file name.
	Title string

	// TaskCount is the batch size shown in the summary; 0 omits it.
	TaskCount int

	// Plain disables styling entirely.
	Plain bool
}

// JSON writes res as indented JSON followed by a newline.
func JSON(w io.Writer, res *validate.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// Text writes a human-readable listing of res grouped by task. Styled
// output is downsampled to what w supports.
func Text(w io.Writer, res *validate.Result, opts Options) error {
	st := colorStyles()
	if opts.Plain {
		st = plainStyles()
	}
	out := render(res, opts, st)
	if opts.Plain {
		_, err := io.WriteString(w, out)
		return err
	}
	_, err := lipgloss.Fprint(w, out)
	return err
}

func render(res *validate.Result, opts Options, st styles) string {
	var b strings.Builder

	if opts.Title != "" {
		b.WriteString(st.title(opts.Title))
		b.WriteString("\n")
	}
	b.WriteString(summary(res, opts, st))
	b.WriteString("\n")
	if failing := res.FailingTasks(); len(failing) > 0 {
		b.WriteString(st.dim("regenerate tasks: " + joinInts(failing)))
		b.WriteString("\n")
	}

	for _, idx := range taskIndices(res) {
		b.WriteString("\n")
		label := fmt.Sprintf("task %d", idx)
		if idx == validate.BatchLevel {
			label = "batch"
		}
		b.WriteString(st.task(label))
		b.WriteString("\n")
		for _, is := range res.IssuesFor(idx) {
			b.WriteString("  ")
			b.WriteString(issueLine(is, st))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func summary(res *validate.Result, opts Options, st styles) string {
	verdict := st.valid("✓ VALID")
	if !res.Valid {
		verdict = st.invalid("✗ INVALID")
	}
	parts := make([]string, 0, 3)
	if opts.TaskCount > 0 {
		parts = append(parts, plural(opts.TaskCount, "task"))
	}
	parts = append(parts, plural(len(res.Errors), "error"), plural(len(res.Warnings), "warning"))
	return verdict + "  " + st.dim(strings.Join(parts, ", "))
}

func issueLine(is validate.Issue, st styles) string {
	mark, paint := "✗", st.errCode
	if is.Code.Severity() == validate.SeverityWarning {
		mark, paint = "!", st.warCode
	}
	line := paint(mark + " " + string(is.Code))
	if is.Field != "" {
		line += " " + st.field(is.Field)
	}
	return line + ": " + is.Message
}

// taskIndices returns every index carrying an issue, batch-level first.
func taskIndices(res *validate.Result) []int {
	seen := make(map[int]bool)
	var out []int
	for _, list := range [][]validate.Issue{res.Errors, res.Warnings} {
		for _, is := range list {
			if !seen[is.TaskIndex] {
				seen[is.TaskIndex] = true
				out = append(out, is.TaskIndex)
			}
		}
	}
	slices.Sort(out)
	return out
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
