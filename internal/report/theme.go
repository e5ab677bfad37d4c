package report

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary = lipgloss.Color("#8B5CF6") // Vivid Purple
	Success = lipgloss.Color("#22C55E") // Green
	Error   = lipgloss.Color("#F43F5E") // Rose
	Warning = lipgloss.Color("#F97316") // Orange
	TextDim = lipgloss.Color("#94A3B8") // Slate
)

// styles groups the renderers used by Text.
type styles struct {
	title   func(...string) string
	valid   func(...string) string
	invalid func(...string) string
	task    func(...string) string
	errCode func(...string) string
	warCode func(...string) string
	field   func(...string) string
	dim     func(...string) string
}

func colorStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).Render,
		valid: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true).Render,
		invalid: lipgloss.NewStyle().
			Foreground(Error).
			Bold(true).Render,
		task: lipgloss.NewStyle().
			Bold(true).Render,
		errCode: lipgloss.NewStyle().
			Foreground(Error).Render,
		warCode: lipgloss.NewStyle().
			Foreground(Warning).Render,
		field: lipgloss.NewStyle().
			Foreground(Primary).Render,
		dim: lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true).Render,
	}
}

// plainStyles leaves every string untouched.
func plainStyles() styles {
	return styles{plain, plain, plain, plain, plain, plain, plain, plain}
}

func plain(strs ...string) string {
	return strings.Join(strs, " ")
}
