// Package views renders the navigation state as terminal text with lipgloss.
// Every function is pure: it reads the state and returns a string.
package views

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles of the UI.
type Theme struct {
	Header    lipgloss.Style
	Crumb     lipgloss.Style
	Column    lipgloss.Style
	Selected  lipgloss.Style
	Dir       lipgloss.Style
	File      lipgloss.Style
	Dim       lipgloss.Style
	Key       lipgloss.Style
	Value     lipgloss.Style
	Info      lipgloss.Style
	Success   lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Dialog    lipgloss.Style
	LineNo    lipgloss.Style
	StatusBar lipgloss.Style
}

// DefaultTheme returns the default styles.
func DefaultTheme() Theme {
	return Theme{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF80")),
		Crumb:     lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF")),
		Column:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#4A90E2")),
		Dir:       lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true),
		File:      lipgloss.NewStyle(),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Key:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFEB3B")),
		Value:     lipgloss.NewStyle(),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF80")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		Dialog:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#FFEB3B")).Padding(0, 1),
		LineNo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#606060")),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")),
	}
}

// Views renders frames, overlays and status lines.
type Views struct {
	theme Theme
	now   func() time.Time
}

// NewViews creates a renderer with the default theme.
func NewViews() *Views {
	return &Views{
		theme: DefaultTheme(),
		now:   time.Now,
	}
}

// SetTheme replaces the styles.
func (v *Views) SetTheme(t Theme) {
	v.theme = t
}

// SetClock replaces the clock used for relative times.
func (v *Views) SetClock(now func() time.Time) {
	v.now = now
}

// Theme returns the styles.
func (v *Views) Theme() Theme {
	return v.theme
}
