// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles provides styled output helpers for the CLI.
type Styles struct {
	renderer *lipgloss.Renderer
}

// NewStyles creates a new Styles instance for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		renderer: lipgloss.NewRenderer(w),
	}
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true).Render(text)
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render(text)
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true).Render(text)
}

// Account returns a styled account name (yellow).
func (s *Styles) Account(text string) string {
	return s.renderer.NewStyle().Foreground(lipgloss.Color("3")).Render(text)
}

// Amount returns a styled amount (magenta).
func (s *Styles) Amount(text string) string {
	return s.renderer.NewStyle().Foreground(lipgloss.Color("5")).Render(text)
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.renderer.NewStyle().Bold(true).Render(text)
}

// Dim returns dimmed text (for secondary information).
func (s *Styles) Dim(text string) string {
	return s.renderer.NewStyle().Faint(true).Render(text)
}
