package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Palette shared by all command output.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
)

// outputStyles renders command output. Colours are dropped automatically
// when the writer is not a terminal.
type outputStyles struct {
	Title   lipgloss.Style
	Answer  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newOutputStyles(w io.Writer) *outputStyles {
	r := lipgloss.NewRenderer(w)
	return &outputStyles{
		Title:   r.NewStyle().Bold(true).Foreground(colourPrimary),
		Answer:  r.NewStyle().PaddingLeft(2),
		Muted:   r.NewStyle().Foreground(colourMuted),
		Success: r.NewStyle().Foreground(colourSuccess),
		Warning: r.NewStyle().Foreground(colourWarning),
		Error:   r.NewStyle().Foreground(colourError),
	}
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
