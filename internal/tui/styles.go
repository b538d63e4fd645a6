package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#22C55E")
	colorMuted   = lipgloss.Color("#6B7280")
)

// styles are bound to a renderer so color support follows the destination
// writer rather than the process stdout.
type styles struct {
	box   lipgloss.Style
	title lipgloss.Style
	url   lipgloss.Style
	help  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		box: r.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 4).
			Width(58),
		title: r.NewStyle().
			Bold(true).
			Foreground(colorPrimary),
		url: r.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(colorSuccess),
		help: r.NewStyle().
			Foreground(colorMuted),
	}
}
