// Package tui renders the operator-facing console output.
package tui

import (
	"fmt"
	"io"
	"strings"
)

// DefaultTitle is shown inside the startup box.
const DefaultTitle = "MDP Simulator Server Running"

// Banner writes the startup box followed by the URL to open and how to stop.
func Banner(w io.Writer, title, url string) error {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	s := newStyles(w)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.box.Render(s.title.Render(title)))
	b.WriteString("\n\n")
	b.WriteString("  Open your browser and navigate to:\n\n")
	b.WriteString("     " + s.url.Render(url) + "\n\n")
	b.WriteString("  " + s.help.Render("Press Ctrl+C to stop the server") + "\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Stopped writes the shutdown notice.
func Stopped(w io.Writer) error {
	_, err := fmt.Fprintf(w, "\n\n  %s\n", newStyles(w).help.Render("Server stopped."))
	return err
}
