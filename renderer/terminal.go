package renderer

import (
	"github.com/charmbracelet/glamour"
)

// Terminal renders markdown for display in a terminal, wrapping lines at width.
// The style adapts to the terminal background, and is plain when not on a terminal.
func Terminal(md string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
