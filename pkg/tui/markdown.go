package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderer is a package-level glamour renderer used for the default,
// unconstrained-width detail panel. renderMarkdownWidth builds a fresh
// renderer on every call instead, since glamour bakes word-wrap width in
// at construction time.
var renderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err == nil {
		renderer = r
	}
}

// renderMarkdown converts a task's rendered body to styled terminal
// output, falling back to the raw input if glamour is unavailable.
func renderMarkdown(md string) string {
	if renderer == nil || strings.TrimSpace(md) == "" {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// renderMarkdownWidth renders markdown wrapped to width, for the detail
// panel once the terminal size is known.
func renderMarkdownWidth(md string, width int) string {
	if strings.TrimSpace(md) == "" || width <= 0 {
		return renderMarkdown(md)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return renderMarkdown(md)
	}
	out, err := r.Render(md)
	if err != nil {
		return renderMarkdown(md)
	}
	return strings.TrimRight(out, "\n")
}
