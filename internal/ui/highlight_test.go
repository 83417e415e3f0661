package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestHighlighter_HighlightLine(t *testing.T) {
	h := NewHighlighter()

	lines := []string{
		"[Desktop Entry]",
		"Type=Application",
		"Exec=/home/user/.local/bin/Editor",
		"Categories=Utility;",
		"",
	}

	for _, line := range lines {
		got := h.HighlightLine(line)
		if lipgloss.Width(got) != lipgloss.Width(line) {
			t.Errorf("highlighting changed visible width of %q: %q", line, got)
		}
	}
}

func TestHighlighter_HighlightLines(t *testing.T) {
	h := NewHighlighter()

	result := h.HighlightLines([]string{"Name=Foo", "Terminal=false"})
	if len(result) != 2 {
		t.Errorf("expected 2 lines, got %d", len(result))
	}
}

func TestHighlighter_NoLexer(t *testing.T) {
	h := &Highlighter{}
	if got := h.HighlightLine("Name=Foo"); got != "Name=Foo" {
		t.Errorf("expected unchanged line, got %q", got)
	}
}
