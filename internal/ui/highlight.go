package ui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter provides syntax highlighting for desktop entries
type Highlighter struct {
	style *chroma.Style
	lexer chroma.Lexer
}

// NewHighlighter creates a new syntax highlighter
func NewHighlighter() *Highlighter {
	return &Highlighter{
		style: styles.Get("catppuccin-mocha"),
		lexer: desktopLexer(),
	}
}

// desktopLexer returns a lexer for .desktop files, falling back to INI
func desktopLexer() chroma.Lexer {
	if lexer := lexers.Match("entry.desktop"); lexer != nil {
		return lexer
	}
	if lexer := lexers.Get("ini"); lexer != nil {
		return lexer
	}
	return nil
}

// HighlightLine highlights a single line
func (h *Highlighter) HighlightLine(line string) string {
	if h.lexer == nil || line == "" {
		return line
	}

	iterator, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var result strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		style := h.style.Get(token.Type)
		text := strings.TrimRight(token.Value, "\n")

		if style.Colour.IsSet() {
			styled := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Colour.String()))
			if style.Bold == chroma.Yes {
				styled = styled.Bold(true)
			}
			if style.Italic == chroma.Yes {
				styled = styled.Italic(true)
			}
			result.WriteString(styled.Render(text))
		} else {
			result.WriteString(text)
		}
	}

	return result.String()
}

// HighlightLines highlights multiple lines
func (h *Highlighter) HighlightLines(lines []string) []string {
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = h.HighlightLine(line)
	}
	return result
}
