package components

import (
	"fmt"
	"strings"

	"deskimage/internal/ui"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Preview displays a desktop entry with syntax highlighting using viewport
type Preview struct {
	viewport    viewport.Model
	highlighter *ui.Highlighter

	Title      string
	Path       string
	TotalLines int

	Width  int
	Height int

	lineNumStyle lipgloss.Style
	headerStyle  lipgloss.Style
	infoStyle    lipgloss.Style
}

// NewPreview creates a new Preview with viewport
func NewPreview() *Preview {
	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &Preview{
		viewport:    vp,
		highlighter: ui.NewHighlighter(),
		Width:       80,
		Height:      20,
		lineNumStyle: lipgloss.NewStyle().
			Foreground(ui.Muted).
			Width(4).
			Align(lipgloss.Right),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ui.Secondary),
		infoStyle: lipgloss.NewStyle().
			Foreground(ui.Muted),
	}
}

// SetSize updates the viewport dimensions
func (p *Preview) SetSize(width, height int) {
	p.Width = width
	p.Height = height

	// header (2 lines) and separator
	contentHeight := height - 3
	if contentHeight < 3 {
		contentHeight = 3
	}
	contentWidth := width - 2
	if contentWidth < 20 {
		contentWidth = 20
	}

	p.viewport.Width = contentWidth
	p.viewport.Height = contentHeight
}

// SetContent loads desktop entry text for display
func (p *Preview) SetContent(title, path, content string) {
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(p.lineNumStyle.Render(fmt.Sprintf("%d", i+1)))
		b.WriteString(" │ ")
		b.WriteString(p.highlighter.HighlightLine(line))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	p.Title = title
	p.Path = path
	p.TotalLines = len(lines)
	p.viewport.SetContent(b.String())
	p.viewport.GotoTop()
}

// Update handles messages for viewport scrolling
func (p *Preview) Update(msg tea.Msg) (*Preview, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the preview
func (p *Preview) View() string {
	var b strings.Builder

	b.WriteString(p.headerStyle.Render(p.Title))
	b.WriteString(p.infoStyle.Render(fmt.Sprintf("  %d lines", p.TotalLines)) + "\n")
	b.WriteString(ui.PathStyle.Render(p.Path) + "\n")

	width := p.Width - 2
	if width < 1 {
		width = 1
	}
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", width)) + "\n")
	b.WriteString(p.viewport.View())

	return b.String()
}

// ScrollUp scrolls up one line
func (p *Preview) ScrollUp() {
	p.viewport.LineUp(1)
}

// ScrollDown scrolls down one line
func (p *Preview) ScrollDown() {
	p.viewport.LineDown(1)
}
