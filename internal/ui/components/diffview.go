package components

import (
	"fmt"
	"strings"

	"deskimage/internal/sync"
	"deskimage/internal/ui"
)

// DiffView displays the line diff between the existing and the planned desktop entry
type DiffView struct {
	Width  int
	Height int

	Lines        []sync.DiffLine
	IsUpdate     bool
	ScrollOffset int

	highlighter *ui.Highlighter
}

// NewDiffView creates a new DiffView
func NewDiffView() *DiffView {
	return &DiffView{
		Width:       80,
		Height:      20,
		highlighter: ui.NewHighlighter(),
	}
}

// SetDiff sets the diff to display and resets scrolling
func (d *DiffView) SetDiff(lines []sync.DiffLine, isUpdate bool) {
	d.Lines = lines
	d.IsUpdate = isUpdate
	d.ScrollOffset = 0
}

// ScrollUp scrolls the view up
func (d *DiffView) ScrollUp() {
	if d.ScrollOffset > 0 {
		d.ScrollOffset--
	}
}

// ScrollDown scrolls the view down
func (d *DiffView) ScrollDown() {
	if d.ScrollOffset < len(d.Lines)-1 {
		d.ScrollOffset++
	}
}

// HasChanges reports whether any line is inserted or deleted
func (d *DiffView) HasChanges() bool {
	added, removed := sync.DiffStats(d.Lines)
	return added > 0 || removed > 0
}

// View renders the diff view
func (d *DiffView) View() string {
	var b strings.Builder

	b.WriteString(d.renderStats())
	b.WriteString("\n")

	if !d.HasChanges() {
		return b.String()
	}

	visible := d.Height - 2
	if visible < 1 {
		visible = 1
	}
	start := d.ScrollOffset
	if start >= len(d.Lines) {
		start = 0
	}
	end := start + visible
	if end > len(d.Lines) {
		end = len(d.Lines)
	}

	rows := make([]string, 0, end-start)
	for _, line := range d.Lines[start:end] {
		rows = append(rows, d.formatLine(line))
	}
	b.WriteString(strings.Join(rows, "\n"))

	return b.String()
}

func (d *DiffView) renderStats() string {
	if !d.IsUpdate {
		return ui.DiffAddStyle.Render("new file")
	}
	if !d.HasChanges() {
		return ui.MutedStyle.Render("✓ No changes to the desktop entry")
	}

	added, removed := sync.DiffStats(d.Lines)
	return ui.DiffAddStyle.Render(fmt.Sprintf("+%d", added)) + " " +
		ui.DiffDelStyle.Render(fmt.Sprintf("-%d", removed))
}

func (d *DiffView) formatLine(line sync.DiffLine) string {
	content := line.Content
	maxWidth := d.Width - 4
	if maxWidth > 8 && len(content) > maxWidth {
		content = content[:maxWidth-3] + "..."
	}

	switch line.Type {
	case sync.DiffInsert:
		return ui.DiffAddStyle.Render("+ " + content)
	case sync.DiffDelete:
		return ui.DiffDelStyle.Render("- " + content)
	default:
		return "  " + d.highlighter.HighlightLine(content)
	}
}
