package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"deskimage/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	switch m.screen {
	case ScreenPickAppImage, ScreenPickIcon:
		return m.renderPicker()
	case ScreenPreview:
		return m.renderPreview()
	case ScreenHelp:
		return m.renderHelp()
	default:
		return m.renderMain()
	}
}

func (m *Model) renderHeader() string {
	title := "🖼️ DeskImage"
	if m.version != "" {
		title += "  " + ui.VersionStyle.Render("v"+m.version)
	}
	subtitle := ui.MutedStyle.Render("Create desktop entries for AppImage files")
	return ui.HeaderStyle.Render(title) + "\n" + subtitle
}

func (m *Model) renderBanner() string {
	text := "DeskImage is not installed globally"
	button := ui.RenderButton("Install to "+filepath.Dir(m.app.Installer.Target), m.focused() == ActionInstall)
	return ui.BannerStyle.Render(text + "\n\n" + button)
}

func (m *Model) renderMain() string {
	var sections []string

	sections = append(sections, m.renderHeader())
	if !m.installed {
		sections = append(sections, m.renderBanner())
	}

	var form strings.Builder
	form.WriteString(ui.RenderButton("Select AppImage File", m.focused() == ActionSelectAppImage))
	form.WriteString("\n")
	form.WriteString(ui.RenderField("Selected", m.appImagePath))
	form.WriteString("\n\n")
	form.WriteString(ui.RenderButton("Select Custom Icon", m.focused() == ActionSelectIcon))
	form.WriteString("\n")
	form.WriteString(ui.RenderField("Icon", m.iconPath))
	form.WriteString("\n\n")

	create := ui.RenderButton("Create Desktop Entry", m.focused() == ActionCreate)
	if m.appImagePath == "" {
		create = ui.MutedStyle.Render("[ Create Desktop Entry ]")
	}
	form.WriteString(create)

	sections = append(sections, ui.PanelStyle.Width(m.panelWidth()).Render(form.String()))
	sections = append(sections, m.statusLine())
	if m.installedAt != "" {
		sections = append(sections, ui.MutedStyle.Render(m.installedAt))
	}
	for _, w := range m.warnings {
		sections = append(sections, ui.RenderNotification(ui.NotifyWarning, "WARNING: "+w))
	}
	sections = append(sections, m.help.View(m.keys))

	return ui.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) panelWidth() int {
	w := m.width - 6
	if w < 40 {
		w = 40
	}
	return w
}

func (m *Model) renderPicker() string {
	title := "Select an AppImage file"
	filter := strings.Join(AppImageTypes, " ")
	if m.screen == ScreenPickIcon {
		title = "Select a custom icon"
		filter = strings.Join(IconTypes, " ")
	}

	var b strings.Builder
	b.WriteString(ui.PanelTitleStyle.Render(title))
	b.WriteString("  " + ui.MutedStyle.Render(filter) + "\n")
	b.WriteString(ui.PathStyle.Render(m.picker.CurrentDirectory) + "\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		ui.RenderHelpItem("↑/↓", "move"),
		ui.RenderHelpItem("→/enter", "open/select"),
		ui.RenderHelpItem("←", "parent"),
		ui.RenderHelpItem("esc", "cancel"),
	}, "  "))

	return ui.AppStyle.Render(b.String())
}

func (m *Model) renderPreview() string {
	if m.plan == nil {
		return m.renderMain()
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	summary := []string{
		ui.RenderField("App", m.plan.AppName),
		ui.RenderField("Exec", m.plan.ExecTarget),
		ui.RenderField("Icon", m.plan.Icon),
	}
	action := "create"
	if m.plan.IsUpdate {
		action = "update"
	}
	summary = append(summary, ui.RenderField("Action", action))
	sections = append(sections, strings.Join(summary, "\n"))

	sections = append(sections, ui.PanelStyle.Width(m.panelWidth()).Render(m.preview.View()))
	if m.plan.IsUpdate {
		sections = append(sections, ui.PanelStyle.Width(m.panelWidth()).Render(m.diffView.View()))
	}

	sections = append(sections, m.statusLine())
	sections = append(sections, strings.Join([]string{
		ui.RenderHelpItem("enter", "write entry"),
		ui.RenderHelpItem("↑/↓", "scroll"),
		ui.RenderHelpItem("esc", "back"),
	}, "  "))

	return ui.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderHelp() string {
	return ui.AppStyle.Render(m.helpVP.View())
}

func (m *Model) renderHelpContent() string {
	var b strings.Builder

	b.WriteString(ui.PanelTitleStyle.Render("Keyboard shortcuts") + "\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString("  " + ui.RenderHelpItem(fmt.Sprintf("%-8s", h.Key), h.Desc) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(ui.PanelTitleStyle.Render("What happens") + "\n\n")
	b.WriteString("  The AppImage is copied to ~/.local/bin/<name> and made executable.\n")
	b.WriteString("  A desktop entry is written to the applications directory.\n")
	b.WriteString("  Icon, Keywords, Categories and Comment of an existing entry are kept.\n")
	b.WriteString("  A custom icon is copied to ~/.local/share/icons.\n\n")
	b.WriteString(ui.MutedStyle.Render("  esc / ? to close"))

	return b.String()
}
