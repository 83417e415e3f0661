// Package tui is the interactive front end: pick an AppImage and an optional icon,
// preview the desktop entry, then register it.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"deskimage/internal/app"
	"deskimage/internal/sync"
	"deskimage/internal/ui"
	"deskimage/internal/ui/components"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents different screens in the app
type Screen int

const (
	ScreenMain Screen = iota
	ScreenPickAppImage
	ScreenPickIcon
	ScreenPreview
	ScreenHelp
)

// Action is a button on the main screen
type Action int

const (
	ActionInstall Action = iota
	ActionSelectAppImage
	ActionSelectIcon
	ActionCreate
)

// File types offered by the pickers
var (
	AppImageTypes = []string{".AppImage"}
	IconTypes     = []string{".png", ".svg", ".xpm", ".jpg", ".jpeg"}
)

// InitialStatus is shown before anything is selected
const InitialStatus = "Select an AppImage file to create a desktop entry"

// Options configure a Model
type Options struct {
	App        *app.App
	Executable string // path of the running binary, for the global install check
	StartDir   string // directory the pickers open in
	Version    string
}

// Model is the bubbletea model of the interactive shell
type Model struct {
	app     *app.App
	ctx     context.Context
	exe     string
	version string

	// UI Components
	picker   filepicker.Model
	preview  *components.Preview
	diffView *components.DiffView
	spinner  spinner.Model
	help     help.Model
	helpVP   viewport.Model
	keys     ui.KeyMap

	// State
	screen    Screen
	focus     int
	width     int
	height    int
	startDir  string
	installed bool

	appImagePath string
	iconPath     string
	plan         *sync.Plan

	status      string
	statusKind  ui.NotifyKind
	warnings    []string
	installedAt string // executable of the last registration

	planning   bool
	syncing    bool
	installing bool

	// installCmd starts the elevated self copy; replaced in tests
	installCmd func() tea.Cmd
}

// Messages
type planCompleteMsg struct {
	plan *sync.Plan
	err  error
}

type syncCompleteMsg struct {
	result *app.Result
	err    error
}

type installCompleteMsg struct {
	err error
}

// New creates the model
func New(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.MutedStyle

	startDir := opts.StartDir
	if startDir == "" {
		if home, err := opts.App.Resolver.HomeDir(); err == nil {
			startDir = home
		} else if wd, err := os.Getwd(); err == nil {
			startDir = wd
		}
	}

	m := &Model{
		app:       opts.App,
		ctx:       ctx,
		exe:       opts.Executable,
		version:   opts.Version,
		preview:   components.NewPreview(),
		diffView:  components.NewDiffView(),
		spinner:   s,
		help:      help.New(),
		keys:      ui.DefaultKeyMap(),
		screen:    ScreenMain,
		width:     80,
		height:    24,
		startDir:  startDir,
		installed: opts.App.IsGloballyInstalled(opts.Executable),
		status:    InitialStatus,
	}
	m.installCmd = m.execInstall
	m.focus = m.indexOf(ActionSelectAppImage)

	return m
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// actions lists the main screen buttons in display order
func (m *Model) actions() []Action {
	actions := []Action{ActionSelectAppImage, ActionSelectIcon, ActionCreate}
	if !m.installed {
		actions = append([]Action{ActionInstall}, actions...)
	}
	return actions
}

func (m *Model) indexOf(a Action) int {
	for i, action := range m.actions() {
		if action == a {
			return i
		}
	}
	return 0
}

func (m *Model) focused() Action {
	actions := m.actions()
	if m.focus < 0 || m.focus >= len(actions) {
		m.focus = 0
	}
	return actions[m.focus]
}

func (m *Model) setStatus(kind ui.NotifyKind, msg string) {
	m.status = msg
	m.statusKind = kind
	m.warnings = nil
	m.app.Logger.Debug("status", "msg", msg)
}

func (m *Model) request() sync.Request {
	return sync.Request{SourcePath: m.appImagePath, IconPath: m.iconPath}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		if m.screen == ScreenPickAppImage || m.screen == ScreenPickIcon {
			m.picker, _ = m.picker.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4})
		}

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if m.screen == ScreenPreview {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case planCompleteMsg:
		m.planning = false
		if msg.err != nil {
			m.setStatus(ui.NotifyError, app.ErrorMessage(msg.err))
			return m, nil
		}
		m.plan = msg.plan
		m.preview.SetContent(msg.plan.AppName+".desktop", msg.plan.DesktopFilePath, msg.plan.Content)
		m.diffView.SetDiff(msg.plan.Diff, msg.plan.IsUpdate)
		m.screen = ScreenPreview
		m.setStatus(ui.NotifyInfo, "Review the desktop entry, then press enter to write it")

	case syncCompleteMsg:
		m.syncing = false
		m.screen = ScreenMain
		if msg.err != nil {
			m.setStatus(ui.NotifyError, app.ErrorMessage(msg.err))
			return m, nil
		}
		m.setStatus(ui.NotifySuccess, app.SuccessMessage(msg.result.Outcome))
		m.warnings = app.WarningMessages(msg.result)
		m.installedAt = app.InstalledMessage(msg.result.Outcome)

	case installCompleteMsg:
		m.installing = false
		if msg.err != nil {
			m.setStatus(ui.NotifyError, "Failed to install. Are you sure you have "+m.app.Installer.Elevator+" permissions?")
			m.app.Logger.Error("global install failed", "err", msg.err)
			return m, nil
		}
		m.installed = true
		m.focus = m.indexOf(ActionSelectAppImage)
		m.setStatus(ui.NotifySuccess, fmt.Sprintf("Installed to %s. Now you can run `deskimage` globally.", m.app.Installer.Target))

	default:
		if m.screen == ScreenPickAppImage || m.screen == ScreenPickIcon {
			return m.updatePicker(msg)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateSizes() {
	m.preview.SetSize(m.width-4, (m.height-10)/2)
	m.diffView.Width = m.width - 4
	m.diffView.Height = (m.height - 10) / 2
	m.helpVP.Width = m.width - 4
	m.helpVP.Height = m.height - 4
	m.help.Width = m.width
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenPickAppImage, ScreenPickIcon:
		if key.Matches(msg, m.keys.Escape) {
			m.screen = ScreenMain
			return m, nil
		}
		return m.updatePicker(msg)
	case ScreenPreview:
		return m.handlePreviewKeys(msg)
	case ScreenHelp:
		if key.Matches(msg, m.keys.Escape, m.keys.Help, m.keys.Quit) {
			m.screen = ScreenMain
			return m, nil
		}
		var cmd tea.Cmd
		m.helpVP, cmd = m.helpVP.Update(msg)
		return m, cmd
	}

	return m.handleMainKeys(msg)
}

func (m *Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.screen = ScreenHelp
		m.helpVP = viewport.New(m.width-4, m.height-4)
		m.helpVP.SetContent(m.renderHelpContent())
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Left):
		if m.focus > 0 {
			m.focus--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Right):
		if m.focus < len(m.actions())-1 {
			m.focus++
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		return m.run(m.focused())

	case key.Matches(msg, m.keys.SelectAppImage):
		return m.run(ActionSelectAppImage)

	case key.Matches(msg, m.keys.SelectIcon):
		return m.run(ActionSelectIcon)

	case key.Matches(msg, m.keys.ClearIcon):
		if m.iconPath != "" {
			m.iconPath = ""
			m.setStatus(ui.NotifyInfo, "Custom icon cleared")
		}
		return m, nil

	case key.Matches(msg, m.keys.Create):
		return m.run(ActionCreate)

	case key.Matches(msg, m.keys.Install):
		if m.installed {
			return m, nil
		}
		return m.run(ActionInstall)
	}

	return m, nil
}

func (m *Model) run(a Action) (tea.Model, tea.Cmd) {
	switch a {
	case ActionSelectAppImage:
		return m.openPicker(ScreenPickAppImage, AppImageTypes)
	case ActionSelectIcon:
		return m.openPicker(ScreenPickIcon, IconTypes)
	case ActionCreate:
		return m.handleCreate()
	case ActionInstall:
		return m.handleInstall()
	}
	return m, nil
}

func (m *Model) openPicker(screen Screen, types []string) (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.AllowedTypes = types
	fp.CurrentDirectory = m.startDir
	fp.AutoHeight = true
	fp.ShowPermissions = false
	// size the list for the current window
	fp, _ = fp.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 4})

	m.picker = fp
	m.screen = screen
	return m, m.picker.Init()
}

func (m *Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.selectFile(path)
		return m, cmd
	}
	if didSelect, path := m.picker.DidSelectDisabledFile(msg); didSelect {
		m.setStatus(ui.NotifyWarning, path+" is not a supported file type")
		return m, cmd
	}

	return m, cmd
}

// selectFile records a picked file and returns to the main screen
func (m *Model) selectFile(path string) {
	switch m.screen {
	case ScreenPickAppImage:
		m.appImagePath = path
		m.plan = nil
		m.installedAt = ""
		m.setStatus(ui.NotifyInfo, "Selected: "+path)
		m.focus = m.indexOf(ActionCreate)
	case ScreenPickIcon:
		m.iconPath = path
		m.plan = nil
		m.setStatus(ui.NotifyInfo, "Selected icon: "+path)
	}
	m.screen = ScreenMain
}

func (m *Model) handleCreate() (tea.Model, tea.Cmd) {
	if m.appImagePath == "" {
		m.setStatus(ui.NotifyError, "No AppImage selected.")
		return m, nil
	}
	if m.planning || m.syncing {
		return m, nil
	}

	m.planning = true
	m.setStatus(ui.NotifyInfo, "Processing...")

	a, ctx, req := m.app, m.ctx, m.request()
	return m, func() tea.Msg {
		plan, err := a.Plan(ctx, req)
		return planCompleteMsg{plan: plan, err: err}
	}
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.syncing {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.screen = ScreenMain
		m.setStatus(ui.NotifyInfo, "Canceled")
		return m, nil

	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Create):
		return m.handleConfirm()

	case key.Matches(msg, m.keys.Up):
		m.preview.ScrollUp()
		m.diffView.ScrollUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.preview.ScrollDown()
		m.diffView.ScrollDown()
		return m, nil
	}

	return m, nil
}

// handleConfirm runs the registration; at most one runs at a time
func (m *Model) handleConfirm() (tea.Model, tea.Cmd) {
	if m.syncing {
		return m, nil
	}
	m.syncing = true
	m.setStatus(ui.NotifyInfo, "Creating desktop entry...")

	a, ctx, req := m.app, m.ctx, m.request()
	return m, func() tea.Msg {
		result, err := a.Register(ctx, req, false)
		return syncCompleteMsg{result: result, err: err}
	}
}

func (m *Model) handleInstall() (tea.Model, tea.Cmd) {
	if m.installed || m.installing {
		return m, nil
	}
	m.installing = true
	m.setStatus(ui.NotifyInfo, "Installing to "+m.app.Installer.Target+"...")
	return m, m.installCmd()
}

// execInstall hands the terminal to the elevator so it can ask for a password
func (m *Model) execInstall() tea.Cmd {
	cmd, err := m.app.Installer.Command(m.ctx, m.exe)
	if err != nil {
		return func() tea.Msg { return installCompleteMsg{err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return installCompleteMsg{err: err}
	})
}

// Status returns the current status line and its kind
func (m *Model) Status() (string, ui.NotifyKind) {
	return m.status, m.statusKind
}

// statusPrefix mirrors the SUCCESS/WARNING/ERROR wording of status lines
func statusPrefix(kind ui.NotifyKind) string {
	switch kind {
	case ui.NotifySuccess:
		return "SUCCESS: "
	case ui.NotifyWarning:
		return "WARNING: "
	case ui.NotifyError:
		return "ERROR: "
	default:
		return ""
	}
}

func (m *Model) statusLine() string {
	text := strings.TrimSpace(m.status)
	if m.planning || m.syncing || m.installing {
		return m.spinner.View() + " " + ui.RenderNotification(m.statusKind, text)
	}
	return ui.RenderNotification(m.statusKind, statusPrefix(m.statusKind)+text)
}
