// Package app wires registration, cache refreshes and global installation together
// for the command line and interactive front ends.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"deskimage/internal/config"
	"deskimage/internal/install"
	"deskimage/internal/paths"
	"deskimage/internal/refresh"
	"deskimage/internal/sync"

	"github.com/charmbracelet/log"
)

// App is the shared backend of the CLI and the TUI
type App struct {
	Config    *config.Config
	Resolver  paths.Resolver
	Sync      *sync.Synchronizer
	Installer *install.Installer
	Runner    refresh.Runner
	Logger    *log.Logger
}

// New creates a new App. A nil runner uses os/exec, a nil logger discards output.
func New(cfg *config.Config, base paths.Resolver, runner refresh.Runner, logger *log.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if runner == nil {
		runner = refresh.ExecRunner{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	resolver := cfg.Resolver(base)
	return &App{
		Config:    cfg,
		Resolver:  resolver,
		Sync:      sync.New(resolver, logger),
		Installer: install.New(cfg.GlobalTarget, cfg.Elevator, runner),
		Runner:    runner,
		Logger:    logger,
	}
}

// Result is a registration outcome plus the refresh results
type Result struct {
	Outcome *sync.Outcome
	Refresh []refresh.Result
}

// Register installs the AppImage, writes its desktop entry and refreshes desktop caches
func (a *App) Register(ctx context.Context, req sync.Request, skipRefresh bool) (*Result, error) {
	outcome, err := a.Sync.Synchronize(ctx, req)
	if err != nil {
		a.Logger.Error("registration failed", "source", req.SourcePath, "err", err)
		return nil, err
	}

	a.Logger.Info("installed executable", "path", outcome.ExecTarget, "sha256", sync.QuickHash(outcome.SourceSHA256))

	res := &Result{Outcome: outcome}
	if !skipRefresh {
		res.Refresh = refresh.RunAll(ctx, a.Logger, a.refreshTasks())
	}
	return res, nil
}

// Plan returns what Register would write
func (a *App) Plan(ctx context.Context, req sync.Request) (*sync.Plan, error) {
	return a.Sync.Plan(ctx, req)
}

func (a *App) refreshTasks() []refresh.Task {
	var tasks []refresh.Task

	if a.Config.RefreshDesktopDatabase {
		if dir, err := a.Resolver.ApplicationsDir(); err == nil {
			tasks = append(tasks, refresh.Task{Refresher: refresh.NewDesktopDatabase(a.Runner), Dir: dir})
		}
	}
	if a.Config.RefreshIconCache {
		if dir, err := a.Resolver.IconsDir(); err == nil {
			tasks = append(tasks, refresh.Task{Refresher: refresh.NewIconCache(a.Runner), Dir: dir})
		}
	}

	return tasks
}

// IsGloballyInstalled reports whether currentExe is installed at the configured target
func (a *App) IsGloballyInstalled(currentExe string) bool {
	return install.IsGloballyInstalled(currentExe, a.Installer.Target)
}

// InstallGlobally copies currentExe to the configured target
func (a *App) InstallGlobally(ctx context.Context, currentExe string) error {
	if err := a.Installer.Install(ctx, currentExe); err != nil {
		a.Logger.Error("global install failed", "err", err)
		return err
	}
	a.Logger.Info("installed globally", "target", a.Installer.Target)
	return nil
}

// SuccessMessage describes a completed registration
func SuccessMessage(outcome *sync.Outcome) string {
	if outcome.WasUpdate {
		return fmt.Sprintf("Desktop entry updated at: %s", outcome.DesktopFilePath)
	}
	return fmt.Sprintf("Desktop entry created at: %s", outcome.DesktopFilePath)
}

// InstalledMessage describes the installed executable and its checksum prefix
func InstalledMessage(outcome *sync.Outcome) string {
	if outcome.SourceSHA256 == "" {
		return fmt.Sprintf("Executable installed at: %s", outcome.ExecTarget)
	}
	return fmt.Sprintf("Executable installed at: %s (sha256 %s)", outcome.ExecTarget, sync.QuickHash(outcome.SourceSHA256))
}

// WarningMessages lists the non-fatal problems of a registration
func WarningMessages(res *Result) []string {
	var warnings []string

	if res.Outcome.IconWarning != nil {
		warnings = append(warnings, fmt.Sprintf("%v (using %s)", res.Outcome.IconWarning, res.Outcome.Icon))
	}
	for _, r := range refresh.Failed(res.Refresh) {
		warnings = append(warnings, fmt.Sprintf("refresh failed: %v", r.Err))
	}

	return warnings
}

// ErrorMessage turns a registration error into a message for the user
func ErrorMessage(err error) string {
	var staging *sync.StagingError
	var write *sync.DescriptorWriteError

	switch {
	case errors.Is(err, sync.ErrSourceNotFound):
		return err.Error()
	case errors.Is(err, paths.ErrHomeUnavailable):
		return "Couldn't find home directory"
	case errors.Is(err, paths.ErrApplicationsDirUnavailable):
		return "Couldn't find applications directory"
	case errors.As(err, &staging):
		return "Couldn't install executable: " + staging.Error()
	case errors.As(err, &write):
		return write.Error() + " (the executable was installed)"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	default:
		return err.Error()
	}
}
