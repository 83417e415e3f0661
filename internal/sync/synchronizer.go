// Package sync installs AppImages and keeps their desktop entries up to date.
package sync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"deskimage/internal/desktop"
	"deskimage/internal/paths"

	"github.com/charmbracelet/log"
)

// Request describes one registration
type Request struct {
	SourcePath string
	IconPath   string // optional
}

// Outcome holds the result of a successful registration
type Outcome struct {
	AppName         string
	ExecTarget      string
	DesktopFilePath string
	WasUpdate       bool   // the desktop file existed before this run
	Icon            string // Icon value that was written
	IconWarning     error  // *IconDegradedError when the icon could not be copied
	SourceSHA256    string
	Content         string // written desktop entry
	Previous        string // desktop entry content before this run, if any
}

// Synchronizer registers AppImages as desktop applications.
// It is not safe to run two registrations for the same application at once.
type Synchronizer struct {
	resolver paths.Resolver
	logger   *log.Logger
}

// New creates a new Synchronizer
func New(resolver paths.Resolver, logger *log.Logger) *Synchronizer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Synchronizer{resolver: resolver, logger: logger}
}

// target holds the locations derived for one request
type target struct {
	appName         string
	execTarget      string
	applicationsDir string
	desktopFilePath string
	iconsDir        string
	iconsDirErr     error

	previous       string
	previousExists bool
}

// resolve checks the source and computes every path of a registration without writing anything
func (s *Synchronizer) resolve(req Request) (*target, error) {
	info, err := os.Stat(req.SourcePath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, req.SourcePath)
	}

	home, err := s.resolver.HomeDir()
	if err != nil {
		return nil, err
	}
	appsDir, err := s.resolver.ApplicationsDir()
	if err != nil {
		return nil, err
	}

	t := &target{
		appName:         desktop.CleanAppName(filepath.Base(req.SourcePath)),
		applicationsDir: appsDir,
	}
	t.execTarget = filepath.Join(paths.BinDir(home), t.appName)
	t.desktopFilePath = filepath.Join(appsDir, desktop.FileName(t.appName))
	t.iconsDir, t.iconsDirErr = s.resolver.IconsDir()

	if _, err := os.Stat(t.desktopFilePath); err == nil {
		t.previousExists = true
		data, err := os.ReadFile(t.desktopFilePath)
		if err != nil {
			s.logger.Warn("couldn't read existing desktop file, using defaults", "path", t.desktopFilePath, "err", err)
		} else {
			t.previous = string(data)
		}
	}

	return t, nil
}

// merge builds the entry to write from the previous file and the resolved icon.
// icon is empty when the previous (or default) icon should be kept.
func (t *target) merge(icon string) *desktop.Entry {
	entry := desktop.FromExisting(desktop.Parse(t.previous))
	entry.Name = t.appName
	entry.Exec = t.execTarget
	if icon != "" {
		entry.Icon = icon
	}
	return entry
}

// Synchronize installs the AppImage and writes its desktop entry
func (s *Synchronizer) Synchronize(ctx context.Context, req Request) (*Outcome, error) {
	t, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("registering", "app", t.appName, "source", req.SourcePath)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.stage(req.SourcePath, t.execTarget); err != nil {
		return nil, err
	}

	outcome := &Outcome{
		AppName:         t.appName,
		ExecTarget:      t.execTarget,
		DesktopFilePath: t.desktopFilePath,
		WasUpdate:       t.previousExists,
		Previous:        t.previous,
	}

	if hash, err := ComputeFileHash(t.execTarget); err == nil {
		outcome.SourceSHA256 = hash
	} else {
		s.logger.Warn("couldn't hash installed executable", "path", t.execTarget, "err", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	icon, warning := s.stageIcon(req.IconPath, t)
	if warning != nil {
		s.logger.Warn("icon not staged, using original path", "err", warning)
		outcome.IconWarning = warning
	}

	entry := t.merge(icon)
	outcome.Icon = entry.Icon
	outcome.Content = entry.String()

	if err := os.MkdirAll(t.applicationsDir, 0755); err != nil {
		return nil, &DescriptorWriteError{Path: t.applicationsDir, Err: err}
	}
	if err := os.WriteFile(t.desktopFilePath, entry.Bytes(), 0644); err != nil {
		return nil, &DescriptorWriteError{Path: t.desktopFilePath, Err: err}
	}

	s.logger.Info("desktop entry written", "path", t.desktopFilePath, "update", outcome.WasUpdate)
	return outcome, nil
}

// stage installs the executable at execTarget with mode 0755
func (s *Synchronizer) stage(source, execTarget string) error {
	if !isExecutable(source) {
		s.logger.Debug("source is not executable, setting permissions", "path", source)
		if err := ensureExecutable(source); err != nil {
			return &StagingError{Op: "chmod", Path: source, Err: err}
		}
	}

	dir := filepath.Dir(execTarget)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StagingError{Op: "mkdir", Path: dir, Err: err}
	}

	if err := copyFile(source, execTarget); err != nil {
		return &StagingError{Op: "copy", Path: execTarget, Err: err}
	}

	if err := os.Chmod(execTarget, 0755); err != nil {
		return &StagingError{Op: "chmod", Path: execTarget, Err: err}
	}

	return nil
}

// stageIcon copies a user supplied icon into the icons directory.
// It returns the Icon value to use, or "" when the previous value should be kept.
func (s *Synchronizer) stageIcon(iconPath string, t *target) (string, error) {
	if iconPath == "" {
		return "", nil
	}
	if _, err := os.Stat(iconPath); err != nil {
		s.logger.Debug("icon does not exist, keeping previous", "path", iconPath)
		return "", nil
	}

	if t.iconsDirErr != nil {
		return iconPath, &IconDegradedError{Path: iconPath, Err: t.iconsDirErr}
	}

	dest := filepath.Join(t.iconsDir, filepath.Base(iconPath))
	if err := copyFile(iconPath, dest); err != nil {
		return iconPath, &IconDegradedError{Path: iconPath, Err: err}
	}
	return dest, nil
}
