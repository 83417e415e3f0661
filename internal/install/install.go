// Package install copies the running executable to a system-wide location.
package install

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"deskimage/internal/refresh"
)

// DefaultTarget is where the tool installs itself
const DefaultTarget = "/usr/local/bin/deskimage"

// DefaultElevator is the command used to gain root privileges
const DefaultElevator = "sudo"

// IsGloballyInstalled reports whether currentExe already runs from target,
// or a copy already exists at target.
func IsGloballyInstalled(currentExe, target string) bool {
	if currentExe != "" && filepath.Clean(currentExe) == filepath.Clean(target) {
		return true
	}
	_, err := os.Stat(target)
	return err == nil
}

// Installer copies an executable to Target through an elevation command
type Installer struct {
	Target   string
	Elevator string // "sudo", "pkexec", ...
	Runner   refresh.Runner
}

// New creates a new Installer, filling in defaults for empty values
func New(target, elevator string, runner refresh.Runner) *Installer {
	if strings.TrimSpace(target) == "" {
		target = DefaultTarget
	}
	if strings.TrimSpace(elevator) == "" {
		elevator = DefaultElevator
	}
	if runner == nil {
		runner = refresh.ExecRunner{}
	}
	return &Installer{Target: target, Elevator: elevator, Runner: runner}
}

// Install runs `<elevator> cp <currentExe> <target>`
func (i *Installer) Install(ctx context.Context, currentExe string) error {
	if currentExe == "" {
		return fmt.Errorf("unknown executable path")
	}
	if _, err := i.Runner.LookPath(i.Elevator); err != nil {
		return fmt.Errorf("%s is not available: %w", i.Elevator, err)
	}

	out, err := i.Runner.Run(ctx, i.Elevator, "cp", currentExe, i.Target)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("failed to install to %s: %w: %s", i.Target, err, msg)
		}
		return fmt.Errorf("failed to install to %s: %w", i.Target, err)
	}
	return nil
}

// Command returns the elevated copy as a command to run in the foreground,
// so the elevator can prompt for a password on the terminal.
func (i *Installer) Command(ctx context.Context, currentExe string) (*exec.Cmd, error) {
	if currentExe == "" {
		return nil, fmt.Errorf("unknown executable path")
	}
	path, err := i.Runner.LookPath(i.Elevator)
	if err != nil {
		return nil, fmt.Errorf("%s is not available: %w", i.Elevator, err)
	}
	return exec.CommandContext(ctx, path, "cp", currentExe, i.Target), nil
}
