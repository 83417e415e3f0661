// Package refresh runs the desktop tools that make new entries visible without a re-login.
package refresh

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Runner executes external commands
type Runner interface {
	// LookPath reports the full path of a command, or an error if it is not installed
	LookPath(name string) (string, error)

	// Run executes a command and returns its combined output
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Refresher updates a desktop cache for a directory
type Refresher interface {
	// Name returns the command name
	Name() string

	// IsInstalled checks if the command is available on the system
	IsInstalled() bool

	// Refresh runs the command for dir
	Refresh(ctx context.Context, dir string) error
}

// baseRefresher provides common functionality for refreshers
type baseRefresher struct {
	command string
	args    func(dir string) []string
	runner  Runner
}

func (r *baseRefresher) Name() string {
	return r.command
}

func (r *baseRefresher) IsInstalled() bool {
	_, err := r.runner.LookPath(r.command)
	return err == nil
}

func (r *baseRefresher) Refresh(ctx context.Context, dir string) error {
	out, err := r.runner.Run(ctx, r.command, r.args(dir)...)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", r.command, err, msg)
		}
		return fmt.Errorf("%s: %w", r.command, err)
	}
	return nil
}

// NewDesktopDatabase returns a refresher for update-desktop-database
func NewDesktopDatabase(runner Runner) Refresher {
	return &baseRefresher{
		command: "update-desktop-database",
		args:    func(dir string) []string { return []string{dir} },
		runner:  runner,
	}
}

// NewIconCache returns a refresher for gtk-update-icon-cache
func NewIconCache(runner Runner) Refresher {
	return &baseRefresher{
		command: "gtk-update-icon-cache",
		args:    func(dir string) []string { return []string{"-f", "-t", dir} },
		runner:  runner,
	}
}

// Task pairs a refresher with the directory it refreshes
type Task struct {
	Refresher Refresher
	Dir       string
}

// Result is the outcome of one refresh task
type Result struct {
	Name    string
	Skipped bool // command not installed
	Err     error
}

// RunAll runs every task in order. Failures are logged and returned as results,
// never as an error.
func RunAll(ctx context.Context, logger *log.Logger, tasks []Task) []Result {
	results := make([]Result, 0, len(tasks))

	for _, task := range tasks {
		res := Result{Name: task.Refresher.Name()}

		if !task.Refresher.IsInstalled() {
			res.Skipped = true
			if logger != nil {
				logger.Debug("refresh command not installed", "command", res.Name)
			}
			results = append(results, res)
			continue
		}

		res.Err = task.Refresher.Refresh(ctx, task.Dir)
		if logger != nil {
			if res.Err != nil {
				logger.Warn("refresh failed", "command", res.Name, "dir", task.Dir, "err", res.Err)
			} else {
				logger.Debug("refreshed", "command", res.Name, "dir", task.Dir)
			}
		}
		results = append(results, res)
	}

	return results
}

// Failed returns the results that ran and failed
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
