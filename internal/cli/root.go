// Package cli defines the deskimage command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"deskimage/internal/app"
	"deskimage/internal/config"
	"deskimage/internal/logging"
	"deskimage/internal/paths"
	"deskimage/internal/refresh"
	"deskimage/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Options carries the collaborators of the commands. Zero values use the real system.
type Options struct {
	Resolver   paths.Resolver
	Runner     refresh.Runner
	Executable func() (string, error)
	RunTUI     func(ctx context.Context, m *tui.Model) error
}

func (o *Options) defaults() {
	if o.Resolver == nil {
		o.Resolver = paths.NewXDG()
	}
	if o.Runner == nil {
		o.Runner = refresh.ExecRunner{}
	}
	if o.Executable == nil {
		o.Executable = os.Executable
	}
	if o.RunTUI == nil {
		o.RunTUI = runProgram
	}
}

// globalFlags holds the persistent flag values
type globalFlags struct {
	debug      bool
	configPath string
}

// NewRootCommand creates the deskimage command tree
func NewRootCommand(opts Options) *cobra.Command {
	opts.defaults()
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "deskimage",
		Short: "Create desktop entries for AppImage files",
		Long: `deskimage installs an AppImage into ~/.local/bin and writes a desktop entry
for it, so it shows up in the application menu like any other program.

Run without arguments to start the interactive interface.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts, flags)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file path (default is "+config.ConfigPath()+")")

	rootCmd.AddCommand(newAddCommand(opts, flags))
	rootCmd.AddCommand(newInstallGlobalCommand(opts, flags))
	rootCmd.AddCommand(newConfigCommand(flags))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

func (f *globalFlags) path() string {
	if f.configPath != "" {
		return f.configPath
	}
	return config.ConfigPath()
}

func (f *globalFlags) load() (*config.Config, error) {
	cfg, err := config.LoadFile(f.path())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newApp builds the backend with a logger writing to w
func newApp(cfg *config.Config, opts Options, flags *globalFlags, w io.Writer) *app.App {
	logger := logging.New(w, cfg.LogLevel, flags.debug)
	return app.New(cfg, opts.Resolver, opts.Runner, logger)
}

// ensureDirs creates the standard directories, logging the ones that could not be made
func ensureDirs(a *app.App) {
	results, err := paths.EnsureDirs(a.Resolver)
	if err != nil {
		a.Logger.Warn("couldn't prepare directories", "err", err)
	}
	for _, r := range results {
		switch {
		case r.Err != nil:
			a.Logger.Warn("couldn't create directory", "name", r.Name, "path", r.Path, "err", r.Err)
		case r.Created:
			a.Logger.Info("created directory", "name", r.Name, "path", r.Path)
		}
	}
}

func runInteractive(cmd *cobra.Command, opts Options, flags *globalFlags) error {
	cfg, err := flags.load()
	if err != nil {
		return err
	}

	// the alternate screen owns the terminal, so log to a file
	var w io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: couldn't open log file %s: %v\n", cfg.LogFile, err)
		} else {
			defer f.Close()
			w = f
		}
	}

	a := newApp(cfg, opts, flags, w)
	ensureDirs(a)

	exe, err := opts.Executable()
	if err != nil {
		a.Logger.Warn("couldn't determine executable path", "err", err)
	}

	m := tui.New(cmd.Context(), tui.Options{
		App:        a,
		Executable: exe,
		Version:    Version,
	})
	return opts.RunTUI(cmd.Context(), m)
}

func runProgram(ctx context.Context, m *tui.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Execute runs the command line and exits with status 1 on failure
func Execute() {
	rootCmd := NewRootCommand(Options{})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
