package cli

import (
	"fmt"
	"io"
	"os"

	"deskimage/internal/app"
	"deskimage/internal/sync"

	"github.com/spf13/cobra"
)

type addFlags struct {
	icon      string
	dryRun    bool
	noRefresh bool
}

func newAddCommand(opts Options, flags *globalFlags) *cobra.Command {
	f := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add <appimage>",
		Short: "Install an AppImage and create its desktop entry",
		Long: `Copy the AppImage to ~/.local/bin/<name>, make it executable and write
<name>.desktop to the applications directory. An existing entry keeps its
Icon, Keywords, Categories and Comment unless a new icon is given.`,
		Example: `  deskimage add ~/Downloads/Editor-2.0.AppImage
  deskimage add Editor-2.0.AppImage --icon editor.png
  deskimage add Editor-2.0.AppImage --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			a := newApp(cfg, opts, flags, cmd.ErrOrStderr())
			req := sync.Request{SourcePath: args[0], IconPath: f.icon}

			if f.dryRun {
				plan, err := a.Plan(cmd.Context(), req)
				if err != nil {
					return &userError{err: err}
				}
				printPlan(cmd.OutOrStdout(), plan)
				return nil
			}

			// standard directories are only created for an existing source
			if _, err := os.Stat(req.SourcePath); err == nil {
				ensureDirs(a)
			}
			res, err := a.Register(cmd.Context(), req, f.noRefresh)
			if err != nil {
				return &userError{err: err}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "SUCCESS: %s\n", app.SuccessMessage(res.Outcome))
			fmt.Fprintln(cmd.OutOrStdout(), app.InstalledMessage(res.Outcome))
			for _, w := range app.WarningMessages(res) {
				fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.icon, "icon", "i", "", "Custom icon to copy into the icons directory")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Show the desktop entry that would be written without changing anything")
	cmd.Flags().BoolVar(&f.noRefresh, "no-refresh", false, "Skip update-desktop-database and gtk-update-icon-cache")

	return cmd
}

// printPlan writes a dry-run report
func printPlan(w io.Writer, plan *sync.Plan) {
	action := "create"
	if plan.IsUpdate {
		action = "update"
	}
	fmt.Fprintf(w, "Would %s %s\n", action, plan.DesktopFilePath)
	fmt.Fprintf(w, "Would install executable to %s\n\n", plan.ExecTarget)

	if !plan.IsUpdate {
		fmt.Fprint(w, plan.Content)
		return
	}
	if !plan.Changed() {
		fmt.Fprintln(w, "Desktop entry is unchanged")
		return
	}

	added, removed := sync.DiffStats(plan.Diff)
	fmt.Fprintf(w, "+%d -%d\n", added, removed)
	for _, line := range plan.Diff {
		switch line.Type {
		case sync.DiffInsert:
			fmt.Fprintf(w, "+ %s\n", line.Content)
		case sync.DiffDelete:
			fmt.Fprintf(w, "- %s\n", line.Content)
		default:
			fmt.Fprintf(w, "  %s\n", line.Content)
		}
	}
}

// userError reports an error with a message meant for the user, keeping the cause
type userError struct {
	err error
}

func (e *userError) Error() string { return app.ErrorMessage(e.err) }
func (e *userError) Unwrap() error { return e.err }
