package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newInstallGlobalCommand(opts Options, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "install-global",
		Short: "Copy deskimage to a system-wide location",
		Long: `Copy the running deskimage binary to the configured global target
(default /usr/local/bin/deskimage) using sudo, or the configured elevator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			a := newApp(cfg, opts, flags, cmd.ErrOrStderr())

			exe, err := opts.Executable()
			if err != nil {
				return fmt.Errorf("couldn't determine executable path: %w", err)
			}

			if a.IsGloballyInstalled(exe) {
				fmt.Fprintf(cmd.OutOrStdout(), "Already installed at %s\n", a.Installer.Target)
				return nil
			}

			// run in the foreground so the elevator can prompt for a password
			c, err := a.Installer.Command(cmd.Context(), exe)
			if err != nil {
				return err
			}
			c.Stdin = os.Stdin
			c.Stdout = cmd.OutOrStdout()
			c.Stderr = cmd.ErrOrStderr()
			if err := c.Run(); err != nil {
				a.Logger.Error("global install failed", "err", err)
				return fmt.Errorf("failed to install. Are you sure you have %s permissions? (%w)", a.Installer.Elevator, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "SUCCESS: Installed to %s. Now you can run `deskimage` globally.\n", a.Installer.Target)
			return nil
		},
	}
}
