package cli

import (
	"fmt"
	"os"

	"deskimage/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(flags *globalFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
	}

	configCmd.AddCommand(newConfigInitCommand(flags))
	configCmd.AddCommand(newConfigPathCommand(flags))
	configCmd.AddCommand(newConfigShowCommand(flags))

	return configCmd
}

func newConfigInitCommand(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.Default().SaveFile(path); err != nil {
				return fmt.Errorf("failed to write configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newConfigPathCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), flags.path())
			return nil
		},
	}
}

func newConfigShowCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Global target: %s\n", cfg.GlobalTarget)
			fmt.Fprintf(w, "Elevator: %s\n", cfg.Elevator)
			fmt.Fprintf(w, "Refresh desktop database: %t\n", cfg.RefreshDesktopDatabase)
			fmt.Fprintf(w, "Refresh icon cache: %t\n", cfg.RefreshIconCache)
			fmt.Fprintf(w, "Applications dir: %s\n", orDefault(cfg.ApplicationsDir))
			fmt.Fprintf(w, "Icons dir: %s\n", orDefault(cfg.IconsDir))
			fmt.Fprintf(w, "Log file: %s\n", cfg.LogFile)
			fmt.Fprintf(w, "Log level: %s\n", cfg.LogLevel)
			if cfg.FirstRun {
				fmt.Fprintln(w, "(no configuration file, showing defaults)")
			}
			return nil
		},
	}
}

func orDefault(v string) string {
	if v == "" {
		return "(default)"
	}
	return v
}
