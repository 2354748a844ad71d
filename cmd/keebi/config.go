// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"keebi-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `keebi config` command tree.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage keebi configuration",
		Long: `Manage keebi configuration.

Configuration is stored in:
  - Linux: ~/.config/keebi/config.cue
  - macOS: ~/Library/Application Support/keebi/config.cue
  - Windows: %APPDATA%\keebi\config.cue

Any value can be overridden from the environment, e.g. KEEBI_LOG_LEVEL=debug
or KEEBI_INPUT_DRY_RUN=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := app.loadSession(cmd.Context(), opts)
			if err != nil {
				configLoadHint(cmd, app, opts)
				return reportSetupError(cmd, err, opts.verbose)
			}
			showConfig(cmd.OutOrStdout(), s.cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfgFile
			if path == "" {
				p, err := config.ConfigFilePath(app.configDir)
				if err != nil {
					return reportSetupError(cmd, err, opts.verbose)
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			path, created, err := config.CreateDefaultConfig(app.configDir, force)
			if err != nil {
				return reportSetupError(cmd, err, opts.verbose)
			}

			out := cmd.OutOrStdout()
			if !created {
				fmt.Fprintf(out, "%s %s\n", WarningStyle.Render("Config file already exists:"), path)
				fmt.Fprintln(out, SubtitleStyle.Render("Use --force to overwrite it."))
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render(successIcon+" Created"), path)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	scriptsDir, err := cfg.ScriptsDir()
	if err != nil {
		scriptsDir = SubtitleStyle.Render("(unresolved: " + err.Error() + ")")
	} else {
		scriptsDir = valueStyle.Render(scriptsDir)
	}

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("scripts"))
	fmt.Fprintf(w, "  dir: %s\n", scriptsDir)
	fmt.Fprintf(w, "  extension: %s\n", valueStyle.Render(cfg.Scripts.Extension))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("script"))
	fmt.Fprintf(w, "  errexit: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Script.ErrExit)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("shell"))
	if argv := cfg.ShellArgv(); argv != nil {
		fmt.Fprintf(w, "  command: %s\n", valueStyle.Render(strings.Join(argv, " ")))
	} else {
		fmt.Fprintf(w, "  command: %s\n", SubtitleStyle.Render("(platform default)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", valueStyle.Render(cfg.Log.Level.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("input"))
	fmt.Fprintf(w, "  dry_run: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Input.DryRun)))
}
