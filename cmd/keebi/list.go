// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"keebi-cli/internal/issue"
	"keebi-cli/internal/runner"

	"github.com/spf13/cobra"
)

func newListCommand(app *App, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the scripts in the scripts directory",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			s, err := app.loadSession(cmd.Context(), opts)
			if err != nil {
				return reportSetupError(cmd, err, opts.verbose)
			}

			dir, err := s.cfg.ScriptsDir()
			if err != nil {
				return reportSetupError(cmd, issue.WrapWithOperation(err, "resolve scripts directory"), opts.verbose)
			}

			names, err := runner.List(dir, s.cfg.Scripts.Extension)
			if err != nil {
				return reportSetupError(cmd, err, opts.verbose)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n\n", TitleStyle.Render("Scripts in"), dir)
			if len(names) == 0 {
				fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(no *."+s.cfg.Scripts.Extension+" files)"))
				return nil
			}
			for _, name := range names {
				fmt.Fprintf(out, "  %s\n", CmdStyle.Render(name))
			}
			return nil
		},
	}
}
