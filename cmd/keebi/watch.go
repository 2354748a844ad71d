// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"keebi-cli/internal/issue"
	"keebi-cli/internal/runner"
	"keebi-cli/internal/watch"

	"github.com/spf13/cobra"
)

// watchScripts checks the scripts once, then again after every change until
// the command's context is cancelled. Scripts are only compiled, never run.
func watchScripts(cmd *cobra.Command, s *session, only string, verboseMode bool) error {
	dir, err := s.cfg.ScriptsDir()
	if err != nil {
		return reportSetupError(cmd, issue.WrapWithOperation(err, "resolve scripts directory"), verboseMode)
	}
	ext := s.cfg.Scripts.Extension

	initial := []string{only}
	if only == "" {
		if initial, err = runner.List(dir, ext); err != nil {
			return reportSetupError(cmd, err, verboseMode)
		}
	}
	checkScripts(cmd, s, initial)

	w, err := watch.New(watch.Config{
		Dir:       dir,
		Extension: ext,
		Logger:    s.logger,
		OnChange: func(_ context.Context, changed []string) error {
			if only != "" {
				if !slices.Contains(changed, only) {
					return nil
				}
				changed = []string{only}
			}
			checkScripts(cmd, s, changed)
			return nil
		},
	})
	if err != nil {
		return reportSetupError(cmd, err, verboseMode)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", SubtitleStyle.Render("watching"), dir)
	return w.Run(cmd.Context())
}

// checkScripts compiles each named script and prints one line per result.
func checkScripts(cmd *cobra.Command, s *session, names []string) {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	for _, name := range names {
		path, _, err := compileScript(s, name)
		switch {
		case err == nil:
			fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render(successIcon), path)
		case errors.Is(err, fs.ErrNotExist):
			fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render("-"), SubtitleStyle.Render(name+" removed"))
		default:
			fmt.Fprintf(errOut, "%s %s\n", ErrorStyle.Render(errorIcon), formatErrorForDisplay(err, false))
		}
	}
}

