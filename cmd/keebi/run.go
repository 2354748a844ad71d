// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"keebi-cli/internal/issue"
	"keebi-cli/internal/runner"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"
)

func newRunCommand(app *App, opts *rootOptions) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run <script> [args...]",
		Short: "Run a script",
		Long: `Run a script from the scripts directory.

Arguments after the script name are passed to the script verbatim, flags
included. They are readable with 'arg INDEX' and as $1..$n.

Use 'keebi run' for scripts whose names collide with a keebi command.`,
		Example: `  keebi run greet Alice
  keebi run list --all`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, app, opts, args[0], args[1:])
		},
	}
	runCmd.Flags().SetInterspersed(false)
	return runCmd
}

func newCheckCommand(app *App, opts *rootOptions) *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [script]",
		Short: "Check scripts for syntax errors without running them",
		Long: `Check a script for syntax errors without running it.

With --watch, keebi keeps running and re-checks every script in the
scripts directory (or only the named one) each time it is saved.`,
		Example: `  keebi check greet
  keebi check --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			watchFlag, _ := cmd.Flags().GetBool("watch")
			if !watchFlag && len(args) == 0 {
				return errors.New("requires a script name unless --watch is set")
			}

			s, err := app.loadSession(cmd.Context(), opts)
			if err != nil {
				return reportSetupError(cmd, err, opts.verbose)
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			}

			if watchFlag {
				return watchScripts(cmd, s, name, opts.verbose)
			}

			path, _, err := compileScript(s, name)
			if err != nil {
				return reportSetupError(cmd, err, opts.verbose)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render(successIcon), path)
			return nil
		},
	}
	checkCmd.Flags().BoolP("watch", "w", false, "re-check scripts whenever they change")
	return checkCmd
}

// runScript resolves, compiles and runs the named script. A script that
// exits non-zero makes keebi exit with the same status.
func runScript(cmd *cobra.Command, app *App, opts *rootOptions, name string, args []string) error {
	cmd.SilenceUsage = true

	s, err := app.loadSession(cmd.Context(), opts)
	if err != nil {
		return reportSetupError(cmd, err, opts.verbose)
	}

	path, prog, err := compileScript(s, name)
	if err != nil {
		return reportSetupError(cmd, err, opts.verbose)
	}

	r := runner.New(runner.Options{
		Args:    args,
		Stdin:   cmd.InOrStdin(),
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
		Factory: s.inputFactory(app.Input),
		Logger:  s.logger,
		Shell:   s.cfg.ShellArgv(),
		ErrExit: s.cfg.Script.ErrExit,
	})

	s.logger.Debug("running", "script", path, "dry_run", s.dryRun)
	result, err := r.Run(cmd.Context(), prog)
	if err != nil {
		return reportScriptError(cmd, err, opts.verbose)
	}

	s.logger.Debug("done", "script", path, "elapsed", result.Duration)
	return nil
}

// compileScript locates, reads and parses a script.
func compileScript(s *session, name string) (string, *syntax.File, error) {
	dir, err := s.cfg.ScriptsDir()
	if err != nil {
		return "", nil, issue.WrapWithOperation(err, "resolve scripts directory")
	}

	path, err := runner.ScriptPath(dir, name, s.cfg.Scripts.Extension)
	if err != nil {
		return "", nil, err
	}

	src, err := runner.Load(path)
	if err != nil {
		return path, nil, err
	}

	prog, err := runner.Compile(src, path)
	if err != nil {
		return path, nil, err
	}
	return path, prog, nil
}

// reportScriptError turns a failed run into the process exit status. The
// script's own "exit N" is reported silently unless verbose is set; fatal
// native failures are always explained.
func reportScriptError(cmd *cobra.Command, err error, verboseMode bool) error {
	cmd.SilenceErrors = true

	var scriptErr *runner.ScriptError
	if !errors.As(err, &scriptErr) {
		return reportSetupError(cmd, err, verboseMode)
	}

	stderr := cmd.ErrOrStderr()
	fatal := isFatalNativeError(scriptErr.Cause)
	if fatal || verboseMode {
		fmt.Fprintln(stderr, ErrorStyle.Render(errorIcon+" ")+scriptErr.Error())
	}

	if id := classifyError(err); id != 0 && (verboseMode || id != issue.ScriptExecutionFailedId) {
		if rendered, renderErr := issue.Get(id).Render("dark"); renderErr == nil {
			fmt.Fprint(stderr, rendered)
		}
	}

	return &ExitError{Code: scriptErr.Status, Err: err}
}
