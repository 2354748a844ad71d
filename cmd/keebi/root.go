// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"keebi-cli/internal/config"
	"keebi-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the keebi command tree around app.
func newRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "keebi <script> [args...]",
		Short: "Run keyboard and mouse macro scripts",
		Long: TitleStyle.Render("keebi") + SubtitleStyle.Render(" - keyboard and mouse macro scripts") + `

keebi runs shell scripts that type text, press keys and click mouse
buttons. Scripts live in the scripts directory (the keebi config directory
by default) and are run by name, without the extension.

` + SubtitleStyle.Render("Native functions:") + `
  text, key, button, sleep, arg, rand_range, rand_char, keebi.exec
  Run 'keebi functions' for their signatures.

` + SubtitleStyle.Render("Examples:") + `
  keebi greet Alice         Run greet.sh with $1=Alice
  keebi --dry-run greet     Log the input events instead of sending them
  keebi check greet         Check greet.sh for syntax errors
  keebi list                List available scripts`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runScript(cmd, app, opts, args[0], args[1:])
		},
	}
	// Everything after the script name belongs to the script.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is <config dir>/config.cue)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "log input events instead of sending them")
	rootCmd.PersistentFlags().StringVar(&opts.scriptsDir, "scripts-dir", "", "directory containing scripts")

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newRunCommand(app, opts),
		newCheckCommand(app, opts),
		newListCommand(app, opts),
		newFunctionsCommand(),
		newConfigCommand(app, opts),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	rootCmd := newRootCommand(NewApp(Dependencies{}))

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// reportSetupError prints err with its issue page, if it has one, and
// converts it to exit status 1.
func reportSetupError(cmd *cobra.Command, err error, verboseMode bool) error {
	stderr := cmd.ErrOrStderr()
	fmt.Fprintln(stderr, ErrorStyle.Render(errorIcon+" ")+formatErrorForDisplay(err, verboseMode))

	if id := classifyError(err); id != 0 {
		if rendered, renderErr := issue.Get(id).Render("dark"); renderErr == nil {
			fmt.Fprint(stderr, rendered)
		}
	}

	cmd.SilenceErrors = true
	return &ExitError{Code: 1, Err: err}
}

// configLoadHint prints the config-file location a failing load used.
func configLoadHint(cmd *cobra.Command, app *App, opts *rootOptions) {
	path := opts.cfgFile
	if path == "" {
		p, err := config.ConfigFilePath(app.configDir)
		if err != nil {
			return
		}
		path = p
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", SubtitleStyle.Render("config file:"), path)
}
